package utils

import "fmt"

// ErrKind mengklasifikasikan error aplikasi. Controller memetakan kind ke
// HTTP status; tidak ada pencocokan substring pesan di mana pun.
type ErrKind int

const (
	KindValidation ErrKind = iota
	KindNotFound
	KindConflict
	KindInvalidTransition
	KindExternal
)

type AppError struct {
	Kind    ErrKind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewValidation(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewConflict(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func NewInvalidTransition(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

func NewExternal(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindExternal, Message: fmt.Sprintf(format, args...)}
}
