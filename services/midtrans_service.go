package services

import (
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"github.com/ordira-app/backend/models"
	"github.com/ordira-app/backend/utils"
)

// MidtransConfig holds Midtrans configuration
type MidtransConfig struct {
	ServerKey    string
	ClientKey    string
	IsProduction bool
	AppURL       string
}

// MidtransService adalah kolaborator payment gateway: membuat transaksi Snap
// dan memverifikasi/menerjemahkan notifikasi callback. Service ini tidak
// pernah bicara ke jaringan kartu, hanya menginterpretasikan payload gateway.
type MidtransService struct {
	config MidtransConfig
	snap   snap.Client
}

func NewMidtransService(config MidtransConfig) *MidtransService {
	env := midtrans.Sandbox
	if config.IsProduction {
		env = midtrans.Production
	}

	var client snap.Client
	client.New(config.ServerKey, env)

	return &MidtransService{config: config, snap: client}
}

// MidtransConfigFromEnv membaca konfigurasi gateway dari environment.
func MidtransConfigFromEnv() MidtransConfig {
	return MidtransConfig{
		ServerKey:    os.Getenv("MIDTRANS_SERVER_KEY"),
		ClientKey:    os.Getenv("MIDTRANS_CLIENT_KEY"),
		IsProduction: os.Getenv("MIDTRANS_ENV") == "production",
		AppURL:       os.Getenv("APP_URL"),
	}
}

func (ms *MidtransService) ValidateConfig() error {
	if ms.config.ServerKey == "" {
		return fmt.Errorf("MIDTRANS_SERVER_KEY is not set")
	}
	if ms.config.ClientKey == "" {
		return fmt.Errorf("MIDTRANS_CLIENT_KEY is not set")
	}
	return nil
}

// PaymentTransaction adalah hasil pembuatan transaksi Snap.
type PaymentTransaction struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// CreateTransaction membuat transaksi Snap untuk sebuah order. Referensi
// transaksi memakai format ORDER-<id>-<timestamp> supaya callback bisa
// mengembalikan order id internal.
func (ms *MidtransService) CreateTransaction(order *models.Order) (*PaymentTransaction, error) {
	customerEmail := "customer@example.com"
	if order.CustomerEmail != nil && *order.CustomerEmail != "" {
		customerEmail = *order.CustomerEmail
	}

	items := make([]midtrans.ItemDetails, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, midtrans.ItemDetails{
			ID:    strconv.FormatUint(uint64(item.MenuID), 10),
			Price: int64(item.Price),
			Qty:   int32(item.Qty),
			Name:  item.Menu.Name,
		})
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.GatewayOrderRef(),
			GrossAmt: int64(order.Total),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: "Table " + order.TableNumber,
			Email: customerEmail,
		},
		Items: &items,
		Callbacks: &snap.Callbacks{
			Finish: ms.config.AppURL + "/payment/finish",
		},
	}

	resp, err := ms.snap.CreateTransaction(req)
	if err != nil {
		return nil, utils.NewExternal("failed to create payment transaction: %s", err.Error())
	}

	return &PaymentTransaction{
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
	}, nil
}

// ReconcileResult adalah hasil terjemahan notifikasi gateway ke status internal.
type ReconcileResult struct {
	OrderID         uint    `json:"order_id"`
	PaymentStatus   string  `json:"payment_status"`
	TransactionID   string  `json:"transaction_id"`
	PaymentType     string  `json:"payment_type"`
	TransactionTime string  `json:"transaction_time"`
	GrossAmount     float64 `json:"gross_amount"`
}

type gatewayNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
	PaymentType       string `json:"payment_type"`
	TransactionTime   string `json:"transaction_time"`
}

// VerifyAndParseNotification mengautentikasi payload notifikasi memakai
// formula signature sha512 dari gateway, lalu memetakan statusnya.
func (ms *MidtransService) VerifyAndParseNotification(rawPayload []byte) (*ReconcileResult, error) {
	var notif gatewayNotification
	if err := json.Unmarshal(rawPayload, &notif); err != nil {
		return nil, utils.NewValidation("malformed notification payload")
	}

	if !ms.ValidateSignature(notif.OrderID, notif.StatusCode, notif.GrossAmount, notif.SignatureKey) {
		return nil, utils.NewValidation("invalid notification signature")
	}

	orderID, err := ParseOrderRef(notif.OrderID)
	if err != nil {
		return nil, err
	}

	grossAmount, _ := strconv.ParseFloat(notif.GrossAmount, 64)

	return &ReconcileResult{
		OrderID:         orderID,
		PaymentStatus:   MapPaymentStatus(notif.TransactionStatus, notif.FraudStatus),
		TransactionID:   notif.TransactionID,
		PaymentType:     notif.PaymentType,
		TransactionTime: notif.TransactionTime,
		GrossAmount:     grossAmount,
	}, nil
}

// ValidateSignature memverifikasi signature notifikasi:
// sha512(order_id + status_code + gross_amount + server_key)
func (ms *MidtransService) ValidateSignature(orderRef, statusCode, grossAmount, signature string) bool {
	hash := sha512.New()
	hash.Write([]byte(orderRef + statusCode + grossAmount + ms.config.ServerKey))
	return hex.EncodeToString(hash.Sum(nil)) == signature
}

// MapPaymentStatus memetakan status transaksi gateway ke payment status
// internal. capture hanya dianggap PAID jika fraud_status accept; status
// yang tidak dikenal dibiarkan UNPAID.
func MapPaymentStatus(transactionStatus, fraudStatus string) string {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "accept" {
			return models.PaymentPaid
		}
		return models.PaymentUnpaid
	case "settlement":
		return models.PaymentPaid
	case "cancel", "deny", "expire":
		return models.PaymentCancelled
	default:
		return models.PaymentUnpaid
	}
}

// ParseOrderRef mengambil order id internal dari referensi transaksi
// ORDER-<id>-<timestamp>. Field tengah adalah id yang otoritatif.
func ParseOrderRef(ref string) (uint, error) {
	parts := strings.Split(ref, "-")
	if len(parts) < 2 {
		return 0, utils.NewValidation("invalid order reference: %s", ref)
	}
	id, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0, utils.NewValidation("invalid order reference: %s", ref)
	}
	return uint(id), nil
}
