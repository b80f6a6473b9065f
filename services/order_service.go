package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ordira-app/backend/models"
	"github.com/ordira-app/backend/utils"
)

// OrderService memegang siklus hidup order: pembuatan dengan perhitungan
// total, aturan transisi status, pembatalan, dan payment log.
type OrderService struct {
	DB *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db}
}

type OrderItemRequest struct {
	MenuID uint   `json:"menu_id" binding:"required"`
	Qty    int    `json:"qty" binding:"required"`
	Note   string `json:"note"`
}

type CreateOrderInput struct {
	TableNumber   string
	Items         []OrderItemRequest
	PaymentMethod string
	CustomerEmail *string
}

// Transisi payment status yang diizinkan. PAID dan CANCELLED terminal;
// update ke status yang sama diperbolehkan sebagai no-op supaya retry
// notifikasi gateway tetap idempoten.
var paymentTransitions = map[string][]string{
	models.PaymentUnpaid:    {models.PaymentPending, models.PaymentPaid, models.PaymentFailed, models.PaymentCancelled},
	models.PaymentPending:   {models.PaymentUnpaid, models.PaymentPaid, models.PaymentFailed, models.PaymentCancelled},
	models.PaymentFailed:    {models.PaymentUnpaid, models.PaymentPending, models.PaymentPaid, models.PaymentCancelled},
	models.PaymentPaid:      {},
	models.PaymentCancelled: {},
}

// Transisi kitchen status: maju saja, CANCELLED dan DONE terminal.
var orderTransitions = map[string][]string{
	models.OrderPending:    {models.OrderProcessing, models.OrderCancelled},
	models.OrderProcessing: {models.OrderReady, models.OrderCancelled},
	models.OrderReady:      {models.OrderDone},
	models.OrderDone:       {},
	models.OrderCancelled:  {},
}

func transitionAllowed(table map[string][]string, from, to string) bool {
	for _, s := range table[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CreateOrder memvalidasi item terhadap katalog, menghitung subtotal/total
// dengan harga snapshot, lalu menyimpan header + item dalam satu transaksi.
// Jika ada menu yang tidak ditemukan atau tidak tersedia, tidak ada baris
// yang dibuat sama sekali.
func (s *OrderService) CreateOrder(in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, utils.NewValidation("order must have at least one item")
	}
	if in.TableNumber == "" {
		return nil, utils.NewValidation("table number is required")
	}
	for _, item := range in.Items {
		if item.Qty <= 0 {
			return nil, utils.NewValidation("quantity must be greater than 0")
		}
	}

	// Batch lookup: satu query untuk semua menu yang direferensikan
	distinct := make(map[uint]bool)
	var menuIDs []uint
	for _, item := range in.Items {
		if !distinct[item.MenuID] {
			distinct[item.MenuID] = true
			menuIDs = append(menuIDs, item.MenuID)
		}
	}

	var menus []models.Menu
	if err := s.DB.Where("id IN ? AND is_available = ?", menuIDs, true).Find(&menus).Error; err != nil {
		return nil, err
	}
	if len(menus) != len(menuIDs) {
		return nil, utils.NewValidation("some menu items are not available")
	}

	menuByID := make(map[uint]models.Menu, len(menus))
	for _, m := range menus {
		menuByID[m.ID] = m
	}

	paymentMethod := in.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "NONE"
	}

	now := time.Now()
	order := models.Order{
		TableNumber:   in.TableNumber,
		CustomerEmail: in.CustomerEmail,
		PaymentMethod: paymentMethod,
		PaymentStatus: models.PaymentUnpaid,
		OrderStatus:   models.OrderPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var total float64
	for _, item := range in.Items {
		menu := menuByID[item.MenuID]
		subtotal := menu.Price * float64(item.Qty)
		total += subtotal

		order.Items = append(order.Items, models.OrderItem{
			MenuID:    menu.ID,
			Qty:       item.Qty,
			Price:     menu.Price,
			Subtotal:  subtotal,
			Note:      item.Note,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	order.Total = total

	// Header dan item masuk sebagai satu unit atomik
	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&order).Error
	}); err != nil {
		return nil, err
	}

	return s.GetOrderByID(order.ID)
}

// GetOrderByID mengembalikan order lengkap dengan item, menu, kategori dan
// payment log supaya client tidak perlu round trip kedua.
func (s *OrderService) GetOrderByID(orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.
		Preload("Items.Menu.Category").
		Preload("PaymentLogs").
		First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewNotFound("order not found")
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) GetOrdersByTable(tableNumber string) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.
		Preload("Items.Menu").
		Where("table_number = ?", tableNumber).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

type OrderFilter struct {
	OrderStatus   string
	PaymentStatus string
	Limit         int
	Offset        int
}

type OrderList struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

const maxPageSize = 50

// ListOrders mengembalikan halaman order plus total count untuk paging.
func (s *OrderService) ListOrders(filter OrderFilter) (*OrderList, error) {
	if filter.Limit <= 0 || filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	query := s.DB.Model(&models.Order{})
	if filter.OrderStatus != "" {
		query = query.Where("order_status = ?", filter.OrderStatus)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var orders []models.Order
	err := query.
		Preload("Items.Menu").
		Order("created_at desc").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return &OrderList{
		Orders: orders,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

// CancelOrder membatalkan order yang belum dibayar. Order PAID atau DONE
// tidak bisa dibatalkan; CANCELLED terminal sehingga pembatalan kedua ditolak.
func (s *OrderService) CancelOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewNotFound("order not found")
	}
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus == models.PaymentPaid {
		return nil, utils.NewInvalidTransition("cannot cancel a paid order")
	}
	if order.PaymentStatus == models.PaymentCancelled {
		return nil, utils.NewInvalidTransition("order is already cancelled")
	}
	if order.OrderStatus == models.OrderDone {
		return nil, utils.NewInvalidTransition("cannot cancel a completed order")
	}

	order.PaymentStatus = models.PaymentCancelled
	order.OrderStatus = models.OrderCancelled
	order.UpdatedAt = time.Now()
	if err := s.DB.Save(&order).Error; err != nil {
		return nil, err
	}

	return s.GetOrderByID(order.ID)
}

func validPaymentStatus(status string) bool {
	_, ok := paymentTransitions[status]
	return ok
}

// UpdatePaymentStatus mengubah payment status dengan guard transisi di dalam
// method ini sendiri, bukan diserahkan ke disiplin caller. Update ke status
// yang sama adalah no-op.
func (s *OrderService) UpdatePaymentStatus(orderID uint, newStatus, paymentMethod string) (*models.Order, error) {
	if !validPaymentStatus(newStatus) {
		return nil, utils.NewValidation("invalid payment status: %s", newStatus)
	}

	var order models.Order
	err := s.DB.First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewNotFound("order not found")
	}
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus != newStatus {
		if !transitionAllowed(paymentTransitions, order.PaymentStatus, newStatus) {
			return nil, utils.NewInvalidTransition("payment status %s cannot change to %s",
				order.PaymentStatus, newStatus)
		}
		order.PaymentStatus = newStatus
	}
	if paymentMethod != "" {
		order.PaymentMethod = paymentMethod
	}
	order.UpdatedAt = time.Now()

	if err := s.DB.Save(&order).Error; err != nil {
		return nil, err
	}

	return s.GetOrderByID(order.ID)
}

// UpdateOrderStatus menggerakkan state machine dapur:
// PENDING -> PROCESSING -> READY -> DONE.
func (s *OrderService) UpdateOrderStatus(orderID uint, newStatus string) (*models.Order, error) {
	if _, ok := orderTransitions[newStatus]; !ok {
		return nil, utils.NewValidation("invalid order status: %s", newStatus)
	}

	var order models.Order
	err := s.DB.First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewNotFound("order not found")
	}
	if err != nil {
		return nil, err
	}

	if order.OrderStatus != newStatus {
		if !transitionAllowed(orderTransitions, order.OrderStatus, newStatus) {
			return nil, utils.NewInvalidTransition("order status %s cannot change to %s",
				order.OrderStatus, newStatus)
		}
		order.OrderStatus = newStatus
	}
	order.UpdatedAt = time.Now()

	if err := s.DB.Save(&order).Error; err != nil {
		return nil, err
	}

	return s.GetOrderByID(order.ID)
}

// AddPaymentLog menambahkan entri audit, append-only.
func (s *OrderService) AddPaymentLog(orderID uint, method, status, detail string) (*models.PaymentLog, error) {
	log := models.PaymentLog{
		OrderID:   orderID,
		Method:    method,
		Status:    status,
		Detail:    detail,
		CreatedAt: time.Now(),
	}
	if err := s.DB.Create(&log).Error; err != nil {
		return nil, err
	}
	return &log, nil
}
