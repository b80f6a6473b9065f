package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"os"

	"github.com/ordira-app/backend/models"
	"github.com/ordira-app/backend/utils"
)

// Mailer mengirim struk pembayaran. Reconciler memakai interface ini supaya
// pengiriman bisa di-stub di test.
type Mailer interface {
	SendReceipt(order *models.Order, toAddress string) error
}

type EmailService struct {
	Host     string
	Port     string
	User     string
	Password string
}

func NewEmailServiceFromEnv() *EmailService {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	return &EmailService{
		Host:     host,
		Port:     port,
		User:     os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
	}
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Receipt - Order #{{.Order.ID}}</title></head>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #2c3e50;">Ordira Restaurant</h1>
  <p style="color: #7f8c8d;">Payment Receipt</p>
  <table style="width: 100%;">
    <tr><td><strong>Order ID:</strong></td><td style="text-align: right;">#{{.Order.ID}}</td></tr>
    <tr><td><strong>Table Number:</strong></td><td style="text-align: right;">{{.Order.TableNumber}}</td></tr>
    <tr><td><strong>Payment Method:</strong></td><td style="text-align: right;">{{.Order.PaymentMethod}}</td></tr>
    <tr><td><strong>Status:</strong></td><td style="text-align: right;">{{.Order.PaymentStatus}}</td></tr>
  </table>
  <h2 style="color: #2c3e50;">Order Items</h2>
  <table style="width: 100%; border-collapse: collapse;">
    <thead>
      <tr>
        <th style="text-align: left; border-bottom: 2px solid #dee2e6;">Item</th>
        <th style="text-align: center; border-bottom: 2px solid #dee2e6;">Qty</th>
        <th style="text-align: right; border-bottom: 2px solid #dee2e6;">Price</th>
        <th style="text-align: right; border-bottom: 2px solid #dee2e6;">Subtotal</th>
      </tr>
    </thead>
    <tbody>
      {{range .Items}}
      <tr>
        <td style="border-bottom: 1px solid #ddd;">{{.Name}}</td>
        <td style="border-bottom: 1px solid #ddd; text-align: center;">{{.Qty}}</td>
        <td style="border-bottom: 1px solid #ddd; text-align: right;">{{.Price}}</td>
        <td style="border-bottom: 1px solid #ddd; text-align: right;">{{.Subtotal}}</td>
      </tr>
      {{if .Note}}<tr><td colspan="4" style="font-size: 12px; color: #666;">Note: {{.Note}}</td></tr>{{end}}
      {{end}}
    </tbody>
    <tfoot>
      <tr>
        <td colspan="3" style="text-align: right; font-weight: bold;">TOTAL</td>
        <td style="text-align: right; font-weight: bold; color: #28a745;">{{.Total}}</td>
      </tr>
    </tfoot>
  </table>
  <p style="color: #7f8c8d; text-align: center;">Thank you for your order!</p>
</body>
</html>`))

type receiptItem struct {
	Name     string
	Qty      int
	Price    string
	Subtotal string
	Note     string
}

type receiptData struct {
	Order *models.Order
	Items []receiptItem
	Total string
}

// RenderReceiptHTML membangun isi email struk untuk sebuah order.
func RenderReceiptHTML(order *models.Order) (string, error) {
	data := receiptData{
		Order: order,
		Total: utils.FormatRupiah(order.Total),
	}
	for _, item := range order.Items {
		data.Items = append(data.Items, receiptItem{
			Name:     item.Menu.Name,
			Qty:      item.Qty,
			Price:    utils.FormatRupiah(item.Price),
			Subtotal: utils.FormatRupiah(item.Subtotal),
			Note:     item.Note,
		})
	}

	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (es *EmailService) SendReceipt(order *models.Order, toAddress string) error {
	if toAddress == "" {
		return utils.NewValidation("customer email is required")
	}

	body, err := RenderReceiptHTML(order)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Payment Receipt - Order #%d", order.ID)
	msg := bytes.Buffer{}
	msg.WriteString(fmt.Sprintf("From: \"Ordira Restaurant\" <%s>\r\n", es.User))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", toAddress))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", es.User, es.Password, es.Host)
	addr := es.Host + ":" + es.Port
	if err := smtp.SendMail(addr, auth, es.User, []string{toAddress}, msg.Bytes()); err != nil {
		return utils.NewExternal("failed to send receipt email: %s", err.Error())
	}
	return nil
}
