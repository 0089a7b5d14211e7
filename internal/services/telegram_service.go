package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/example/konveksi/internal/models"
)

// TelegramService handles sending notifications to Telegram. Delivery is
// best effort: failures are logged and never block an order or payment.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to the specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		log.Println("[Telegram] Bot token not configured")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.adminChatID == "" {
		log.Println("[Telegram] Admin chat ID not configured")
		return nil
	}
	return s.SendMessage(s.adminChatID, text)
}

// NotifyNewOrder announces a freshly created order to the admin chat.
func (s *TelegramService) NotifyNewOrder(order *models.Order) error {
	var b strings.Builder
	fmt.Fprintf(&b, "🧵 <b>New order %s</b>\n", order.OrderNumber)
	fmt.Fprintf(&b, "Customer: %s (%s)\n", order.CustomerName, order.CustomerPhone)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "• %s %s/%s ×%d — %.0f\n",
			item.ProductName, item.Color, item.Material, item.Quantity, item.PriceTotal)
		if item.IsCustomDesign {
			fmt.Fprintf(&b, "  custom design (%s), fee %.0f\n", item.DesignRef, item.PriceCustomFeeTotal)
		}
	}
	fmt.Fprintf(&b, "Total: <b>%.0f</b>\n", order.Payment.Total)
	if order.Payment.DownPaymentRequired {
		fmt.Fprintf(&b, "Down payment: %.0f (%.0f%%)\n",
			order.Payment.DownPaymentAmount, order.Payment.DownPaymentPercent)
	}

	return s.SendToAdmin(b.String())
}

// NotifyPaymentReceived announces a settled payment.
func (s *TelegramService) NotifyPaymentReceived(order *models.Order, payment *models.Payment) error {
	var b strings.Builder
	fmt.Fprintf(&b, "💰 <b>Payment received</b>\n")
	fmt.Fprintf(&b, "Order: %s\n", order.OrderNumber)
	fmt.Fprintf(&b, "Type: %s\n", payment.PaymentType)
	fmt.Fprintf(&b, "Amount: %.0f via %s\n", payment.Amount, payment.Method)
	if order.Payment.IsPaid {
		b.WriteString("Order is now fully paid ✅\n")
	} else {
		fmt.Fprintf(&b, "Outstanding: %.0f\n", order.Payment.RemainingAmount)
	}

	return s.SendToAdmin(b.String())
}

// NotifyStatusChanged announces a production status change.
func (s *TelegramService) NotifyStatusChanged(order *models.Order, from models.OrderStatus, actor string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "📦 <b>Order %s</b>\n", order.OrderNumber)
	fmt.Fprintf(&b, "Status: %s → %s\n", from, order.Status)
	fmt.Fprintf(&b, "By: %s\n", actor)

	return s.SendToAdmin(b.String())
}
