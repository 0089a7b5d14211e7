package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/example/konveksi/internal/models"
)

// MidtransService creates Snap transactions at the payment gateway. Inbound
// notifications are handled by PaymentService; this client only opens the
// payment window and hands back the token and redirect URL.
type MidtransService struct {
	serverKey string
	snapURL   string
	client    *http.Client
}

// NewMidtransService constructs the gateway client. An empty server key
// disables outbound calls, which keeps offline development working.
func NewMidtransService(serverKey, snapURL string) *MidtransService {
	return &MidtransService{
		serverKey: serverKey,
		snapURL:   snapURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SnapTransaction is the gateway's answer to a transaction request.
type SnapTransaction struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type snapRequest struct {
	TransactionDetails struct {
		OrderID     string  `json:"order_id"`
		GrossAmount float64 `json:"gross_amount"`
	} `json:"transaction_details"`
	CustomerDetails struct {
		FirstName string `json:"first_name"`
		Phone     string `json:"phone"`
	} `json:"customer_details"`
	ItemDetails []snapItem `json:"item_details,omitempty"`
}

type snapItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// CreateTransaction opens a Snap payment window for one ledger entry. The
// gateway's order_id is our payment id so notifications route back to the
// exact ledger row.
func (s *MidtransService) CreateTransaction(ctx context.Context, order *models.Order, payment *models.Payment) (*SnapTransaction, error) {
	if s.serverKey == "" {
		log.Println("[Midtrans] Server key not configured, skipping transaction creation")
		return nil, nil
	}

	req := snapRequest{}
	req.TransactionDetails.OrderID = payment.ID.String()
	req.TransactionDetails.GrossAmount = payment.Amount
	req.CustomerDetails.FirstName = order.CustomerName
	req.CustomerDetails.Phone = order.CustomerPhone
	req.ItemDetails = []snapItem{{
		ID:       order.OrderNumber,
		Name:     fmt.Sprintf("%s for order %s", payment.PaymentType, order.OrderNumber),
		Price:    payment.Amount,
		Quantity: 1,
	}}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.snapURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization",
		"Basic "+base64.StdEncoding.EncodeToString([]byte(s.serverKey+":")))

	resp, err := s.client.Do(httpReq)
	if err != nil {
		log.Printf("[Midtrans] Transaction request failed: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Printf("[Midtrans] Unexpected status %d: %s", resp.StatusCode, raw)
		return nil, fmt.Errorf("midtrans returned status %d", resp.StatusCode)
	}

	var snap SnapTransaction
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, err
	}

	return &snap, nil
}
