package receipt

import (
	"time"

	"github.com/Hongbin10/AI-ReceiptScanner/internal/scanning"
)

// LineItem is one purchased product or service entry within a receipt.
type LineItem struct {
	Name     string            `json:"name"`
	Price    float64           `json:"price"` // line total
	Quantity float64           `json:"quantity"`
	Category scanning.Category `json:"category"`
}

// Receipt is the persisted record of one scanned purchase document.
// Receipts are created exactly once at upload time and never mutated;
// CreatedAt is assigned by the service at persistence time.
type Receipt struct {
	ID            string                 `json:"id"`
	MerchantName  string                 `json:"merchantName,omitempty"`
	Date          string                 `json:"date,omitempty"` // DD/MM/YYYY or DD.MM.YYYY
	Discount      *float64               `json:"discount,omitempty"`
	Total         float64                `json:"total"`
	PaymentMethod scanning.PaymentMethod `json:"paymentMethod"`
	Currency      string                 `json:"currency"`
	Items         []LineItem             `json:"items"`
	CreatedAt     time.Time              `json:"createdAt"`
}
