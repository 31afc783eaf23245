package scanning

import "context"

// PaymentMethod is the closed set of payment methods a receipt can carry.
// Free text from the model is collapsed onto this set during normalization.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// Category is the closed set of line item categories.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryUtilities     Category = "Utilities"
	CategoryEntertainment Category = "Entertainment"
	CategoryShopping      Category = "Shopping"
	CategoryHealth        Category = "Health"
	CategoryOther         Category = "Other"
)

// LineItem is one purchased entry extracted from a receipt.
type LineItem struct {
	Name     string
	Price    float64 // line total
	Quantity float64
	Category Category
}

// ReceiptData is a validated, persistence-ready record produced by
// Normalize. No untyped model output flows past that boundary.
type ReceiptData struct {
	MerchantName  string
	Date          string // DD/MM/YYYY or DD.MM.YYYY, empty when not usable
	Discount      *float64
	Total         float64
	PaymentMethod PaymentMethod
	Currency      string
	Items         []LineItem
}

// Scanner sends a receipt image to a vision model and returns the model's
// raw textual reply. Implementations make exactly one call per invocation
// and never retry; the caller resubmits on failure.
type Scanner interface {
	Extract(ctx context.Context, imageData []byte, contentType string) (string, error)
	// Close closes the scanner and releases resources
	Close() error
}
