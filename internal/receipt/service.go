package receipt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Hongbin10/AI-ReceiptScanner/internal/scanning"
)

// DefaultCurrency is applied when the model does not report one.
const DefaultCurrency = "GBP"

// IDGenerator generates unique IDs for receipts
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

type systemClock struct{}

func (t *systemClock) Now() time.Time {
	return time.Now()
}

// Service runs the upload pipeline: extract, parse, normalize, persist.
// Each request is processed independently and strictly in that order; a
// failure at any stage aborts with the originating error kind and nothing
// is persisted.
type Service struct {
	db          DB
	scanner     scanning.Scanner
	archive     Storage
	currency    string
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and clock
func NewService(db DB, scanner scanning.Scanner, archive Storage, currency string) *Service {
	return NewServiceWithDeps(db, scanner, archive, currency, &uuidGenerator{}, &systemClock{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, scanner scanning.Scanner, archive Storage, currency string, idGen IDGenerator, timeSrc TimeSource) *Service {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Service{
		db:          db,
		scanner:     scanner,
		archive:     archive,
		currency:    currency,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// ProcessReceipt sends the upload to the model, normalizes the reply and
// persists the result. The uploaded bytes are archived next to the record
// under the receipt ID.
func (s *Service) ProcessReceipt(ctx context.Context, filename string, data []byte, contentType string) (*Receipt, error) {
	raw, err := s.scanner.Extract(ctx, data, contentType)
	if err != nil {
		slog.Error("Failed to extract receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return nil, fmt.Errorf("extracting receipt: %w", err)
	}

	fields, err := scanning.ParseExtraction(raw)
	if err != nil {
		slog.Error("Failed to parse extraction", "filename", filename, "error", err)
		return nil, fmt.Errorf("parsing extraction: %w", err)
	}

	record, err := scanning.Normalize(fields, s.currency)
	if err != nil {
		slog.Error("Failed to normalize extraction", "filename", filename, "error", err)
		return nil, fmt.Errorf("normalizing extraction: %w", err)
	}

	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	archiveKey, err := s.archive.Save(id, data)
	if err != nil {
		return nil, fmt.Errorf("%w: archiving upload: %v", ErrStorage, err)
	}

	items := make([]LineItem, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, LineItem{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			Category: item.Category,
		})
	}

	receipt := &Receipt{
		ID:            id,
		MerchantName:  record.MerchantName,
		Date:          record.Date,
		Discount:      record.Discount,
		Total:         record.Total,
		PaymentMethod: record.PaymentMethod,
		Currency:      record.Currency,
		Items:         items,
		CreatedAt:     now,
	}

	if err := s.db.SaveReceipt(receipt); err != nil {
		// Remove the archived upload so a failed write leaves nothing behind
		s.archive.Delete(archiveKey)
		return nil, fmt.Errorf("%w: saving receipt: %v", ErrStorage, err)
	}

	return receipt, nil
}

// ListReceipts returns all receipts, newest first
func (s *Service) ListReceipts() ([]*Receipt, error) {
	receipts, err := s.db.ListReceipts()
	if err != nil {
		return nil, fmt.Errorf("%w: listing receipts: %v", ErrStorage, err)
	}
	return receipts, nil
}

// GetReceiptImage returns the archived upload for a receipt
func (s *Service) GetReceiptImage(id string) ([]byte, error) {
	if _, err := s.db.GetReceipt(id); err != nil {
		return nil, fmt.Errorf("getting receipt: %w", err)
	}

	data, err := s.archive.Get(id)
	if err != nil {
		return nil, fmt.Errorf("getting archived upload: %w", err)
	}
	return data, nil
}
