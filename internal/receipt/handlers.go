package receipt

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Hongbin10/AI-ReceiptScanner/internal/scanning"
)

// maxUploadSize bounds receipt uploads to 10MB
const maxUploadSize = int64(10 << 20)

type messageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, messageResponse{Message: message})
}

// handleHome returns the service description
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to AI Receipt Scanner API",
		"endpoints": map[string]string{
			"upload": "POST /upload (Body: form-data with 'receipt' file)",
			"logs":   "GET /logs",
		},
	})
}

// formattedReceipt is the upload response view of a receipt. Monetary
// amounts are rendered with two decimal places here only; stored values
// stay untouched.
type formattedReceipt struct {
	ID            string                 `json:"id"`
	MerchantName  string                 `json:"merchantName,omitempty"`
	Date          string                 `json:"date,omitempty"`
	Discount      *float64               `json:"discount,omitempty"`
	Total         string                 `json:"total"`
	PaymentMethod scanning.PaymentMethod `json:"paymentMethod"`
	Currency      string                 `json:"currency"`
	Items         []formattedItem        `json:"items"`
	CreatedAt     time.Time              `json:"createdAt"`
}

type formattedItem struct {
	Name     string            `json:"name"`
	Price    string            `json:"price"`
	Quantity float64           `json:"quantity"`
	Category scanning.Category `json:"category"`
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatReceipt(r *Receipt) formattedReceipt {
	items := make([]formattedItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, formattedItem{
			Name:     item.Name,
			Price:    formatAmount(item.Price),
			Quantity: item.Quantity,
			Category: item.Category,
		})
	}

	return formattedReceipt{
		ID:            r.ID,
		MerchantName:  r.MerchantName,
		Date:          r.Date,
		Discount:      r.Discount,
		Total:         formatAmount(r.Total),
		PaymentMethod: r.PaymentMethod,
		Currency:      r.Currency,
		Items:         items,
		CreatedAt:     r.CreatedAt,
	}
}

// isSupportedUpload reports whether the declared media type is accepted.
// Images of any kind plus PDFs; everything else is rejected before the
// pipeline is invoked.
func isSupportedUpload(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || contentType == "application/pdf"
}

// uploadContentType resolves the media type of an uploaded file, falling
// back to the filename extension when the part carries no Content-Type.
func uploadContentType(declared, filename string) string {
	contentType := strings.ToLower(strings.TrimSpace(declared))
	if contentType != "" {
		return contentType
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".heic", ".heif":
		return "image/heic"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// handleUploadReceipt runs the extraction pipeline for one uploaded receipt
func (s *Server) handleUploadReceipt(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		respondMessage(w, http.StatusBadRequest, "No file uploaded")
		return
	}

	f, header, err := r.FormFile("receipt")
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer f.Close()

	if header.Size > maxUploadSize {
		respondMessage(w, http.StatusBadRequest, "File is too large. Maximum size is 10MB.")
		return
	}

	contentType := uploadContentType(header.Header.Get("Content-Type"), header.Filename)
	if !isSupportedUpload(contentType) {
		respondMessage(w, http.StatusBadRequest, "Not an image! Please upload an image.")
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "filename", header.Filename, "error", err)
		respondMessage(w, http.StatusInternalServerError, "Error reading file. Please try again.")
		return
	}

	receipt, err := s.service.ProcessReceipt(r.Context(), header.Filename, data, contentType)
	if err != nil {
		slog.Error("Error processing receipt", "filename", header.Filename, "error", err)
		respondMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Receipt processed successfully",
		"data":    formatReceipt(receipt),
	})
}

// handleListReceipts returns all stored receipts, newest first
func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := s.service.ListReceipts()
	if err != nil {
		slog.Error("Error listing receipts", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Error fetching receipts")
		return
	}

	if receipts == nil {
		receipts = []*Receipt{}
	}

	respondJSON(w, http.StatusOK, receipts)
}

// handleReceiptImage serves the archived upload for a receipt
func (s *Server) handleReceiptImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondMessage(w, http.StatusBadRequest, "Receipt ID required")
		return
	}

	data, err := s.service.GetReceiptImage(id)
	if err != nil {
		respondMessage(w, http.StatusNotFound, "Receipt image not found")
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Write(data)
}
