package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// extractionPrompt is the shared instruction sent to every model provider.
// It describes the receipt schema and forbids markdown fences; the parser
// still strips fences in case the model ignores that.
const extractionPrompt = `Analyze this receipt image and extract the following information in strict JSON format.
Do not include any markdown formatting (like ` + "```" + `json). Just return the raw JSON object.

JSON structure:
{
    "merchantName": "Merchant name (string, omit if not found)",
    "date": "Purchase date as printed on the receipt, DD/MM/YYYY",
    "discount": "Discount amount (number, omit if not found)",
    "total": "Total amount (number)",
    "paymentMethod": "Payment method (e.g. 'cash', 'card')",
    "currency": "Currency code (e.g. 'GBP')",
    "items": [
        {
            "name": "Item name (string)",
            "price": "Line total price (number)",
            "quantity": "Quantity (number)",
            "category": "One of: 'Food', 'Transport', 'Utilities', 'Entertainment', 'Shopping', 'Health', 'Other'"
        }
    ]
}

Important:
- The total must be a number, not a string
- Do not include any text before or after the JSON
- Do not use markdown code blocks`

// pdfToPNG renders the first page of a PDF as a PNG image. Receipts are
// almost always single page.
func pdfToPNG(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}

	return encodePNG(img)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// isHEIC reports whether the payload looks like a HEIC/HEIF container,
// which Go's standard image package cannot decode. HEIC files carry an
// ftyp box at offset 4 with a heif-family brand.
func isHEIC(data []byte, mimeType string) bool {
	if strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif") {
		return true
	}
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heif", "mif1", "msf1":
		return true
	}
	return false
}

// prepareImageData normalizes an upload to PNG before it is sent to a model
// provider. PDFs are rendered, HEIC is decoded with the pure Go decoder,
// other formats go through image.Decode. Returns the PNG bytes and the MIME
// type to declare.
func prepareImageData(data []byte, contentType string) ([]byte, string, error) {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))

	if mimeType == "application/pdf" {
		pngData, err := pdfToPNG(data)
		if err != nil {
			return nil, "", fmt.Errorf("converting PDF: %w", err)
		}
		return pngData, "image/png", nil
	}

	if isHEIC(data, mimeType) {
		img, err := heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, "", fmt.Errorf("decoding HEIC image: %w", err)
		}
		pngData, err := encodePNG(img)
		if err != nil {
			return nil, "", err
		}
		return pngData, "image/png", nil
	}

	if mimeType == "image/png" {
		return data, "image/png", nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}
	pngData, err := encodePNG(img)
	if err != nil {
		return nil, "", err
	}
	return pngData, "image/png", nil
}
