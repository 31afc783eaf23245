package scanning

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// datePattern is the only date shape that is kept: two-digit day, two-digit
// month, four-digit year starting 19 or 20, separated by / or . Anything
// else is dropped rather than rejected.
var datePattern = regexp.MustCompile(`^(0[1-9]|[12][0-9]|3[01])[/.](0[1-9]|1[012])[/.](19|20)\d\d$`)

var validCategories = map[Category]bool{
	CategoryFood:          true,
	CategoryTransport:     true,
	CategoryUtilities:     true,
	CategoryEntertainment: true,
	CategoryShopping:      true,
	CategoryHealth:        true,
	CategoryOther:         true,
}

// Normalize coerces and validates untyped extraction fields into a
// ReceiptData. The total is required and must be a non-negative number; a
// malformed date or payment method is defaulted, not rejected; an item
// missing a required field invalidates the whole receipt.
func Normalize(fields map[string]any, defaultCurrency string) (*ReceiptData, error) {
	total, ok := asNumber(fields["total"])
	if !ok {
		return nil, fmt.Errorf("%w: total is missing or not a number", ErrValidation)
	}
	if total < 0 {
		return nil, fmt.Errorf("%w: total must not be negative", ErrValidation)
	}

	rec := &ReceiptData{
		Total:         total,
		Currency:      defaultCurrency,
		PaymentMethod: normalizePaymentMethod(fields["paymentMethod"]),
	}

	if s, ok := fields["merchantName"].(string); ok {
		rec.MerchantName = strings.TrimSpace(s)
	}

	if s, ok := fields["date"].(string); ok {
		if d := strings.TrimSpace(s); datePattern.MatchString(d) {
			rec.Date = d
		}
	}

	if s, ok := fields["currency"].(string); ok {
		if c := strings.TrimSpace(s); c != "" {
			rec.Currency = c
		}
	}

	if v, present := fields["discount"]; present && v != nil {
		d, ok := asNumber(v)
		if !ok {
			return nil, fmt.Errorf("%w: discount must be a number", ErrValidation)
		}
		rec.Discount = &d
	}

	items, err := normalizeItems(fields["items"])
	if err != nil {
		return nil, err
	}
	rec.Items = items

	return rec, nil
}

// normalizePaymentMethod collapses free text onto the closed payment set:
// anything containing "card" is card, everything else (including absent) is
// cash.
func normalizePaymentMethod(v any) PaymentMethod {
	s, _ := v.(string)
	if strings.Contains(strings.ToLower(s), "card") {
		return PaymentCard
	}
	return PaymentCash
}

func normalizeItems(v any) ([]LineItem, error) {
	items := make([]LineItem, 0)
	if v == nil {
		return items, nil
	}

	entries, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: items must be a list", ErrValidation)
	}

	for i, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: item %d is not an object", ErrValidation, i)
		}

		name, _ := obj["name"].(string)
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: item %d is missing a name", ErrValidation, i)
		}

		price, ok := asNumber(obj["price"])
		if !ok || price < 0 {
			return nil, fmt.Errorf("%w: item %q has an invalid price", ErrValidation, name)
		}

		quantity, ok := asNumber(obj["quantity"])
		if !ok || quantity < 0 {
			return nil, fmt.Errorf("%w: item %q has an invalid quantity", ErrValidation, name)
		}

		category := CategoryOther
		if c, ok := obj["category"].(string); ok && validCategories[Category(c)] {
			category = Category(c)
		}

		items = append(items, LineItem{
			Name:     name,
			Price:    price,
			Quantity: quantity,
			Category: category,
		})
	}

	return items, nil
}

// asNumber coerces a decoded JSON value to float64. Models occasionally
// quote numeric fields, so numeric strings are accepted too.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
