package scanning

import (
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// decode is a test helper so inputs read like actual model replies
func decode(s string) map[string]any {
	var fields map[string]any
	ExpectWithOffset(1, json.Unmarshal([]byte(s), &fields)).To(Succeed())
	return fields
}

var _ = Describe("Normalize", func() {
	var (
		fields map[string]any
		rec    *ReceiptData
		err    error
	)

	JustBeforeEach(func() {
		rec, err = Normalize(fields, "GBP")
	})

	When("normalizing a complete reply", func() {
		BeforeEach(func() {
			fields = decode(`{
				"merchantName": "Cafe X",
				"date": "15/03/2024",
				"total": 9.5,
				"paymentMethod": "Credit Card",
				"items": [{"name": "Coffee", "price": 4.5, "quantity": 1, "category": "Food"}]
			}`)
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should keep the merchant name", func() {
			Expect(rec.MerchantName).To(Equal("Cafe X"))
		})

		It("should keep the matching date", func() {
			Expect(rec.Date).To(Equal("15/03/2024"))
		})

		It("should keep the total", func() {
			Expect(rec.Total).To(Equal(9.5))
		})

		It("should collapse the payment method to card", func() {
			Expect(rec.PaymentMethod).To(Equal(PaymentCard))
		})

		It("should keep the item with its category", func() {
			Expect(rec.Items).To(HaveLen(1))
			Expect(rec.Items[0].Name).To(Equal("Coffee"))
			Expect(rec.Items[0].Category).To(Equal(CategoryFood))
		})

		It("should default the currency", func() {
			Expect(rec.Currency).To(Equal("GBP"))
		})
	})

	Describe("total", func() {
		When("the total is missing", func() {
			BeforeEach(func() {
				fields = decode(`{"merchantName": "Cafe X"}`)
			})

			It("returns a validation error", func() {
				Expect(err).To(HaveOccurred())
				Expect(errors.Is(err, ErrValidation)).To(BeTrue())
			})
		})

		When("the total is not numeric", func() {
			BeforeEach(func() {
				fields = decode(`{"total": "a lot"}`)
			})

			It("returns a validation error", func() {
				Expect(errors.Is(err, ErrValidation)).To(BeTrue())
			})
		})

		When("the total is negative", func() {
			BeforeEach(func() {
				fields = decode(`{"total": -3}`)
			})

			It("returns a validation error", func() {
				Expect(errors.Is(err, ErrValidation)).To(BeTrue())
			})
		})

		When("the total is a numeric string", func() {
			BeforeEach(func() {
				fields = decode(`{"total": "12.50"}`)
			})

			It("coerces it", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(rec.Total).To(Equal(12.5))
			})
		})
	})

	Describe("date", func() {
		When("the date uses dots", func() {
			BeforeEach(func() {
				fields = decode(`{"total": 1, "date": "01.12.2023"}`)
			})

			It("is kept", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(rec.Date).To(Equal("01.12.2023"))
			})
		})

		When("the date is written out", func() {
			BeforeEach(func() {
				fields = decode(`{"total": 9.5, "merchantName": "Cafe X", "date": "March 15, 2024"}`)
			})

			It("is silently dropped, not rejected", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(rec.Date).To(BeEmpty())
			})

			It("leaves other fields unchanged", func() {
				Expect(rec.MerchantName).To(Equal("Cafe X"))
				Expect(rec.Total).To(Equal(9.5))
			})
		})

		When("the date is ISO formatted", func() {
			BeforeEach(func() {
				fields = decode(`{"total": 1, "date": "2024-03-15"}`)
			})

			It("is silently dropped", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(rec.Date).To(BeEmpty())
			})
		})

		When("the day is out of range", func() {
			BeforeEach(func() {
				fields = decode(`{"total": 1, "date": "32/03/2024"}`)
			})

			It("is silently dropped", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(rec.Date).To(BeEmpty())
			})
		})
	})

	Describe("payment method", func() {
		When("the value mentions a card in any casing", func() {
			BeforeEach(func() {
				fields = decode(`{"total": 1, "paymentMethod": "DEBITCARD"}`)
			})

			It("collapses to card", func() {
				Expect(rec.PaymentMethod).To(Equal(PaymentCard))
			})
		})

		When("the value is something else", func() {
			BeforeEach(func() {
				fields = decode(`{"total": 1, "paymentMethod": "eMoney"}`)
			})

			It("collapses to cash", func() {
				Expect(rec.PaymentMethod).To(Equal(PaymentCash))
			})
		})

		When("the value is absent", func() {
			BeforeEach(func() {
				fields = decode(`{"total": 1}`)
			})

			It("defaults to cash", func() {
				Expect(rec.PaymentMethod).To(Equal(PaymentCash))
			})
		})
	})

	Describe("currency", func() {
		When("the model reports one", func() {
			BeforeEach(func() {
				fields = decode(`{"total": 1, "currency": "EUR"}`)
			})

			It("is kept", func() {
				Expect(rec.Currency).To(Equal("EUR"))
			})
		})

		When("the model reports a blank one", func() {
			BeforeEach(func() {
				fields = decode(`{"total": 1, "currency": " "}`)
			})

			It("falls back to the default", func() {
				Expect(rec.Currency).To(Equal("GBP"))
			})
		})
	})

	Describe("discount", func() {
		When("present and numeric", func() {
			BeforeEach(func() {
				fields = decode(`{"total": 10, "discount": 1.5}`)
			})

			It("is passed through", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(rec.Discount).To(HaveValue(Equal(1.5)))
			})
		})

		When("present but not numeric", func() {
			BeforeEach(func() {
				fields = decode(`{"total": 10, "discount": "two pounds"}`)
			})

			It("returns a validation error", func() {
				Expect(errors.Is(err, ErrValidation)).To(BeTrue())
			})
		})

		When("absent", func() {
			BeforeEach(func() {
				fields = decode(`{"total": 10}`)
			})

			It("stays absent", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(rec.Discount).To(BeNil())
			})
		})
	})

	Describe("items", func() {
		When("an item has no name", func() {
			BeforeEach(func() {
				fields = decode(`{"total": 10, "items": [{"price": 1, "quantity": 1}]}`)
			})

			It("invalidates the whole receipt", func() {
				Expect(errors.Is(err, ErrValidation)).To(BeTrue())
			})
		})

		When("an item has a non-numeric price", func() {
			BeforeEach(func() {
				fields = decode(`{"total": 10, "items": [{"name": "Tea", "price": "free", "quantity": 1}]}`)
			})

			It("invalidates the whole receipt", func() {
				Expect(errors.Is(err, ErrValidation)).To(BeTrue())
			})
		})

		When("an item has no quantity", func() {
			BeforeEach(func() {
				fields = decode(`{"total": 10, "items": [{"name": "Tea", "price": 1}]}`)
			})

			It("invalidates the whole receipt", func() {
				Expect(errors.Is(err, ErrValidation)).To(BeTrue())
			})
		})

		When("an item has an unrecognized category", func() {
			BeforeEach(func() {
				fields = decode(`{"total": 10, "items": [{"name": "Tea", "price": 1, "quantity": 1, "category": "Beverages"}]}`)
			})

			It("defaults the category to Other", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(rec.Items[0].Category).To(Equal(CategoryOther))
			})
		})

		When("items are absent", func() {
			BeforeEach(func() {
				fields = decode(`{"total": 10}`)
			})

			It("yields an empty, non-nil list", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(rec.Items).NotTo(BeNil())
				Expect(rec.Items).To(BeEmpty())
			})
		})

		When("there are several items", func() {
			BeforeEach(func() {
				fields = decode(`{"total": 10, "items": [
					{"name": "Tea", "price": 2, "quantity": 1, "category": "Food"},
					{"name": "Bus ticket", "price": 3, "quantity": 2, "category": "Transport"},
					{"name": "Soap", "price": 5, "quantity": 1}
				]}`)
			})

			It("preserves extraction order", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(rec.Items).To(HaveLen(3))
				Expect(rec.Items[0].Name).To(Equal("Tea"))
				Expect(rec.Items[1].Name).To(Equal("Bus ticket"))
				Expect(rec.Items[2].Name).To(Equal("Soap"))
				Expect(rec.Items[2].Category).To(Equal(CategoryOther))
			})
		})
	})
})
