package enum

// PaymentMethod is the tender type chosen at checkout.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodMobile PaymentMethod = "mobile"
	PaymentMethodSplit  PaymentMethod = "split"
)

// Valid reports whether the method is one of the supported tenders.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodMobile, PaymentMethodSplit:
		return true
	}
	return false
}
