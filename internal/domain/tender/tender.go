// Package tender reconciles payment amounts against a cart total.
// It is pure: no persistence, no I/O. The pipeline calls Reconcile
// before any network call, so an insufficient tender never leaves the
// terminal.
package tender

import (
	"errors"

	"github.com/takudzwan/fiscalpos-api/internal/domain/enum"
)

var (
	// ErrInsufficient is returned when the tendered sum does not cover
	// the cart total. Submission must be blocked locally.
	ErrInsufficient = errors.New("tender: amounts do not cover the total")
	// ErrUnknownMethod is returned for a payment method outside
	// cash/card/mobile/split.
	ErrUnknownMethod = errors.New("tender: unknown payment method")
)

// Amounts is the tendered money by method, in cents.
type Amounts struct {
	Cash   int64
	Card   int64
	Mobile int64
}

// Breakdown is the reconciled tender recorded on the order: per-method
// amounts plus the cash change owed back. Only cash ever produces
// change; excess on card or mobile is accepted as entered.
type Breakdown struct {
	Method enum.PaymentMethod
	Cash   int64
	Card   int64
	Mobile int64
	Change int64
}

// Sum is the total tendered across all methods.
func (a Amounts) Sum() int64 {
	return a.Cash + a.Card + a.Mobile
}

// Reconcile validates the tendered amounts against the total and
// computes the breakdown to record on the order.
//
// Single non-cash methods assign the full total to that method. Cash
// takes the amount actually handed over and yields change for the
// surplus. Split takes all three amounts as entered; it is
// insufficient when their sum falls short, and change is paid out of
// the cash portion only.
func Reconcile(total int64, method enum.PaymentMethod, amounts Amounts) (Breakdown, error) {
	b := Breakdown{Method: method}

	switch method {
	case enum.PaymentMethodCash:
		if amounts.Cash < total {
			return b, ErrInsufficient
		}
		b.Cash = amounts.Cash
		b.Change = amounts.Cash - total

	case enum.PaymentMethodCard:
		b.Card = total

	case enum.PaymentMethodMobile:
		b.Mobile = total

	case enum.PaymentMethodSplit:
		if amounts.Sum() < total {
			return b, ErrInsufficient
		}
		b.Cash = amounts.Cash
		b.Card = amounts.Card
		b.Mobile = amounts.Mobile
		if excess := amounts.Sum() - total; excess > 0 && amounts.Cash > 0 {
			b.Change = excess
			if b.Change > amounts.Cash {
				b.Change = amounts.Cash
			}
		}

	default:
		return b, ErrUnknownMethod
	}

	return b, nil
}
