package applicant

import (
	"fmt"

	"github.com/civiform/civiform-go/internal/model"
)

// CurrencyQuestion is the typed reader for CURRENCY answers, stored as
// whole cents to avoid floating-point money.
type CurrencyQuestion struct {
	cents    int64
	answered bool
}

// Currency returns the CURRENCY wrapper, failing fast on a type
// mismatch.
func (q *ApplicantQuestion) Currency() (*CurrencyQuestion, error) {
	if err := q.requireType(model.QuestionTypeCurrency); err != nil {
		return nil, err
	}
	cents, answered := q.Data.ReadLong(q.ScalarPath(model.ScalarCurrencyCents))
	return &CurrencyQuestion{cents: cents, answered: answered}, nil
}

// Cents returns the stored amount in cents.
func (q *CurrencyQuestion) Cents() int64 { return q.cents }

// DollarString renders the amount as "12.34".
func (q *CurrencyQuestion) DollarString() string {
	return fmt.Sprintf("%d.%02d", q.cents/100, q.cents%100)
}

func (q *CurrencyQuestion) IsAnswered() bool { return q.answered }

func (q *CurrencyQuestion) QuestionErrors() []model.ValidationError { return nil }

func (q *CurrencyQuestion) TypeErrors() []model.ValidationError {
	if q.answered && q.cents < 0 {
		return []model.ValidationError{{Message: "currency amount cannot be negative"}}
	}
	return nil
}
