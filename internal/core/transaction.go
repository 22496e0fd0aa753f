package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Credit Kind = "credit"
	Debit  Kind = "debit"
)

type (
	// Kind is the closed set of transaction directions. A credit increases
	// the balance, a debit decreases it.
	Kind string

	// Date is a calendar date. The time-of-day portion is always midnight UTC
	// so that two dates compare equal regardless of where they were parsed.
	Date struct {
		time.Time
	}

	// Transaction is an immutable record of one monetary event. The ID is
	// assigned by the persistence gateway at creation time and never reused.
	Transaction struct {
		ID         string
		Amount     decimal.Decimal
		Kind       Kind
		Reason     string
		OccurredOn Date
		OccurredAt string // time of day, display and ordering only
		RecordedAt time.Time
	}

	// Draft is the caller-supplied input for a new transaction, before the
	// gateway has assigned an id. Zero OccurredOn defaults to today.
	Draft struct {
		Amount     decimal.Decimal
		Kind       Kind
		Reason     string
		OccurredOn Date
		OccurredAt string
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyReason   = errors.New("empty reason")
	ErrReasonTooLong = errors.New("reason too long (max 200 characters)")
	ErrInvalidKind   = errors.New("invalid transaction kind")
)

func (k Kind) Validate() error {
	switch k {
	case Credit, Debit:
		return nil
	default:
		return ErrInvalidKind
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Today returns the current calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// IsEmpty returns true if the date is zero (missing or unparseable input).
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// String renders the date as YYYY-MM-DD, or empty for a zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

func (d Draft) Validate() error {
	if d.Amount.Cmp(decimal.Zero) <= 0 {
		return ErrInvalidAmount
	}
	if len(strings.TrimSpace(d.Reason)) == 0 {
		return ErrEmptyReason
	}
	if len(d.Reason) > 200 {
		return ErrReasonTooLong
	}
	return d.Kind.Validate()
}
