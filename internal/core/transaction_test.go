package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDraftValidate(t *testing.T) {
	valid := Draft{
		Amount: decimal.NewFromInt(100),
		Kind:   Debit,
		Reason: "groceries",
	}

	tests := []struct {
		name    string
		mutate  func(d *Draft)
		wantErr error
	}{
		{
			name:   "valid debit",
			mutate: func(d *Draft) {},
		},
		{
			name:   "valid credit",
			mutate: func(d *Draft) { d.Kind = Credit },
		},
		{
			name:    "zero amount",
			mutate:  func(d *Draft) { d.Amount = decimal.Zero },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			mutate:  func(d *Draft) { d.Amount = decimal.NewFromInt(-50) },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "empty reason",
			mutate:  func(d *Draft) { d.Reason = "" },
			wantErr: ErrEmptyReason,
		},
		{
			name:    "whitespace reason",
			mutate:  func(d *Draft) { d.Reason = "   " },
			wantErr: ErrEmptyReason,
		},
		{
			name:    "unknown kind",
			mutate:  func(d *Draft) { d.Kind = "transfer" },
			wantErr: ErrInvalidKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			err := d.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDraftValidateReasonTooLong(t *testing.T) {
	d := Draft{
		Amount: decimal.NewFromInt(1),
		Kind:   Debit,
		Reason: strings.Repeat("x", 201),
	}
	if err := d.Validate(); !errors.Is(err, ErrReasonTooLong) {
		t.Fatalf("Validate() = %v, want ErrReasonTooLong", err)
	}
}

func TestKindValidate(t *testing.T) {
	if err := Credit.Validate(); err != nil {
		t.Errorf("Credit.Validate() = %v", err)
	}
	if err := Debit.Validate(); err != nil {
		t.Errorf("Debit.Validate() = %v", err)
	}
	if err := Kind("refund").Validate(); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("Kind(refund).Validate() = %v, want ErrInvalidKind", err)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-09")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.String() != "2025-03-09" {
		t.Errorf("String() = %q, want 2025-03-09", d.String())
	}
	if d.IsEmpty() {
		t.Error("parsed date should not be empty")
	}

	if _, err := ParseDate("09/03/2025"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestDateNormalization(t *testing.T) {
	// The same calendar day compares equal regardless of time of day.
	a := NewDate(2025, 3, 9)
	b, _ := ParseDate("2025-03-09")
	if !a.Equal(b.Time) {
		t.Errorf("dates differ: %v vs %v", a, b)
	}

	var zero Date
	if !zero.IsEmpty() {
		t.Error("zero date should be empty")
	}
	if zero.String() != "" {
		t.Errorf("zero date String() = %q, want empty", zero.String())
	}
}
