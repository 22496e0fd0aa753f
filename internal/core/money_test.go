package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "12.34", want: "12.34"},
		{input: "12,34", want: "12.34"},
		{input: " 500 ", want: "500"},
		{input: "0.009", want: "0.009"},
		{input: "0", wantErr: true},
		{input: "0.00", wantErr: true},
		{input: "-5", wantErr: true},
		{input: "+5", wantErr: true},
		{input: "", wantErr: true},
		{input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q): %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseBalanceAllowsZero(t *testing.T) {
	got, err := ParseBalance("0")
	if err != nil {
		t.Fatalf("ParseBalance(0): %v", err)
	}
	if !got.IsZero() {
		t.Errorf("ParseBalance(0) = %s, want 0", got)
	}

	if _, err := ParseBalance("-1"); err == nil {
		t.Error("expected error for negative balance")
	}
}

func TestFormatAmount(t *testing.T) {
	// Full precision is kept internally; rounding happens only here.
	d := decimal.RequireFromString("10.005")
	if got := FormatAmount(d); got != "10.01" {
		t.Errorf("FormatAmount(10.005) = %s, want 10.01", got)
	}
	if got := FormatAmount(decimal.NewFromInt(-7)); got != "7.00" {
		t.Errorf("FormatAmount(-7) = %s, want 7.00", got)
	}
}

func TestSignPrefix(t *testing.T) {
	if SignPrefix(Credit) != "+" {
		t.Error("credit prefix should be +")
	}
	if SignPrefix(Debit) != "-" {
		t.Error("debit prefix should be -")
	}
}
