// Package core holds the domain types shared by the ledger and the report
// aggregators.
//
// This file contains parsing and formatting helpers for monetary amounts.
// All arithmetic happens on decimal values at full precision; the fixed
// 2-decimal rounding is applied only when rendering for a consumer.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-entered decimal string to a positive amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Signs are
// rejected: direction is conveyed by the transaction kind, never folded into
// the numeric value. Zero and negative amounts return ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.Cmp(decimal.Zero) <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseBalance converts a user-entered decimal string to a non-negative
// balance. Unlike transaction amounts, zero is allowed: starting from an
// empty wallet is legitimate.
func ParseBalance(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders a non-negative magnitude with exactly two decimal
// digits. Callers carry the sign separately (a prefix or the kind tag).
func FormatAmount(d decimal.Decimal) string {
	return d.Abs().StringFixed(2)
}

// SignPrefix returns the display prefix for a transaction direction.
func SignPrefix(k Kind) string {
	if k == Credit {
		return "+"
	}
	return "-"
}
