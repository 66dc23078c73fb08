package models

import (
	"crypto/md5" //nolint:gosec // content fingerprint, not a security boundary
	"encoding/hex"
	"fmt"

	"github.com/shopspring/decimal"
)

// Transaction is a normalized bank statement entry. Dates are YYYY-MM-DD
// strings, amounts are exact decimals (negative for debits). HashID is a
// content-derived deduplication key; Category is empty until categorization.
type Transaction struct {
	Date        string
	Amount      decimal.Decimal
	Description string
	Note        string
	HashID      string
	Category    string
}

// NewHashID derives the deduplication key for a transaction from its date,
// amount and description. Equal content always yields the same id, so
// re-importing a statement file is a no-op at the store.
func NewHashID(date string, amount decimal.Decimal, description string) string {
	raw := fmt.Sprintf("%s%s%s", date, amount.String(), description)
	sum := md5.Sum([]byte(raw)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// SearchText builds the free-text form of the transaction used for category
// matching: description, note and an amount token, so the classifier can pick
// up sign and magnitude cues without explicit numeric rules.
func (t Transaction) SearchText() string {
	return t.Description + " " + t.Note + " amount=" + t.Amount.String()
}

// AmountCents returns the amount as integer cents for storage.
func (t Transaction) AmountCents() int64 {
	return t.Amount.Mul(decimal.NewFromInt(100)).IntPart()
}
