package domain

import (
	"regexp"

	"github.com/shopspring/decimal"
)

const (
	MinAccountNumber = 1
	MaxAccountNumber = 100

	// Significant characters per name field; longer names are truncated
	// to fit the fixed-width on-disk fields.
	MaxLastNameLen  = 14
	MaxFirstNameLen = 9
)

// Account is the persisted entity. The account number is immutable
// after creation; the balance may be negative (overdraft is permitted).
type Account struct {
	Number    uint32          `json:"account_number"`
	LastName  string          `json:"last_name"`
	FirstName string          `json:"first_name"`
	Balance   decimal.Decimal `json:"balance"`
}

// Summary is the aggregate view over all occupied slots.
type Summary struct {
	Count          int             `json:"count"`
	TotalBalance   decimal.Decimal `json:"total_balance"`
	OverdrawnCount int             `json:"overdrawn_count"`
	AverageBalance decimal.Decimal `json:"average_balance"`
}

var nameRx = regexp.MustCompile(`^[A-Za-z '-]+$`)

// ValidName reports whether name is non-empty and contains only
// letters, spaces, hyphens and apostrophes.
func ValidName(name string) bool {
	return nameRx.MatchString(name)
}

// ValidAccountNumber reports whether n is inside [1, 100]. Zero is the
// empty-sentinel value and never denotes a real account.
func ValidAccountNumber(n uint32) bool {
	return n >= MinAccountNumber && n <= MaxAccountNumber
}
