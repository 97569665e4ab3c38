package core

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Known record type tags. The ledger displays whatever tag a record carries;
// only tags present in the active Partition contribute to totals.
const (
	TypeDonation = "عطیہ"
	TypePledge   = "وعدہ"
	TypeExpense  = "اخراجات"
	TypeWelfare  = "فلاحی خرچ"
)

var (
	ErrEmptyType = errors.New("empty record type")
	ErrEmptyName = errors.New("empty record name")
)

type (
	// Record is one ledger entry. It is immutable once constructed: edits
	// replace the whole record, keeping the ID stable.
	Record struct {
		ID     string `json:"id"`
		Type   string `json:"type"`
		Amount string `json:"amount"`
		Name   string `json:"name"`
		Date   string `json:"date"`
		Note   string `json:"note,omitempty"`
	}

	// Partition assigns type tags to the income and expense sides for
	// aggregation. It is explicit configuration, not a hidden constant.
	Partition struct {
		Income  []string
		Expense []string
	}
)

// DefaultPartition returns the ledger's standard category partition.
func DefaultPartition() Partition {
	return Partition{
		Income:  []string{TypeDonation, TypePledge},
		Expense: []string{TypeExpense, TypeWelfare},
	}
}

// IsIncome reports whether the tag belongs to the income side.
func (p Partition) IsIncome(tag string) bool {
	return contains(p.Income, tag)
}

// IsExpense reports whether the tag belongs to the expense side.
func (p Partition) IsExpense(tag string) bool {
	return contains(p.Expense, tag)
}

func contains(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// NewID returns a fresh opaque record identifier.
func NewID() string {
	return uuid.NewString()
}

func (r Record) Validate() error {
	if strings.TrimSpace(r.Type) == "" {
		return ErrEmptyType
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// AmountValue parses the stored amount. Missing or malformed input counts
// as zero; negative values pass through unclamped.
func (r Record) AmountValue() decimal.Decimal {
	return ParseAmount(r.Amount)
}

// ParseAmount converts a free-form amount string to a decimal, defaulting
// to zero when the input is empty or not a number.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
