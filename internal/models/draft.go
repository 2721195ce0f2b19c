package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a transaction. There is no unknown state:
// messages without cues are expenses.
type TransactionType string

const (
	TypeExpense TransactionType = "expense"
	TypeIncome  TransactionType = "income"
)

// ParseTransactionType maps a type label, including the Spanish aliases remote
// models tend to answer with, to a TransactionType.
func ParseTransactionType(label string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "expense", "gasto", "egreso":
		return TypeExpense, nil
	case "income", "ingreso":
		return TypeIncome, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", label)
	}
}

// Draft is the structured transaction record produced by the pipeline, prior to
// persistence by the backend.
type Draft struct {
	Type        TransactionType
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
}

// draftWire is the JSON shape the backend expects.
type draftWire struct {
	Type        TransactionType `json:"type"`
	Amount      json.Number     `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

// MarshalJSON encodes the draft in the backend wire format: amount as a JSON
// number rounded to two decimals and date as local YYYY-MM-DDTHH:MM:SS.
func (d Draft) MarshalJSON() ([]byte, error) {
	return json.Marshal(draftWire{
		Type:        d.Type,
		Amount:      json.Number(d.Amount.Round(2).String()),
		Category:    d.Category,
		Description: d.Description,
		Date:        d.Date.Format(DateLayout),
	})
}

// UnmarshalJSON decodes the backend wire format.
func (d *Draft) UnmarshalJSON(data []byte) error {
	var wire draftWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	amount, err := decimal.NewFromString(wire.Amount.String())
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", wire.Amount, err)
	}

	var date time.Time
	if wire.Date != "" {
		date, err = time.ParseInLocation(DateLayout, wire.Date, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", wire.Date, err)
		}
	}

	*d = Draft{
		Type:        wire.Type,
		Amount:      amount,
		Category:    wire.Category,
		Description: wire.Description,
		Date:        date,
	}
	return nil
}

// Validate checks the draft invariants.
func (d Draft) Validate() error {
	var errs []error
	if d.Type != TypeExpense && d.Type != TypeIncome {
		errs = append(errs, fmt.Errorf("invalid type %q", d.Type))
	}
	if !d.Amount.IsPositive() {
		errs = append(errs, fmt.Errorf("amount must be positive, got %s", d.Amount))
	}
	if strings.TrimSpace(d.Category) == "" {
		errs = append(errs, errors.New("category is required"))
	}
	if d.Date.IsZero() {
		errs = append(errs, errors.New("date is required"))
	}
	return errors.Join(errs...)
}
