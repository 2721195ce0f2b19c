package models

import "github.com/shopspring/decimal"

// Classification is what a classifier (local or remote) says about a message.
// Amount is zero when the classifier does not extract amounts.
type Classification struct {
	Type        TransactionType
	Category    string
	Amount      decimal.Decimal
	Description string
}
