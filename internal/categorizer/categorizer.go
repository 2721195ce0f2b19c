// Package categorizer decides the type and category of a transaction message.
// Two strategies implement CategorizationStrategy:
//  1. KeywordStrategy: local, deterministic keyword scoring over the vocabulary
//  2. AIStrategy: a remote model through an AIClient
//
// The category vocabulary lives in a VocabularyStore which hands out immutable
// snapshots; every request classifies against the snapshot taken at its start.
package categorizer

import (
	"fjacquet/ia-financiera/internal/textutils"
)

// Transaction is a message to classify together with its normalized projection.
type Transaction struct {
	Message    string // raw user text
	Normalized string // textutils.Normalize(Message), used for matching only
}

// NewTransaction builds a Transaction, normalizing the message once.
func NewTransaction(message string) Transaction {
	return Transaction{
		Message:    message,
		Normalized: textutils.Normalize(message),
	}
}
