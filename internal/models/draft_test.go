package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDraft() Draft {
	return Draft{
		Type:        TypeExpense,
		Amount:      decimal.RequireFromString("150.50"),
		Category:    CategoryFood,
		Description: "Gasté $150.50 en tacos",
		Date:        time.Date(2025, 3, 14, 9, 26, 53, 0, time.Local),
	}
}

func TestParseTransactionType(t *testing.T) {
	tests := []struct {
		label   string
		want    TransactionType
		wantErr bool
	}{
		{"expense", TypeExpense, false},
		{" Income ", TypeIncome, false},
		{"gasto", TypeExpense, false},
		{"INGRESO", TypeIncome, false},
		{"transfer", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := ParseTransactionType(tt.label)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDraft_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(sampleDraft())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"type": "expense",
		"amount": 150.5,
		"category": "Food",
		"description": "Gasté $150.50 en tacos",
		"date": "2025-03-14T09:26:53"
	}`, string(data))
}

func TestDraft_MarshalJSON_RoundsToCents(t *testing.T) {
	draft := sampleDraft()
	draft.Amount = decimal.RequireFromString("10.005")

	data, err := json.Marshal(draft)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"amount":10.01`)
}

func TestDraft_UnmarshalJSON(t *testing.T) {
	original := sampleDraft()
	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Draft
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, original.Type, decoded.Type)
	assert.True(t, original.Amount.Equal(decoded.Amount))
	assert.Equal(t, original.Category, decoded.Category)
	assert.True(t, original.Date.Equal(decoded.Date))

	assert.Error(t, json.Unmarshal([]byte(`{"amount": 1, "date": "yesterday"}`), &decoded))
}

func TestDraft_Validate(t *testing.T) {
	assert.NoError(t, sampleDraft().Validate())

	zero := sampleDraft()
	zero.Amount = decimal.Zero
	assert.ErrorContains(t, zero.Validate(), "amount must be positive")

	noCategory := sampleDraft()
	noCategory.Category = " "
	assert.ErrorContains(t, noCategory.Validate(), "category is required")

	badType := sampleDraft()
	badType.Type = "unknown"
	assert.ErrorContains(t, badType.Validate(), "invalid type")

	assert.Error(t, Draft{}.Validate())
}

func TestCategoryConfig_Clone(t *testing.T) {
	original := CategoryConfig{Name: CategoryPets, Keywords: []string{"gato"}}
	clone := original.Clone()
	clone.Keywords[0] = "perro"

	assert.Equal(t, "gato", original.Keywords[0])
}
