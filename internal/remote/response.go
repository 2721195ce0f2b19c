package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fjacquet/ia-financiera/internal/currencyutils"
	"fjacquet/ia-financiera/internal/models"

	"github.com/shopspring/decimal"
)

// ErrInvalidResponse marks model output that is not a usable classification.
var ErrInvalidResponse = errors.New("invalid model response")

// Accepted keys per field; models often answer with the Spanish names.
var (
	typeKeys        = []string{"type", "tipo"}
	categoryKeys    = []string{"category", "categoria"}
	amountKeys      = []string{"amount", "monto"}
	descriptionKeys = []string{"descripcion", "description"}
)

// ExtractJSON returns the substring between the first '{' and the last '}'.
// Code fences and prose around the object are dropped.
func ExtractJSON(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return "", fmt.Errorf("%w: no JSON object found", ErrInvalidResponse)
	}
	return raw[start : end+1], nil
}

// ParseClassification decodes a model answer. The four fields type, category,
// amount and descripcion are required; type accepts the ingreso/gasto aliases
// and amount must be numeric (a JSON number or a numeric string).
func ParseClassification(raw string) (models.Classification, error) {
	object, err := ExtractJSON(raw)
	if err != nil {
		return models.Classification{}, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(object), &fields); err != nil {
		return models.Classification{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	typeLabel, err := stringField(fields, typeKeys)
	if err != nil {
		return models.Classification{}, err
	}
	txType, err := models.ParseTransactionType(typeLabel)
	if err != nil {
		return models.Classification{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	category, err := stringField(fields, categoryKeys)
	if err != nil {
		return models.Classification{}, err
	}
	if strings.TrimSpace(category) == "" {
		return models.Classification{}, fmt.Errorf("%w: empty category", ErrInvalidResponse)
	}

	amount, err := amountField(fields)
	if err != nil {
		return models.Classification{}, err
	}

	description, err := stringField(fields, descriptionKeys)
	if err != nil {
		return models.Classification{}, err
	}

	return models.Classification{
		Type:        txType,
		Category:    strings.TrimSpace(category),
		Amount:      amount,
		Description: strings.TrimSpace(description),
	}, nil
}

func lookup(fields map[string]json.RawMessage, keys []string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := fields[k]; ok && string(v) != "null" {
			return v, true
		}
	}
	return nil, false
}

func stringField(fields map[string]json.RawMessage, keys []string) (string, error) {
	raw, ok := lookup(fields, keys)
	if !ok {
		return "", fmt.Errorf("%w: missing field %q", ErrInvalidResponse, keys[0])
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: field %q is not a string", ErrInvalidResponse, keys[0])
	}
	return s, nil
}

func amountField(fields map[string]json.RawMessage) (decimal.Decimal, error) {
	raw, ok := lookup(fields, amountKeys)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: missing field %q", ErrInvalidResponse, amountKeys[0])
	}

	var number json.Number
	if err := json.Unmarshal(raw, &number); err == nil {
		amount, err := decimal.NewFromString(number.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: amount %s: %v", ErrInvalidResponse, number, err)
		}
		return amount, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil || strings.TrimSpace(s) == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is not numeric", ErrInvalidResponse)
	}
	amount, err := currencyutils.ParseAmount(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return amount, nil
}
