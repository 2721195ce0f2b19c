package categorizer

import (
	"context"
	"errors"
	"testing"

	"fjacquet/ia-financiera/internal/classifyerror"
	"fjacquet/ia-financiera/internal/logging"
	"fjacquet/ia-financiera/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAIClient is a test implementation of the AIClient interface
type mockAIClient struct {
	classification models.Classification
	err            error
	calls          int
	gotMessage     string
	gotCategories  []string
}

func (m *mockAIClient) Classify(ctx context.Context, message string, categories []string) (models.Classification, error) {
	m.calls++
	m.gotMessage = message
	m.gotCategories = categories
	return m.classification, m.err
}

func newTestStore(t *testing.T) *VocabularyStore {
	t.Helper()
	store, err := NewVocabularyStore(nil, nil)
	require.NoError(t, err)
	return store
}

func TestAIStrategy_Name(t *testing.T) {
	assert.Equal(t, "AI", NewAIStrategy(nil, nil, "", nil).Name())
}

func TestAIStrategy_Categorize(t *testing.T) {
	tests := []struct {
		name                string
		classification      models.Classification
		policy              UnknownCategoryPolicy
		expectedCategory    string
		expectedDescription string
	}{
		{
			name: "known category",
			classification: models.Classification{
				Type: models.TypeExpense, Category: "Food", Amount: decimal.RequireFromString("150.50"), Description: "Tacos al pastor",
			},
			policy:              PolicyCoerce,
			expectedCategory:    models.CategoryFood,
			expectedDescription: "Tacos al pastor",
		},
		{
			name:                "spanish alias",
			classification:      models.Classification{Type: models.TypeExpense, Category: "Alimentación"},
			policy:              PolicyCoerce,
			expectedCategory:    models.CategoryFood,
			expectedDescription: "Gasté $150.50 en tacos",
		},
		{
			name:                "unknown coerced",
			classification:      models.Classification{Type: models.TypeExpense, Category: "Criptomonedas", Description: "Bitcoin"},
			policy:              PolicyCoerce,
			expectedCategory:    models.CategoryOther,
			expectedDescription: "Bitcoin",
		},
		{
			name:                "unknown appended",
			classification:      models.Classification{Type: models.TypeIncome, Category: "Criptomonedas", Description: "Bitcoin"},
			policy:              PolicyExtend,
			expectedCategory:    "Criptomonedas",
			expectedDescription: "Bitcoin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockAIClient{classification: tt.classification}
			store := newTestStore(t)
			strategy := NewAIStrategy(client, store, tt.policy, logging.NewMockLogger())

			cls, found, err := strategy.Categorize(context.Background(), NewTransaction("gasté $150.50 en tacos"), store.Snapshot())
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, tt.expectedCategory, cls.Category)
			assert.Equal(t, tt.expectedDescription, cls.Description)
			assert.Equal(t, tt.classification.Type, cls.Type)
			assert.True(t, tt.classification.Amount.Equal(cls.Amount))

			assert.Equal(t, 1, client.calls)
			assert.Equal(t, "gasté $150.50 en tacos", client.gotMessage)
			assert.Contains(t, client.gotCategories, models.CategoryPets)
		})
	}
}

func TestAIStrategy_Categorize_NotAvailable(t *testing.T) {
	store := newTestStore(t)

	t.Run("nil client", func(t *testing.T) {
		strategy := NewAIStrategy(nil, store, PolicyCoerce, nil)

		_, found, err := strategy.Categorize(context.Background(), NewTransaction("tacos 50"), store.Snapshot())
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("disabled client", func(t *testing.T) {
		client := &mockAIClient{err: classifyerror.ErrRemoteDisabled}
		strategy := NewAIStrategy(client, store, PolicyCoerce, nil)

		_, found, err := strategy.Categorize(context.Background(), NewTransaction("tacos 50"), store.Snapshot())
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("empty message", func(t *testing.T) {
		client := &mockAIClient{}
		strategy := NewAIStrategy(client, store, PolicyCoerce, nil)

		_, found, err := strategy.Categorize(context.Background(), NewTransaction("  "), store.Snapshot())
		assert.NoError(t, err)
		assert.False(t, found)
		assert.Zero(t, client.calls)
	})
}

func TestAIStrategy_Categorize_ClientError(t *testing.T) {
	logger := logging.NewMockLogger()
	remoteErr := classifyerror.NewRemoteError("openai", "classify", errors.New("timeout"))
	client := &mockAIClient{err: remoteErr}
	store := newTestStore(t)
	strategy := NewAIStrategy(client, store, PolicyCoerce, logger)

	_, found, err := strategy.Categorize(context.Background(), NewTransaction("tacos 50"), store.Snapshot())
	assert.False(t, found)
	assert.ErrorIs(t, err, classifyerror.ErrRemote)
	assert.True(t, logger.HasEntry("WARN", "AI categorization failed"))
}

func TestAIStrategy_Categorize_EmptyCategory(t *testing.T) {
	client := &mockAIClient{classification: models.Classification{Type: models.TypeExpense}}
	store := newTestStore(t)
	strategy := NewAIStrategy(client, store, PolicyExtend, nil)

	_, found, err := strategy.Categorize(context.Background(), NewTransaction("tacos 50"), store.Snapshot())
	assert.False(t, found)
	assert.ErrorIs(t, err, classifyerror.ErrUnknownCategory)
}
