package batch

import (
	"fjacquet/ia-financiera/internal/classifyerror"
	"fjacquet/ia-financiera/internal/logging"
	"fjacquet/ia-financiera/internal/models"

	"github.com/shopspring/decimal"
)

// Summary aggregates the outcomes of a batch run.
type Summary struct {
	Stats   models.CategorizationStats
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Summarize counts drafts per category and rejections per reason, and totals
// the amounts by transaction type.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Stats: models.NewCategorizationStats()}
	for _, o := range outcomes {
		if o.Err != nil {
			s.Stats.RecordRejection(classifyerror.Reason(o.Err))
			continue
		}
		d := o.Result.Draft
		s.Stats.RecordDraft(d.Category)
		switch d.Type {
		case models.TypeIncome:
			s.Income = s.Income.Add(d.Amount)
		case models.TypeExpense:
			s.Expense = s.Expense.Add(d.Amount)
		}
	}
	return s
}

// Balance is income minus expense.
func (s Summary) Balance() decimal.Decimal {
	return s.Income.Sub(s.Expense)
}

// LogSummary logs the statistics and totals.
func (s Summary) LogSummary(logger logging.Logger) {
	if logger == nil {
		return
	}
	s.Stats.LogSummary(logger)
	logger.Info("Batch totals",
		logging.Field{Key: "income", Value: s.Income.StringFixed(2)},
		logging.Field{Key: "expense", Value: s.Expense.StringFixed(2)},
		logging.Field{Key: "balance", Value: s.Balance().StringFixed(2)},
		logging.Field{Key: "top_categories", Value: s.Stats.TopCategories()},
	)
}
