package batch

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"fjacquet/ia-financiera/internal/categorizer"
	"fjacquet/ia-financiera/internal/classifyerror"
	"fjacquet/ia-financiera/internal/fileutils"
	"fjacquet/ia-financiera/internal/logging"
	"fjacquet/ia-financiera/internal/models"
	"fjacquet/ia-financiera/internal/moderation"
	"fjacquet/ia-financiera/internal/pipeline"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var batchNow = time.Date(2025, 3, 14, 12, 30, 0, 0, time.Local)

// echoClassifier answers with the message as description. Messages starting
// with "reject" fail with a category error. Later messages finish first.
type echoClassifier struct {
	calls atomic.Int32
}

func (c *echoClassifier) ClassifyDetailed(ctx context.Context, message string) (pipeline.Result, error) {
	n := c.calls.Add(1)
	time.Sleep(time.Duration(10-n%10) * time.Millisecond)

	if strings.HasPrefix(message, "reject") {
		return pipeline.Result{RequestID: "req-" + message}, &classifyerror.CategoryError{Input: message}
	}
	return pipeline.Result{
		RequestID: "req-" + message,
		Strategy:  "Keyword",
		Draft: models.Draft{
			Type:        models.TypeExpense,
			Amount:      decimal.NewFromInt(10),
			Category:    models.CategoryFood,
			Description: message,
			Date:        batchNow,
		},
	}, nil
}

func TestProcessor_PreservesOrder(t *testing.T) {
	messages := make([]string, 50)
	for i := range messages {
		messages[i] = fmt.Sprintf("msg-%02d", i)
	}

	for _, workers := range []int{1, 3, 8} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			p := NewProcessor(&echoClassifier{}, workers, logging.NewMockLogger())
			outcomes := p.Process(context.Background(), messages)

			require.Len(t, outcomes, len(messages))
			for i, o := range outcomes {
				assert.Equal(t, i+1, o.Line)
				assert.Equal(t, messages[i], o.Message)
				assert.Equal(t, messages[i], o.Result.Draft.Description)
				assert.NoError(t, o.Err)
			}
		})
	}
}

func TestProcessor_DefaultWorkers(t *testing.T) {
	p := NewProcessor(&echoClassifier{}, 0, nil)
	assert.Positive(t, p.workerCount)
	assert.Empty(t, p.Process(context.Background(), nil))
}

func TestProcessor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	classifier := &echoClassifier{}
	outcomes := NewProcessor(classifier, 4, nil).Process(ctx, []string{"a", "b", "c", "d", "e"})
	for _, o := range outcomes {
		assert.ErrorIs(t, o.Err, context.Canceled)
	}
	assert.Zero(t, classifier.calls.Load())
}

func TestProcessor_WithPipeline(t *testing.T) {
	store, err := categorizer.NewVocabularyStore(nil, nil)
	require.NoError(t, err)
	filter, err := moderation.NewFilter(nil, nil, 0, nil)
	require.NoError(t, err)
	p := pipeline.New(filter, store, categorizer.NewKeywordStrategy(nil), nil,
		pipeline.Options{Clock: func() time.Time { return batchNow }}, nil)

	messages := []string{
		"gasté $150.50 en tacos",
		"me pagaron mi sueldo de 12,000 pesos",
		"eres un pendejo 100",
		"uber sin monto",
		"compré algo 100",
	}
	outcomes := NewProcessor(p, 2, nil).Process(context.Background(), messages)
	require.Len(t, outcomes, 5)

	rows := make([]ReportRow, len(outcomes))
	for i, o := range outcomes {
		rows[i] = NewReportRow(o)
	}

	assert.Equal(t, StatusClassified, rows[0].Status)
	assert.Equal(t, "Food", rows[0].Category)
	assert.Equal(t, "150.50", rows[0].Amount)
	assert.Equal(t, "Keyword", rows[0].Strategy)

	assert.Equal(t, "income", rows[1].Type)
	assert.Equal(t, "Salary", rows[1].Category)

	assert.Equal(t, StatusRejected, rows[2].Status)
	assert.Equal(t, "moderation_rejected", rows[2].Reason)
	assert.Equal(t, "no_amount_found", rows[3].Reason)
	assert.Equal(t, "no_category_match", rows[4].Reason)

	summary := Summarize(outcomes)
	assert.Equal(t, 5, summary.Stats.Total)
	assert.Equal(t, 2, summary.Stats.Classified)
	assert.Equal(t, 3, summary.Stats.Rejected)
	assert.True(t, decimal.RequireFromString("150.50").Equal(summary.Expense))
	assert.True(t, decimal.NewFromInt(12000).Equal(summary.Income))
	assert.True(t, decimal.RequireFromString("11849.50").Equal(summary.Balance()))
}

func TestNewReportRow_Failed(t *testing.T) {
	row := NewReportRow(Outcome{Line: 3, Message: "x", Err: context.DeadlineExceeded})
	assert.Equal(t, StatusFailed, row.Status)
	assert.Equal(t, "internal_error", row.Reason)
	assert.Empty(t, row.Category)
}

func TestWriteReport(t *testing.T) {
	outcomes := NewProcessor(&echoClassifier{}, 1, nil).Process(context.Background(), []string{"tacos; al pastor", "reject me"})

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, outcomes, ';'))

	reader := csv.NewReader(&buf)
	reader.Comma = ';'
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"line", "message", "status", "type", "amount", "category", "description", "date", "strategy", "reason", "request_id"}, records[0])
	assert.Equal(t, []string{"1", "tacos; al pastor", "classified", "expense", "10.00", "Food", "tacos; al pastor", "2025-03-14T12:30:00", "Keyword", "", "req-tacos; al pastor"}, records[1])
	assert.Equal(t, []string{"2", "reject me", "rejected", "", "", "", "", "", "", "no_category_match", "req-reject me"}, records[2])
}

func TestWriteReportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.csv")
	outcomes := NewProcessor(&echoClassifier{}, 1, nil).Process(context.Background(), []string{"uno", "dos"})
	require.NoError(t, WriteReportFile(path, outcomes, 0))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	var rows []ReportRow
	require.NoError(t, gocsv.UnmarshalFile(file, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "dos", rows[1].Message)
	assert.Equal(t, StatusClassified, rows[1].Status)
}

func TestReadMessages(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		want    []string
	}{
		{
			name:    "text file",
			file:    "messages.txt",
			content: "# gastos de marzo\ngasté 100 en tacos\n\n  uber 85  \n",
			want:    []string{"gasté 100 en tacos", "uber 85"},
		},
		{
			name:    "csv file",
			file:    "messages.csv",
			content: "id,message\n1,gasté 100 en tacos\n2,\n3,\"renta, 5000\"\n",
			want:    []string{"gasté 100 en tacos", "renta, 5000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			got, err := ReadMessages(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ReadMessages(filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, fileutils.ErrFileNotFound)
}

func TestSummary_LogSummary(t *testing.T) {
	logger := logging.NewMockLogger()
	outcomes := NewProcessor(&echoClassifier{}, 1, nil).Process(context.Background(), []string{"a", "reject b"})

	summary := Summarize(outcomes)
	summary.LogSummary(logger)
	summary.LogSummary(nil)

	assert.True(t, logger.HasEntry("INFO", "Classification summary"))
	require.True(t, logger.HasEntry("INFO", "Batch totals"))
	entry := logger.GetEntriesByLevel("INFO")[1]
	balance, ok := entry.FieldValue("balance")
	require.True(t, ok)
	assert.Equal(t, "-10.00", balance)
}
