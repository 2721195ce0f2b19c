package batch

import (
	"encoding/csv"
	"fmt"
	"io"

	"fjacquet/ia-financiera/internal/classifyerror"
	"fjacquet/ia-financiera/internal/currencyutils"
	"fjacquet/ia-financiera/internal/fileutils"
	"fjacquet/ia-financiera/internal/models"

	"github.com/gocarina/gocsv"
)

// Outcome statuses written to the report.
const (
	StatusClassified = "classified"
	StatusRejected   = "rejected"
	StatusFailed     = "failed"
)

// ReportRow is one line of the CSV report.
type ReportRow struct {
	Line        int    `csv:"line"`
	Message     string `csv:"message"`
	Status      string `csv:"status"`
	Type        string `csv:"type"`
	Amount      string `csv:"amount"`
	Category    string `csv:"category"`
	Description string `csv:"description"`
	Date        string `csv:"date"`
	Strategy    string `csv:"strategy"`
	Reason      string `csv:"reason"`
	RequestID   string `csv:"request_id"`
}

// NewReportRow flattens an outcome. Rejections keep their reason code; other
// errors are reported as failed.
func NewReportRow(o Outcome) ReportRow {
	row := ReportRow{
		Line:      o.Line,
		Message:   o.Message,
		RequestID: o.Result.RequestID,
	}

	if o.Err != nil {
		row.Status = StatusFailed
		if classifyerror.IsUserFacing(o.Err) {
			row.Status = StatusRejected
		}
		row.Reason = classifyerror.Reason(o.Err)
		return row
	}

	d := o.Result.Draft
	row.Status = StatusClassified
	row.Type = string(d.Type)
	row.Amount = currencyutils.FormatAmount(d.Amount, "")
	row.Category = d.Category
	row.Description = d.Description
	row.Date = d.Date.Format(models.DateLayout)
	row.Strategy = o.Result.Strategy
	return row
}

// WriteReport writes the outcomes as CSV to w using the given delimiter.
func WriteReport(w io.Writer, outcomes []Outcome, delimiter rune) error {
	rows := make([]ReportRow, len(outcomes))
	for i, o := range outcomes {
		rows[i] = NewReportRow(o)
	}

	csvWriter := csv.NewWriter(w)
	if delimiter != 0 {
		csvWriter.Comma = delimiter
	}
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV report: %w", err)
	}
	return nil
}

// WriteReportFile writes the report to path, creating its directory.
func WriteReportFile(path string, outcomes []Outcome, delimiter rune) error {
	file, err := fileutils.CreateFile(path)
	if err != nil {
		return fmt.Errorf("error creating report file: %w", err)
	}

	if err := WriteReport(file, outcomes, delimiter); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
