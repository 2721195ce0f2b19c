// Package batch implements the file classification command
package batch

import (
	"errors"
	"fmt"

	"fjacquet/ia-financiera/cmd/root"
	"fjacquet/ia-financiera/internal/batch"
	"fjacquet/ia-financiera/internal/logging"

	"github.com/spf13/cobra"
)

var (
	inputFile  string
	outputFile string
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Classify a file of messages into a CSV report",
	Long: `Classify every message of an input file and write one CSV report row per message.

The input is either a text file with one message per line (blank lines and
lines starting with # are skipped) or a CSV file with a "message" column.
Messages are classified in parallel; the report keeps the input order. Without
-o the report is written to standard output.

Example:
  ia-financiera batch -i mensajes.txt -o reporte.csv`,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file with one message per line, or a CSV with a message column")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output CSV report (default: stdout)")
}

func batchFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	if inputFile == "" {
		return errors.New("an input file is required (-i)")
	}

	logger := c.GetLogger()
	messages, err := batch.ReadMessages(inputFile)
	if err != nil {
		return err
	}
	logger.Info("Classifying messages",
		logging.Field{Key: logging.FieldInputFile, Value: inputFile},
		logging.Field{Key: logging.FieldCount, Value: len(messages)})

	outcomes := c.GetProcessor().Process(root.Context(cmd), messages)

	delimiter := c.GetConfig().BatchDelimiter()
	if outputFile == "" {
		err = batch.WriteReport(cmd.OutOrStdout(), outcomes, delimiter)
	} else {
		err = batch.WriteReportFile(outputFile, outcomes, delimiter)
	}
	if err != nil {
		return err
	}

	summary := batch.Summarize(outcomes)
	summary.LogSummary(logger)
	if outputFile != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d/%d messages classified, report written to %s\n",
			summary.Stats.Classified, summary.Stats.Total, outputFile)
	}
	return nil
}
