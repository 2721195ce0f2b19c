package batch

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"

	"fjacquet/ia-financiera/internal/fileutils"

	"github.com/gocarina/gocsv"
)

// MessageRow is one row of a CSV input file. Only the message column is read.
type MessageRow struct {
	Message string `csv:"message"`
}

// ReadMessages reads the messages to classify from path. Files ending in .csv
// are read through their "message" column; any other file holds one message per
// line, where blank lines and lines starting with '#' are skipped.
func ReadMessages(path string) ([]string, error) {
	file, err := fileutils.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening input file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		var rows []MessageRow
		if err := gocsv.UnmarshalFile(file, &rows); err != nil {
			return nil, fmt.Errorf("error parsing CSV input: %w", err)
		}
		messages := make([]string, 0, len(rows))
		for _, row := range rows {
			if msg := strings.TrimSpace(row.Message); msg != "" {
				messages = append(messages, msg)
			}
		}
		return messages, nil
	}

	var messages []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		messages = append(messages, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input file: %w", err)
	}
	return messages, nil
}
