package batch

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/ia-financiera/cmd/root"
	"fjacquet/ia-financiera/internal/config"
	"fjacquet/ia-financiera/internal/container"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupContainer(t *testing.T, delimiter string) {
	t.Helper()
	cfg := &config.Config{
		Log:        config.LogConfig{Level: "error", Format: "text"},
		Remote:     config.RemoteConfig{Provider: "none", TimeoutSeconds: 1, MaxAttempts: 1},
		Moderation: config.ModerationConfig{TimeoutSeconds: 1},
		Categories: config.CategoriesConfig{File: filepath.Join(t.TempDir(), "categories.yaml"), UnknownPolicy: "coerce"},
		Backend:    config.BackendConfig{URL: "http://127.0.0.1:0", TimeoutSeconds: 1},
		Batch:      config.BatchConfig{Workers: 3, Delimiter: delimiter},
	}
	c, err := container.NewContainer(cfg)
	require.NoError(t, err)

	original := root.AppContainer
	root.AppContainer = c
	t.Cleanup(func() { root.AppContainer = original })
}

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mensajes.txt")
	content := "# marzo\ngasté $150.50 en tacos\nuber 85\ngasté en tacos\nme pagaron 8,000 de sueldo\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func setFlags(t *testing.T, in, out string) {
	t.Helper()
	inputFile, outputFile = in, out
	t.Cleanup(func() { inputFile, outputFile = "", "" })
}

func TestBatchCommand_Metadata(t *testing.T) {
	assert.Equal(t, "batch", Cmd.Use)
	assert.Contains(t, Cmd.Short, "CSV report")
	assert.Equal(t, "i", Cmd.Flags().Lookup("input").Shorthand)
	assert.Equal(t, "o", Cmd.Flags().Lookup("output").Shorthand)
}

func TestBatchCommand_Stdout(t *testing.T) {
	setupContainer(t, ";")
	setFlags(t, writeInput(t), "")

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, batchFunc(cmd, nil))

	reader := csv.NewReader(&out)
	reader.Comma = ';'
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.Equal(t, "status", records[0][2])
	assert.Equal(t, []string{"classified", "Food"}, []string{records[1][2], records[1][5]})
	assert.Equal(t, []string{"classified", "Transport"}, []string{records[2][2], records[2][5]})
	assert.Equal(t, []string{"rejected", "no_amount_found"}, []string{records[3][2], records[3][9]})
	assert.Equal(t, []string{"income", "Salary", "8000.00"}, []string{records[4][3], records[4][5], records[4][4]})
}

func TestBatchCommand_OutputFile(t *testing.T) {
	setupContainer(t, ",")
	output := filepath.Join(t.TempDir(), "reporte.csv")
	setFlags(t, writeInput(t), output)

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, batchFunc(cmd, nil))

	assert.Contains(t, out.String(), "3/4 messages classified")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 5)
}

func TestBatchCommand_Errors(t *testing.T) {
	setupContainer(t, ",")

	setFlags(t, "", "")
	assert.Error(t, batchFunc(&cobra.Command{}, nil))

	setFlags(t, filepath.Join(t.TempDir(), "missing.txt"), "")
	assert.Error(t, batchFunc(&cobra.Command{}, nil))
}
