// Package categories implements the vocabulary listing command
package categories

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"fjacquet/ia-financiera/cmd/root"
	"fjacquet/ia-financiera/internal/store"

	"github.com/spf13/cobra"
)

var exportFile string

// Cmd represents the categories command
var Cmd = &cobra.Command{
	Use:   "categories",
	Short: "List the active category vocabulary",
	Long: `List the active category vocabulary with its keywords and aliases.

With --export the vocabulary is written as a categories YAML file that can be
edited and used as categories.file.

Example:
  ia-financiera categories
  ia-financiera categories --export config/categories.yaml`,
	RunE: categoriesFunc,
}

func init() {
	Cmd.Flags().StringVar(&exportFile, "export", "", "Write the vocabulary to this YAML file")
}

func categoriesFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	categories := c.GetVocabulary().Snapshot().Categories()

	if exportFile != "" {
		return store.NewCategoryStore(exportFile, c.GetLogger()).SaveCategories(categories)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CATEGORY\tKEYWORDS\tALIASES")
	for _, category := range categories {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", category.Name,
			strings.Join(category.Keywords, ", "), strings.Join(category.Aliases, ", "))
	}
	return w.Flush()
}
