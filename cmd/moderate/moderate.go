// Package moderate implements the moderation check command
package moderate

import (
	"encoding/json"
	"fmt"
	"strings"

	"fjacquet/ia-financiera/cmd/root"

	"github.com/spf13/cobra"
)

var message string

// Cmd represents the moderate command
var Cmd = &cobra.Command{
	Use:   "moderate [message]",
	Short: "Run the moderation gate on a message",
	Long: `Run the moderation gate on a message and print the verdict as JSON.

Example:
  ia-financiera moderate -m "pago la renta"`,
	RunE: moderateFunc,
}

func init() {
	Cmd.Flags().StringVarP(&message, "message", "m", "", "Message to check (default: the positional arguments)")
}

func moderateFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	text := message
	if text == "" {
		text = strings.Join(args, " ")
	}

	verdict := c.GetModeration().Check(root.Context(cmd), text)
	out, err := json.MarshalIndent(verdict, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding verdict: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
