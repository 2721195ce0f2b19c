// Package classify implements the single-message classification command
package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fjacquet/ia-financiera/cmd/root"
	"fjacquet/ia-financiera/internal/classifyerror"

	"github.com/spf13/cobra"
)

var (
	message string
	forward bool
	token   string
)

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify [message]",
	Short: "Classify one message into a transaction draft",
	Long: `Classify one natural-language message and print the transaction draft as JSON.

With --forward the draft is also posted to the transactions backend; --token is
sent unchanged as the Authorization header.

Example:
  ia-financiera classify -m "gasté $150.50 en tacos"
  ia-financiera classify "me pagaron 8000 de sueldo" --forward --token "Bearer <jwt>"`,
	RunE: classifyFunc,
}

func init() {
	Cmd.Flags().StringVarP(&message, "message", "m", "", "Message to classify (default: the positional arguments)")
	Cmd.Flags().BoolVar(&forward, "forward", false, "Post the draft to the transactions backend")
	Cmd.Flags().StringVar(&token, "token", "", "Authorization header value used with --forward")
}

func classifyFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	text := message
	if text == "" {
		text = strings.Join(args, " ")
	}
	if forward && strings.TrimSpace(token) == "" {
		return errors.New("--token is required with --forward")
	}

	ctx := root.Context(cmd)
	res, err := c.GetPipeline().ClassifyDetailed(ctx, text)
	if err != nil {
		if classifyerror.IsUserFacing(err) {
			return fmt.Errorf("message rejected (%s): %w", classifyerror.Reason(err), err)
		}
		return err
	}

	out, err := json.MarshalIndent(res.Draft, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding draft: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if forward {
		if err := c.GetForwarder().Forward(ctx, res.Draft, token); err != nil {
			return fmt.Errorf("draft not forwarded: %w", err)
		}
	}
	return nil
}
