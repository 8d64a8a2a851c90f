// Package ask forwards a question to the remote assistant
package ask

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"fjacquet/finrecon/cmd/common"
	"fjacquet/finrecon/cmd/root"

	"github.com/spf13/cobra"
)

// Asker sends a question for a user.
type Asker interface {
	Ask(ctx context.Context, query, userID string) (json.RawMessage, error)
}

// Cmd represents the ask command
var Cmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Ask the assistant a question about your finances",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return common.Fail(run(cmd.Context(), root.App().GetRemote(), root.User(), common.JoinArgs(args), cmd.OutOrStdout()))
	},
}

func run(ctx context.Context, a Asker, userID, query string, out io.Writer) error {
	answer, err := a.Ask(ctx, query, userID)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, answer, "", "  "); err != nil {
		_, err = out.Write(answer)
		return err
	}
	fmt.Fprintln(out, buf.String())
	return nil
}
