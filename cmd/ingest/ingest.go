// Package ingest handles the bulk spreadsheet import command
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"

	"fjacquet/finrecon/cmd/common"
	"fjacquet/finrecon/cmd/root"
	"fjacquet/finrecon/internal/importer"
	"fjacquet/finrecon/internal/logging"

	"github.com/spf13/cobra"
)

// FileImporter imports one spreadsheet for a user.
type FileImporter interface {
	ImportFile(ctx context.Context, userID, filename string, r io.Reader) (importer.Result, error)
}

var asJSON bool

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import expenses from a CSV or Excel file",
	Long: `Import every valid row of a .csv, .xlsx or .xls statement as expenses.
Rows without a positive amount are skipped. The file needs a date and an
amount column plus a category or description column; headers are matched
case-insensitively (Narration, Details, Withdrawal, Debit ... are accepted).
All rows are saved together or not at all.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return common.Fail(run(cmd.Context(), root.App().GetImporter(), root.User(), args[0], cmd.OutOrStdout()))
	},
}

func init() {
	Cmd.Flags().BoolVar(&asJSON, "json", false, "Print the imported records as JSON")
}

func run(ctx context.Context, imp FileImporter, userID, path string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	res, err := imp.ImportFile(ctx, userID, path, f)
	if err != nil {
		return err
	}

	root.Log.Debug("Import command finished",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, res.ImportedCount))

	if asJSON {
		return common.PrintJSON(out, res.Records)
	}

	fmt.Fprintf(out, "Imported %d expenses from %s", res.ImportedCount, path)
	if res.Rejected > 0 {
		fmt.Fprintf(out, " (%d rows skipped)", res.Rejected)
	}
	fmt.Fprintln(out)
	return nil
}
