// Package expense handles manual expense entry, listing and deletion
package expense

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"fjacquet/finrecon/cmd/common"
	"fjacquet/finrecon/cmd/root"
	"fjacquet/finrecon/internal/currencyutils"
	"fjacquet/finrecon/internal/finerror"
	"fjacquet/finrecon/internal/ledger"

	"github.com/spf13/cobra"
)

var (
	description string
	amount      string
	category    string
	date        string
	asJSON      bool
)

// Cmd represents the expense command
var Cmd = &cobra.Command{
	Use:   "expense",
	Short: "Add, list or delete expenses",
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an expense by hand",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := manualEntry()
		if err != nil {
			return common.Fail(err)
		}
		return common.Fail(runAdd(cmd.Context(), root.App().GetLedger(), root.User(), entry, cmd.OutOrStdout()))
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return common.Fail(runList(cmd.Context(), root.App().GetLedger(), root.User(), cmd.OutOrStdout()))
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one expense",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return common.Fail(runDelete(cmd.Context(), root.App().GetLedger(), root.User(), args[0], cmd.OutOrStdout()))
	},
}

func init() {
	addCmd.Flags().StringVarP(&description, "description", "d", "", "What the money was spent on")
	addCmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount spent, e.g. 250 or ₹1,200.50")
	addCmd.Flags().StringVarP(&category, "category", "c", "", "Category tag (default: other)")
	addCmd.Flags().StringVarP(&date, "date", "t", "", "Date as YYYY-MM-DD (default: today)")
	_ = addCmd.MarkFlagRequired("description")
	_ = addCmd.MarkFlagRequired("amount")

	listCmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	Cmd.AddCommand(addCmd, listCmd, deleteCmd)
}

func manualEntry() (ledger.ManualEntry, error) {
	value, err := currencyutils.ParseAmount(amount)
	if err != nil {
		return ledger.ManualEntry{}, &finerror.ValidationError{Field: "amount", Value: amount, Reason: "not a number"}
	}
	return ledger.ManualEntry{
		Description: description,
		Amount:      value,
		Category:    category,
		Date:        date,
	}, nil
}

func runAdd(ctx context.Context, l *ledger.Ledger, userID string, entry ledger.ManualEntry, out io.Writer) error {
	rec, err := l.AddExpense(ctx, userID, entry)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Added %s %s (%s) on %s: %s\n",
		rec.ID, currencyutils.FormatAmount(rec.Amount, "INR"), rec.Category, rec.Date, rec.Description)
	return nil
}

func runList(ctx context.Context, l *ledger.Ledger, userID string, out io.Writer) error {
	records, err := l.ListExpenses(ctx, userID)
	if err != nil {
		return err
	}
	if asJSON {
		return common.PrintJSON(out, records)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No expenses.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			rec.ID, rec.Date, rec.Category, rec.Amount.StringFixed(2), rec.Description)
	}
	return w.Flush()
}

func runDelete(ctx context.Context, l *ledger.Ledger, userID, id string, out io.Writer) error {
	if err := l.DeleteExpense(ctx, userID, id); err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted %s\n", id)
	return nil
}
