// Package summary prints the reconciled financial summary
package summary

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"fjacquet/finrecon/cmd/common"
	"fjacquet/finrecon/cmd/root"
	"fjacquet/finrecon/internal/currencyutils"
	"fjacquet/finrecon/internal/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Reconciler produces the summary for a user.
type Reconciler interface {
	Reconcile(ctx context.Context, userID, fileID string) (*models.ReconciledSummary, error)
}

var (
	fileID   string
	asJSON   bool
	currency string
)

// Cmd represents the summary command
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Show income, spending, investments and goals in one view",
	Long: `Summary queries the dashboard API and the local ledger at the same time
and merges them. Local expenses take precedence for spending totals and
history; the API fills in the rest. A source that is down is reported and
skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return common.Fail(run(cmd.Context(), root.App().GetReconciler(), root.User(), cmd.OutOrStdout()))
	},
}

func init() {
	Cmd.Flags().StringVar(&fileID, "file-id", "", "Restrict remote data to one uploaded file")
	Cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	Cmd.Flags().StringVar(&currency, "currency", "INR", "Currency used to format amounts")
}

func run(ctx context.Context, r Reconciler, userID string, out io.Writer) error {
	s, err := r.Reconcile(ctx, userID, fileID)
	if err != nil {
		return err
	}
	if asJSON {
		return common.PrintJSON(out, s)
	}
	return printText(out, s)
}

func printText(out io.Writer, s *models.ReconciledSummary) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	if s.Profile != nil && s.Profile.Name != "" {
		fmt.Fprintf(w, "Profile\t%s\n", s.Profile.Name)
	}
	fmt.Fprintf(w, "Monthly income\t%s\n", money(s.MonthlyIncome))
	fmt.Fprintf(w, "Spent this month\t%s\n", money(s.TotalExpenses))
	fmt.Fprintf(w, "Invested\t%s\n", money(s.TotalInvestment))
	fmt.Fprintf(w, "Savings\t%s\n", money(s.Savings))
	if s.SavingsRate != nil {
		fmt.Fprintf(w, "Savings rate\t%s%%\n", s.SavingsRate.StringFixed(1))
	}

	if len(s.CategoryTotals) > 0 {
		fmt.Fprintln(w, "\nCATEGORY\tAMOUNT")
		for _, c := range s.CategoryTotals.Sorted() {
			fmt.Fprintf(w, "%s\t%s\n", c.Category, money(&c.Amount))
		}
	}

	if len(s.History) > 0 {
		fmt.Fprintln(w, "\nMONTH\tSPENT")
		for _, p := range s.History {
			fmt.Fprintf(w, "%s\t%s\n", p.Month, money(&p.Total))
		}
	}

	if len(s.Investments) > 0 {
		fmt.Fprintln(w, "\nINVESTMENT\tAMOUNT")
		for _, inv := range s.Investments {
			fmt.Fprintf(w, "%s\t%s\n", inv.Type, money(&inv.Amount))
		}
	}

	if len(s.Goals) > 0 {
		fmt.Fprintln(w, "\nGOAL\tSAVED\tTARGET\tPROGRESS")
		for _, g := range s.Goals {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s%%\n", g.Name, money(&g.Current), money(&g.Target), g.Progress().StringFixed(1))
		}
	}

	if len(s.Sources) > 0 {
		names := make([]string, 0, len(s.Sources))
		for name := range s.Sources {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintln(w, "\nSOURCE\tSTATUS")
		for _, name := range names {
			fmt.Fprintf(w, "%s\t%s\n", name, s.Sources[name])
		}
	}

	return w.Flush()
}

func money(d *decimal.Decimal) string {
	if d == nil {
		return "n/a"
	}
	return currencyutils.FormatAmount(*d, currency)
}
