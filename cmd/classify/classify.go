// Package classify maps free text to a spending category
package classify

import (
	"fmt"
	"io"

	"fjacquet/finrecon/cmd/common"
	"fjacquet/finrecon/cmd/root"
	"fjacquet/finrecon/internal/categorizer"
	"fjacquet/finrecon/internal/models"

	"github.com/spf13/cobra"
)

var (
	labelOnly bool
	explain   bool
)

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify <text>",
	Short: "Show the category a label or description maps to",
	Long: `Classify runs the same rules used for imports and manual entries:
an exact category name, then the synonym table, then keyword matching on the
description. Text that matches nothing is "other".`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(root.App().GetCategorizer(), common.JoinArgs(args), cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().BoolVar(&labelOnly, "label", false, "Treat the text as a category label only (no keyword matching)")
	Cmd.Flags().BoolVar(&explain, "explain", false, "Print the strategy that matched")
}

func run(c *categorizer.Categorizer, text string, out io.Writer) error {
	if labelOnly {
		tag, ok := c.ClassifyLabel(text)
		if !ok {
			fmt.Fprintln(out, "no match")
			return nil
		}
		fmt.Fprintln(out, tag)
		return nil
	}

	if explain {
		for _, s := range c.Strategies() {
			if tag, ok := s.Match(text); ok {
				fmt.Fprintf(out, "%s (%s)\n", tag, s.Name())
				return nil
			}
		}
		fmt.Fprintf(out, "%s (fallback)\n", models.CategoryOther)
		return nil
	}
	fmt.Fprintln(out, c.Classify(text))
	return nil
}
