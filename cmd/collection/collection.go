// Package collection manages budgets, goals and subscriptions, and gives raw
// access to any of the user's collections
package collection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"fjacquet/finrecon/cmd/common"
	"fjacquet/finrecon/cmd/root"
	"fjacquet/finrecon/internal/finerror"
	"fjacquet/finrecon/internal/ledger"
	"fjacquet/finrecon/internal/models"
	"fjacquet/finrecon/internal/store"

	"github.com/spf13/cobra"
)

// Cmd represents the collection command
var Cmd = &cobra.Command{
	Use:   "collection",
	Short: "List, add or delete documents of a collection",
	Long: `Collections: expenses, budgets, goals, subscriptions.

  finrecon collection add budgets '{"name":"Food","amount":"8000"}'
  finrecon collection list budgets
  finrecon collection delete budgets <id>`,
}

var listCmd = &cobra.Command{
	Use:   "list <name>",
	Short: "Print every document of a collection as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return common.Fail(runList(cmd.Context(), root.App().GetLedger(), root.User(), args[0], cmd.OutOrStdout()))
	},
}

var addCmd = &cobra.Command{
	Use:   "add <name> <json>",
	Short: "Add a budget, goal or subscription from a JSON object",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return common.Fail(runAdd(cmd.Context(), root.App().GetLedger(), root.User(), args[0], []byte(args[1]), cmd.OutOrStdout()))
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <name> <id>",
	Short: "Delete one document of a collection",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return common.Fail(runDelete(cmd.Context(), root.App().GetLedger(), root.User(), args[0], args[1], cmd.OutOrStdout()))
	},
}

func init() {
	Cmd.AddCommand(listCmd, addCmd, deleteCmd)
}

type listedDocument struct {
	ID        string         `json:"id"`
	CreatedAt string         `json:"createdAt"`
	Fields    map[string]any `json:"fields"`
}

func runList(ctx context.Context, l *ledger.Ledger, userID, name string, out io.Writer) error {
	if err := store.ValidateCollection(name); err != nil {
		return err
	}
	docs, err := l.ListDocuments(ctx, userID, name)
	if err != nil {
		return err
	}

	listed := make([]listedDocument, 0, len(docs))
	for _, d := range docs {
		listed = append(listed, listedDocument{
			ID:        d.ID,
			CreatedAt: d.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			Fields:    d.Fields,
		})
	}
	return common.PrintJSON(out, listed)
}

func runAdd(ctx context.Context, l *ledger.Ledger, userID, name string, raw []byte, out io.Writer) error {
	var id string
	switch name {
	case store.CollectionBudgets:
		var b models.Budget
		if err := decodeStrict(raw, &b); err != nil {
			return err
		}
		saved, err := l.AddBudget(ctx, userID, b)
		if err != nil {
			return err
		}
		id = saved.ID
	case store.CollectionGoals:
		var g models.Goal
		if err := decodeStrict(raw, &g); err != nil {
			return err
		}
		goalID, err := l.AddGoal(ctx, userID, g)
		if err != nil {
			return err
		}
		id = goalID
	case store.CollectionSubscriptions:
		var s models.Subscription
		if err := decodeStrict(raw, &s); err != nil {
			return err
		}
		saved, err := l.AddSubscription(ctx, userID, s)
		if err != nil {
			return err
		}
		id = saved.ID
	case store.CollectionExpenses:
		return &finerror.ValidationError{Field: "collection", Value: name, Reason: "use 'expense add' or 'import' for expenses"}
	default:
		return store.ValidateCollection(name)
	}

	fmt.Fprintf(out, "Added %s to %s\n", id, name)
	return nil
}

func runDelete(ctx context.Context, l *ledger.Ledger, userID, name, id string, out io.Writer) error {
	if err := l.DeleteDocument(ctx, userID, name, id); err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted %s from %s\n", id, name)
	return nil
}

func decodeStrict(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &finerror.ValidationError{Field: "document", Value: string(raw), Reason: err.Error()}
	}
	return nil
}
