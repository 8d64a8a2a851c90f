package expense

import (
	"bytes"
	"context"
	"testing"
	"time"

	"fjacquet/finrecon/internal/finerror"
	"fjacquet/finrecon/internal/ledger"
	"fjacquet/finrecon/internal/logging"
	"fjacquet/finrecon/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedger() *ledger.Ledger {
	l := ledger.NewLedger(store.NewMemoryStore(), logging.NewMockLogger())
	l.Now = func() time.Time { return time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC) }
	return l
}

func TestExpenseCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range Cmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["add"])
	assert.True(t, names["list"])
	assert.True(t, names["delete"])

	for _, flag := range []string{"description", "amount", "category", "date"} {
		assert.NotNil(t, addCmd.Flags().Lookup(flag), flag)
	}
	assert.Equal(t, "d", addCmd.Flags().Lookup("description").Shorthand)
}

func TestManualEntry(t *testing.T) {
	description, amount, category, date = "Lunch", "₹1,250.50", "Food", ""
	defer func() { description, amount, category, date = "", "", "", "" }()

	entry, err := manualEntry()
	require.NoError(t, err)
	assert.True(t, entry.Amount.Equal(decimal.RequireFromString("1250.50")))
	assert.Equal(t, "Food", entry.Category)

	amount = "lots"
	_, err = manualEntry()
	var verr *finerror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "amount", verr.Field)
}

func TestAddListDelete(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	var out bytes.Buffer
	require.NoError(t, runAdd(ctx, l, "u1", ledger.ManualEntry{
		Description: "Metro card",
		Amount:      decimal.NewFromInt(300),
		Category:    "travel",
	}, &out))
	assert.Contains(t, out.String(), "₹300.00 (travel) on 2024-05-10: Metro card")

	out.Reset()
	require.NoError(t, runList(ctx, l, "u1", &out))
	assert.Contains(t, out.String(), "CATEGORY")
	assert.Contains(t, out.String(), "Metro card")

	records, err := l.ListExpenses(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)

	out.Reset()
	require.NoError(t, runDelete(ctx, l, "u1", records[0].ID, &out))
	assert.Contains(t, out.String(), "Deleted "+records[0].ID)

	out.Reset()
	require.NoError(t, runList(ctx, l, "u1", &out))
	assert.Equal(t, "No expenses.\n", out.String())

	err = runDelete(ctx, l, "u1", records[0].ID, &out)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestList_JSON(t *testing.T) {
	ctx := context.Background()
	l := newLedger()
	_, err := l.AddExpense(ctx, "u1", ledger.ManualEntry{Description: "Gym", Amount: decimal.NewFromInt(900), Category: "health"})
	require.NoError(t, err)

	asJSON = true
	defer func() { asJSON = false }()

	var out bytes.Buffer
	require.NoError(t, runList(ctx, l, "u1", &out))
	assert.Contains(t, out.String(), `"category": "health"`)
	assert.Contains(t, out.String(), `"isImported": false`)
}

func TestAdd_RejectsUnknownCategory(t *testing.T) {
	err := runAdd(context.Background(), newLedger(), "u1", ledger.ManualEntry{
		Description: "Rent",
		Amount:      decimal.NewFromInt(10000),
		Category:    "housing",
	}, &bytes.Buffer{})
	var verr *finerror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "category", verr.Field)
}
