package summary

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"fjacquet/finrecon/internal/finerror"
	"fjacquet/finrecon/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReconciler struct {
	mock.Mock
}

func (m *mockReconciler) Reconcile(ctx context.Context, userID, fileID string) (*models.ReconciledSummary, error) {
	args := m.Called(ctx, userID, fileID)
	s, _ := args.Get(0).(*models.ReconciledSummary)
	return s, args.Error(1)
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func sampleSummary() *models.ReconciledSummary {
	return &models.ReconciledSummary{
		Profile:         &models.Profile{Name: "Asha"},
		MonthlyIncome:   dec("50000"),
		TotalExpenses:   dec("12000"),
		TotalInvestment: dec("8000"),
		Savings:         dec("38000"),
		SavingsRate:     dec("76"),
		CategoryTotals: models.CategoryTotals{
			models.CategoryFood:   decimal.NewFromInt(4000),
			models.CategoryTravel: decimal.NewFromInt(8000),
		},
		History: []models.MonthlyHistoryPoint{{Month: "Apr", Total: decimal.NewFromInt(12000)}},
		Goals: []models.Goal{{Name: "Bike", Target: decimal.NewFromInt(100000), Current: decimal.NewFromInt(25000)}},
		Sources: map[string]models.SourceStatus{
			"summary":   models.SourceOK,
			"analytics": models.SourceTimeout,
		},
	}
}

func TestSummaryCommand_Flags(t *testing.T) {
	assert.Equal(t, "summary", Cmd.Use)
	assert.NotNil(t, Cmd.Flags().Lookup("file-id"))
	assert.NotNil(t, Cmd.Flags().Lookup("json"))
	assert.Equal(t, "INR", Cmd.Flags().Lookup("currency").DefValue)
}

func TestRun_Text(t *testing.T) {
	m := &mockReconciler{}
	m.On("Reconcile", mock.Anything, "u1", "").Return(sampleSummary(), nil)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), m, "u1", &out))
	m.AssertExpectations(t)

	text := out.String()
	assert.Contains(t, text, "Asha")
	assert.Contains(t, text, "₹50000.00")
	assert.Contains(t, text, "76.0%")
	assert.Contains(t, text, "25.0%")
	assert.Contains(t, text, "timeout")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("travel")), bytes.Index(out.Bytes(), []byte("food")),
		"categories are listed by descending amount")
}

func TestRun_MissingValuesAndFileID(t *testing.T) {
	fileID = "f-42"
	defer func() { fileID = "" }()

	m := &mockReconciler{}
	m.On("Reconcile", mock.Anything, "u1", "f-42").Return(&models.ReconciledSummary{}, nil)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), m, "u1", &out))
	m.AssertExpectations(t)
	assert.Regexp(t, `Monthly income\s+n/a`, out.String())
	assert.NotContains(t, out.String(), "Savings rate")
}

func TestRun_JSON(t *testing.T) {
	asJSON = true
	defer func() { asJSON = false }()

	m := &mockReconciler{}
	m.On("Reconcile", mock.Anything, "u1", "").Return(sampleSummary(), nil)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), m, "u1", &out))
	assert.Contains(t, out.String(), `"monthlyIncome": "50000"`)
	assert.Contains(t, out.String(), `"analytics": "timeout"`)
}

func TestRun_Error(t *testing.T) {
	want := &finerror.SourceUnavailableError{Source: "summary", Err: errors.New("connection refused")}
	m := &mockReconciler{}
	m.On("Reconcile", mock.Anything, "u1", "").Return(nil, want)

	err := run(context.Background(), m, "u1", &bytes.Buffer{})
	assert.ErrorIs(t, err, want)
}
