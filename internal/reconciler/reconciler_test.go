package reconciler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"fjacquet/finrecon/internal/categorizer"
	"fjacquet/finrecon/internal/finerror"
	"fjacquet/finrecon/internal/logging"
	"fjacquet/finrecon/internal/models"
	"fjacquet/finrecon/internal/remote"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertTotals(t *testing.T, want map[models.CategoryTag]int64, got models.CategoryTotals) {
	t.Helper()
	require.Len(t, got, len(want))
	for tag, amount := range want {
		assert.True(t, dec(amount).Equal(got[tag]), "%s: got %s", tag, got[tag])
	}
}

func decPtr(v int64) *decimal.Decimal {
	d := dec(v)
	return &d
}

// fakeRemote answers from fixed payloads; a non-nil error or a delay can be
// set per endpoint.
type fakeRemote struct {
	summary     *models.SummaryPayload
	expenses    *models.ExpensesPayload
	investments *models.InvestmentsPayload
	goals       *models.GoalsPayload
	history     *models.HistoryPayload
	analytics   *models.AnalyticsPayload

	errs   map[string]error
	delays map[string]time.Duration
	calls  atomic.Int32
}

func respond[T any](ctx context.Context, f *fakeRemote, endpoint string, v T) (T, error) {
	f.calls.Add(1)
	var zero T
	if d := f.delays[endpoint]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return zero, &remote.TransportError{Endpoint: endpoint, Err: ctx.Err()}
		}
	}
	if err := f.errs[endpoint]; err != nil {
		return zero, err
	}
	return v, nil
}

func (f *fakeRemote) Summary(ctx context.Context, _, _ string) (*models.SummaryPayload, error) {
	return respond(ctx, f, remote.EndpointSummary, f.summary)
}
func (f *fakeRemote) Expenses(ctx context.Context, _, _ string) (*models.ExpensesPayload, error) {
	return respond(ctx, f, remote.EndpointExpenses, f.expenses)
}
func (f *fakeRemote) Investments(ctx context.Context, _, _ string) (*models.InvestmentsPayload, error) {
	return respond(ctx, f, remote.EndpointInvestments, f.investments)
}
func (f *fakeRemote) Goals(ctx context.Context, _, _ string) (*models.GoalsPayload, error) {
	return respond(ctx, f, remote.EndpointGoals, f.goals)
}
func (f *fakeRemote) History(ctx context.Context, _, _ string) (*models.HistoryPayload, error) {
	return respond(ctx, f, remote.EndpointHistory, f.history)
}
func (f *fakeRemote) Analytics(ctx context.Context, _, _ string) (*models.AnalyticsPayload, error) {
	return respond(ctx, f, remote.EndpointAnalytics, f.analytics)
}

type fakeLedger struct {
	records []models.TransactionRecord
	err     error
}

func (f fakeLedger) ListExpenses(context.Context, string) ([]models.TransactionRecord, error) {
	return f.records, f.err
}

var now = time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)

func fullRemote() *fakeRemote {
	analytics := &models.AnalyticsPayload{Analytics: []byte(`{"insight":"spend less"}`)}
	analytics.Summary.Expenses = map[string]decimal.Decimal{"Groceries": dec(999)}
	return &fakeRemote{
		summary: &models.SummaryPayload{
			Profile:         &models.Profile{Name: "Asha", MonthlyIncome: decPtr(50000)},
			TotalInvestment: decPtr(120000),
			TotalExpenses:   decPtr(7000),
		},
		expenses: &models.ExpensesPayload{
			Expenses: []models.RemoteExpense{{Category: "Food", Amount: models.Amount(dec(2000))}, {Category: "Transport", Amount: models.Amount(dec(300))}},
			Summary:  map[string]decimal.Decimal{"food": dec(2000), "transport": dec(300)},
		},
		investments: &models.InvestmentsPayload{Investments: []models.Investment{{Type: "MF", Amount: dec(100000)}}},
		goals:       &models.GoalsPayload{Goals: []models.Goal{{Name: "Car", Target: dec(500000), Current: dec(50000)}}},
		history:     &models.HistoryPayload{History: []models.RemoteHistoryPoint{{Month: "Jan", Expense: dec(4000)}, {Month: "Feb", Expense: dec(5000)}}},
		analytics:   analytics,
	}
}

func newTestReconciler(r Remote, l LedgerReader, timeouts Timeouts) (*Reconciler, *logging.MockLogger) {
	logger := logging.NewMockLogger()
	rec := NewReconciler(r, l, categorizer.NewCategorizer(logger), timeouts, logger)
	rec.Now = func() time.Time { return now }
	return rec, logger
}

func localFood500() fakeLedger {
	return fakeLedger{records: []models.TransactionRecord{
		{Description: "Swiggy", Amount: dec(500), Category: models.CategoryFood, Date: "2024-03-02"},
	}}
}

func TestReconcile_LocalWins(t *testing.T) {
	rec, _ := newTestReconciler(fullRemote(), localFood500(), Timeouts{})

	sum, err := rec.Reconcile(context.Background(), "u1", "")
	require.NoError(t, err)

	assertTotals(t, map[models.CategoryTag]int64{models.CategoryFood: 500}, sum.CategoryTotals)
	require.NotNil(t, sum.TotalExpenses)
	assert.True(t, dec(500).Equal(*sum.TotalExpenses))
	require.Len(t, sum.History, 1)
	assert.Equal(t, "Mar", sum.History[0].Month)

	assert.True(t, dec(50000).Equal(*sum.MonthlyIncome))
	assert.True(t, dec(120000).Equal(*sum.TotalInvestment))
	assert.True(t, dec(49500).Equal(*sum.Savings))
	assert.Equal(t, "99", sum.SavingsRate.String())
	assert.Len(t, sum.Investments, 1)
	assert.Len(t, sum.Goals, 1)
	assert.JSONEq(t, `{"insight":"spend less"}`, string(sum.Analytics))

	for source, st := range sum.Sources {
		assert.Equal(t, models.SourceOK, st, source)
	}
	assert.Len(t, sum.Sources, 7)
}

func TestReconcile_RemoteFallbackWhenLocalEmpty(t *testing.T) {
	rec, _ := newTestReconciler(fullRemote(), fakeLedger{}, Timeouts{})

	sum, err := rec.Reconcile(context.Background(), "u1", "file-1")
	require.NoError(t, err)

	assertTotals(t, map[models.CategoryTag]int64{models.CategoryFood: 2000, models.CategoryTravel: 300}, sum.CategoryTotals)
	assert.True(t, dec(2300).Equal(*sum.TotalExpenses), "sum of itemised remote expenses")
	require.Len(t, sum.History, 2)
	assert.Equal(t, models.MonthlyHistoryPoint{Month: "Jan", Total: dec(4000)}, sum.History[0])
}

func TestReconcile_RemoteCategoryFallbacks(t *testing.T) {
	r := fullRemote()
	r.errs = map[string]error{remote.EndpointExpenses: &remote.StatusError{Endpoint: "expenses", Code: 502}}

	rec, _ := newTestReconciler(r, fakeLedger{}, Timeouts{})
	sum, err := rec.Reconcile(context.Background(), "u1", "")
	require.NoError(t, err)

	// analytics summary, labels mapped through the classifier
	assertTotals(t, map[models.CategoryTag]int64{models.CategoryFood: 999}, sum.CategoryTotals)
	// summary figure when the itemised list is unavailable
	assert.True(t, dec(7000).Equal(*sum.TotalExpenses))
	assert.Equal(t, models.SourceFailed, sum.Sources[remote.EndpointExpenses])
}

func TestReconcile_CollidingRemoteLabelsAreSummed(t *testing.T) {
	r := fullRemote()
	r.expenses.Summary = map[string]decimal.Decimal{"Dining": dec(100), "groceries": dec(50), "Swiggy": dec(25), "???": dec(5)}

	rec, _ := newTestReconciler(r, fakeLedger{}, Timeouts{})
	sum, err := rec.Reconcile(context.Background(), "u1", "")
	require.NoError(t, err)
	assertTotals(t, map[models.CategoryTag]int64{models.CategoryFood: 175, models.CategoryOther: 5}, sum.CategoryTotals)
}

func TestReconcile_AnalyticsTimeoutDegradesGracefully(t *testing.T) {
	r := fullRemote()
	r.delays = map[string]time.Duration{remote.EndpointAnalytics: time.Second}

	rec, logger := newTestReconciler(r, localFood500(), Timeouts{Default: 500 * time.Millisecond, Analytics: 50 * time.Millisecond})

	start := time.Now()
	sum, err := rec.Reconcile(context.Background(), "u1", "")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 900*time.Millisecond)

	assert.Nil(t, sum.Analytics)
	assert.Equal(t, models.SourceTimeout, sum.Sources[remote.EndpointAnalytics])
	assert.Equal(t, models.SourceOK, sum.Sources[remote.EndpointSummary])
	assert.Len(t, sum.Goals, 1)
	assert.True(t, dec(500).Equal(sum.CategoryTotals[models.CategoryFood]))

	warns := logger.EntriesByLevel("WARN")
	require.Len(t, warns, 1)
	src, _ := warns[0].FieldValue(logging.FieldSource)
	assert.Equal(t, remote.EndpointAnalytics, src)
	var sue *finerror.SourceUnavailableError
	assert.ErrorAs(t, warns[0].Error, &sue)
}

func TestReconcile_TimeoutsAreIndependent(t *testing.T) {
	r := fullRemote()
	r.delays = map[string]time.Duration{remote.EndpointAnalytics: 100 * time.Millisecond}

	// analytics is slower than the default deadline but within its own
	rec, _ := newTestReconciler(r, localFood500(), Timeouts{Default: 30 * time.Millisecond, Analytics: time.Second})
	sum, err := rec.Reconcile(context.Background(), "u1", "")
	require.NoError(t, err)
	assert.Equal(t, models.SourceOK, sum.Sources[remote.EndpointAnalytics])
	assert.NotNil(t, sum.Analytics)
}

func TestReconcile_SummaryTransportFailureIsFatal(t *testing.T) {
	r := fullRemote()
	r.errs = map[string]error{remote.EndpointSummary: &remote.TransportError{Endpoint: "summary", Err: errors.New("connection refused")}}

	rec, _ := newTestReconciler(r, localFood500(), Timeouts{})
	sum, err := rec.Reconcile(context.Background(), "u1", "")
	assert.Nil(t, sum)

	var sue *finerror.SourceUnavailableError
	require.ErrorAs(t, err, &sue)
	assert.Equal(t, remote.EndpointSummary, sue.Source)
	assert.Contains(t, err.Error(), "connection refused")
	// every source still ran to completion
	assert.Equal(t, int32(6), r.calls.Load())
}

func TestReconcile_SummaryHTTPErrorIsNotFatal(t *testing.T) {
	r := fullRemote()
	r.errs = map[string]error{remote.EndpointSummary: &remote.StatusError{Endpoint: "summary", Code: 500, Body: "oops"}}

	rec, _ := newTestReconciler(r, localFood500(), Timeouts{})
	sum, err := rec.Reconcile(context.Background(), "u1", "")
	require.NoError(t, err)
	assert.Nil(t, sum.Profile)
	assert.Nil(t, sum.MonthlyIncome)
	assert.Nil(t, sum.Savings)
	assert.Equal(t, models.SourceFailed, sum.Sources[remote.EndpointSummary])
}

func TestReconcile_AllSourcesFailed(t *testing.T) {
	fail := &remote.StatusError{Code: 503}
	r := &fakeRemote{errs: map[string]error{
		remote.EndpointSummary: fail, remote.EndpointExpenses: fail, remote.EndpointInvestments: fail,
		remote.EndpointGoals: fail, remote.EndpointHistory: fail, remote.EndpointAnalytics: fail,
	}}

	rec, _ := newTestReconciler(r, fakeLedger{err: errors.New("store offline")}, Timeouts{})
	_, err := rec.Reconcile(context.Background(), "u1", "")

	var all *finerror.AllSourcesError
	require.ErrorAs(t, err, &all)
	assert.Len(t, all.Failures, 7)
	var sue *finerror.SourceUnavailableError
	assert.ErrorAs(t, err, &sue)
}

func TestReconcile_LocalFailureFallsBackToRemote(t *testing.T) {
	rec, _ := newTestReconciler(fullRemote(), fakeLedger{err: errors.New("locked")}, Timeouts{})
	sum, err := rec.Reconcile(context.Background(), "u1", "")
	require.NoError(t, err)
	assert.Equal(t, models.SourceFailed, sum.Sources[SourceLocal])
	assert.True(t, dec(2300).Equal(*sum.TotalExpenses))
}

func TestReconcile_RequiresUser(t *testing.T) {
	rec, _ := newTestReconciler(fullRemote(), fakeLedger{}, Timeouts{})
	_, err := rec.Reconcile(context.Background(), " ", "")
	var verr *finerror.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestReconcile_WithHTTPClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/dashboard/summary", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"profile":{"monthly_income":40000},"total_expenses":1000}`)
	})
	mux.HandleFunc("/dashboard/analytics", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := remote.NewClient(srv.URL, srv.Client(), logging.NewMockLogger())
	rec, _ := newTestReconciler(client, fakeLedger{}, Timeouts{Default: time.Second, Analytics: 50 * time.Millisecond})

	sum, err := rec.Reconcile(context.Background(), "u1", "")
	require.NoError(t, err)
	assert.True(t, dec(1000).Equal(*sum.TotalExpenses))
	assert.True(t, dec(39000).Equal(*sum.Savings))
	assert.Equal(t, "97.5", sum.SavingsRate.String())
	assert.Equal(t, models.SourceTimeout, sum.Sources[remote.EndpointAnalytics])
	assert.Equal(t, models.SourceFailed, sum.Sources[remote.EndpointGoals])
}

func TestReconcile_SummaryBodyStallIsNotFatal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/dashboard/summary", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"profile":`)
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	mux.HandleFunc("/dashboard/expenses", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"expenses":[{"date":"2024-03-01","category":"food","amount":700}],"summary":{"food":700}}`)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := remote.NewClient(srv.URL, srv.Client(), logging.NewMockLogger())
	rec, _ := newTestReconciler(client, fakeLedger{}, Timeouts{Default: 100 * time.Millisecond, Analytics: time.Second})

	sum, err := rec.Reconcile(context.Background(), "u1", "")
	require.NoError(t, err)
	assert.NotEqual(t, models.SourceOK, sum.Sources[remote.EndpointSummary])
	assert.Nil(t, sum.Profile)
	assert.Nil(t, sum.MonthlyIncome)
	require.NotNil(t, sum.TotalExpenses)
	assert.True(t, dec(700).Equal(*sum.TotalExpenses))
	assertTotals(t, map[models.CategoryTag]int64{models.CategoryFood: 700}, sum.CategoryTotals)
}

func TestReconcile_MalformedRemoteAmountKeepsOtherExpenses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/dashboard/expenses" {
			_, _ = io.WriteString(w, `{"expenses":[{"category":"Food","amount":300},{"category":"Travel","amount":""},{"category":"Food","amount":"200"}]}`)
			return
		}
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	client := remote.NewClient(srv.URL, srv.Client(), logging.NewMockLogger())
	rec, _ := newTestReconciler(client, fakeLedger{}, Timeouts{Default: time.Second, Analytics: time.Second})

	sum, err := rec.Reconcile(context.Background(), "u1", "")
	require.NoError(t, err)
	assert.Equal(t, models.SourceOK, sum.Sources[remote.EndpointExpenses])
	require.NotNil(t, sum.TotalExpenses)
	assert.True(t, dec(500).Equal(*sum.TotalExpenses))
}
