// Package reconciler builds one financial summary from the remote dashboard
// API and the local ledger, tolerating the failure of any single source.
package reconciler

import (
	"context"
	"errors"
	"strings"
	"time"

	"fjacquet/finrecon/internal/aggregator"
	"fjacquet/finrecon/internal/currencyutils"
	"fjacquet/finrecon/internal/finerror"
	"fjacquet/finrecon/internal/logging"
	"fjacquet/finrecon/internal/models"
	"fjacquet/finrecon/internal/remote"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// SourceLocal names the local ledger in Sources and in errors.
const SourceLocal = "local"

// Default per-source deadlines.
const (
	DefaultTimeout          = 10 * time.Second
	DefaultAnalyticsTimeout = 15 * time.Second
)

// Remote is the dashboard API.
type Remote interface {
	Summary(ctx context.Context, userID, fileID string) (*models.SummaryPayload, error)
	Expenses(ctx context.Context, userID, fileID string) (*models.ExpensesPayload, error)
	Investments(ctx context.Context, userID, fileID string) (*models.InvestmentsPayload, error)
	Goals(ctx context.Context, userID, fileID string) (*models.GoalsPayload, error)
	History(ctx context.Context, userID, fileID string) (*models.HistoryPayload, error)
	Analytics(ctx context.Context, userID, fileID string) (*models.AnalyticsPayload, error)
}

// LedgerReader lists a user's local expenses.
type LedgerReader interface {
	ListExpenses(ctx context.Context, userID string) ([]models.TransactionRecord, error)
}

// Classifier maps remote category labels onto tags.
type Classifier interface {
	Classify(label string) models.CategoryTag
}

// Timeouts bounds each source. Zero values fall back to the defaults.
type Timeouts struct {
	Default   time.Duration
	Analytics time.Duration
}

// Reconciler merges remote and local data.
type Reconciler struct {
	remote     Remote
	ledger     LedgerReader
	classifier Classifier
	timeouts   Timeouts
	logger     logging.Logger
	// Now is the reference time for the current month.
	Now func() time.Time
}

// NewReconciler creates a Reconciler.
func NewReconciler(r Remote, l LedgerReader, c Classifier, timeouts Timeouts, logger logging.Logger) *Reconciler {
	if timeouts.Default <= 0 {
		timeouts.Default = DefaultTimeout
	}
	if timeouts.Analytics <= 0 {
		timeouts.Analytics = DefaultAnalyticsTimeout
	}
	return &Reconciler{
		remote:     r,
		ledger:     l,
		classifier: c,
		timeouts:   timeouts,
		logger:     logging.OrDefault(logger),
		Now:        time.Now,
	}
}

type outcomes struct {
	summary     Outcome[*models.SummaryPayload]
	expenses    Outcome[*models.ExpensesPayload]
	investments Outcome[*models.InvestmentsPayload]
	goals       Outcome[*models.GoalsPayload]
	history     Outcome[*models.HistoryPayload]
	analytics   Outcome[*models.AnalyticsPayload]
	local       Outcome[aggregator.Result]
}

// Reconcile fetches all sources concurrently, waits for every one of them to
// settle and merges the results with local data taking precedence. An empty
// fileID means no file filter.
//
// It fails only when the summary request never got a response, or when every
// source failed.
func (r *Reconciler) Reconcile(ctx context.Context, userID, fileID string) (*models.ReconciledSummary, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &finerror.ValidationError{Field: "user", Reason: "must not be empty"}
	}

	start := time.Now()
	now := r.Now()
	logger := r.logger.WithField(logging.FieldUser, userID)
	if fileID != "" {
		logger = logger.WithField(logging.FieldFileID, fileID)
	}

	o := r.fetchAll(ctx, userID, fileID, now)

	statuses := map[string]models.SourceStatus{
		remote.EndpointSummary:     status(o.summary.Err),
		remote.EndpointExpenses:    status(o.expenses.Err),
		remote.EndpointInvestments: status(o.investments.Err),
		remote.EndpointGoals:       status(o.goals.Err),
		remote.EndpointHistory:     status(o.history.Err),
		remote.EndpointAnalytics:   status(o.analytics.Err),
		SourceLocal:                status(o.local.Err),
	}

	var failures []*finerror.SourceUnavailableError
	for _, f := range []struct {
		name string
		err  error
	}{
		{remote.EndpointSummary, o.summary.Err},
		{remote.EndpointExpenses, o.expenses.Err},
		{remote.EndpointInvestments, o.investments.Err},
		{remote.EndpointGoals, o.goals.Err},
		{remote.EndpointHistory, o.history.Err},
		{remote.EndpointAnalytics, o.analytics.Err},
		{SourceLocal, o.local.Err},
	} {
		if f.err == nil {
			continue
		}
		sue := &finerror.SourceUnavailableError{Source: f.name, Err: f.err}
		failures = append(failures, sue)
		logger.WithError(sue).Warn("Source unavailable",
			logging.F(logging.FieldSource, f.name),
			logging.F(logging.FieldStatus, string(statuses[f.name])))
	}

	var terr *remote.TransportError
	if errors.As(o.summary.Err, &terr) {
		logger.WithError(o.summary.Err).Error("Dashboard summary could not be fetched")
		return nil, &finerror.SourceUnavailableError{Source: remote.EndpointSummary, Err: o.summary.Err}
	}
	if len(failures) == len(statuses) {
		logger.Error("Every source failed")
		return nil, &finerror.AllSourcesError{Failures: failures}
	}

	summary := r.merge(o)
	summary.Sources = statuses

	logger.Info("Reconciled summary",
		logging.F("failed_sources", len(failures)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return summary, nil
}

// fetchAll starts the six remote requests and the local aggregation and
// returns once all have settled. Every goroutine writes its own field and
// returns nil, so Wait never short-circuits.
func (r *Reconciler) fetchAll(ctx context.Context, userID, fileID string, now time.Time) *outcomes {
	var (
		o outcomes
		g errgroup.Group
		d = r.timeouts.Default
	)

	g.Go(func() error {
		o.summary = settle(ctx, d, func(ctx context.Context) (*models.SummaryPayload, error) {
			return r.remote.Summary(ctx, userID, fileID)
		})
		return nil
	})
	g.Go(func() error {
		o.expenses = settle(ctx, d, func(ctx context.Context) (*models.ExpensesPayload, error) {
			return r.remote.Expenses(ctx, userID, fileID)
		})
		return nil
	})
	g.Go(func() error {
		o.investments = settle(ctx, d, func(ctx context.Context) (*models.InvestmentsPayload, error) {
			return r.remote.Investments(ctx, userID, fileID)
		})
		return nil
	})
	g.Go(func() error {
		o.goals = settle(ctx, d, func(ctx context.Context) (*models.GoalsPayload, error) {
			return r.remote.Goals(ctx, userID, fileID)
		})
		return nil
	})
	g.Go(func() error {
		o.history = settle(ctx, d, func(ctx context.Context) (*models.HistoryPayload, error) {
			return r.remote.History(ctx, userID, fileID)
		})
		return nil
	})
	g.Go(func() error {
		o.analytics = settle(ctx, r.timeouts.Analytics, func(ctx context.Context) (*models.AnalyticsPayload, error) {
			return r.remote.Analytics(ctx, userID, fileID)
		})
		return nil
	})
	g.Go(func() error {
		o.local = settle(ctx, d, func(ctx context.Context) (aggregator.Result, error) {
			records, err := r.ledger.ListExpenses(ctx, userID)
			if err != nil {
				return aggregator.Result{}, err
			}
			return aggregator.Aggregate(records, now), nil
		})
		return nil
	})

	_ = g.Wait()
	return &o
}

// merge applies local-wins precedence: a non-empty local value replaces the
// remote one entirely.
func (r *Reconciler) merge(o *outcomes) *models.ReconciledSummary {
	s := &models.ReconciledSummary{}

	if o.summary.OK() && o.summary.Value != nil {
		sum := o.summary.Value
		s.Profile = sum.Profile
		if sum.Profile != nil {
			s.MonthlyIncome = sum.Profile.MonthlyIncome
		}
		s.TotalInvestment = sum.TotalInvestment
	}
	if o.investments.OK() && o.investments.Value != nil {
		s.Investments = o.investments.Value.Investments
	}
	if o.goals.OK() && o.goals.Value != nil {
		s.Goals = o.goals.Value.Goals
	}
	if o.analytics.OK() && o.analytics.Value != nil && len(o.analytics.Value.Analytics) > 0 {
		s.Analytics = o.analytics.Value.Analytics
	}

	local := o.local.Value
	localOK := o.local.OK()

	switch {
	case localOK && !local.CurrentMonthTotal.IsZero():
		total := local.CurrentMonthTotal
		s.TotalExpenses = &total
	default:
		s.TotalExpenses = r.remoteTotalExpenses(o)
	}

	switch {
	case localOK && len(local.CategoryTotals) > 0:
		s.CategoryTotals = local.CategoryTotals
	default:
		s.CategoryTotals = r.remoteCategoryTotals(o)
	}

	switch {
	case localOK && len(local.History) > 0:
		s.History = local.History
	case o.history.OK() && o.history.Value != nil && len(o.history.Value.History) > 0:
		for _, h := range o.history.Value.History {
			s.History = append(s.History, models.MonthlyHistoryPoint{Month: h.Month, Total: h.Expense})
		}
	}

	if s.MonthlyIncome != nil && s.TotalExpenses != nil {
		savings := s.MonthlyIncome.Sub(*s.TotalExpenses)
		s.Savings = &savings
		if s.MonthlyIncome.IsPositive() {
			rate := currencyutils.Percent(savings, *s.MonthlyIncome)
			s.SavingsRate = &rate
		}
	}
	return s
}

// remoteTotalExpenses prefers the itemised expense list over the summary
// figure.
func (r *Reconciler) remoteTotalExpenses(o *outcomes) *decimal.Decimal {
	if o.expenses.OK() && o.expenses.Value != nil && o.expenses.Value.Expenses != nil {
		total := decimal.Zero
		for _, e := range o.expenses.Value.Expenses {
			total = total.Add(e.Amount.Decimal)
		}
		return &total
	}
	if o.summary.OK() && o.summary.Value != nil {
		return o.summary.Value.TotalExpenses
	}
	return nil
}

// remoteCategoryTotals maps remote labels onto tags. Labels landing on the
// same tag are summed.
func (r *Reconciler) remoteCategoryTotals(o *outcomes) models.CategoryTotals {
	var raw map[string]decimal.Decimal
	switch {
	case o.expenses.OK() && o.expenses.Value != nil && len(o.expenses.Value.Summary) > 0:
		raw = o.expenses.Value.Summary
	case o.analytics.OK() && o.analytics.Value != nil && len(o.analytics.Value.Summary.Expenses) > 0:
		raw = o.analytics.Value.Summary.Expenses
	default:
		return nil
	}

	totals := models.CategoryTotals{}
	for label, amount := range raw {
		totals.Add(r.classifier.Classify(label), amount)
	}
	return totals
}
