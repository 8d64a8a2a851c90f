package ledger

import (
	"context"

	"fjacquet/finrecon/internal/logging"
	"fjacquet/finrecon/internal/models"
	"fjacquet/finrecon/internal/store"
)

// AddBudget stores a budget.
func (l *Ledger) AddBudget(ctx context.Context, userID string, b models.Budget) (models.Budget, error) {
	b.ID = ""
	id, err := addTyped(ctx, l, userID, store.CollectionBudgets, b)
	b.ID = id
	return b, err
}

// ListBudgets returns the user's budgets.
func (l *Ledger) ListBudgets(ctx context.Context, userID string) ([]models.Budget, error) {
	return listTyped(ctx, l, userID, store.CollectionBudgets, func(b *models.Budget, id string) { b.ID = id })
}

// AddGoal stores a savings goal.
func (l *Ledger) AddGoal(ctx context.Context, userID string, g models.Goal) (string, error) {
	return addTyped(ctx, l, userID, store.CollectionGoals, g)
}

// ListGoals returns the user's savings goals.
func (l *Ledger) ListGoals(ctx context.Context, userID string) ([]models.Goal, error) {
	return listTyped[models.Goal](ctx, l, userID, store.CollectionGoals, nil)
}

// AddSubscription stores a recurring subscription.
func (l *Ledger) AddSubscription(ctx context.Context, userID string, s models.Subscription) (models.Subscription, error) {
	s.ID = ""
	id, err := addTyped(ctx, l, userID, store.CollectionSubscriptions, s)
	s.ID = id
	return s, err
}

// ListSubscriptions returns the user's subscriptions.
func (l *Ledger) ListSubscriptions(ctx context.Context, userID string) ([]models.Subscription, error) {
	return listTyped(ctx, l, userID, store.CollectionSubscriptions, func(s *models.Subscription, id string) { s.ID = id })
}

func addTyped[T any](ctx context.Context, l *Ledger, userID, collection string, v T) (string, error) {
	var fields map[string]any
	if err := remarshal(v, &fields); err != nil {
		return "", err
	}
	delete(fields, "id")

	doc, err := l.AddDocument(ctx, userID, collection, fields)
	if err != nil {
		return "", err
	}
	return doc.ID, nil
}

func listTyped[T any](ctx context.Context, l *Ledger, userID, collection string, setID func(*T, string)) ([]T, error) {
	docs, err := l.ListDocuments(ctx, userID, collection)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := remarshal(doc.Fields, &v); err != nil {
			l.logger.WithError(err).Warn("Skipping undecodable document",
				logging.F(logging.FieldCollection, collection),
				logging.F("id", doc.ID))
			continue
		}
		if setID != nil {
			setID(&v, doc.ID)
		}
		out = append(out, v)
	}
	return out, nil
}
