package classify

import (
	"context"
	"fmt"

	"finsight/internal/logger"
	"finsight/internal/store"
)

// Gateway resolves labels for transactions and applies user corrections.
// Label identity is keyed by description: every transaction of a user with
// the same cleaned description shares one label row.
type Gateway struct {
	store      *store.Store
	classifier Classifier
	rules      Rules
}

// NewGateway wires the gateway with its store, injected classifier and
// heuristic rules.
func NewGateway(st *store.Store, classifier Classifier, rules Rules) *Gateway {
	return &Gateway{store: st, classifier: classifier, rules: rules}
}

// WithStore returns a copy of the gateway bound to a different store,
// typically one scoped to an open transaction.
func (g *Gateway) WithStore(st *store.Store) *Gateway {
	return &Gateway{store: st, classifier: g.classifier, rules: g.rules}
}

// Label resolves a label for the transaction and attaches it. Resolution:
// the user's cached label for an identical description (no external call),
// else heuristic rules, else the external classifier. A classifier failure
// is returned as-is and aborts the caller's batch.
func (g *Gateway) Label(ctx context.Context, tx *store.Transaction) error {
	log := logger.FromContext(ctx)

	cached, err := g.store.FirstLabeledByDescription(ctx, tx.UserID, tx.Description)
	if err != nil {
		return fmt.Errorf("Label: cache lookup: %w", err)
	}
	if cached != nil {
		log.Debug().Str("description", tx.Description).Msg("label cache hit")
		tx.LabelID = &cached.Label.ID
		return g.store.AttachLabel(ctx, tx.ID, cached.Label.ID)
	}

	result, matched := g.rules.Match(tx.Description)
	if !matched {
		// never seen this description before, asking the classifier
		result, err = g.classifier.Classify(ctx, tx.Description)
		if err != nil {
			return fmt.Errorf("Label: classify %q: %w", tx.Description, err)
		}
		log.Info().
			Str("description", tx.Description).
			Str("category", string(result.Category)).
			Msg("description classified")
	} else {
		log.Debug().
			Str("description", tx.Description).
			Str("category", string(result.Category)).
			Msg("heuristic rule matched")
	}

	label := &store.Label{
		Category: string(result.Category),
		Place:    result.Place,
		UserID:   tx.UserID,
	}
	if err := g.store.CreateLabel(ctx, label); err != nil {
		return fmt.Errorf("Label: %w", err)
	}

	tx.LabelID = &label.ID
	return g.store.AttachLabel(ctx, tx.ID, label.ID)
}

// Correct mutates the shared label of the transaction carrying the given
// description. Correcting a description with no matching labeled
// transaction is a precondition violation, not a silent no-op.
func (g *Gateway) Correct(ctx context.Context, userID uint, description, newCategory string, newPlace *string) error {
	tx, err := g.store.FirstByDescription(ctx, userID, description)
	if err != nil {
		return fmt.Errorf("Correct: %w", err)
	}
	if tx == nil || tx.Label == nil {
		return fmt.Errorf("Correct: no labeled transaction with description %q", description)
	}

	changed := false
	if newCategory != "" && newCategory != tx.Label.Category {
		tx.Label.Category = newCategory
		changed = true
	}
	if newPlace != nil && !equalPlace(newPlace, tx.Label.Place) {
		tx.Label.Place = newPlace
		changed = true
	}
	if !changed {
		return nil
	}

	if err := g.store.SaveLabel(ctx, tx.Label); err != nil {
		return fmt.Errorf("Correct: %w", err)
	}
	return nil
}

// ApplyCorrections diffs two snapshots of the user's transaction table and
// pushes every category/place edit through Correct, so all transactions
// sharing the edited description observe it. It logs and returns nil when
// the snapshots match.
func (g *Gateway) ApplyCorrections(ctx context.Context, userID uint, old, edited []store.TransactionRow) error {
	log := logger.FromContext(ctx)

	if len(old) != len(edited) {
		return fmt.Errorf("ApplyCorrections: snapshot sizes differ: %d vs %d", len(old), len(edited))
	}

	changes := 0
	for i := range old {
		if old[i].Category == edited[i].Category && equalPlace(old[i].Place, edited[i].Place) {
			continue
		}
		if err := g.Correct(ctx, userID, edited[i].Description, edited[i].Category, edited[i].Place); err != nil {
			return err
		}
		changes++
	}

	if changes == 0 {
		log.Info().Msg("no user feedback")
		return nil
	}
	log.Info().Int("changes", changes).Msg("user feedback detected and applied")
	return nil
}

func equalPlace(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
