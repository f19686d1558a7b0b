// Package ledger implements the quotation ledger: an owned in-memory
// list of quotations backed by the record store.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tenders-netizen/quotedesk/internal/billing/calc"
	e "github.com/tenders-netizen/quotedesk/internal/billing/errors"
	"github.com/tenders-netizen/quotedesk/internal/billing/events"
	"github.com/tenders-netizen/quotedesk/internal/billing/models"
	"github.com/tenders-netizen/quotedesk/internal/pkg/idgen"
	"go.uber.org/zap"
)

// Collection is the record store key the ledger persists under.
const Collection = "quotations"

// RecordStore defines the persistence interface for the ledger.
type RecordStore interface {
	Load(ctx context.Context, collection string, out any) error
	Save(ctx context.Context, collection string, records any) error
}

type EventProducer interface {
	Produce(eventType events.EventType, id int64, payload any)
}

// Ledger owns the quotation collection. Line amounts and the grand
// total are always recomputed on add; client-supplied amounts are
// ignored.
type Ledger struct {
	mu         sync.Mutex
	quotations []models.Quotation
	store      RecordStore
	producer   EventProducer
	ids        *idgen.Generator
	logger     *zap.Logger
}

// New loads the quotation collection once from the store. A failed
// load is logged and degrades to an empty ledger rather than failing.
func New(ctx context.Context, store RecordStore, producer EventProducer, ids *idgen.Generator, logger *zap.Logger) *Ledger {
	l := &Ledger{
		store:    store,
		producer: producer,
		ids:      ids,
		logger:   logger.Named("ledger"),
	}
	if err := store.Load(ctx, Collection, &l.quotations); err != nil {
		l.logger.Error("failed to load quotations, starting empty", zap.Error(err))
		l.quotations = nil
	}
	return l
}

// Add validates the draft, derives line amounts and the total, assigns
// an id and the quotation number for the draft's mode, persists and
// returns the stored quotation. A validation failure names the first
// offending field and leaves the ledger untouched.
func (l *Ledger) Add(ctx context.Context, draft models.QuotationDraft) (*models.Quotation, error) {
	if strings.TrimSpace(draft.Date) == "" {
		return nil, fmt.Errorf("%w: date is required", e.ErrInvalidInput)
	}
	if len(draft.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one line item is required", e.ErrInvalidInput)
	}
	for i, item := range draft.Items {
		if strings.TrimSpace(item.Item) == "" {
			return nil, fmt.Errorf("%w: item is required on line %d", e.ErrInvalidInput, i+1)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive on line %d", e.ErrInvalidInput, i+1)
		}
		if item.Price <= 0 {
			return nil, fmt.Errorf("%w: price must be positive on line %d", e.ErrInvalidInput, i+1)
		}
	}

	items := make([]models.LineItem, len(draft.Items))
	amounts := make([]float64, len(draft.Items))
	for i, item := range draft.Items {
		item.Amount = calc.LineAmount(item.Quantity, item.Price, item.Discount, item.TaxRate)
		items[i] = item
		amounts[i] = item.Amount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	number := draft.QuotationNumber
	if draft.Mode == models.ModeAutomatic {
		number = l.nextNumber()
	}

	quotation := models.Quotation{
		ID:              l.ids.Next(),
		QuotationNumber: number,
		Date:            draft.Date,
		PartyName:       draft.PartyName,
		Status:          models.StatusPending,
		Items:           items,
		Total:           calc.GrandTotal(amounts),
		CreatedAt:       time.Now(),
	}

	next := append(append([]models.Quotation(nil), l.quotations...), quotation)
	if err := l.store.Save(ctx, Collection, next); err != nil {
		return nil, err
	}
	l.quotations = next

	go func() {
		l.producer.Produce(events.QuotationCreated, quotation.ID, quotation)
	}()
	return &quotation, nil
}

// List returns all quotations in insertion order.
func (l *Ledger) List() []models.Quotation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.Quotation(nil), l.quotations...)
}

// FindByID returns the quotation with the given id.
func (l *Ledger) FindByID(id int64) (*models.Quotation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, q := range l.quotations {
		if q.ID == id {
			found := q
			return &found, nil
		}
	}
	return nil, e.ErrNotFound
}

// Delete removes the quotation if present. Deleting an absent id is a
// no-op, not an error; nothing is persisted in that case.
func (l *Ledger) Delete(ctx context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i := range l.quotations {
		if l.quotations[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	next := append([]models.Quotation(nil), l.quotations[:idx]...)
	next = append(next, l.quotations[idx+1:]...)
	if err := l.store.Save(ctx, Collection, next); err != nil {
		return err
	}
	l.quotations = next

	go func() {
		l.producer.Produce(events.QuotationDeleted, id, nil)
	}()
	return nil
}

// SetStatus updates a quotation's status in place.
func (l *Ledger) SetStatus(ctx context.Context, id int64, status models.Status) (*models.Quotation, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", e.ErrInvalidInput, status)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i := range l.quotations {
		if l.quotations[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, e.ErrNotFound
	}

	next := append([]models.Quotation(nil), l.quotations...)
	next[idx].Status = status
	if err := l.store.Save(ctx, Collection, next); err != nil {
		return nil, err
	}
	l.quotations = next

	updated := next[idx]
	go func() {
		l.producer.Produce(events.QuotationUpdated, updated.ID, updated)
	}()
	return &updated, nil
}

// nextNumber assigns automatic quotation numbers QT-0001, QT-0002, ...
// scanning existing numbers so the sequence survives restarts.
// Caller must hold l.mu.
func (l *Ledger) nextNumber() string {
	highest := 0
	for _, q := range l.quotations {
		var n int
		if _, err := fmt.Sscanf(q.QuotationNumber, "QT-%d", &n); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("QT-%04d", highest+1)
}
