// Package directory implements the company directory: an owned
// in-memory list of companies backed by the record store, with add,
// partial update, lookup and substring search.
package directory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	e "github.com/tenders-netizen/quotedesk/internal/billing/errors"
	"github.com/tenders-netizen/quotedesk/internal/billing/events"
	"github.com/tenders-netizen/quotedesk/internal/billing/models"
	"github.com/tenders-netizen/quotedesk/internal/pkg/idgen"
	"go.uber.org/zap"
)

// Collection is the record store key the directory persists under.
const Collection = "companies"

// MinQueryLen is the shortest query that activates a search.
const MinQueryLen = 2

// RecordStore defines the persistence interface for the directory.
type RecordStore interface {
	Load(ctx context.Context, collection string, out any) error
	Save(ctx context.Context, collection string, records any) error
}

type EventProducer interface {
	Produce(eventType events.EventType, id int64, payload any)
}

// Directory owns the company collection. The in-memory slice is the
// sole mutation target; every successful mutation writes the whole
// collection back to the store.
type Directory struct {
	mu        sync.Mutex
	companies []models.Company
	store     RecordStore
	producer  EventProducer
	ids       *idgen.Generator
	logger    *zap.Logger
}

// New loads the company collection once from the store. A failed load
// is logged and degrades to an empty directory rather than failing.
func New(ctx context.Context, store RecordStore, producer EventProducer, ids *idgen.Generator, logger *zap.Logger) *Directory {
	d := &Directory{
		store:    store,
		producer: producer,
		ids:      ids,
		logger:   logger.Named("directory"),
	}
	if err := store.Load(ctx, Collection, &d.companies); err != nil {
		d.logger.Error("failed to load companies, starting empty", zap.Error(err))
		d.companies = nil
	}
	return d
}

// Add validates and stores a new company. Name and phone are required;
// the phone must be unique and the name unique case-insensitively.
// On success the stored record (with assigned id) is returned.
func (d *Directory) Add(ctx context.Context, candidate models.Company) (*models.Company, error) {
	if strings.TrimSpace(candidate.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", e.ErrInvalidInput)
	}
	if strings.TrimSpace(candidate.Phone) == "" {
		return nil, fmt.Errorf("%w: phone is required", e.ErrInvalidInput)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, existing := range d.companies {
		if existing.Phone == candidate.Phone || strings.EqualFold(existing.Name, candidate.Name) {
			return nil, fmt.Errorf("%w: company with this name or phone already exists", e.ErrDuplicate)
		}
	}

	candidate.ID = d.ids.Next()
	candidate.CreatedAt = time.Now()

	next := append(append([]models.Company(nil), d.companies...), candidate)
	if err := d.store.Save(ctx, Collection, next); err != nil {
		return nil, err
	}
	d.companies = next

	go func() {
		d.producer.Produce(events.CompanyCreated, candidate.ID, candidate)
	}()
	return &candidate, nil
}

// Update applies a partial update. Changing name or phone re-checks
// uniqueness against the rest of the directory.
func (d *Directory) Update(ctx context.Context, update models.CompanyUpdate) (*models.Company, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := -1
	for i := range d.companies {
		if d.companies[i].ID == update.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, e.ErrNotFound
	}

	updated := d.companies[idx]
	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, fmt.Errorf("%w: name is required", e.ErrInvalidInput)
		}
		updated.Name = *update.Name
	}
	if update.Phone != nil {
		if strings.TrimSpace(*update.Phone) == "" {
			return nil, fmt.Errorf("%w: phone is required", e.ErrInvalidInput)
		}
		updated.Phone = *update.Phone
	}
	if update.Email != nil {
		updated.Email = *update.Email
	}
	if update.Address != nil {
		updated.Address = *update.Address
	}
	if update.BillingAddress != nil {
		updated.BillingAddress = *update.BillingAddress
	}
	if update.ShippingAddress != nil {
		updated.ShippingAddress = *update.ShippingAddress
	}
	if update.GSTIN != nil {
		updated.GSTIN = *update.GSTIN
	}

	for i, existing := range d.companies {
		if i == idx {
			continue
		}
		if existing.Phone == updated.Phone || strings.EqualFold(existing.Name, updated.Name) {
			return nil, fmt.Errorf("%w: company with this name or phone already exists", e.ErrDuplicate)
		}
	}

	next := append([]models.Company(nil), d.companies...)
	next[idx] = updated
	if err := d.store.Save(ctx, Collection, next); err != nil {
		return nil, err
	}
	d.companies = next

	go func() {
		d.producer.Produce(events.CompanyUpdated, updated.ID, updated)
	}()
	return &updated, nil
}

// Search returns companies whose name contains the query
// (case-insensitive) or whose phone contains it literally, in
// insertion order. Queries shorter than MinQueryLen after trimming do
// not activate a search: active is false and results nil, which is
// distinct from an active search with no matches.
func (d *Directory) Search(query string) (results []models.Company, active bool) {
	query = strings.TrimSpace(query)
	if len(query) < MinQueryLen {
		return nil, false
	}
	lower := strings.ToLower(query)

	d.mu.Lock()
	defer d.mu.Unlock()

	results = []models.Company{}
	for _, c := range d.companies {
		if strings.Contains(strings.ToLower(c.Name), lower) || strings.Contains(c.Phone, query) {
			results = append(results, c)
		}
	}
	return results, true
}

// FindByID returns the company with the given id.
func (d *Directory) FindByID(id int64) (*models.Company, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, c := range d.companies {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, e.ErrNotFound
}

// List returns all companies in insertion order.
func (d *Directory) List() []models.Company {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.Company(nil), d.companies...)
}
