// Package contacts keeps a lazily loaded, filterable view of survey contacts
// on top of a contact store.
package contacts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Olatundeadedeji/streamcati/pkg/model"
	"go.uber.org/zap"
)

// ErrInvalidID is returned before any store call when an id is not positive.
var ErrInvalidID = errors.New("invalid contact id")

type Store interface {
	ListContacts(ctx context.Context) ([]model.Contact, error)
	GetContact(ctx context.Context, id int64) (*model.Contact, error)
	CreateContact(ctx context.Context, req model.CreateContactReq) (*model.Contact, error)
	PatchContact(ctx context.Context, id int64, patch model.PatchContactReq) (*model.Contact, error)
	DeleteContact(ctx context.Context, id int64) error
}

type contactCache struct {
	mu     sync.RWMutex
	loaded bool
	items  []model.Contact
}

// Directory is safe for concurrent use. Views made by WithStore share one cache.
type Directory struct {
	store  Store
	cache  *contactCache
	logger *zap.Logger
}

func NewDirectory(store Store, logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Directory{store: store, cache: &contactCache{}, logger: logger}
}

// WithStore returns a view of d that reaches the backend through store, for
// example one authenticated as the current interviewer.
func (d *Directory) WithStore(store Store) *Directory {
	cp := *d
	cp.store = store
	return &cp
}

// Fetch reloads every contact and replaces the cache.
func (d *Directory) Fetch(ctx context.Context) ([]model.Contact, error) {
	list, err := d.store.ListContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch contacts: %w", err)
	}
	items := make([]model.Contact, len(list))
	for i, c := range list {
		items[i] = c.Normalized()
	}

	d.cache.mu.Lock()
	d.cache.items = items
	d.cache.loaded = true
	d.cache.mu.Unlock()

	return cloneContacts(items), nil
}

// Filtered returns cached contacts matching query and status, loading the
// cache first if needed. query matches name, phone, serial number, cuid and
// ticket number case-insensitively. A status of "" or "all" matches all.
func (d *Directory) Filtered(ctx context.Context, query, status string) ([]model.Contact, error) {
	if err := d.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	status = strings.TrimSpace(status)

	d.cache.mu.RLock()
	defer d.cache.mu.RUnlock()

	out := make([]model.Contact, 0, len(d.cache.items))
	for _, c := range d.cache.items {
		if query != "" && !matchesQuery(c, query) {
			continue
		}
		if status != "" && status != "all" && c.Status != model.ContactStatus(status) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func matchesQuery(c model.Contact, query string) bool {
	for _, field := range []string{c.Name, c.Phone, c.SerialNumber, c.CUID, c.TicketNumber} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// Get returns the contact from cache, or fetches and caches it.
func (d *Directory) Get(ctx context.Context, id int64) (*model.Contact, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidID, id)
	}

	d.cache.mu.RLock()
	for _, c := range d.cache.items {
		if c.ID == id {
			d.cache.mu.RUnlock()
			return &c, nil
		}
	}
	d.cache.mu.RUnlock()

	c, err := d.store.GetContact(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	n := c.Normalized()
	d.put(n)
	return &n, nil
}

func (d *Directory) Create(ctx context.Context, req model.CreateContactReq) (*model.Contact, error) {
	c, err := d.store.CreateContact(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	n := c.Normalized()
	d.put(n)
	return &n, nil
}

// Update patches the contact and merges the result into the cache.
func (d *Directory) Update(ctx context.Context, id int64, patch model.PatchContactReq) (*model.Contact, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	c, err := d.store.PatchContact(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	n := c.Normalized()
	d.put(n)
	return &n, nil
}

func (d *Directory) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	if err := d.store.DeleteContact(ctx, id); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}

	d.cache.mu.Lock()
	defer d.cache.mu.Unlock()
	for i := range d.cache.items {
		if d.cache.items[i].ID == id {
			d.cache.items = append(d.cache.items[:i], d.cache.items[i+1:]...)
			break
		}
	}
	return nil
}

// ImportResult counts what Import did with each contact.
type ImportResult struct {
	Created []int64          `json:"created"`
	Skipped []int64          `json:"skipped"`
	Failed  map[int64]string `json:"failed,omitempty"`
}

// Import creates every contact whose id is not already known. A failing
// contact is logged and recorded, and the rest are still imported.
func (d *Directory) Import(ctx context.Context, reqs []model.CreateContactReq) (ImportResult, error) {
	res := ImportResult{Failed: map[int64]string{}}
	if _, err := d.Fetch(ctx); err != nil {
		return res, err
	}

	d.cache.mu.RLock()
	existing := make(map[int64]bool, len(d.cache.items))
	for _, c := range d.cache.items {
		existing[c.ID] = true
	}
	d.cache.mu.RUnlock()

	for _, req := range reqs {
		if req.ID != 0 && existing[req.ID] {
			res.Skipped = append(res.Skipped, req.ID)
			continue
		}
		c, err := d.Create(ctx, req)
		if err != nil {
			d.logger.Warn("import contact failed", zap.Int64("contact_id", req.ID), zap.String("name", req.Name), zap.Error(err))
			res.Failed[req.ID] = err.Error()
			continue
		}
		existing[c.ID] = true
		res.Created = append(res.Created, c.ID)
	}
	return res, nil
}

func (d *Directory) ensureLoaded(ctx context.Context) error {
	d.cache.mu.RLock()
	loaded := d.cache.loaded
	d.cache.mu.RUnlock()
	if loaded {
		return nil
	}
	_, err := d.Fetch(ctx)
	return err
}

// put replaces the cached entry with the same id or appends c.
func (d *Directory) put(c model.Contact) {
	d.cache.mu.Lock()
	defer d.cache.mu.Unlock()
	for i := range d.cache.items {
		if d.cache.items[i].ID == c.ID {
			d.cache.items[i] = c
			return
		}
	}
	d.cache.items = append(d.cache.items, c)
}

func cloneContacts(in []model.Contact) []model.Contact {
	out := make([]model.Contact, len(in))
	copy(out, in)
	return out
}
