package cart

import (
	"context"
	"strconv"
	"sync"

	"github.com/tm-acme-shop/acme-shop-pos-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/models"
)

// Repository is the durable key-value store the cart snapshot is written
// to. Persistence is advisory: callers swallow failures, and a failed
// Load must never block the terminal from starting with an empty cart.
type Repository interface {
	Load(ctx context.Context) ([]models.LineItem, error)
	Save(ctx context.Context, items []models.LineItem) error
}

// Op names the mutation that triggered a change notification.
type Op string

const (
	OpAdd         Op = "add"
	OpIncrement   Op = "increment"
	OpDecrement   Op = "decrement"
	OpSetQuantity Op = "set_quantity"
	OpRemove      Op = "remove"
	OpClear       Op = "clear"
	OpRestore     Op = "restore"
)

// Subscriber receives the cart snapshot after each committed mutation.
// Subscribers must not call back into the store.
type Subscriber func(op Op, items []models.LineItem)

// Store owns the ordered list of line items. Every mutation re-persists
// the cart before returning, so no subsequent request can observe a
// newer in-memory cart than what was written. Insertion order is display
// order; line items are unique by product name and quantity never drops
// below one.
type Store struct {
	mu     sync.Mutex
	items  []models.LineItem
	repo   Repository
	subs   []Subscriber
	logger *logging.Logger
}

// NewStore creates an empty cart backed by the given repository.
func NewStore(repo Repository, logger *logging.Logger) *Store {
	return &Store{
		repo:   repo,
		logger: logger,
	}
}

// Subscribe registers a change listener. Not safe to call concurrently
// with mutations; wire subscribers up-front.
func (s *Store) Subscribe(fn Subscriber) {
	s.subs = append(s.subs, fn)
}

// Add puts a product in the cart. An existing line item for the same
// name gets its quantity bumped by one; otherwise a new line item is
// appended with quantity one. Never fails.
func (s *Store) Add(ctx context.Context, p models.Product) {
	s.mu.Lock()
	if li := s.find(p.Name); li != nil {
		li.Quantity++
	} else {
		s.items = append(s.items, models.LineItem{
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  1,
		})
	}
	snapshot := s.commit(ctx)
	s.mu.Unlock()

	s.notify(OpAdd, snapshot)
}

// Increment bumps a line item's quantity by one. Unknown names are a no-op.
func (s *Store) Increment(ctx context.Context, name string) {
	s.mu.Lock()
	li := s.find(name)
	if li == nil {
		s.mu.Unlock()
		return
	}
	li.Quantity++
	snapshot := s.commit(ctx)
	s.mu.Unlock()

	s.notify(OpIncrement, snapshot)
}

// Decrement lowers a line item's quantity by one, flooring at one.
// Removal is an explicit separate operation.
func (s *Store) Decrement(ctx context.Context, name string) {
	s.mu.Lock()
	li := s.find(name)
	if li == nil {
		s.mu.Unlock()
		return
	}
	if li.Quantity > 1 {
		li.Quantity--
	}
	snapshot := s.commit(ctx)
	s.mu.Unlock()

	s.notify(OpDecrement, snapshot)
}

// SetQuantity sets a line item's quantity, clamping to a minimum of one.
// Unknown names are a no-op.
func (s *Store) SetQuantity(ctx context.Context, name string, quantity int) {
	s.mu.Lock()
	li := s.find(name)
	if li == nil {
		s.mu.Unlock()
		return
	}
	if quantity < 1 {
		quantity = 1
	}
	li.Quantity = quantity
	snapshot := s.commit(ctx)
	s.mu.Unlock()

	s.notify(OpSetQuantity, snapshot)
}

// Remove deletes a line item regardless of its quantity.
func (s *Store) Remove(ctx context.Context, name string) {
	s.mu.Lock()
	removed := false
	for i, li := range s.items {
		if li.Name == name {
			s.items = append(s.items[:i], s.items[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		s.mu.Unlock()
		return
	}
	snapshot := s.commit(ctx)
	s.mu.Unlock()

	s.notify(OpRemove, snapshot)
}

// Clear empties the cart. Used after a successful checkout and for the
// explicit clear-cart action.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	snapshot := s.commit(ctx)
	s.mu.Unlock()

	s.notify(OpClear, snapshot)
}

// Restore reads the persisted snapshot, coercing each line item back
// into a valid state (quantity floored at one). Missing or corrupt data
// leaves the cart empty; this store is a convenience, not a source of
// truth, so nothing is surfaced.
func (s *Store) Restore(ctx context.Context) {
	items, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Debug("Cart restore skipped", logging.Fields{"error": err.Error()})
		return
	}
	if len(items) == 0 {
		return
	}

	restored := make([]models.LineItem, 0, len(items))
	for _, li := range items {
		if li.Name == "" {
			continue
		}
		if li.Quantity < 1 {
			li.Quantity = 1
		}
		restored = append(restored, li)
	}

	s.mu.Lock()
	s.items = restored
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("Cart restored", logging.Fields{"item_count": len(restored)})
	s.notify(OpRestore, snapshot)
}

// Items returns a copy of the current line items in display order.
func (s *Store) Items() []models.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// ItemCount is the badge count: total quantity across all line items.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, li := range s.items {
		count += li.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no line items.
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

func (s *Store) find(name string) *models.LineItem {
	for i := range s.items {
		if s.items[i].Name == name {
			return &s.items[i]
		}
	}
	return nil
}

// commit persists the cart before the lock is released. Persistence
// failures are logged and swallowed; the in-memory cart stays
// authoritative for the session.
func (s *Store) commit(ctx context.Context) []models.LineItem {
	snapshot := s.snapshotLocked()
	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.logger.Error("Cart persist failed", logging.Fields{"error": err.Error()})
	}
	return snapshot
}

func (s *Store) snapshotLocked() []models.LineItem {
	snapshot := make([]models.LineItem, len(s.items))
	copy(snapshot, s.items)
	return snapshot
}

func (s *Store) notify(op Op, items []models.LineItem) {
	for _, fn := range s.subs {
		fn(op, items)
	}
}

// ParseQuantity coerces raw operator input into a quantity. Numbers are
// truncated to integers; anything unparseable becomes one, matching the
// clamp applied by SetQuantity.
func ParseQuantity(v any) int {
	switch q := v.(type) {
	case int:
		return q
	case float64:
		return int(q)
	case string:
		if n, err := strconv.Atoi(q); err == nil {
			return n
		}
		return 1
	default:
		return 1
	}
}
