package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/m3rciful/shopbot/shop/errs"
	"github.com/m3rciful/shopbot/shop/order"
)

// Memory is a mutex-guarded in-memory Store for tests and single-process
// deployments. Orders are kept indefinitely, terminal ones included.
type Memory struct {
	mu     sync.RWMutex
	orders map[string]order.Order
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{orders: make(map[string]order.Order)}
}

// Create persists a new order.
func (m *Memory) Create(_ context.Context, o order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.orders[o.ID]; exists {
		return fmt.Errorf("store: duplicate order id %s", o.ID)
	}
	m.orders[o.ID] = o
	return nil
}

// Get returns the order by id.
func (m *Memory) Get(_ context.Context, id string) (order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return order.Order{}, fmt.Errorf("order %s: %w", id, errs.ErrOrderNotFound)
	}
	return o, nil
}

// Update applies the order if the stored status still matches expect.
// The whole read-compare-write runs under one lock, making the transition
// atomic with respect to other transitions on the same id.
func (m *Memory) Update(_ context.Context, o order.Order, expect order.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.orders[o.ID]
	if !ok {
		return fmt.Errorf("order %s: %w", o.ID, errs.ErrOrderNotFound)
	}
	if current.Status != expect {
		return fmt.Errorf("order %s is %s, expected %s: %w", o.ID, current.Status, expect, errs.ErrInvalidTransition)
	}
	m.orders[o.ID] = o
	return nil
}

// ListOpen returns non-terminal orders, oldest first.
func (m *Memory) ListOpen(_ context.Context) ([]order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []order.Order
	for _, o := range m.orders {
		if !o.Status.Terminal() {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
