// Package credentials supplies the fulfillment payload delivered to a buyer
// when an order is approved. The workflow treats retrieval as opaque: a
// provider binds one credential to the order id and the engine forwards it.
package credentials

import (
	"context"
	"fmt"
	"sync"

	"github.com/m3rciful/shopbot/shop/errs"
)

// Credential is one purchasable account.
type Credential struct {
	Login  string `yaml:"login"`
	Secret string `yaml:"secret"`
}

// Provider claims an unassigned credential for the plan and binds it to the
// order. A claim is permanent; repeated claims for the same order are not
// expected because the order transition is already serialized upstream.
type Provider interface {
	Claim(ctx context.Context, orderID, planID string) (Credential, error)
}

type seeded struct {
	Credential
	orderID string
}

// Memory is a config-seeded Provider for memory-store deployments and tests.
type Memory struct {
	mu    sync.Mutex
	stock map[string][]*seeded
}

// NewMemory builds a provider from per-plan credential lists.
func NewMemory(stock map[string][]Credential) *Memory {
	m := &Memory{stock: make(map[string][]*seeded, len(stock))}
	for planID, creds := range stock {
		for _, c := range creds {
			m.stock[planID] = append(m.stock[planID], &seeded{Credential: c})
		}
	}
	return m
}

// Claim hands out the first unassigned credential for the plan.
func (m *Memory) Claim(_ context.Context, orderID, planID string) (Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.stock[planID] {
		if c.orderID == "" {
			c.orderID = orderID
			return c.Credential, nil
		}
	}
	return Credential{}, fmt.Errorf("plan %s: %w", planID, errs.ErrNoCredentials)
}
