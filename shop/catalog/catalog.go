// Package catalog holds the immutable plan catalog loaded at process start.
package catalog

import (
	"fmt"
	"strings"

	"github.com/m3rciful/shopbot/shop/errs"
)

// Plan is a catalog entry: a subscription tier with a fixed price.
type Plan struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Price    int64  `yaml:"price"`
	Currency string `yaml:"currency"`
}

// Catalog maps plan ids to plans. It is built once from configuration and
// treated as read-only for the process lifetime.
type Catalog struct {
	plans map[string]Plan
	order []string
}

// New validates the provided plans and builds a catalog preserving their
// declaration order.
func New(plans []Plan) (*Catalog, error) {
	if len(plans) == 0 {
		return nil, fmt.Errorf("catalog: no plans configured")
	}
	c := &Catalog{plans: make(map[string]Plan, len(plans))}
	for _, p := range plans {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return nil, fmt.Errorf("catalog: plan with empty id")
		}
		if p.Name == "" {
			return nil, fmt.Errorf("catalog: plan %s has no name", id)
		}
		if p.Price <= 0 {
			return nil, fmt.Errorf("catalog: plan %s has non-positive price %d", id, p.Price)
		}
		if _, exists := c.plans[id]; exists {
			return nil, fmt.Errorf("catalog: duplicate plan id %s", id)
		}
		if p.Currency == "" {
			p.Currency = "RUB"
		}
		p.ID = id
		c.plans[id] = p
		c.order = append(c.order, id)
	}
	return c, nil
}

// Lookup returns the plan for the given id or ErrUnknownPlan.
func (c *Catalog) Lookup(planID string) (Plan, error) {
	p, ok := c.plans[strings.TrimSpace(planID)]
	if !ok {
		return Plan{}, fmt.Errorf("plan %q: %w", planID, errs.ErrUnknownPlan)
	}
	return p, nil
}

// Plans returns all plans in declaration order.
func (c *Catalog) Plans() []Plan {
	out := make([]Plan, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.plans[id])
	}
	return out
}

// Len returns the number of plans.
func (c *Catalog) Len() int { return len(c.plans) }
