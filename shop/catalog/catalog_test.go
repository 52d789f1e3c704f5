package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/shopbot/shop/catalog"
	"github.com/m3rciful/shopbot/shop/errs"
)

func testPlans() []catalog.Plan {
	return []catalog.Plan{
		{ID: "1", Name: "1 month", Price: 200},
		{ID: "3", Name: "3 months", Price: 500},
		{ID: "12", Name: "12 months", Price: 1500, Currency: "USD"},
	}
}

func TestLookup(t *testing.T) {
	c, err := catalog.New(testPlans())
	require.NoError(t, err)

	p, err := c.Lookup("3")
	require.NoError(t, err)
	assert.Equal(t, "3 months", p.Name)
	assert.Equal(t, int64(500), p.Price)
	assert.Equal(t, "RUB", p.Currency, "default currency applied")
}

func TestLookupUnknown(t *testing.T) {
	c, err := catalog.New(testPlans())
	require.NoError(t, err)

	_, err = c.Lookup("99")
	require.ErrorIs(t, err, errs.ErrUnknownPlan)
}

func TestPlansPreserveOrder(t *testing.T) {
	c, err := catalog.New(testPlans())
	require.NoError(t, err)

	ids := make([]string, 0, c.Len())
	for _, p := range c.Plans() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"1", "3", "12"}, ids)
}

func TestNewRejectsInvalid(t *testing.T) {
	cases := []struct {
		name  string
		plans []catalog.Plan
	}{
		{"empty", nil},
		{"blank id", []catalog.Plan{{ID: " ", Name: "x", Price: 1}}},
		{"no name", []catalog.Plan{{ID: "1", Price: 1}}},
		{"zero price", []catalog.Plan{{ID: "1", Name: "x", Price: 0}}},
		{"duplicate id", []catalog.Plan{
			{ID: "1", Name: "x", Price: 1},
			{ID: "1", Name: "y", Price: 2},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := catalog.New(tc.plans)
			assert.Error(t, err)
		})
	}
}
