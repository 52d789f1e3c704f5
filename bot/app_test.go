package bot

import (
	"testing"

	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/shopbot/core/config"
	"github.com/m3rciful/shopbot/shop/catalog"
	"github.com/m3rciful/shopbot/shop/credentials"
)

func testAppConfig() *Config {
	return &Config{
		Core: coreconfig.Config{
			Telegram: coreconfig.TelegramConfig{
				Token:    "123:abc",
				AdminIDs: []int64{42},
			},
		},
		Shop: ShopConfig{
			PaymentDetails: "Card 0000",
			Store:          StoreMemory,
			Plans: []catalog.Plan{
				{ID: "basic", Name: "Basic", Price: 100, Currency: "RUB"},
			},
			Credentials: map[string][]credentials.Credential{
				"basic": {{Login: "a@b", Secret: "s"}},
			},
		},
	}
}

func TestNewMemoryApp(t *testing.T) {
	app, err := New(testAppConfig(), nil)
	require.NoError(t, err)
	require.NotNil(t, app.engine)
	require.True(t, app.engine.IsAdmin(42))
	require.False(t, app.engine.IsAdmin(7))
}

func TestNewPostgresAppRequiresDB(t *testing.T) {
	cfg := testAppConfig()
	cfg.Shop.Store = StorePostgres
	_, err := New(cfg, nil)
	require.Error(t, err)
}

func TestNewRejectsBadCatalog(t *testing.T) {
	cfg := testAppConfig()
	cfg.Shop.Plans = []catalog.Plan{{ID: "basic", Name: "Basic", Price: -1}}
	_, err := New(cfg, nil)
	require.Error(t, err)
}

func TestBuildRegistry(t *testing.T) {
	app, err := New(testAppConfig(), nil)
	require.NoError(t, err)

	reg, err := app.buildRegistry()
	require.NoError(t, err)

	for _, cmd := range []string{"/start", "/order", "/help", "/orders"} {
		_, _, ok := reg.LookupCommand(cmd)
		require.True(t, ok, "command %s not registered", cmd)
	}
	// /order is reachable via its alias as well
	_, _, ok := reg.LookupCommand("/buy")
	require.True(t, ok)

	require.Equal(t, []string{cbApprove, cbCancel, cbPlan, cbReject}, reg.ListCallbacks())
	require.NotNil(t, reg.TextFallback())
}
