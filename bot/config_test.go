package bot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const validConfig = `
telegram:
  token: "123:abc"
  admin_ids: [42, 42, 0, 7]
shop:
  payment_details: "Card 0000"
  plans:
    - id: basic
      name: Basic
      price: 100
`

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfig))
	require.NoError(t, err)

	require.Equal(t, StoreMemory, cfg.Shop.Store)
	require.False(t, cfg.UsesDatabase())
	// zero and duplicate admin ids are dropped
	require.Equal(t, []int64{42, 7}, cfg.Core.Telegram.AdminIDs)
	require.NotNil(t, cfg.CoreConfig())
	require.Equal(t, "123:abc", cfg.CoreConfig().Telegram.Token)
}

func TestLoadConfigPostgresStore(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfig+`  store: Postgres
`))
	require.NoError(t, err)
	require.Equal(t, StorePostgres, cfg.Shop.Store)
	require.True(t, cfg.UsesDatabase())
}

func TestLoadConfigRejectsUnknownStore(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, validConfig+`  store: redis
`))
	require.Error(t, err)
}

func TestLoadConfigRequiresAdmins(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
telegram:
  token: "123:abc"
shop:
  payment_details: "Card 0000"
  plans:
    - id: basic
      name: Basic
      price: 100
`))
	require.Error(t, err)
}

func TestLoadConfigRequiresPlans(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
telegram:
  token: "123:abc"
  admin_ids: [42]
shop:
  payment_details: "Card 0000"
`))
	require.Error(t, err)
}

func TestLoadConfigRequiresPaymentDetails(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
telegram:
  token: "123:abc"
  admin_ids: [42]
shop:
  plans:
    - id: basic
      name: Basic
      price: 100
`))
	require.Error(t, err)
}
