package bot

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/m3rciful/shopbot/core/config"
	coredatabase "github.com/m3rciful/shopbot/core/database"
	"github.com/m3rciful/shopbot/shop/catalog"
	"github.com/m3rciful/shopbot/shop/credentials"
)

const (
	// StoreMemory keeps orders in process memory; credentials come from the
	// config-seeded stock.
	StoreMemory = "memory"
	// StorePostgres persists orders and credentials in PostgreSQL.
	StorePostgres = "postgres"
)

// ShopConfig holds storefront settings: the plan catalog, payment requisites,
// backing store selection, and seed stock for the memory provider.
type ShopConfig struct {
	// PaymentDetails is the requisites text appended to every invoice.
	PaymentDetails string `yaml:"payment_details" envconfig:"SHOP_PAYMENT_DETAILS"`
	// Store selects the order backend: "memory" or "postgres".
	Store string `yaml:"store" envconfig:"SHOP_STORE"`
	Plans []catalog.Plan `yaml:"plans"`
	// Credentials seeds the in-memory stock per plan id. Ignored for the
	// postgres store, where stock lives in the credentials table.
	Credentials map[string][]credentials.Credential `yaml:"credentials"`
}

// Config aggregates core runtime settings with the storefront section.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Shop     ShopConfig          `yaml:"shop"`
}

// CoreConfig exposes the embedded core configuration for the shared runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Core
}

// UsesDatabase reports whether the selected store needs a PostgreSQL connection.
func (c *Config) UsesDatabase() bool {
	return c.Shop.Store == StorePostgres
}

// LoadConfig reads the YAML file, applies environment overrides, and validates
// the result.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if err := normalizeShop(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalizeShop(cfg *Config) error {
	if len(cfg.Core.Telegram.AdminIDs) == 0 {
		return fmt.Errorf("telegram.admin_ids must list at least one administrator")
	}

	store := strings.ToLower(strings.TrimSpace(cfg.Shop.Store))
	if store == "" {
		store = StoreMemory
	}
	switch store {
	case StoreMemory, StorePostgres:
	default:
		return fmt.Errorf("invalid shop.store %q; allowed: memory, postgres", cfg.Shop.Store)
	}
	cfg.Shop.Store = store

	if len(cfg.Shop.Plans) == 0 {
		return fmt.Errorf("shop.plans must list at least one plan")
	}
	if strings.TrimSpace(cfg.Shop.PaymentDetails) == "" {
		return fmt.Errorf("shop.payment_details is required")
	}
	return nil
}
