package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/m3rciful/shopbot/bot"
	"github.com/m3rciful/shopbot/core/bootstrap"
	corecmd "github.com/m3rciful/shopbot/core/cmd"
)

func main() {
	// Missing .env is fine; real deployments pass env directly.
	_ = godotenv.Load()

	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return bot.LoadConfig(path)
		},
		Bootstrap: func(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			cfg := carrier.(*bot.Config)
			res, err := bootstrap.Run(bootstrap.Options{
				Config:       cfg.CoreConfig(),
				Database:     cfg.Database,
				SkipDatabase: !cfg.UsesDatabase(),
			})
			if err != nil {
				return nil, err
			}
			return bot.New(cfg, res.DB)
		},
	})
	if err != nil {
		log.Fatalf("shopbot: %v", err)
	}
}
