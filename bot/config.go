package bot

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is read from the environment, optionally seeded from a .env file.
type Config struct {
	Token    string `env:"TELEGRAM_TOKEN,required,notEmpty"`
	Port     int    `env:"PORT" envDefault:"10000"`
	DBPath   string `env:"DB_PATH" envDefault:"escape_san_antonio.db"`
	AssetDir string `env:"ASSET_DIR" envDefault:"."`
}

// LoadConfig parses the environment. A missing .env file is fine; a missing
// TELEGRAM_TOKEN is not.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
