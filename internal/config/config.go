package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env           string        `env:"APP_ENV" env-default:"dev"`
	ServerPort    string        `env:"SERVER_PORT" env-default:"8080"`
	MongoURI      string        `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	MongoDB       string        `env:"MONGO_DB" env-default:"ripple"`
	AccessSecret  string        `env:"ACCESS_TOKEN_SECRET" env-default:"dev-access-secret-change-me"`
	RefreshSecret string        `env:"REFRESH_TOKEN_SECRET" env-default:"dev-refresh-secret-change-me"`
	AccessTTL     time.Duration `env:"ACCESS_TOKEN_TTL" env-default:"15m"`
	DBTimeout     time.Duration `env:"DB_TIMEOUT" env-default:"5s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
