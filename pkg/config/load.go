package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads configuration from the environment. When envFilePath is given,
// the first loadable file seeds the environment first; missing files only log
// a warning so containerized deployments work with plain env vars.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()

	if len(envFilePath) == 0 {
		if err := godotenv.Load(); err != nil {
			logger.Warn("no .env file found, using system environment variables")
		}
		return loadFromEnv(logger)
	}

	for _, path := range envFilePath {
		if err := godotenv.Load(path); err != nil {
			logger.Warn("environment file not loadable", "path", path, "error", err)
			continue
		}
		logger.Info("environment loaded from file", "path", path)
		break
	}
	return loadFromEnv(logger)
}

func loadFromEnv(logger *slog.Logger) (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	logger.Info("app config loaded",
		"env", cfg.Env,
		"db", maskValue(cfg.DB.Url),
		"jwt_access_expiry", cfg.Auth.Jwt.AccessExpiry,
		"jwt_refresh_expiry", cfg.Auth.Jwt.RefreshExpiry,
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
		"exchange_api_url", cfg.ExchangeRate.ApiUrl,
		"price_fetch_timeout", cfg.Prices.FetchTimeout,
	)
	return &cfg, nil
}

func maskValue(v string) string {
	if len(v) <= 6 {
		return "****"
	}
	return v[:2] + "****" + v[len(v)-4:]
}
