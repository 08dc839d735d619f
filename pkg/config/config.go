// Package config loads application configuration from the environment,
// optionally seeded from a .env file.
package config

import "time"

type DB struct {
	Url string `envconfig:"URL"`
}

type Jwt struct {
	Secret        string        `envconfig:"SECRET" required:"true"`
	AccessExpiry  time.Duration `envconfig:"ACCESS_EXPIRY" default:"1h"`
	RefreshExpiry time.Duration `envconfig:"REFRESH_EXPIRY" default:"168h"`
}

type Auth struct {
	Jwt *Jwt `envconfig:"JWT"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type ExchangeRateProvider struct {
	ApiUrl      string        `envconfig:"API_URL" default:"https://api.frankfurter.app"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	CacheTTL    time.Duration `envconfig:"CACHE_TTL" default:"15m"`
}

type PriceProvider struct {
	YahooUrl   string        `envconfig:"YAHOO_URL" default:"https://query1.finance.yahoo.com"`
	BinanceUrl string        `envconfig:"BINANCE_URL" default:"https://api.binance.com"`
	// FetchTimeout bounds each per-ticker fetch; a timeout counts as that
	// ticker's failure.
	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"8s"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[phoebudget]"`
}

type Server struct {
	Host string `envconfig:"HOST" default:"localhost"`
	Port int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env          string                `envconfig:"APP_ENV" default:"development"`
	Server       *Server               `envconfig:"SERVER"`
	Log          *Log                  `envconfig:"LOG"`
	DB           *DB                   `envconfig:"DATABASE"`
	Auth         *Auth                 `envconfig:"AUTH"`
	RateLimit    *RateLimit            `envconfig:"RATE_LIMIT"`
	ExchangeRate *ExchangeRateProvider `envconfig:"EXCHANGE_RATE_PROVIDER"`
	Prices       *PriceProvider        `envconfig:"PRICE_PROVIDER"`
}
