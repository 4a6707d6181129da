package config

import (
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	Port       string `env:"PORT" envDefault:"8080"`
	DBUser     string `env:"DB_USER,required"`
	DBPassword string `env:"DB_PASSWORD,required"`
	DBHost     string `env:"DB_HOST,required"` // e.g. tcp(host:3306) or unix(/var/run/mysqld/mysqld.sock)
	DBName     string `env:"DB_NAME,required"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`

	// Sizes is the fixed set of garment sizes the shop sells. The stock
	// table is upserted from this list at startup.
	Sizes []string `env:"SIZES" envDefault:"XS,S,M,L,XL"`

	QiwiSecretKey   string        `env:"QIWI_SECRET_KEY,required"`
	QiwiAPIURL      string        `env:"QIWI_API_URL" envDefault:"https://api.qiwi.com/partner/bill/v1/bills"`
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"10s"`
	BillLifetime    time.Duration `env:"BILL_LIFETIME" envDefault:"30m"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
