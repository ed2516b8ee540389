package config

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"campus"`
	Password string `env:"PASSWORD" envDefault:"campus"`
	Name     string `env:"NAME"     envDefault:"campus"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether migrations are applied during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration for the directory lookup cache.
// Leave Addr empty to run without a cache.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:""`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}

// Enabled reports whether a Redis cache backend is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}
