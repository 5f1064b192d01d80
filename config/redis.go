package config

// RedisConfig contains Redis configuration for the session store.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`

	// SessionKey is the key holding the persisted session document.
	SessionKey string `env:"SESSION_KEY" envDefault:"herederos:session"`
}
