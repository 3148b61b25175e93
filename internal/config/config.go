// Package config loads service configuration from the environment. A
// .env file is honored when present (godotenv), then viper binds the
// DOCAPI_-prefixed environment variables over the defaults.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultJWTSecret is used when DOCAPI_JWT_SECRET is unset. The caller
// should warn loudly when it is still in effect.
const DefaultJWTSecret = "docapi-insecure-dev-secret"

// Config holds everything the service needs at startup.
type Config struct {
	Addr       string        // listen address, e.g. ":8000"
	Backend    string        // "mongo", "badger" or "memory"
	MongoURI   string        // mongo connection string
	MongoDB    string        // mongo database name
	DataDir    string        // data directory for the badger backend
	JWTSecret  string        // token signing secret
	AccessTTL  time.Duration // access token lifetime
	RefreshTTL time.Duration // refresh token lifetime
	GinMode    string        // "release", "debug" or "test"
}

// Load reads configuration from .env and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("DOCAPI")
	v.AutomaticEnv()

	v.SetDefault("ADDR", ":8000")
	v.SetDefault("BACKEND", "mongo")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "docapi")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	v.SetDefault("ACCESS_TTL", "15m")
	v.SetDefault("REFRESH_TTL", "168h")
	v.SetDefault("GIN_MODE", "release")

	cfg := &Config{
		Addr:       v.GetString("ADDR"),
		Backend:    v.GetString("BACKEND"),
		MongoURI:   v.GetString("MONGO_URI"),
		MongoDB:    v.GetString("MONGO_DB"),
		DataDir:    v.GetString("DATA_DIR"),
		JWTSecret:  v.GetString("JWT_SECRET"),
		AccessTTL:  v.GetDuration("ACCESS_TTL"),
		RefreshTTL: v.GetDuration("REFRESH_TTL"),
		GinMode:    v.GetString("GIN_MODE"),
	}

	// Container platforms commonly inject a bare PORT variable.
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	return cfg, nil
}
