package util

import (
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/logger"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file into the process environment if one exists.
func LoadEnv(log *logger.Logger, files ...string) {
	if err := godotenv.Load(files...); err != nil {
		log.Debug("No .env file found, using system environment variables")
	}
}

// ParseEnv fills a T from the environment according to its env tags.
func ParseEnv[T any]() (T, error) {
	return env.ParseAs[T]()
}

// ParseEnvInto overlays environment values onto an already defaulted value.
func ParseEnvInto[T any](v *T) error {
	return env.Parse(v)
}
