package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

func Parse() (Config, error) {
	godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse cfg: %v", err)
	}

	return cfg, nil
}

// Description renders the list of supported environment variables.
func Description() (string, error) {
	header := "Environment variables:"

	desc, err := cleanenv.GetDescription(&Config{}, &header)
	if err != nil {
		return "", fmt.Errorf("describe cfg: %v", err)
	}

	return desc, nil
}
