package config

import "github.com/Skotchmaster/scrap_market/pkg/config"

type ServiceConfig struct {
	config.Config
}

func Load() (ServiceConfig, error) {
	cfg := config.Load()

	if err := config.Require(map[string]string{
		"DATABASE_URL": cfg.DatabaseURL,
		"JWT_SECRET":   string(cfg.JWTAccessSecret),
	}); err != nil {
		return ServiceConfig{}, err
	}

	return ServiceConfig{Config: cfg}, nil
}
