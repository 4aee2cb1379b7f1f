package config

import (
	"github.com/spf13/viper"
)

// The console is configured entirely through environment variables so it can
// run unchanged in a container or on a developer laptop.

type Config struct {
	APIURL             string `mapstructure:"API_URL"`
	HTTPTimeoutSeconds int    `mapstructure:"HTTP_TIMEOUT_SECONDS"`
	ServerPort         string `mapstructure:"SERVER_PORT"`
	IsLocalDev         bool   `mapstructure:"IS_LOCAL_DEV"`
	OTLPEndpoint       string `mapstructure:"OTLP_ENDPOINT"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (config Config, err error) {
	viper.SetDefault("API_URL", "http://localhost:8000")
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 15)
	viper.SetDefault("SERVER_PORT", "3000")
	viper.SetDefault("IS_LOCAL_DEV", false)
	viper.SetDefault("OTLP_ENDPOINT", "jaeger:4317")

	// Read in environment variables that match the keys.
	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	return
}
