package config

import (
	"strings"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	StoreURL             string `mapstructure:"STORE_URL"`
	StoreServiceKey      string `mapstructure:"STORE_SERVICE_KEY"`
	StoreCancelledStatus string `mapstructure:"STORE_CANCELLED_STATUS"`
	CacheAddress         string `mapstructure:"CACHE_ADDRESS"`
	CachePort            int    `mapstructure:"CACHE_PORT"`
	SchedulerEnabled     bool   `mapstructure:"SCHEDULER_ENABLED"`
	ReconcileWorkers     int    `mapstructure:"RECONCILE_WORKERS"`
	MonthlyUnits         string `mapstructure:"MONTHLY_UNITS"`
	NotifyWebhookURL     string `mapstructure:"NOTIFY_WEBHOOK_URL"`
}

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	// Enable automatic environment variable reading first
	viper.AutomaticEnv()

	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT", "CORS_ALLOW_ORIGINS",
		"STORE_URL", "STORE_SERVICE_KEY", "STORE_CANCELLED_STATUS",
		"CACHE_ADDRESS", "CACHE_PORT",
		"SCHEDULER_ENABLED", "RECONCILE_WORKERS", "MONTHLY_UNITS",
		"NOTIFY_WEBHOOK_URL",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	viper.SetDefault("STORE_CANCELLED_STATUS", "cancelled")
	viper.SetDefault("SCHEDULER_ENABLED", true)
	viper.SetDefault("RECONCILE_WORKERS", 4)
	viper.SetDefault("MONTHLY_UNITS", "V1,V2,V3,V4,V5,V6")

	// Check if key environment variables are already set
	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("STORE_URL")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	log.Info("Successfully initialized config",
		"environment", config.Environment,
		"port", config.ServerPort,
		"schedulerEnabled", config.SchedulerEnabled,
	)
	return config, nil
}

// MonthlyUnitRoster returns the configured unit names used to generate
// monthly missions.
func (c Config) MonthlyUnitRoster() []string {
	parts := strings.Split(c.MonthlyUnits, ",")
	units := make([]string, 0, len(parts))
	for _, part := range parts {
		if unit := strings.TrimSpace(part); unit != "" {
			units = append(units, unit)
		}
	}
	return units
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.StoreURL == "" {
		return log.ErrMsg("Fatal error: STORE_URL is required")
	}

	if config.ReconcileWorkers <= 0 {
		return log.Error(
			"Fatal error: invalid reconcile worker count",
			"workers", config.ReconcileWorkers,
		)
	}

	return nil
}
