package config

import (
	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset   int    `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	JWTSecret            string `mapstructure:"JWT_SECRET"`
	JWTIssuer            string `mapstructure:"JWT_ISSUER"`
	SchedulerEnabled     bool   `mapstructure:"SCHEDULER_ENABLED"`
	StatsCacheTTL        int    `mapstructure:"STATS_CACHE_TTL"`
	ReconcileAutoRepair  bool   `mapstructure:"RECONCILE_AUTO_REPAIR"`
}

const MinJWTSecretLength = 16

var ConfigInstance Config

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	viper.AutomaticEnv()

	viper.SetDefault("DB_CACHE_RESET", -1)
	viper.SetDefault("JWT_ISSUER", "kaudio")
	viper.SetDefault("STATS_CACHE_TTL", 300)
	viper.SetDefault("CORS_ALLOW_ORIGINS", "*")

	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
		"CORS_ALLOW_ORIGINS",
		"JWT_SECRET", "JWT_ISSUER",
		"SCHEDULER_ENABLED", "STATS_CACHE_TTL", "RECONCILE_AUTO_REPAIR",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST")

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

	log.Info(
		"Successfully initialized config",
		"environment", config.Environment,
		"port", config.ServerPort,
		"dbHost", config.DatabaseHost,
		"schedulerEnabled", config.SchedulerEnabled,
	)
	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	ConfigInstance = config
	return config, nil
}

func GetConfig() Config {
	return ConfigInstance
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if len(config.JWTSecret) < MinJWTSecretLength {
		return log.Error(
			"Fatal error: JWT_SECRET must be set",
			"minLength", MinJWTSecretLength,
		)
	}

	if config.StatsCacheTTL < 0 {
		return log.Error(
			"Fatal error: STATS_CACHE_TTL cannot be negative",
			"ttl", config.StatsCacheTTL,
		)
	}

	return nil
}
