package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	// Redis
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// Host issue-tracking platform
	TrackerBaseURL string `mapstructure:"TRACKER_BASE_URL"`
	TrackerToken   string `mapstructure:"TRACKER_TOKEN"`

	// Group names that grant release-management rights
	ManagerGroup      string `mapstructure:"MANAGER_GROUP"`
	LightManagerGroup string `mapstructure:"LIGHT_MANAGER_GROUP"`

	// Feature flags exposed through GET /config
	ManualIssueManagement bool `mapstructure:"MANUAL_ISSUE_MANAGEMENT"`
	MetaIssuesEnabled     bool `mapstructure:"META_ISSUES_ENABLED"`

	// Tunables (seconds); zero means use defaults
	FieldCacheTTL int `mapstructure:"FIELD_CACHE_TTL"`
}

var AppConfig *Config

func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("MANAGER_GROUP", "Release Managers")
	viper.SetDefault("LIGHT_MANAGER_GROUP", "Release Viewers")
	viper.SetDefault("MANUAL_ISSUE_MANAGEMENT", true)
	viper.SetDefault("META_ISSUES_ENABLED", true)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
}
