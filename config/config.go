package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	// Proxy addresses or CIDRs allowed to set X-Forwarded-For / X-Real-IP.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES"`

	// Document store.
	StoreBackend string `mapstructure:"STORE_BACKEND"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Firebase project (Firestore, Storage, Messaging).
	FirebaseCredentialsPath string `mapstructure:"FIREBASE_CREDENTIALS_PATH"`
	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseStorageBucket   string `mapstructure:"FIREBASE_STORAGE_BUCKET"`
	FCMEnabled              bool   `mapstructure:"FCM_ENABLED"`

	// Proof-of-payment storage.
	ProofStorage        string `mapstructure:"PROOF_STORAGE"`
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`

	// Admin credentials and sessions.
	AdminEmail        string        `mapstructure:"ADMIN_EMAIL"`
	AdminPasswordHash string        `mapstructure:"ADMIN_PASSWORD_HASH"`
	AdminPassword     string        `mapstructure:"ADMIN_PASSWORD"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	SessionTTL        time.Duration `mapstructure:"SESSION_TTL"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`

	// Dashboard.
	BusinessTimezone string `mapstructure:"BUSINESS_TIMEZONE"`
	ActivityFeedSize int    `mapstructure:"ACTIVITY_FEED_SIZE"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 300)
	viper.SetDefault("TRUSTED_PROXIES", []string{})
	viper.SetDefault("STORE_BACKEND", "firestore")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "ceygo")
	viper.SetDefault("FIREBASE_CREDENTIALS_PATH", "")
	viper.SetDefault("FIREBASE_PROJECT_ID", "")
	viper.SetDefault("FIREBASE_STORAGE_BUCKET", "")
	viper.SetDefault("FCM_ENABLED", true)
	viper.SetDefault("PROOF_STORAGE", "firebase")
	viper.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	viper.SetDefault("CLOUDINARY_API_KEY", "")
	viper.SetDefault("CLOUDINARY_API_SECRET", "")
	viper.SetDefault("ADMIN_EMAIL", "admin@ceygo.com")
	viper.SetDefault("ADMIN_PASSWORD_HASH", "")
	viper.SetDefault("ADMIN_PASSWORD", "")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("SESSION_TTL", "12h")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("BUSINESS_TIMEZONE", "Asia/Colombo")
	viper.SetDefault("ACTIVITY_FEED_SIZE", 15)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if AppConfig.FirebaseStorageBucket == "" && AppConfig.FirebaseProjectID != "" {
		AppConfig.FirebaseStorageBucket = AppConfig.FirebaseProjectID + ".appspot.com"
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// BusinessLocation resolves BUSINESS_TIMEZONE, falling back to UTC when the zone is unknown.
func BusinessLocation() *time.Location {
	loc, err := time.LoadLocation(AppConfig.BusinessTimezone)
	if err != nil {
		log.Printf("unknown BUSINESS_TIMEZONE %q, using UTC", AppConfig.BusinessTimezone)
		return time.UTC
	}
	return loc
}
