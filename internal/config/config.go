package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for our application
type Config struct {
	Port                       string
	Origin                     string
	Environment                string
	JWTSecret                  string
	JWTRefreshSecret           string
	Database                   DatabaseConfig
	Mailer                     MailerConfig
	PayMongo                   PayMongoConfig
	JWTExpirationMinutes       int
	JWTRefreshExpirationHours  int
	VerificationCodeTTLMinutes int
	VerificationSweepMinutes   int
	VerificationRatePerMinute  int
	AppURL                     string
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// MailerConfig holds email service configuration
type MailerConfig struct {
	Host        string
	Port        string
	Username    string
	Password    string
	DefaultFrom string
}

// PayMongoConfig holds payment gateway configuration
type PayMongoConfig struct {
	SecretKey string
	BaseURL   string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load database configuration
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "clinic"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	// Load mailer configuration
	mailerConfig := MailerConfig{
		Host:        getEnv("SMTP_HOST", "smtp.gmail.com"),
		Port:        getEnv("SMTP_PORT", "587"),
		Username:    getEnv("SMTP_USERNAME", ""),
		Password:    getEnv("SMTP_PASSWORD", ""),
		DefaultFrom: getEnv("MAILER_DEFAULT_FROM", "clinic@example.com"),
	}

	// Load payment gateway configuration
	payMongoConfig := PayMongoConfig{
		SecretKey: getEnv("PAYMONGO_SECRET_KEY", ""),
		BaseURL:   getEnv("PAYMONGO_BASE_URL", "https://api.paymongo.com/v1"),
	}

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	jwtRefreshExpHours, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168")) // 7 days
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_HOURS: %w", err)
	}

	codeTTLMinutes, err := strconv.Atoi(getEnv("VERIFICATION_CODE_TTL_MINUTES", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid VERIFICATION_CODE_TTL_MINUTES: %w", err)
	}

	sweepMinutes, err := strconv.Atoi(getEnv("VERIFICATION_SWEEP_MINUTES", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid VERIFICATION_SWEEP_MINUTES: %w", err)
	}

	ratePerMinute, err := strconv.Atoi(getEnv("VERIFICATION_RATE_PER_MINUTE", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid VERIFICATION_RATE_PER_MINUTE: %w", err)
	}

	// Return complete configuration
	return &Config{
		Port:                       getEnv("PORT", "3000"),
		Origin:                     getEnv("ORIGIN", "http://localhost:5173"),
		Environment:                getEnv("APP_ENV", "development"),
		JWTSecret:                  getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTRefreshSecret:           getEnv("JWT_REFRESH_SECRET", "default_refresh_secret"),
		Database:                   dbConfig,
		Mailer:                     mailerConfig,
		PayMongo:                   payMongoConfig,
		JWTExpirationMinutes:       jwtExpMinutes,
		JWTRefreshExpirationHours:  jwtRefreshExpHours,
		VerificationCodeTTLMinutes: codeTTLMinutes,
		VerificationSweepMinutes:   sweepMinutes,
		VerificationRatePerMinute:  ratePerMinute,
		AppURL:                     getEnv("APP_URL", "http://localhost:3000"),
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
