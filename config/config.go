package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvProduction = "production"

	SlotPolicyOpen   = "open"
	SlotPolicyStrict = "strict"
)

var (
	ErrMongoURIRequired  = errors.New("MONGODB_URI is required")
	ErrJWTSecretRequired = errors.New("JWT_SECRET is required")
)

type Config struct {
	App     AppConfig
	Mongo   MongoConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	SMTP    SMTPConfig
	CORS    CORSConfig
	Booking BookingConfig
	Auth    AuthConfig
}

type AppConfig struct {
	Port     string
	Env      string
	Timezone string
}

func (c AppConfig) IsProduction() bool {
	return c.Env == EnvProduction
}

// Location falls back to UTC for an unknown zone name.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type MongoConfig struct {
	URI      string
	Database string
}

// DBConfig is the Postgres audit store. An empty Host disables it.
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

func (c DBConfig) Enabled() bool {
	return c.Host != ""
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// SMTPConfig configures the OTP mailer. An empty Host logs messages instead of sending them.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

type CORSConfig struct {
	AllowedOrigins []string
}

type BookingConfig struct {
	SlotPolicy string
}

type AuthConfig struct {
	OTPExpiry             time.Duration
	DoctorDefaultPassword string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_TIMEZONE", "UTC")
	v.SetDefault("MONGODB_DATABASE", "clinic")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("BOOKING_SLOT_POLICY", SlotPolicyOpen)
	v.SetDefault("DOCTOR_DEFAULT_PASSWORD", "Doctor@123")

	jwtExpiry, err := time.ParseDuration(v.GetString("JWT_EXPIRY"))
	if err != nil {
		jwtExpiry = 7 * 24 * time.Hour
	}

	otpExpiry, err := time.ParseDuration(v.GetString("OTP_EXPIRY"))
	if err != nil {
		otpExpiry = 10 * time.Minute
	}

	config := &Config{
		App: AppConfig{
			Port:     v.GetString("APP_PORT"),
			Env:      v.GetString("APP_ENV"),
			Timezone: v.GetString("APP_TIMEZONE"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			Expiry: jwtExpiry,
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Booking: BookingConfig{
			SlotPolicy: strings.ToLower(v.GetString("BOOKING_SLOT_POLICY")),
		},
		Auth: AuthConfig{
			OTPExpiry:             otpExpiry,
			DoctorDefaultPassword: v.GetString("DOCTOR_DEFAULT_PASSWORD"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.Mongo.URI == "" {
		return ErrMongoURIRequired
	}
	if c.JWT.Secret == "" {
		return ErrJWTSecretRequired
	}
	switch c.Booking.SlotPolicy {
	case SlotPolicyOpen, SlotPolicyStrict:
	default:
		return fmt.Errorf("invalid BOOKING_SLOT_POLICY %q, use %q or %q", c.Booking.SlotPolicy, SlotPolicyOpen, SlotPolicyStrict)
	}
	if c.SMTP.Enabled() && c.SMTP.From == "" {
		c.SMTP.From = c.SMTP.Username
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
