package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Commerce holds the headless commerce backend configuration.
	Commerce CommerceConfig `mapstructure:",squash"`

	// Auth holds token verification settings.
	Auth AuthConfig `mapstructure:",squash"`

	// Redis holds the session cache configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// Delivery holds the CDEK delivery resolver settings.
	Delivery DeliveryConfig `mapstructure:",squash"`

	// Payment holds the payment provider and watcher settings.
	Payment PaymentConfig `mapstructure:",squash"`
}

// CommerceConfig holds the connection details for the commerce backend.
// Order, cart, counter and CDEK sync endpoints all live under this base URL.
type CommerceConfig struct {
	// BaseURL is the base URL of the commerce backend (e.g., http://localhost:1337).
	BaseURL string `mapstructure:"COMMERCE_URL" required:"true"`
}

// AuthConfig holds settings for local bearer-token validation.
type AuthConfig struct {
	// JWTSecret is the shared secret used to verify bearer tokens locally.
	JWTSecret string `mapstructure:"JWT_SECRET" required:"true"`
}

// RedisConfig holds the Redis connection used for payment session persistence.
type RedisConfig struct {
	// URL is the Redis connection string (redis://[:password@]host[:port][/db]).
	URL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379"`
}

// DeliveryConfig holds tunables for the delivery cost resolver.
type DeliveryConfig struct {
	// FallbackCost is the flat delivery cost returned when the carrier API fails.
	FallbackCost int `mapstructure:"DELIVERY_FALLBACK_COST" default:"990"`
	// DebounceMs is the quiet period after the last address edit before recalculating.
	DebounceMs int `mapstructure:"DELIVERY_DEBOUNCE_MS" default:"1000"`
	// CarrierRatePerSecond caps calculate calls issued to the carrier per second.
	CarrierRatePerSecond int `mapstructure:"DELIVERY_CARRIER_RPS" default:"5"`
}

// PaymentConfig holds tunables for the payment watcher.
type PaymentConfig struct {
	// PollIntervalSeconds is the delay between payment status checks.
	PollIntervalSeconds int `mapstructure:"PAYMENT_POLL_INTERVAL_SECONDS" default:"15"`
	// MaxPollAttempts bounds the number of status checks before giving up.
	MaxPollAttempts int `mapstructure:"PAYMENT_MAX_POLL_ATTEMPTS" default:"40"`
	// PaidRedirectDelayMs is the pause before redirecting after a paid status.
	PaidRedirectDelayMs int `mapstructure:"PAYMENT_PAID_REDIRECT_DELAY_MS" default:"2000"`
	// AutoOpenDelayMs is the pause before auto-opening the external payment URL.
	AutoOpenDelayMs int `mapstructure:"PAYMENT_AUTO_OPEN_DELAY_MS" default:"300"`
	// SessionTTLHours is how long a persisted payment session is kept in the cache.
	SessionTTLHours int `mapstructure:"PAYMENT_SESSION_TTL_HOURS" default:"24"`
}

// PollInterval returns the watcher poll interval as a duration.
func (c PaymentConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// PaidRedirectDelay returns the post-payment redirect delay as a duration.
func (c PaymentConfig) PaidRedirectDelay() time.Duration {
	return time.Duration(c.PaidRedirectDelayMs) * time.Millisecond
}

// AutoOpenDelay returns the auto-open delay as a duration.
func (c PaymentConfig) AutoOpenDelay() time.Duration {
	return time.Duration(c.AutoOpenDelayMs) * time.Millisecond
}

// SessionTTL returns the persisted session lifetime as a duration.
func (c PaymentConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// Debounce returns the address edit quiet period as a duration.
func (c DeliveryConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
