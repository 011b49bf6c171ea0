// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	configPath = pflag.String("config", "", "Path to a config.toml file")
	SweepOnce  = pflag.Bool("sweep-once", false, "Cleans up old pending applications once and exits")

	validLogLevels    = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers      = []string{"sqlite", "postgres"}
	validHashes       = []string{"bcrypt", "argon2id"}
	validStorageTypes = []string{"", "s3", "r2"}
)

// Setup parses the command line and loads the configuration. Function will
// return an error if something is critically wrong and the application can't
// run because of that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	return Load(*configPath)
}

// Load reads path (or ./config.toml when empty) on top of the defaults and
// environment and validates the result. A missing config file isn't an error,
// everything can come from the environment.
func Load(path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "APP_LOG_LEVEL")

	v.BindEnv("host.port", "HOST_PORT")
	v.BindEnv("host.domain", "HOST_DOMAIN")
	v.BindEnv("host.cors_origins", "HOST_CORS")

	v.BindEnv("host.ssl.enabled", "HOST_SSL_ENABLED")
	v.BindEnv("host.ssl.certificate_path", "HOST_SSL_CERTIFICATE_PATH")
	v.BindEnv("host.ssl.certificate_key_path", "HOST_SSL_CERTIFICATE_KEY_PATH")

	v.BindEnv("db.driver", "DB_DRIVER")
	v.BindEnv("db.dsn", "DB_DSN", "DATABASE_URL")

	v.BindEnv("security.password_hash", "SECURITY_PASSWORD_HASH")
	v.BindEnv("security.bcrypt_cost", "SECURITY_BCRYPT_COST")
	v.BindEnv("security.rate_limit", "SECURITY_RATE_LIMIT")

	v.BindEnv("verification.code_length", "VERIFICATION_CODE_LENGTH")
	v.BindEnv("verification.max_attempts", "VERIFICATION_MAX_ATTEMPTS")
	v.BindEnv("verification.lockout", "VERIFICATION_LOCKOUT")

	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")

	v.BindEnv("mail.host", "MAIL_HOST", "SMTP_HOST")
	v.BindEnv("mail.port", "MAIL_PORT", "SMTP_PORT")
	v.BindEnv("mail.username", "MAIL_USERNAME", "SMTP_USER")
	v.BindEnv("mail.password", "MAIL_PASSWORD", "SMTP_PASS")
	v.BindEnv("mail.sender_address", "MAIL_SENDER_ADDRESS", "SENDER_EMAIL")
	v.BindEnv("mail.site_name", "MAIL_SITE_NAME")

	v.BindEnv("cron.secret", "CRON_SECRET")

	v.BindEnv("cleanup.schedule", "CLEANUP_SCHEDULE")
	v.BindEnv("cleanup.retention", "CLEANUP_RETENTION")

	v.BindEnv("storage.type", "STORAGE_TYPE")

	v.BindEnv("aws.region", "AWS_REGION")
	v.BindEnv("aws.bucket", "AWS_BUCKET")
	v.BindEnv("aws.access_key_id", "AWS_ACCESS_KEY_ID")
	v.BindEnv("aws.secret_access_key", "AWS_SECRET_ACCESS_KEY")
	v.BindEnv("aws.endpoint", "AWS_ENDPOINT")

	v.BindEnv("cloudflare.account_id", "CLOUDFLARE_ACCOUNT_ID")
	v.BindEnv("cloudflare.access_key_id", "CLOUDFLARE_ACCESS_KEY_ID")
	v.BindEnv("cloudflare.secret_access_key", "CLOUDFLARE_SECRET_ACCESS_KEY")
	v.BindEnv("cloudflare.bucket", "CLOUDFLARE_BUCKET")

	v.BindEnv("cloudflare.turnstile.enabled", "CLOUDFLARE_TURNSTILE_ENABLED")
	v.BindEnv("cloudflare.turnstile.secret_token", "CLOUDFLARE_TURNSTILE_SECRET_TOKEN")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "portal.db")

	v.SetDefault("security.password_hash", "bcrypt")
	v.SetDefault("security.bcrypt_cost", 10)
	v.SetDefault("security.rate_limit", 0)

	v.SetDefault("verification.code_length", 6)
	v.SetDefault("verification.max_attempts", 5)
	v.SetDefault("verification.lockout", "15m")

	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.site_name", "Best Computer Training Center")

	v.SetDefault("cleanup.retention", "24h")

	v.SetDefault("aws.region", "us-east-1")

	v.SetDefault("cloudflare.turnstile.enabled", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound v.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file, %w", err)
		}

		zap.L().Debug("No config.toml found, using defaults and environment")
	}

	return validate()
}

func validate() error {
	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetBool("host.ssl.enabled") {
		if v.GetString("host.ssl.certificate_path") == "" {
			return errors.New("no ssl certificate path provided")
		}

		if v.GetString("host.ssl.certificate_key_path") == "" {
			return errors.New("no ssl certificate key path provided")
		}
	}

	if !slices.Contains(validDrivers, v.GetString("db.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("db.dsn") == "" {
		return errors.New("db.dsn can't be empty")
	}

	if !slices.Contains(validHashes, v.GetString("security.password_hash")) {
		return errors.New("invalid password hash provided")
	}

	if v.GetInt("security.rate_limit") < 0 {
		return errors.New("security.rate_limit can't be negative")
	}

	if n := v.GetInt("verification.code_length"); n < 4 || n > 16 {
		return errors.New("verification.code_length must be between 4 and 16")
	}

	if v.GetInt("verification.max_attempts") <= 0 {
		return errors.New("verification.max_attempts must be bigger than 0")
	}

	if v.GetDuration("verification.lockout") <= 0 {
		return errors.New("verification.lockout must be a positive duration")
	}

	if v.GetDuration("cleanup.retention") <= 0 {
		return errors.New("cleanup.retention must be a positive duration")
	}

	if v.GetString("cron.secret") == "" {
		zap.L().Warn("No cron.secret set, the cleanup endpoint will reject every request")
	}

	if v.GetString("mail.host") == "" || v.GetString("mail.sender_address") == "" {
		zap.L().Warn("Mail isn't configured, email signups will fail")
	}

	switch v.GetString("storage.type") {
	case "s3":
		if v.GetString("aws.bucket") == "" {
			return errors.New("aws.bucket can't be empty")
		}
	case "r2":
		if v.GetString("cloudflare.account_id") == "" {
			return errors.New("account id can't be empty")
		}
		if v.GetString("cloudflare.access_key_id") == "" {
			return errors.New("account access id can't be empty")
		}
		if v.GetString("cloudflare.secret_access_key") == "" {
			return errors.New("secret access key can't be empty")
		}
		if v.GetString("cloudflare.bucket") == "" {
			return errors.New("bucket can't be empty")
		}
	}

	if !slices.Contains(validStorageTypes, v.GetString("storage.type")) {
		return errors.New("invalid storage type provided")
	}

	if v.GetBool("cloudflare.turnstile.enabled") && v.GetString("cloudflare.turnstile.secret_token") == "" {
		return errors.New("turnstile secret token is missing")
	}

	return nil
}
