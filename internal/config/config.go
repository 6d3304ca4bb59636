// Package config loads the reminder's settings from a .env file, an optional json5 file
// and the environment, in increasing order of priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gradescope-reminder/internal/components/httpclient"
	"gradescope-reminder/internal/notifier"
	"gradescope-reminder/internal/scrapers/gradescope"
	"gradescope-reminder/pkg/configutil"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DefaultEnvFile    = ".env"
	DefaultConfigFile = "gradescope-reminder.json5"
)

var ErrMissingCredentials = errors.New("gradescope login email and password must be set (LOGIN_EMAIL, LOGIN_PASSWORD)")

type HttpConfig struct {
	Timeout time.Duration `validate:"gt=0"`
	Retries int           `validate:"gte=1,lte=10"`
	Backoff time.Duration `validate:"gt=0"`
	// RateLimit is the maximum amount of requests per second, 0 disables it.
	RateLimit float64 `validate:"gte=0"`
}

func (c HttpConfig) Options() httpclient.Options {
	return httpclient.Options{
		Timeout:   c.Timeout,
		Retries:   c.Retries,
		Backoff:   c.Backoff,
		RateLimit: c.RateLimit,
	}
}

type Config struct {
	BaseUrl  string `validate:"required,url"`
	Email    string `validate:"required"`
	Password string `validate:"required"`

	Http HttpConfig
	Smtp notifier.SmtpConfig

	// ForceTest sends a test email even when nothing is outstanding.
	ForceTest bool
	LogLevel  string
}

// fileConfig is the shape of the json5 config file, durations are written as strings
// like "10s".
type fileConfig struct {
	BaseUrl   string              `json:"base_url"`
	Email     string              `json:"email"`
	Password  string              `json:"password"`
	Timeout   string              `json:"timeout"`
	Retries   int                 `json:"retries"`
	Backoff   string              `json:"backoff"`
	RateLimit float64             `json:"rate_limit"`
	Smtp      notifier.SmtpConfig `json:"smtp"`
	ForceTest bool                `json:"force_test"`
	LogLevel  string              `json:"log_level"`
}

type Options struct {
	EnvFile    string
	ConfigFile string
}

var validate = validator.New()

// Load reads the configuration, missing files are not an error but missing
// credentials are.
func Load(opts Options) (Config, error) {
	if opts.EnvFile == "" {
		opts.EnvFile = DefaultEnvFile
	}
	if opts.ConfigFile == "" {
		opts.ConfigFile = DefaultConfigFile
	}

	err := loadDotEnv(opts.EnvFile)
	if err != nil {
		return Config{}, err
	}

	file, err := configutil.ReadOptional[fileConfig](opts.ConfigFile)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", opts.ConfigFile, err)
	}

	err = applyEnv(&file)
	if err != nil {
		return Config{}, err
	}

	config, err := resolve(file)
	if err != nil {
		return Config{}, err
	}

	err = validate.Struct(config)
	if err != nil {
		return Config{}, describeValidation(err)
	}
	return config, nil
}

// loadDotEnv sets the variables of a .env file that are unset or empty in the
// environment, since an empty variable is treated as unset everywhere else.
func loadDotEnv(path string) error {
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	for key, value := range values {
		if strings.TrimSpace(os.Getenv(key)) != "" {
			continue
		}
		err = os.Setenv(key, value)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

func describeValidation(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid config: %w", err)
	}

	var problems []string
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" && (fe.Field() == "Email" || fe.Field() == "Password") {
			return ErrMissingCredentials
		}
		problems = append(problems, fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(problems, ", "))
}

func override(target *string, keys ...string) {
	for _, key := range keys {
		value, ok := os.LookupEnv(key)
		if ok && strings.TrimSpace(value) != "" {
			*target = strings.TrimSpace(value)
			return
		}
	}
}

func overrideBool(target *bool, key string) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return
	}
	*target = parseBool(value)
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "on":
		return true
	}
	b, _ := strconv.ParseBool(strings.TrimSpace(value))
	return b
}

func applyEnv(file *fileConfig) error {
	override(&file.BaseUrl, "GRADESCOPE_BASE_URL")
	override(&file.Email, "LOGIN_EMAIL", "GRADESCOPE_EMAIL")
	override(&file.Password, "LOGIN_PASSWORD", "GRADESCOPE_PASSWORD")
	override(&file.Timeout, "HTTP_TIMEOUT")
	override(&file.Backoff, "HTTP_BACKOFF")
	override(&file.LogLevel, "LOG_LEVEL")

	var retries, rateLimit string
	override(&retries, "HTTP_RETRIES")
	if retries != "" {
		parsed, err := strconv.Atoi(retries)
		if err != nil {
			return fmt.Errorf("invalid HTTP_RETRIES: %w", err)
		}
		file.Retries = parsed
	}
	override(&rateLimit, "HTTP_RATE_LIMIT")
	if rateLimit != "" {
		parsed, err := strconv.ParseFloat(rateLimit, 64)
		if err != nil {
			return fmt.Errorf("invalid HTTP_RATE_LIMIT: %w", err)
		}
		file.RateLimit = parsed
	}

	override(&file.Smtp.Host, "SMTP_HOST")
	override(&file.Smtp.Port, "SMTP_PORT")
	override(&file.Smtp.User, "SMTP_USER")
	override(&file.Smtp.To, "SMTP_TO")
	override(&file.Smtp.From, "SMTP_FROM")
	// passwords may legitimately have surrounding spaces
	if value, ok := os.LookupEnv("SMTP_PASSWORD"); ok && value != "" {
		file.Smtp.Password = value
	}
	overrideBool(&file.Smtp.Debug, "SMTP_DEBUG")
	overrideBool(&file.ForceTest, "SMTP_FORCE_TEST")
	return nil
}

func resolve(file fileConfig) (Config, error) {
	config := Config{
		BaseUrl:   file.BaseUrl,
		Email:     file.Email,
		Password:  file.Password,
		Smtp:      file.Smtp,
		ForceTest: file.ForceTest,
		LogLevel:  file.LogLevel,
		Http: HttpConfig{
			Timeout:   httpclient.DefaultTimeout,
			Retries:   httpclient.DefaultRetries,
			Backoff:   httpclient.DefaultBackoff,
			RateLimit: file.RateLimit,
		},
	}
	if file.Retries != 0 {
		config.Http.Retries = file.Retries
	}
	if config.BaseUrl == "" {
		config.BaseUrl = gradescope.DefaultBaseUrl
	}

	var err error
	if file.Timeout != "" {
		config.Http.Timeout, err = time.ParseDuration(file.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid http timeout: %w", err)
		}
	}
	if file.Backoff != "" {
		config.Http.Backoff, err = time.ParseDuration(file.Backoff)
		if err != nil {
			return Config{}, fmt.Errorf("invalid http backoff: %w", err)
		}
	}

	return config, nil
}
