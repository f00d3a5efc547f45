package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "DMATS"

type Config struct {
	Port        int    `mapstructure:"port"`
	Host        string `mapstructure:"host"`
	Environment string `mapstructure:"environment"`
	PublicDir   string `mapstructure:"public_dir"`

	DB     DBConfig      `mapstructure:"db"`
	Keys   KeysConfig    `mapstructure:"keys"`
	Auth   AuthConfig    `mapstructure:"auth"`
	OpenAI *OpenAIConfig `mapstructure:"openai"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type KeysConfig struct {
	// DefaultUsageLimit is the quota assigned to newly issued keys.
	DefaultUsageLimit int64 `mapstructure:"default_usage_limit"`
}

type AuthConfig struct {
	// Provider selects the identity provider: "github" or "oidc".
	Provider string `mapstructure:"provider"`

	// SessionSecret must decode to 32 bytes (AES-256) when hex-encoded.
	SessionSecret   string `mapstructure:"session_secret"`
	SessionDuration int    `mapstructure:"session_duration_minutes"`

	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`

	// IssuerURL is only used when Provider is "oidc".
	IssuerURL string `mapstructure:"issuer_url"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

var config *Config

// LoadEnvAndConfigFiles wires viper to the DMATS_* environment, loads an
// optional .env file and an optional yaml config file, then materializes
// the Config struct.
func LoadEnvAndConfigFiles() error {
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	envFile := viper.GetString("env_file")
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}

	configFile := viper.GetString("config_file")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
	}

	if err := LoadConfig(false); err != nil {
		if errors.As(err, &viper.ConfigFileNotFoundError{}) {
			fmt.Println("No config file found. Using default config.")
		} else {
			return err
		}
	}

	return nil
}

func LoadConfig(reload bool) error {
	if config != nil && !reload {
		return fmt.Errorf("config already loaded")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config: %w", err)
		}
	}

	setDefaults()

	config = &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshalling config: %w", err)
	}

	return nil
}

func GetConfig() *Config {
	if config == nil {
		panic("config not loaded")
	}

	return config
}

func setDefaults() {
	viper.SetDefault("port", DefaultPort)
	viper.SetDefault("host", DefaultHost)
	viper.SetDefault("environment", "dev")
	viper.SetDefault("db.driver", "sqlite")
	viper.SetDefault("db.dsn", DefaultSQLiteDSN)
	viper.SetDefault("keys.default_usage_limit", DefaultUsageLimit)
	viper.SetDefault("auth.provider", "github")
	viper.SetDefault("auth.session_duration_minutes", DefaultSessionMinutes)
	viper.SetDefault("openai.model", DefaultSummaryModel)
}
