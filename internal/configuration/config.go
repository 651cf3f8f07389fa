package configuration

import (
	"fmt"
	"os"
	"strings"

	"admin/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

func parseArrayFields(k *koanf.Koanf) {
	for _, field := range ArrayConfigFields {
		if stringVal := k.String(field); stringVal != "" {
			stringVal = strings.Trim(stringVal, "[]")
			var items []string
			if strings.Contains(stringVal, ",") {
				items = strings.Split(stringVal, ",")
			} else {
				items = strings.Fields(stringVal)
			}
			for i, item := range items {
				items[i] = strings.TrimSpace(item)
			}
			err := k.Set(field, items)
			if err != nil {
				zap.L().
					Error("Error parsing array field", zap.String("field", field), zap.Error(err))
			}
		}
	}
}

// readEnvAliases applies the flat variables the dashboard historically used
// (NEXT_PUBLIC_API_BASE_URL, GOOGLE_API_KEY). They win over nested keys.
func readEnvAliases(k *koanf.Koanf) {
	for envKey, configKey := range EnvAliases {
		if value, ok := os.LookupEnv(envKey); ok {
			if err := k.Set(configKey, strings.TrimSpace(value)); err != nil {
				zap.L().Error("Failed to apply env alias", zap.String("env", envKey), zap.Error(err))
			}
		}
	}
}

func readEnvVars(k *koanf.Koanf) {
	err := k.Load(env.Provider("", ".", func(s string) string {
		s = strings.ToLower(s)
		segments := strings.Split(s, "__")
		result := strings.Join(segments, ".")
		return result
	}), nil)
	if err != nil {
		zap.L().Warn("Error loading environment variables", zap.Error(err))
	}

	parseArrayFields(k)
	readEnvAliases(k)
}

func readFileConfig(k *koanf.Koanf) error {
	configFilePath := os.Getenv("CONFIG_FILE_PATH")
	var filePath string
	if configFilePath == "" {
		for _, path := range ConfigFileSearchPaths {
			if _, err := os.Stat(path); err == nil {
				filePath = path
				break
			}
		}
	} else {
		filePath = configFilePath
	}

	if filePath == "" {
		zap.L().Debug("No configuration file found, using defaults and environment")
		return nil
	}

	if err := k.Load(file.Provider(filePath), yaml.Parser()); err != nil {
		return fmt.Errorf("loading config file %s: %w", filePath, err)
	}
	zap.L().Info("Read configuration from file " + filePath)
	return nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]interface{}{
		"app.environment":     "development",
		"app.log_level":       "info",
		"app.port":            3000,
		"app.allowed_origins": []string{"http://localhost:3000"},

		// login attempts per minute and client address, 0 disables the limit
		"app.login_rate_limit": 10,

		"backend.base_url": "",

		"cache.type": "memory",

		"stats.fresh_seconds":     0,
		"stats.retention_seconds": 600,

		"activity.type":           "none",
		"activity.retention_days": 30,

		"moderation.model":    "gemini-1.5-flash",
		"moderation.endpoint": "https://generativelanguage.googleapis.com",
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}

// Load builds the configuration from defaults, the optional YAML file and the environment.
func Load() (models.Configuration, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return models.Configuration{}, fmt.Errorf("loading defaults: %w", err)
	}
	if err := readFileConfig(k); err != nil {
		return models.Configuration{}, err
	}
	readEnvVars(k)

	var config models.Configuration
	err := k.UnmarshalWithConf("", &config, koanf.UnmarshalConf{Tag: "mapstructure"})
	if err != nil {
		return models.Configuration{}, fmt.Errorf("decoding config: %w", err)
	}
	config.Backend.BaseURL = strings.TrimRight(config.Backend.BaseURL, "/")

	validate := validator.New()
	if err = validate.Struct(config); err != nil {
		return models.Configuration{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Read is Load for process start: any error is fatal.
func Read() models.Configuration {
	config, err := Load()
	if err != nil {
		zap.L().Fatal("Unable to load configuration", zap.Error(err))
	}

	if !config.Backend.Configured() {
		zap.L().Warn("NEXT_PUBLIC_API_BASE_URL is not set, backend requests will fail with 500")
	}
	if !config.Moderation.Enabled() {
		zap.L().Warn("GOOGLE_API_KEY is not set, content moderation is disabled")
	}

	return config
}
