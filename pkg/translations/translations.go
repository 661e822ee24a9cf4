package translations

import (
	"encoding/json"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// TranslationHelperFunc resolves a translation key to its override, falling
// back to the provided default when no override is configured.
type TranslationHelperFunc func(key string, defaultValue string) string

// NullTranslationHelper always returns the default value. Used in tests and
// anywhere overrides are irrelevant.
func NullTranslationHelper(_ string, defaultValue string) string {
	return defaultValue
}

// TranslationHelper returns a helper that resolves tool descriptions from the
// GITHUB_MCP_* environment or a github-mcp-server-config.json file next to the
// binary, together with a dump function that writes every key seen during
// registration back out as JSON (used by --export-translations).
func TranslationHelper() (TranslationHelperFunc, func()) {
	translationKeyMap := map[string]string{}
	v := viper.New()

	v.SetEnvPrefix("github_mcp")
	v.AutomaticEnv()

	v.SetConfigName("github-mcp-server-config")
	v.SetConfigType("json")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// a missing config file is the normal case
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Could not read translation config file: %v", err)
		}
	}

	return func(key string, defaultValue string) string {
			key = strings.ToUpper(key)
			if value, exists := translationKeyMap[key]; exists {
				return value
			}

			// check if the env var is set
			if value := v.GetString(key); value != "" {
				translationKeyMap[key] = value
				return value
			}

			translationKeyMap[key] = defaultValue
			return defaultValue
		}, func() {
			DumpTranslationKeyMap(translationKeyMap)
		}
}

// DumpTranslationKeyMap writes the collected translation keys to
// github-mcp-server-config.json in the current directory.
func DumpTranslationKeyMap(translationKeyMap map[string]string) {
	file, err := os.Create("github-mcp-server-config.json")
	if err != nil {
		log.Fatalf("Error creating translation file: %v", err)
	}
	defer func() { _ = file.Close() }()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(translationKeyMap); err != nil {
		log.Fatalf("Error writing translation file: %v", err)
	}
}
