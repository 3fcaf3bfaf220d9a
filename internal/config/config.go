package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Store struct {
		Backend    string
		SQLitePath string
	}
	Supabase struct {
		URL        string
		AnonKey    string
		ServiceKey string
		JWTSecret  string
	}
	Auth struct {
		JWTAlg string
		Issuer string
	}
	OpenAI struct {
		APIKey  string
		BaseURL string
		Model   string
	}
	Archive struct {
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
}

// Store backends selectable via store.backend.
const (
	StoreBackendPostgrest = "postgrest"
	StoreBackendSQLite    = "sqlite"
)

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("COVERLETTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("store.backend", StoreBackendPostgrest)
	v.SetDefault("store.sqlitepath", "data/coverletters.db")
	v.SetDefault("supabase.url", "")
	v.SetDefault("supabase.anonkey", "")
	v.SetDefault("supabase.servicekey", "")
	v.SetDefault("supabase.jwtsecret", "")
	v.SetDefault("auth.jwtalg", "RS256")
	v.SetDefault("auth.issuer", "supabase")
	v.SetDefault("openai.apikey", "")
	v.SetDefault("openai.baseurl", "https://api.openai.com")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.keyprefix", "cover-letters")
	v.SetDefault("archive.region", "us-east-1")
	v.SetDefault("archive.endpoint", "")
	v.SetDefault("aws.profile", "")

	// The provider and generator keys are conventionally exported under their
	// plain names, so accept those alongside the prefixed form.
	_ = v.BindEnv("supabase.url", "COVERLETTER_SUPABASE_URL", "SUPABASE_URL")
	_ = v.BindEnv("supabase.anonkey", "COVERLETTER_SUPABASE_ANONKEY", "SUPABASE_ANON_KEY")
	_ = v.BindEnv("supabase.servicekey", "COVERLETTER_SUPABASE_SERVICEKEY", "SUPABASE_SERVICE_KEY")
	_ = v.BindEnv("supabase.jwtsecret", "COVERLETTER_SUPABASE_JWTSECRET", "SUPABASE_JWT_SECRET")
	_ = v.BindEnv("openai.apikey", "COVERLETTER_OPENAI_APIKEY", "OPENAI_API_KEY")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func loadDotEnv() {
	file, err := os.Open(".env")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
