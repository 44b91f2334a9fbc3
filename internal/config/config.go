package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		CORSOrigins    []string `yaml:"corsOrigins"`
		MaxUploadBytes int64    `yaml:"maxUploadBytes"`
	} `yaml:"server"`

	Log struct {
		Mode string `yaml:"mode"`
	} `yaml:"log"`

	Analysis struct {
		// Endpoint is the efficient-frontier backend base URL (ANALYSIS_ENDPOINT).
		Endpoint    string        `yaml:"endpoint"`
		Timeout     time.Duration `yaml:"timeout"`
		MockLatency time.Duration `yaml:"mockLatency"`
	} `yaml:"analysis"`

	Assistant struct {
		APIKey  string `yaml:"apiKey"`
		BaseURL string `yaml:"baseURL"`
		Model   string `yaml:"model"`
	} `yaml:"assistant"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	RateLimit struct {
		Capacity   int `yaml:"capacity"`
		RefillRate int `yaml:"refillRate"`
	} `yaml:"rateLimit"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	var cfg Config
	cfg.Server.Port = 8080
	cfg.Server.MaxUploadBytes = 32 << 20
	cfg.Log.Mode = "development"
	cfg.Analysis.Timeout = 60 * time.Second
	cfg.RateLimit.Capacity = 30
	cfg.RateLimit.RefillRate = 1
	cfg.Minio.BucketName = "materials"
	return &cfg
}

// Load reads the YAML file at path on top of Default, then applies the
// environment (a .env file is loaded first when present). A missing file is
// not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv(os.Getenv)
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("ANALYSIS_ENDPOINT"); v != "" {
		c.Analysis.Endpoint = v
	}
	if v := getenv("OPENAI_API_KEY"); v != "" {
		c.Assistant.APIKey = v
	}
	if v := getenv("ASSISTANT_BASE_URL"); v != "" {
		c.Assistant.BaseURL = v
	}
	if v := getenv("ASSISTANT_MODEL"); v != "" {
		c.Assistant.Model = v
	}
	if v := getenv("LOG_MODE"); v != "" {
		c.Log.Mode = v
	}
	if v := getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := getenv("CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = strings.Split(v, ",")
	}
}
