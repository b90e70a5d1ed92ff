package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Redis     RedisConfig     `yaml:"redis"`
	Inference InferenceConfig `yaml:"inference"`
	Audio     AudioConfig     `yaml:"audio"`
	Cache     CacheConfig     `yaml:"cache"`
}

type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type InferenceConfig struct {
	Backend       string `yaml:"backend"` // "ctc" or "openai"
	CTCBaseURL    string `yaml:"ctc_base_url"`
	CTCModel      string `yaml:"ctc_model"`
	OpenAIKey     string `yaml:"openai_key"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	OpenAIModel   string `yaml:"openai_model"`
}

type AudioConfig struct {
	TargetSampleRate  int    `yaml:"target_sample_rate"`
	MaxSegmentSeconds int    `yaml:"max_segment_seconds"`
	FFmpegPath        string `yaml:"ffmpeg_path"`
	TempDir           string `yaml:"temp_dir"`
	MediaDir          string `yaml:"media_dir"`
}

type CacheConfig struct {
	Enabled    bool `yaml:"enabled"`
	TTLSeconds int  `yaml:"ttl_seconds"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			MaxUploadMB: 100,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Inference: InferenceConfig{
			Backend:    "ctc",
			CTCBaseURL: "http://localhost:8178",
		},
		Audio: AudioConfig{
			TargetSampleRate:  16000,
			MaxSegmentSeconds: 30,
			FFmpegPath:        "ffmpeg",
			TempDir:           os.TempDir(),
			MediaDir:          "media",
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 3600,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and finally environment variables, in increasing precedence.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

func applyEnv(cfg *Config) error {
	overrideString(&cfg.Server.Host, "SERVER_HOST")
	if err := overrideInt(&cfg.Server.Port, "SERVER_PORT"); err != nil {
		return err
	}
	if err := overrideInt(&cfg.Server.MaxUploadMB, "SERVER_MAX_UPLOAD_MB"); err != nil {
		return err
	}

	overrideString(&cfg.Redis.Addr, "REDIS_ADDR")
	overrideString(&cfg.Redis.Password, "REDIS_PASSWORD")
	if err := overrideInt(&cfg.Redis.DB, "REDIS_DB"); err != nil {
		return err
	}

	overrideString(&cfg.Inference.Backend, "INFERENCE_BACKEND")
	overrideString(&cfg.Inference.CTCBaseURL, "INFERENCE_CTC_URL")
	overrideString(&cfg.Inference.CTCModel, "INFERENCE_CTC_MODEL")
	overrideString(&cfg.Inference.OpenAIKey, "OPENAI_API_KEY")
	overrideString(&cfg.Inference.OpenAIBaseURL, "INFERENCE_OPENAI_BASE_URL")
	overrideString(&cfg.Inference.OpenAIModel, "INFERENCE_OPENAI_MODEL")

	if err := overrideInt(&cfg.Audio.TargetSampleRate, "AUDIO_TARGET_SAMPLE_RATE"); err != nil {
		return err
	}
	if err := overrideInt(&cfg.Audio.MaxSegmentSeconds, "AUDIO_MAX_SEGMENT_SECONDS"); err != nil {
		return err
	}
	overrideString(&cfg.Audio.FFmpegPath, "AUDIO_FFMPEG_PATH")
	overrideString(&cfg.Audio.TempDir, "AUDIO_TEMP_DIR")
	overrideString(&cfg.Audio.MediaDir, "AUDIO_MEDIA_DIR")

	if err := overrideBool(&cfg.Cache.Enabled, "CACHE_ENABLED"); err != nil {
		return err
	}
	if err := overrideInt(&cfg.Cache.TTLSeconds, "CACHE_TTL_SECONDS"); err != nil {
		return err
	}
	return nil
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func overrideBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}
