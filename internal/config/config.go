package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"resume-renderer/internal/compose"
	"resume-renderer/internal/logging"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port      string `yaml:"port"`
	QueueSize int    `yaml:"queue_size"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type ChromeConfig struct {
	ExecPath       string `yaml:"exec_path"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	ReadyTimeoutMS int    `yaml:"ready_timeout_ms"`
}

func (c ChromeConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c ChromeConfig) ReadyTimeout() time.Duration {
	return time.Duration(c.ReadyTimeoutMS) * time.Millisecond
}

type RenderConfig struct {
	Backend         string  `yaml:"backend"`
	RasterScale     float64 `yaml:"raster_scale"`
	RasterPaddingCM float64 `yaml:"raster_padding_cm"`
	VectorMarginPt  float64 `yaml:"vector_margin_pt"`
	FontRegular     string  `yaml:"font_regular"`
	FontBold        string  `yaml:"font_bold"`
	Attempts        int     `yaml:"attempts"`
	BackoffMS       int     `yaml:"backoff_ms"`
}

// Geometry converts the render section to compositor geometry.
func (r RenderConfig) Geometry() compose.Geometry {
	return compose.Geometry{
		RasterPaddingCM: r.RasterPaddingCM,
		RasterScale:     r.RasterScale,
		VectorMarginPt:  r.VectorMarginPt,
	}
}

func (r RenderConfig) Backoff() time.Duration {
	return time.Duration(r.BackoffMS) * time.Millisecond
}

type RedisConfig struct {
	Address    string `yaml:"address"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLMinutes int    `yaml:"ttl_minutes"`
}

func (r RedisConfig) TTL() time.Duration {
	return time.Duration(r.TTLMinutes) * time.Minute
}

type MinIOConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	UseSSL          bool   `yaml:"useSSL"`
	BucketName      string `yaml:"bucketName"`
	URLExpiryHours  int    `yaml:"url_expiry_hours"`
}

type StorageConfig struct {
	LocalDir string `yaml:"local_dir"`
}

type AnimationConfig struct {
	DurationMS int `yaml:"duration_ms"`
	FrameMS    int `yaml:"frame_ms"`
}

func (a AnimationConfig) Duration() time.Duration {
	return time.Duration(a.DurationMS) * time.Millisecond
}

func (a AnimationConfig) Frame() time.Duration {
	return time.Duration(a.FrameMS) * time.Millisecond
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Chrome    ChromeConfig    `yaml:"chrome"`
	Render    RenderConfig    `yaml:"render"`
	Redis     RedisConfig     `yaml:"redis"`
	MinIO     MinIOConfig     `yaml:"minio"`
	Storage   StorageConfig   `yaml:"storage"`
	Animation AnimationConfig `yaml:"animation"`
	Logger    logging.Config  `yaml:"logger"`
}

func Default() *Config {
	g := compose.DefaultGeometry()
	return &Config{
		Server: ServerConfig{Port: "3000", QueueSize: 16},
		Chrome: ChromeConfig{TimeoutSeconds: 60, ReadyTimeoutMS: 5000},
		Render: RenderConfig{
			Backend:         string(compose.BackendVector),
			RasterScale:     g.RasterScale,
			RasterPaddingCM: g.RasterPaddingCM,
			VectorMarginPt:  g.VectorMarginPt,
			Attempts:        3,
			BackoffMS:       1000,
		},
		Redis:     RedisConfig{TTLMinutes: 60},
		MinIO:     MinIOConfig{BucketName: "resumes", URLExpiryHours: 24},
		Storage:   StorageConfig{LocalDir: "resume-data/renders"},
		Animation: AnimationConfig{DurationMS: 1500, FrameMS: 16},
		Logger:    logging.Config{Level: "info", Format: "json"},
	}
}

// Load reads .env (if present), the yaml file at path (if present) over the
// defaults, then applies environment overrides and validates.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&c.Server.Port, "PORT")
	setString(&c.Database.URL, "JOBS_DATABASE_URL")
	setString(&c.Chrome.ExecPath, "CHROME_PATH")
	setString(&c.Render.Backend, "RENDER_BACKEND")
	setString(&c.Redis.Address, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.MinIO.Endpoint, "MINIO_ENDPOINT")
	setString(&c.MinIO.AccessKeyID, "MINIO_ACCESS_KEY")
	setString(&c.MinIO.SecretAccessKey, "MINIO_SECRET_KEY")
	setString(&c.Logger.Level, "LOG_LEVEL")
	if v, err := strconv.ParseBool(os.Getenv("MINIO_ENABLED")); err == nil {
		c.MinIO.Enabled = v
	}
}

func (c *Config) Validate() error {
	if _, err := compose.ParseBackend(c.Render.Backend); err != nil {
		return fmt.Errorf("render.backend: %w", err)
	}
	if err := c.Render.Geometry().Validate(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if c.Render.Attempts < 1 {
		return errors.New("render.attempts must be at least 1")
	}
	if c.Render.BackoffMS < 0 {
		return errors.New("render.backoff_ms must not be negative")
	}
	if c.Animation.DurationMS <= 0 || c.Animation.FrameMS <= 0 {
		return errors.New("animation durations must be positive")
	}
	if c.Chrome.TimeoutSeconds <= 0 || c.Chrome.ReadyTimeoutMS <= 0 {
		return errors.New("chrome timeouts must be positive")
	}
	if c.MinIO.Enabled && (c.MinIO.Endpoint == "" || c.MinIO.BucketName == "") {
		return errors.New("minio.endpoint and minio.bucketName are required when minio is enabled")
	}
	return nil
}
