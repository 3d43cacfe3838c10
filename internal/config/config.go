package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFrameCount = 100
	DefaultJitter     = 0.05
	DefaultTrail      = 10
	DefaultWidth      = 640
	DefaultHeight     = 480
	DefaultDelay      = 4
	DefaultDotWidth   = 5.0
	DefaultAddr       = ":8080"
	DefaultDriver     = "fs"
	DefaultRoot       = "user_plots"
)

type Config struct {
	FrameCount int        `yaml:"frame_count"`
	Seed       int64      `yaml:"seed"`
	Jitter     float64    `yaml:"jitter"`
	Compounds  []Compound `yaml:"compounds"`
	Render     Render     `yaml:"render"`
	Server     Server     `yaml:"server"`
	Storage    Storage    `yaml:"storage"`
}

// Compound is one analyte; the solvent is always added implicitly.
type Compound struct {
	Name string  `yaml:"name"`
	Rate float64 `yaml:"rate"`
}

type Render struct {
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	Delay    int     `yaml:"delay"`
	Trail    int     `yaml:"trail"`
	DotWidth float64 `yaml:"dot_width"`
	Title    string  `yaml:"title,omitempty"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

type Storage struct {
	Driver string `yaml:"driver"`
	Root   string `yaml:"root"`
	S3     S3     `yaml:"s3"`
}

type S3 struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathStyle       bool   `yaml:"path_style"`
}

func DefaultConfig() *Config {
	return &Config{
		FrameCount: DefaultFrameCount,
		Jitter:     DefaultJitter,
		Compounds:  append([]Compound(nil), Presets["classic"].Compounds...),
		Render: Render{
			Width:    DefaultWidth,
			Height:   DefaultHeight,
			Delay:    DefaultDelay,
			Trail:    DefaultTrail,
			DotWidth: DefaultDotWidth,
		},
		Server: Server{
			Addr: DefaultAddr,
		},
		Storage: Storage{
			Driver: DefaultDriver,
			Root:   DefaultRoot,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.FrameCount <= 0 {
		return fmt.Errorf("frame_count must be positive, got %d", c.FrameCount)
	}
	if c.Jitter < 0 {
		return fmt.Errorf("jitter must not be negative, got %f", c.Jitter)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.Trail <= 0 {
		return fmt.Errorf("render trail must be positive, got %d", c.Render.Trail)
	}
	switch c.Storage.Driver {
	case "fs", "memory":
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket required for s3 driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}

// ApplyEnv overrides storage settings from the environment:
//
//	CHROMASIM_BLOB_DRIVER: fs|s3|memory
//	CHROMASIM_BLOB_FS_ROOT: directory root when driver=fs
//	CHROMASIM_BLOB_S3_BUCKET, CHROMASIM_BLOB_S3_REGION,
//	CHROMASIM_BLOB_S3_ENDPOINT, CHROMASIM_BLOB_S3_PATH_STYLE
//	CHROMASIM_ADDR: listen address of the server
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Storage.Driver, "CHROMASIM_BLOB_DRIVER")
	set(&c.Storage.Root, "CHROMASIM_BLOB_FS_ROOT")
	set(&c.Storage.S3.Bucket, "CHROMASIM_BLOB_S3_BUCKET")
	set(&c.Storage.S3.Region, "CHROMASIM_BLOB_S3_REGION")
	set(&c.Storage.S3.Endpoint, "CHROMASIM_BLOB_S3_ENDPOINT")
	set(&c.Server.Addr, "CHROMASIM_ADDR")
	if v := getenv("CHROMASIM_BLOB_S3_PATH_STYLE"); v != "" {
		c.Storage.S3.PathStyle = strings.EqualFold(v, "true")
	}
}
