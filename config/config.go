package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const sessionDirName = ".vetportal"

type Config struct {
	APIOrigin      string        `envconfig:"VETPORTAL_API_ORIGIN" default:"http://localhost:8000" validate:"required,url"`
	APIPrefix      string        `envconfig:"VETPORTAL_API_PREFIX" default:"/api/"`
	RefreshPath    string        `envconfig:"VETPORTAL_REFRESH_PATH" default:"/api/token/refresh/" validate:"required"`
	RequestTimeout time.Duration `envconfig:"VETPORTAL_REQUEST_TIMEOUT" default:"15s" validate:"required"`
	SessionDir     string        `envconfig:"VETPORTAL_SESSION_DIR"`
	PhotoCacheSize int           `envconfig:"VETPORTAL_PHOTO_CACHE_SIZE" default:"64" validate:"min=1"`
	OutputDir      string        `envconfig:"VETPORTAL_OUTPUT_DIR" default:"."`
}

func New() *Config {
	return &Config{}
}

// NewFromEnv loads the configuration from the environment, after loading
// the variables defined in a .env file in the working directory (if any)
func NewFromEnv() (*Config, error) {
	c := New()
	if err := c.LoadFromEnv(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) LoadFromEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("unable to load .env file: %w", err)
	}
	if err := envconfig.Process("", c); err != nil {
		return err
	}
	if c.SessionDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("unable to determine session directory: %w", err)
		}
		c.SessionDir = filepath.Join(home, sessionDirName)
	}

	return c.Validate()
}

func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// Origin returns the backend origin without trailing slashes
func (c *Config) Origin() string {
	return strings.TrimRight(c.APIOrigin, "/")
}

// BaseURL returns the origin suffixed with the api prefix, always ending with a slash
func (c *Config) BaseURL() string {
	prefix := strings.Trim(c.APIPrefix, "/")
	if prefix == "" {
		return c.Origin() + "/"
	}
	return c.Origin() + "/" + prefix + "/"
}

func (c *Config) RefreshURL() string {
	return c.Origin() + "/" + strings.TrimLeft(c.RefreshPath, "/")
}

// ResolveURL converts a possibly relative reference (e.g. /media/photos/rex.jpg)
// to an absolute url on the backend origin
func (c *Config) ResolveURL(ref string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", err
	}
	if u.IsAbs() {
		return u.String(), nil
	}

	base, err := url.Parse(c.Origin() + "/")
	if err != nil {
		return "", err
	}
	return base.ResolveReference(u).String(), nil
}
