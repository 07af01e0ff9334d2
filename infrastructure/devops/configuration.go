package devops

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type CrmEntry struct {
	BaseURL        string `yaml:"base_url"`
	CSRFToken      string `yaml:"csrf_token"`
	SessionID      string `yaml:"session_id"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type Configuration struct {
	Listen        string   `yaml:"listen"`
	SigningSecret string   `yaml:"signing_secret"`
	MirrorPath    string   `yaml:"mirror_path"`
	Crm           CrmEntry `yaml:"crm"`
}

// Timeout bounds upstream round trips; zero falls back to the client
// default.
func (c *Configuration) Timeout() time.Duration {
	return time.Duration(c.Crm.TimeoutSeconds) * time.Second
}

var (
	once    sync.Once
	cfg     *Configuration
	loadErr error
)

// LoadConfiguration reads the YAML config file named by JGET_CONFIG
// (default config.yaml), after loading .env if present. Environment
// variables win over file values so deploys can override without editing
// the file.
func LoadConfiguration() (*Configuration, error) {
	once.Do(func() {
		// .env is a development convenience; absence is not an error.
		_ = godotenv.Load()

		loaded := &Configuration{
			Listen:     "0.0.0.0:8090",
			MirrorPath: "desk.db",
		}

		path := os.Getenv("JGET_CONFIG")
		if path == "" {
			path = "config.yaml"
		}
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, loaded); err != nil {
				loadErr = fmt.Errorf("unmarshal %s: %w", path, err)
				return
			}
		} else if !os.IsNotExist(err) {
			loadErr = fmt.Errorf("read %s: %w", path, err)
			return
		}

		applyEnv(loaded)

		if loaded.Crm.BaseURL == "" {
			loadErr = fmt.Errorf("crm base_url is required (config file or CRM_BASE_URL)")
			return
		}

		cfg = loaded
	})

	return cfg, loadErr
}

func applyEnv(c *Configuration) {
	if v := os.Getenv("JGET_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("JGET_SIGNING_SECRET"); v != "" {
		c.SigningSecret = v
	}
	if v := os.Getenv("JGET_MIRROR_PATH"); v != "" {
		c.MirrorPath = v
	}
	if v := os.Getenv("CRM_BASE_URL"); v != "" {
		c.Crm.BaseURL = v
	}
	if v := os.Getenv("CRM_CSRF_TOKEN"); v != "" {
		c.Crm.CSRFToken = v
	}
	if v := os.Getenv("CRM_SESSION_ID"); v != "" {
		c.Crm.SessionID = v
	}
}
