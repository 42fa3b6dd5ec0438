package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Portal holds the connection settings for the campus-card web portal.
type Portal struct {
	// BaseURL is the portal origin, e.g. "http://ecardhall.example.edu:808".
	BaseURL string `yaml:"baseURL"`
	// StudentID is the student number used to log in.
	StudentID string `yaml:"studentID"`
	// QueryPassword is the card query password. It is sent base64-encoded
	// because the portal expects it that way; this is an encoding, not a
	// security measure.
	QueryPassword string `yaml:"queryPassword"`
	// Timeout bounds each portal request (e.g. "30s").
	Timeout string `yaml:"timeout"`
}

// RequestTimeout parses Portal.Timeout, falling back to 30 seconds when the
// field is empty or malformed.
func (p Portal) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(p.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// Mail holds the SMTP submission settings.
type Mail struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	// To is the notification recipient address.
	To string `yaml:"to"`
	// SenderName optionally overrides the display name on the From header.
	SenderName         string `yaml:"senderName"`
	InsecureSkipVerify bool   `yaml:"insecureSkipVerify"`
}

type Server struct {
	ListenAddress string `yaml:"listenAddress"`
}

type Config struct {
	Portal Portal
	Mail   Mail
	Server Server
}

// Load loads the notifier configuration from a file path.
// If configPath is empty, the ECARD_CONFIG_PATH environment variable is
// consulted, then "./config.yaml".
func Load(configPath ...string) (Config, error) {
	var path string
	if len(configPath) > 0 && configPath[0] != "" {
		path = configPath[0]
	} else if env := os.Getenv("ECARD_CONFIG_PATH"); env != "" {
		path = env
	} else {
		path = "./config.yaml"
	}

	var config Config

	content, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("trying to open config file %s: %v", path, err)
	}

	err = yaml.Unmarshal(content, &config)
	if err != nil {
		return config, fmt.Errorf("error unmarshaling YAML %s: %v", path, err)
	}
	return config, nil
}

// Defaults fills in values that have sensible fallbacks. Credentials are
// deliberately not defaulted; Validate reports them when missing.
func (c *Config) Defaults() {
	if c.Portal.BaseURL == "" {
		c.Portal.BaseURL = "http://ecardhall.zju.edu.cn:808"
	}
	if c.Portal.Timeout == "" {
		c.Portal.Timeout = "30s"
	}
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = ":8080"
	}
}

// Validate returns an error naming every required field that is missing.
// Missing configuration is a startup-time fatal condition for both binaries.
func (c Config) Validate() error {
	var missing []string
	if c.Portal.StudentID == "" {
		missing = append(missing, "portal.studentID")
	}
	if c.Portal.QueryPassword == "" {
		missing = append(missing, "portal.queryPassword")
	}
	if c.Mail.Host == "" {
		missing = append(missing, "mail.host")
	}
	if c.Mail.Port == 0 {
		missing = append(missing, "mail.port")
	}
	if c.Mail.User == "" {
		missing = append(missing, "mail.user")
	}
	if c.Mail.Password == "" {
		missing = append(missing, "mail.password")
	}
	if c.Mail.To == "" {
		missing = append(missing, "mail.to")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v", missing)
	}
	return nil
}
