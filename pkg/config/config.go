// Package config resolves deployment configuration for the submission
// pipeline. Values are read once at startup: environment variables win,
// a legacy YAML config file fills the gaps, and per-channel validation
// reports every missing variable in one failed-precondition error.
package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formpipe/pkg/fail"
)

// Channel names a delivery channel. Exactly one is active per
// deployment.
type Channel string

const (
	ChannelEmail   Channel = "email"
	ChannelStorage Channel = "storage"
	ChannelDrive   Channel = "drive"
)

// Environment variable names.
const (
	EnvChannel          = "FORMPIPE_CHANNEL"
	EnvAssetsDir        = "FORMPIPE_ASSETS_DIR"
	EnvConfigFile       = "FORMPIPE_CONFIG"
	EnvSMTPHost         = "SMTP_HOST"
	EnvSMTPPort         = "SMTP_PORT"
	EnvSMTPUser         = "SMTP_USER"
	EnvSMTPPass         = "SMTP_PASS"
	EnvSMTPFrom         = "SMTP_FROM"
	EnvInbox            = "FORMS_INBOX"
	EnvStorageBucket    = "STORAGE_BUCKET"
	EnvStorageEmulator  = "STORAGE_EMULATOR_HOST"
	EnvDriveRootFolder  = "DRIVE_ROOT_FOLDER"
	EnvDriveCredentials = "DRIVE_CREDENTIALS_FILE"
)

// SMTP carries the mail transport settings.
type SMTP struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
	From string `yaml:"from"`
}

// Storage carries the object-storage channel settings.
type Storage struct {
	Bucket       string `yaml:"bucket"`
	EmulatorHost string `yaml:"emulatorHost"`
}

// Drive carries the hierarchical drive channel settings.
type Drive struct {
	RootFolderID    string `yaml:"rootFolder"`
	CredentialsFile string `yaml:"credentialsFile"`
}

// Config is the resolved deployment configuration.
type Config struct {
	Channel   Channel  `yaml:"channel"`
	AssetsDir string   `yaml:"assetsDir"`
	SMTP      SMTP     `yaml:"smtp"`
	Inbox     []string `yaml:"inbox"`
	Storage   Storage  `yaml:"storage"`
	Drive     Drive    `yaml:"drive"`
}

// Load resolves configuration from the environment, falling back to the
// legacy YAML file named by FORMPIPE_CONFIG (ignored when unset or
// absent). Environment values always win over file values.
func Load() (Config, error) {
	cfg := Config{}
	if path := strings.TrimSpace(os.Getenv(EnvConfigFile)); path != "" {
		fromFile, err := loadFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = fromFile
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	return cfg, nil
}

func loadFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fail.Internal("read config file", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fail.FailedPrecondition("config file is not valid YAML", path)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString((*string)(&cfg.Channel), EnvChannel)
	setString(&cfg.AssetsDir, EnvAssetsDir)
	setString(&cfg.SMTP.Host, EnvSMTPHost)
	setString(&cfg.SMTP.User, EnvSMTPUser)
	setString(&cfg.SMTP.Pass, EnvSMTPPass)
	setString(&cfg.SMTP.From, EnvSMTPFrom)
	setString(&cfg.Storage.Bucket, EnvStorageBucket)
	setString(&cfg.Storage.EmulatorHost, EnvStorageEmulator)
	setString(&cfg.Drive.RootFolderID, EnvDriveRootFolder)
	setString(&cfg.Drive.CredentialsFile, EnvDriveCredentials)

	if raw := strings.TrimSpace(os.Getenv(EnvSMTPPort)); raw != "" {
		if port, err := strconv.Atoi(raw); err == nil {
			cfg.SMTP.Port = port
		}
	}
	if raw := strings.TrimSpace(os.Getenv(EnvInbox)); raw != "" {
		cfg.Inbox = splitList(raw)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Channel == "" {
		cfg.Channel = ChannelEmail
	}
	if cfg.SMTP.Host == "" {
		cfg.SMTP.Host = "smtp.gmail.com"
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 465
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}
}

// Validate checks the configuration the selected channel needs, naming
// every missing environment variable. Credential values never appear in
// the error.
func (c Config) Validate() error {
	switch c.Channel {
	case ChannelEmail:
		var missing []string
		if c.SMTP.Host == "" {
			missing = append(missing, EnvSMTPHost)
		}
		if c.SMTP.Port == 0 {
			missing = append(missing, EnvSMTPPort)
		}
		if c.SMTP.User == "" {
			missing = append(missing, EnvSMTPUser)
		}
		if c.SMTP.Pass == "" {
			missing = append(missing, EnvSMTPPass)
		}
		if len(missing) > 0 {
			return fail.FailedPrecondition("SMTP configuration missing", missing...)
		}
		return nil
	case ChannelStorage:
		if c.Storage.Bucket == "" {
			return fail.FailedPrecondition("object storage configuration missing", EnvStorageBucket)
		}
		return nil
	case ChannelDrive:
		var missing []string
		if c.Drive.RootFolderID == "" {
			missing = append(missing, EnvDriveRootFolder)
		}
		if c.Drive.CredentialsFile == "" {
			missing = append(missing, EnvDriveCredentials)
		}
		if len(missing) > 0 {
			return fail.FailedPrecondition("drive configuration missing", missing...)
		}
		return nil
	default:
		return fail.FailedPrecondition("unknown delivery channel", string(c.Channel))
	}
}

func setString(dst *string, env string) {
	if value := strings.TrimSpace(os.Getenv(env)); value != "" {
		*dst = value
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
