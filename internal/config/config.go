// Package config loads the vbdctl tool configuration.
//
// Settings come, in increasing order of precedence, from built-in
// defaults, a vbdctl.yaml config file, VBDCTL_* environment variables and
// command-line flags bound by the caller.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config keys.
const (
	KeyStateFile      = "state_file"
	KeyPartitionsFile = "partitions_file"
	KeyToolsDir       = "tools_dir"
	KeyDryRun         = "dry_run"
	KeyExpandNames    = "expand_names"
	KeyLogLevel       = "log_level"
	KeyLibvirtSocket  = "libvirt.socket"
	KeyLibvirtVerify  = "libvirt.verify_domains"
	KeyLibvirtTimeout = "libvirt.timeout"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "VBDCTL"

// Config holds all vbdctl configuration.
type Config struct {
	// StateFile is where the state is persisted.
	StateFile string `mapstructure:"state_file"`

	// PartitionsFile is an optional external partition definitions file.
	PartitionsFile string `mapstructure:"partitions_file"`

	// ToolsDir is the directory holding the privileged helpers.
	ToolsDir string `mapstructure:"tools_dir"`

	// DryRun renders helper command lines instead of running them.
	DryRun bool `mapstructure:"dry_run"`

	// ExpandNames canonicalises resolved partition names with xi_helper.
	ExpandNames bool `mapstructure:"expand_names"`

	LogLevel string `mapstructure:"log_level"`

	Libvirt LibvirtConfig `mapstructure:"libvirt"`
}

// LibvirtConfig controls the optional domain existence check.
type LibvirtConfig struct {
	// Socket is the libvirtd UNIX socket.
	Socket string `mapstructure:"socket"`

	// VerifyDomains rejects domain ids libvirt does not know about.
	VerifyDomains bool `mapstructure:"verify_domains"`

	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns a Config with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		StateFile:   "/var/lib/vbdctl/state.yaml",
		ToolsDir:    "/usr/lib/xen/bin",
		ExpandNames: true,
		LogLevel:    "warn",
		Libvirt: LibvirtConfig{
			Socket:  "/var/run/libvirt/libvirt-sock",
			Timeout: 5 * time.Second,
		},
	}
}

// SearchPaths are the directories searched for vbdctl.yaml when no
// explicit config file is given.
var SearchPaths = []string{"/etc/vbdctl", "$HOME/.config/vbdctl"}

// New returns a viper instance with defaults and environment binding set
// up. Flags may be bound to it before Load is called.
func New() *viper.Viper {
	v := viper.New()

	d := DefaultConfig()
	v.SetDefault(KeyStateFile, d.StateFile)
	v.SetDefault(KeyPartitionsFile, d.PartitionsFile)
	v.SetDefault(KeyToolsDir, d.ToolsDir)
	v.SetDefault(KeyDryRun, d.DryRun)
	v.SetDefault(KeyExpandNames, d.ExpandNames)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLibvirtSocket, d.Libvirt.Socket)
	v.SetDefault(KeyLibvirtVerify, d.Libvirt.VerifyDomains)
	v.SetDefault(KeyLibvirtTimeout, d.Libvirt.Timeout)

	// VBDCTL_STATE_FILE, VBDCTL_LIBVIRT_SOCKET, etc.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file (configFile, or vbdctl.yaml in SearchPaths)
// into v and returns the merged, validated configuration. A missing
// search-path config file is not an error; a missing explicit one is.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("vbdctl")
		v.SetConfigType("yaml")
		for _, p := range SearchPaths {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.StateFile) == "" {
		return fmt.Errorf("%s is required", KeyStateFile)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%s: %w", KeyLogLevel, err)
	}
	if c.Libvirt.Timeout < 0 {
		return fmt.Errorf("%s must not be negative", KeyLibvirtTimeout)
	}
	return nil
}

// Level returns the configured log level. Validate must have passed.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}
	return lvl
}
