/*
Copyright 2015 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package lib

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/urfave/cli"
)

const defaultConfigFilename = "wsd-scan-util.config.json"

var ConfigFilenameFlag = cli.StringFlag{
	Name:   "config-filename",
	Usage:  "Config filename (non-absolute names are also looked up in XDG config directories)",
	Value:  defaultConfigFilename,
	EnvVar: "WSD_SCAN_CONFIG",
}

type Config struct {
	// WS-Scan service URL used when none is given on the command line.
	ScannerURL string `json:"scanner_url,omitempty"`

	// DocumentName in RetrieveImage requests. Empty means the job name.
	DocumentName string `json:"document_name,omitempty"`

	// Least severity to log.
	LogLevel string `json:"log_level"`

	// Log to the systemd journal as well as to stderr?
	LogToJournal *bool `json:"log_to_journal,omitempty"`

	// How long (eg 3s) to collect WS-Discovery probe matches.
	DiscoveryTimeout string `json:"discovery_timeout,omitempty"`

	// Network interface to send WS-Discovery probes on. Empty means the
	// system default.
	DiscoveryInterface string `json:"discovery_interface,omitempty"`

	// IP TTL of WS-Discovery probes.
	DiscoveryMulticastTTL int `json:"discovery_multicast_ttl,omitempty"`
}

// DefaultConfig represents reasonable default values for Config fields.
// ScannerURL is omitted on purpose; it is unique per scanner.
var DefaultConfig = Config{
	LogLevel:              "INFO",
	LogToJournal:          PointerToBool(false),
	DiscoveryTimeout:      "3s",
	DiscoveryMulticastTTL: 1,
}

const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "scanner_url": {"type": "string", "pattern": "^https?://"},
    "document_name": {"type": "string"},
    "log_level": {"enum": ["ERROR", "WARNING", "INFO", "DEBUG", "error", "warning", "info", "debug"]},
    "log_to_journal": {"type": "boolean"},
    "discovery_timeout": {"type": "string", "pattern": "^[0-9.]+(ns|us|ms|s|m|h)([0-9.]+(ns|us|ms|s|m|h))*$"},
    "discovery_interface": {"type": "string"},
    "discovery_multicast_ttl": {"type": "integer", "minimum": 1, "maximum": 255}
  }
}`

var configSchemaCompiled = jsonschema.MustCompileString("wsd-scan-util.config.schema.json", configSchema)

// getConfigFilename gets the absolute filename of the config file specified by
// the ConfigFilename flag, and whether it exists.
//
// If the (relative or absolute) ConfigFilename exists, then it is returned.
// If the ConfigFilename exists in a valid XDG path, then it is returned.
// If neither of those exist, the XDG config home location is returned.
func getConfigFilename(cf string) (string, bool) {
	if filepath.IsAbs(cf) {
		// Absolute path specified; user knows what they want.
		_, err := os.Stat(cf)
		return cf, err == nil
	}

	absCF, err := filepath.Abs(cf)
	if err != nil {
		// syscall failure; treat as if file doesn't exist.
		return cf, false
	}
	if _, err := os.Stat(absCF); err == nil {
		// File exists on relative path.
		return absCF, true
	}

	if xdgCF, err := xdg.SearchConfigFile(cf); err == nil {
		// File exists in an XDG directory.
		return xdgCF, true
	}

	return filepath.Join(xdg.ConfigHome, cf), false
}

// GetConfig reads the file named by the config-filename flag. A missing file
// is not an error: DefaultConfig is returned with an empty filename.
func GetConfig(context *cli.Context) (*Config, string, error) {
	return LoadConfig(context.GlobalString("config-filename"))
}

// LoadConfig reads, validates and backfills the config file named cf.
func LoadConfig(cf string) (*Config, string, error) {
	if cf == "" {
		cf = defaultConfigFilename
	}
	filename, exists := getConfigFilename(cf)
	if !exists {
		config := DefaultConfig
		return &config, "", nil
	}

	b, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, "", err
	}

	var configMap map[string]interface{}
	if err = json.Unmarshal(b, &configMap); err != nil {
		return nil, "", fmt.Errorf("failed to parse config file %s: %s", filename, err)
	}
	if err = configSchemaCompiled.Validate(configMap); err != nil {
		return nil, "", fmt.Errorf("invalid config file %s: %s", filename, err)
	}

	var config Config
	if err = json.Unmarshal(b, &config); err != nil {
		return nil, "", fmt.Errorf("failed to parse config file %s: %s", filename, err)
	}

	return config.Backfill(configMap), filename, nil
}

// Backfill returns a copy of this config with all missing keys set to default values.
func (c *Config) Backfill(configMap map[string]interface{}) *Config {
	b := *c

	if _, exists := configMap["log_level"]; !exists {
		b.LogLevel = DefaultConfig.LogLevel
	}
	if _, exists := configMap["log_to_journal"]; !exists {
		b.LogToJournal = DefaultConfig.LogToJournal
	}
	if _, exists := configMap["discovery_timeout"]; !exists {
		b.DiscoveryTimeout = DefaultConfig.DiscoveryTimeout
	}
	if _, exists := configMap["discovery_multicast_ttl"]; !exists {
		b.DiscoveryMulticastTTL = DefaultConfig.DiscoveryMulticastTTL
	}

	return &b
}

// Validate checks this config against the config file schema.
func (c *Config) Validate() error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	var configMap map[string]interface{}
	if err = json.Unmarshal(b, &configMap); err != nil {
		return err
	}
	if err = configSchemaCompiled.Validate(configMap); err != nil {
		return err
	}
	_, err = c.DiscoveryTimeoutDuration()
	return err
}

// DiscoveryTimeoutDuration parses DiscoveryTimeout, falling back to the
// default when it is empty.
func (c *Config) DiscoveryTimeoutDuration() (time.Duration, error) {
	s := c.DiscoveryTimeout
	if s == "" {
		s = DefaultConfig.DiscoveryTimeout
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid discovery_timeout %q: %s", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid discovery_timeout %q: must be positive", s)
	}
	return d, nil
}

// ToFile writes this config to the file named by the config-filename flag,
// creating XDG directories as needed, and returns the filename.
func (c *Config) ToFile(context *cli.Context) (string, error) {
	return c.ToNamedFile(context.GlobalString("config-filename"))
}

// ToNamedFile writes this config to cf, resolved like LoadConfig does.
func (c *Config) ToNamedFile(cf string) (string, error) {
	if cf == "" {
		cf = defaultConfigFilename
	}
	filename, exists := getConfigFilename(cf)
	if !exists && !filepath.IsAbs(cf) {
		var err error
		if filename, err = xdg.ConfigFile(cf); err != nil {
			return "", err
		}
	}

	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	if err = ioutil.WriteFile(filename, b, 0600); err != nil {
		return "", err
	}
	return filename, nil
}
