// Package config loads the driver's small tunable set from an optional
// .env file with environment-variable overrides, the same
// load-once/find-project-root shape as the rest of this codebase's
// configuration loader.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DriverConfig holds every value the driver reads at startup.
type DriverConfig struct {
	ReconnectAttempts int
	ReconnectInterval time.Duration
	HTTPAddr          string
	USBDebugLog       bool
}

var (
	driverConfig *DriverConfig
	configLoaded bool
)

const (
	defaultReconnectAttempts = 10
	defaultReconnectInterval = time.Second
	defaultHTTPAddr          = ":8910"
)

// LoadDriverConfig loads LEDKBD_RECONNECT_ATTEMPTS, LEDKBD_RECONNECT_INTERVAL_MS,
// LEDKBD_HTTP_ADDR, and LEDKBD_USB_DEBUG from a .env file in the project
// root, then applies any of the same names set in the process
// environment on top. The result is cached after the first call.
func LoadDriverConfig() (*DriverConfig, error) {
	if driverConfig != nil && configLoaded {
		return driverConfig, nil
	}

	cfg := &DriverConfig{
		ReconnectAttempts: defaultReconnectAttempts,
		ReconnectInterval: defaultReconnectInterval,
		HTTPAddr:          defaultHTTPAddr,
	}

	projectRoot := findProjectRoot()
	envPath := filepath.Join(projectRoot, ".env")
	if data, err := os.ReadFile(envPath); err == nil {
		parseEnvFile(string(data), cfg)
	}

	if v := os.Getenv("LEDKBD_RECONNECT_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ReconnectAttempts = n
		}
	}
	if v := os.Getenv("LEDKBD_RECONNECT_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ReconnectInterval = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("LEDKBD_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("LEDKBD_USB_DEBUG"); v != "" {
		cfg.USBDebugLog = v == "1" || strings.EqualFold(v, "true")
	}

	driverConfig = cfg
	configLoaded = true
	return cfg, nil
}

func parseEnvFile(content string, cfg *DriverConfig) {
	lines := strings.Split(content, "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "LEDKBD_RECONNECT_ATTEMPTS":
			if n, err := strconv.Atoi(value); err == nil {
				cfg.ReconnectAttempts = n
			}
		case "LEDKBD_RECONNECT_INTERVAL_MS":
			if n, err := strconv.Atoi(value); err == nil {
				cfg.ReconnectInterval = time.Duration(n) * time.Millisecond
			}
		case "LEDKBD_HTTP_ADDR":
			cfg.HTTPAddr = value
		case "LEDKBD_USB_DEBUG":
			cfg.USBDebugLog = value == "1" || strings.EqualFold(value, "true")
		}
	}
}

func findProjectRoot() string {
	cwd, _ := os.Getwd()
	if _, err := os.Stat(filepath.Join(cwd, ".env")); err == nil {
		return cwd
	}
	for {
		if _, err := os.Stat(filepath.Join(cwd, "go.mod")); err == nil {
			return cwd
		}
		parent := filepath.Dir(cwd)
		if parent == cwd {
			return cwd
		}
		cwd = parent
	}
}
