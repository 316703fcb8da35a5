package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Settings load from sources in priority order:
// 1) .env in the application (executable) directory
// 2) If not found, the TEXT_EXPANDER env var as a path to a config file
// 3) Plain environment variables

// DefaultClipboardRestoreDelayMs is empirical: long enough for target
// applications to finish their asynchronous paste handling.
const DefaultClipboardRestoreDelayMs = 1000

// DefaultInstanceLockPort is the localhost port claimed by the resident
// process as a single-instance lock. Two residents would both own a global
// hook and substitute twice.
const DefaultInstanceLockPort = 48217

type LoadOptions struct {
	SensitiveAppsFileOverride string
}

type Config struct {
	DelayBetweenKeystrokesMs int
	ClipboardRestoreDelayMs  int
	InstanceLockPort         int
	EnableFileLogging        bool
	SensitiveApps            []string
	SensitiveAppsFile        string
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	envPath := resolveEnvPath()
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	// Parse sensitive application patterns from comma-separated string
	var sensitiveApps []string
	if appsStr := os.Getenv("SENSITIVE_APPS"); appsStr != "" {
		for _, app := range strings.Split(appsStr, ",") {
			if trimmed := strings.TrimSpace(app); trimmed != "" {
				sensitiveApps = append(sensitiveApps, trimmed)
			}
		}
	}

	cfg := &Config{
		DelayBetweenKeystrokesMs: nonNegativeIntEnv("DELAY_BETWEEN_KEYSTROKES_MS", 0),
		ClipboardRestoreDelayMs:  nonNegativeIntEnv("CLIPBOARD_RESTORE_DELAY_MS", DefaultClipboardRestoreDelayMs),
		InstanceLockPort:         nonNegativeIntEnv("INSTANCE_LOCK_PORT", DefaultInstanceLockPort),
		EnableFileLogging:        strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
		SensitiveApps:            sensitiveApps,
		SensitiveAppsFile:        resolveSensitiveAppsFile(opts),
	}

	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}

	execDir := filepath.Dir(execPath)
	exeEnv := filepath.Join(execDir, ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}

	if alt := os.Getenv("TEXT_EXPANDER"); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func resolveSensitiveAppsFile(opts LoadOptions) string {
	if override := strings.TrimSpace(opts.SensitiveAppsFileOverride); override != "" {
		return override
	}
	return strings.TrimSpace(os.Getenv("SENSITIVE_APPS_FILE"))
}

func nonNegativeIntEnv(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return defaultValue
}
