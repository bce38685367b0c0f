// Package config exposes build information and the environment-driven settings
// of the camdash web application.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

const (
	defaultPort          = 8080
	defaultSessionMaxAge = 60
)

// WebConfig holds everything the web server needs at construction time.
type WebConfig struct {
	Listen        string
	Port          int
	CertFile      string
	KeyFile       string
	Domain        string
	Secret        string
	SessionMaxAge int // minutes
	DeviceURL     string
}

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

// LoadEnv reads variables from the given .env files (".env" when none are given)
// into the process environment. Variables already set are left untouched and a
// missing file is not an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("CAMDASH_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("CAMDASH_DEBUG") == "true"
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("CAMDASH_DB_FOLDER")
	if dbFolderPath == "" {
		if IsDebug() {
			return "db"
		}
		dbFolderPath = "/etc/camdash"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("CAMDASH_LOG_FOLDER")
	if logFolderPath == "" {
		if IsDebug() {
			return "log"
		}
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

// GetWebConfig assembles the web server settings from the environment.
func GetWebConfig() (*WebConfig, error) {
	port, err := getEnvInt("CAMDASH_PORT", defaultPort)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("CAMDASH_PORT must be between 1 and 65535, got %d", port)
	}
	maxAge, err := getEnvInt("CAMDASH_SESSION_MAX_AGE", defaultSessionMaxAge)
	if err != nil {
		return nil, err
	}
	if maxAge <= 0 {
		return nil, fmt.Errorf("CAMDASH_SESSION_MAX_AGE must be positive, got %d", maxAge)
	}
	return &WebConfig{
		Listen:        os.Getenv("CAMDASH_LISTEN"),
		Port:          port,
		CertFile:      os.Getenv("CAMDASH_CERT_FILE"),
		KeyFile:       os.Getenv("CAMDASH_KEY_FILE"),
		Domain:        os.Getenv("CAMDASH_WEB_DOMAIN"),
		Secret:        os.Getenv("CAMDASH_SECRET"),
		SessionMaxAge: maxAge,
		DeviceURL:     os.Getenv("CAMDASH_DEVICE_URL"),
	}, nil
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
