package common

import (
	"fmt"
	"github.com/go-playground/validator/v10"
	"path/filepath"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Configuration struct
// --------------------------------------------------------------------------

const (
	EngineMaple  = "maple"
	EngineBadger = "badger"
)

// DefaultSlotKey is the key the dataset blob is stored under
const DefaultSlotKey = "blogData"

// Config holds everything needed to open the blog's persistent slot.
type Config struct {
	// Engine selects the key-value engine ("maple" or "badger")
	Engine string `validate:"oneof=maple badger"`

	// DataDir is where the maple snapshot or the badger directory lives
	DataDir string `validate:"required"`

	// SlotKey is the key holding the serialized dataset
	SlotKey string `validate:"required"`

	// BootstrapLocation is a file path or http(s) URL. Empty means the embedded seed.
	BootstrapLocation string

	// Bootstrap fetch parameters (HTTP only)
	BootstrapTimeoutSecond int `validate:"gte=0"`
	BootstrapRetries       int `validate:"gte=0"`

	// Logging configuration
	LogLevel string `validate:"oneof=debug info warn warning error"`
}

// DefaultConfig returns the configuration used when no flag, env var or .env entry is set
func DefaultConfig() Config {
	return Config{
		Engine:                 EngineMaple,
		DataDir:                ".dblog",
		SlotKey:                DefaultSlotKey,
		BootstrapTimeoutSecond: 10,
		BootstrapRetries:       2,
		LogLevel:               "warn",
	}
}

var validate = validator.New()

// Validate checks the configuration and reports every invalid field
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var problems []string
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			problems = append(problems, fmt.Sprintf("%s (%s=%q)", fe.Field(), fe.Tag(), fmt.Sprint(fe.Value())))
		}
	} else {
		problems = append(problems, err.Error())
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, ", "))
}

// BootstrapTimeout returns the bootstrap fetch timeout as a duration
func (c *Config) BootstrapTimeout() time.Duration {
	return time.Duration(c.BootstrapTimeoutSecond) * time.Second
}

// SnapshotPath is the file the maple engine is persisted to
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.DataDir, "blog.maple")
}

// BadgerDir is the directory of the badger engine
func (c *Config) BadgerDir() string {
	return filepath.Join(c.DataDir, "badger")
}

// String returns a formatted string representation of the configuration
func (c *Config) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Storage")
	addField("Engine", c.Engine)
	addField("Data Directory", c.DataDir)
	switch c.Engine {
	case EngineMaple:
		addField("Snapshot File", c.SnapshotPath())
	case EngineBadger:
		addField("Badger Directory", c.BadgerDir())
	}
	addField("Slot Key", c.SlotKey)

	addSection("Bootstrap")
	location := c.BootstrapLocation
	if location == "" {
		location = "(embedded)"
	}
	addField("Location", location)
	addField("Timeout", fmt.Sprintf("%d sec", c.BootstrapTimeoutSecond))
	addField("Retry Count", fmt.Sprintf("%d", c.BootstrapRetries))

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}
