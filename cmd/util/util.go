package util

import (
	"fmt"
	"github.com/ValentinKolb/dBlog/lib/common"
	"github.com/ValentinKolb/dBlog/lib/db"
	"github.com/ValentinKolb/dBlog/lib/db/engines/badgerdb"
	"github.com/ValentinKolb/dBlog/lib/db/engines/maple"
	"github.com/ValentinKolb/dBlog/lib/slot"
	"github.com/ValentinKolb/dBlog/lib/store"
	"github.com/ValentinKolb/dBlog/lib/store/lstore"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"strings"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupSlotFlags adds the flags describing where the slot lives and how it is seeded
func SetupSlotFlags(cmd *cobra.Command) {
	def := common.DefaultConfig()

	key := "engine"
	cmd.PersistentFlags().String(key, def.Engine, WrapString("Storage engine for the slot (maple: in memory with a snapshot file, badger: on-disk BadgerDB)"))

	key = "data-dir"
	cmd.PersistentFlags().String(key, def.DataDir, WrapString("Directory holding the maple snapshot or the badger database"))

	key = "slot-key"
	cmd.PersistentFlags().String(key, def.SlotKey, WrapString("Key the serialized dataset is stored under"))

	key = "bootstrap"
	cmd.PersistentFlags().String(key, def.BootstrapLocation, WrapString("File path or http(s) URL of the document that seeds an empty slot. JSON or YAML. Empty uses the built-in seed"))

	key = "bootstrap-timeout"
	cmd.PersistentFlags().Int(key, def.BootstrapTimeoutSecond, WrapString("Timeout in seconds for each bootstrap fetch attempt (http only)"))

	key = "bootstrap-retries"
	cmd.PersistentFlags().Int(key, def.BootstrapRetries, WrapString("How many times to retry a failed bootstrap fetch (http only)"))

	key = "log-level"
	cmd.PersistentFlags().String(key, def.LogLevel, WrapString("Log level (debug, info, warn, error)"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("dblog")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetConfig reads the slot configuration from viper
func GetConfig() *common.Config {
	return &common.Config{
		Engine:                 viper.GetString("engine"),
		DataDir:                viper.GetString("data-dir"),
		SlotKey:                viper.GetString("slot-key"),
		BootstrapLocation:      viper.GetString("bootstrap"),
		BootstrapTimeoutSecond: viper.GetInt("bootstrap-timeout"),
		BootstrapRetries:       viper.GetInt("bootstrap-retries"),
		LogLevel:               viper.GetString("log-level"),
	}
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// OpenStore opens the store for the configured engine
func OpenStore(conf *common.Config) (store.IStore, error) {
	switch conf.Engine {
	case common.EngineMaple:
		return lstore.OpenLocalStore(func() db.KVDB {
			return maple.NewMapleDB(nil)
		}, conf.SnapshotPath())
	case common.EngineBadger:
		database, err := badgerdb.Open(badgerdb.DefaultConfig(conf.BadgerDir()))
		if err != nil {
			return nil, err
		}
		return lstore.NewLocalStore(func() db.KVDB {
			return database
		}), nil
	default:
		return nil, fmt.Errorf("invalid engine %s", conf.Engine)
	}
}

// Session is an opened slot together with the store it lives in
type Session struct {
	Config  *common.Config
	Store   store.IStore
	Adapter *slot.Adapter
}

// Close releases the store
func (s *Session) Close() error {
	if s == nil || s.Store == nil {
		return nil
	}
	return s.Store.Close()
}

// OpenSession binds the command's flags, validates the configuration, initializes the
// loggers and opens the slot.
func OpenSession(cmd *cobra.Command) (*Session, error) {
	if err := BindCommandFlags(cmd); err != nil {
		return nil, err
	}

	conf := GetConfig()
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if err := common.InitLoggers(conf.LogLevel); err != nil {
		return nil, err
	}

	st, err := OpenStore(conf)
	if err != nil {
		return nil, fmt.Errorf("open %s store in %s: %w", conf.Engine, conf.DataDir, err)
	}

	boot := slot.BootstrapFromLocation(conf.BootstrapLocation, conf.BootstrapTimeout(), conf.BootstrapRetries)
	return &Session{
		Config:  conf,
		Store:   st,
		Adapter: slot.New(st, boot, slot.WithKey(conf.SlotKey)),
	}, nil
}
