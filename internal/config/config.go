package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "AUCTION"

// Config holds the server settings
type Config struct {
	Port        string
	AuctionFile string
	LogLevel    string
	ClientQueue int
	GinMode     string
	StatsdAddr  string
}

// Addr returns the listen address
func (c Config) Addr() string {
	return ":" + c.Port
}

// Load reads settings from flags, then AUCTION_* environment variables,
// then defaults. PORT is honored when neither flag nor AUCTION_PORT is set.
func Load(args []string) (Config, error) {
	fs := pflag.NewFlagSet("auction-house", pflag.ContinueOnError)
	fs.String("port", "8080", "HTTP listen port")
	fs.String("auctions", "auctions.txt", "auction list file (.txt or .yaml)")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	fs.Int("client-queue", 64, "messages buffered per connected client before it is dropped")
	fs.String("gin-mode", "release", "gin mode: debug, release, test")
	fs.String("statsd-addr", "", "DogStatsD agent host:port; metrics are off when empty")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("config: parse flags: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, fmt.Errorf("config: bind flags: %w", err)
	}

	cfg := Config{
		Port:        v.GetString("port"),
		AuctionFile: v.GetString("auctions"),
		LogLevel:    v.GetString("log-level"),
		ClientQueue: v.GetInt("client-queue"),
		GinMode:     v.GetString("gin-mode"),
		StatsdAddr:  v.GetString("statsd-addr"),
	}

	// keep supporting the plain PORT variable of container platforms
	if !v.IsSet("port") {
		if port := os.Getenv("PORT"); port != "" {
			cfg.Port = port
		}
	}

	if cfg.Port == "" {
		return Config{}, fmt.Errorf("config: empty port")
	}
	if cfg.ClientQueue <= 0 {
		return Config{}, fmt.Errorf("config: client-queue must be positive, got %d", cfg.ClientQueue)
	}
	return cfg, nil
}
