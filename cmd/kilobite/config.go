package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eringen/kilobite"
)

// cli carries the configuration shared by every subcommand. Values resolve
// in viper's order: flag, KILOBITE_* environment variable, kilobite.yaml,
// flag default.
type cli struct {
	v       *viper.Viper
	cfgFile string
}

func (c *cli) readConfig(cmd *cobra.Command) error {
	v := c.v
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	v.SetDefault("cache-ttl", "5m")

	v.SetEnvPrefix("KILOBITE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if c.cfgFile != "" {
		v.SetConfigFile(c.cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("kilobite")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if c.cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// serverConfig returns the resolved runtime settings.
func (c *cli) serverConfig() kilobite.ServerConfig {
	v := c.v
	return kilobite.ServerConfig{
		URL:           v.GetString("url"),
		Addr:          v.GetString("addr"),
		DatabasePath:  v.GetString("db"),
		ContentDir:    v.GetString("content"),
		StaticDir:     v.GetString("public"),
		SiteFile:      v.GetString("site"),
		OutputDir:     v.GetString("out"),
		Drafts:        v.GetBool("drafts"),
		AdminPassword: v.GetString("admin-password"),
		SessionSecret: v.GetString("session-secret"),
		CookieSecure:  v.GetBool("cookie-secure"),
		PostCacheTTL:  v.GetDuration("cache-ttl"),
		LogLevel:      v.GetString("log-level"),
	}
}

func (c *cli) newApp() (*kilobite.App, error) {
	cfg := c.serverConfig()
	site, err := kilobite.LoadSite(cfg.SiteFile)
	if err != nil {
		return nil, err
	}
	return kilobite.New(cfg, site), nil
}
