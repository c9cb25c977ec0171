// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads htmockd's configuration from flags, environment
// variables and an optional config file, using viper's standard precedence
// order (explicit flag > env > file > default).
package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the resolved configuration for one htmockd invocation.
type Config struct {
	MaxServers     int    `mapstructure:"max_servers"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	HistoryLimit   int    `mapstructure:"history_limit"`
	LogLevel       string `mapstructure:"log_level"`
	StaticMocksDir string `mapstructure:"static_mocks_dir"`
	CACertPath     string `mapstructure:"ca_cert_path"`
	CAKeyPath      string `mapstructure:"ca_key_path"`
	HTTPS          bool   `mapstructure:"https"`
	Expose         bool   `mapstructure:"expose"`
}

// Load resolves configuration from (in increasing precedence) built-in
// defaults, an optional htmockd.yaml in the working directory or a path
// given by configFile, HTTPMOCK_* environment variables, and finally
// already-parsed flag values supplied via the *viper.Viper the caller's
// cobra command bound its flags into.
func Load(v *viper.Viper, configFile string) (Config, error) {
	if v == nil {
		v = viper.New()
	}
	v.SetEnvPrefix("HTTPMOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("max_servers", 25)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("port", 5000)
	v.SetDefault("history_limit", 100)
	v.SetDefault("log_level", "info")
	v.SetDefault("https", false)
	v.SetDefault("expose", false)

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			v.SetConfigFile(configFile)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, err
			}
		}
	} else {
		v.SetConfigName("htmockd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return Config{}, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
