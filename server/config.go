// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"fmt"
	"net"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lesismal/nbserve/http1"
)

const (
	// EngineNBIO serves connections on nbio pollers.
	EngineNBIO = "nbio"
	// EngineStd serves each connection on its own goroutine.
	EngineStd = "std"
)

var (
	// DefaultAddress .
	DefaultAddress = "127.0.0.1"

	// DefaultPort .
	DefaultPort = 8080

	// DefaultMaxLoad .
	DefaultMaxLoad = 1024 * 10

	// DefaultHandlerPoolSize .
	DefaultHandlerPoolSize = runtime.NumCPU() * 256

	// DefaultReadTimeout .
	DefaultReadTimeout = time.Second * 5

	// DefaultWriteTimeout .
	DefaultWriteTimeout = time.Second * 5

	// DefaultStaticRoot .
	DefaultStaticRoot = "./static"

	// DefaultServerName .
	DefaultServerName = "nbserve/0.1"
)

// Config .
type Config struct {
	http1.Config

	// Engine is EngineNBIO or EngineStd.
	Engine string `toml:"engine"`

	// Network is the listening protocol, "tcp" by default.
	Network string `toml:"network"`

	Address string `toml:"address"`
	Port    int    `toml:"port"`

	// NPoller represents poller goroutine num of the nbio engine, it's set
	// to runtime.NumCPU() by default.
	NPoller int `toml:"pollers"`

	// MaxLoad represents the max online num.
	MaxLoad int `toml:"max_load"`

	// HandlerPoolSize bounds concurrent handler calls of the nbio engine.
	HandlerPoolSize int `toml:"handler_pool_size"`

	// ReadTimeout bounds the time to receive a whole request.
	ReadTimeout time.Duration `toml:"read_timeout"`

	// WriteTimeout bounds the time to write a response.
	WriteTimeout time.Duration `toml:"write_timeout"`

	StaticRoot string `toml:"static_files_root"`
	ServerName string `toml:"server_name"`
	LogLevel   string `toml:"log_level"`
}

// DefaultConfig .
func DefaultConfig() Config {
	return Config{
		Config:          http1.DefaultConfig(),
		Engine:          EngineNBIO,
		Network:         "tcp",
		Address:         DefaultAddress,
		Port:            DefaultPort,
		NPoller:         runtime.NumCPU(),
		MaxLoad:         DefaultMaxLoad,
		HandlerPoolSize: DefaultHandlerPoolSize,
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		StaticRoot:      DefaultStaticRoot,
		ServerName:      DefaultServerName,
		LogLevel:        "info",
	}
}

// LoadConfig reads a TOML file over the defaults.
func LoadConfig(path string) (Config, error) {
	conf := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return conf, fmt.Errorf("read config %s: %w", path, err)
	}
	return DecodeConfig(string(data))
}

// DecodeConfig decodes TOML text over the defaults.
func DecodeConfig(text string) (Config, error) {
	conf := DefaultConfig()
	md, err := toml.Decode(text, &conf)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return DefaultConfig(), fmt.Errorf("decode config: unknown key %q", undecoded[0].String())
	}
	if err := conf.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return conf, nil
}

// Addr returns the listening address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Address, strconv.Itoa(c.Port))
}

// Validate .
func (c *Config) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	switch c.Engine {
	case EngineNBIO, EngineStd:
	default:
		return fmt.Errorf("invalid engine: %q", c.Engine)
	}
	switch {
	case c.Port < 0 || c.Port > 65535:
		return fmt.Errorf("invalid port: %d", c.Port)
	case c.Port == 0 && c.Engine == EngineNBIO:
		return fmt.Errorf("invalid port: the %s engine needs a fixed port", EngineNBIO)
	case c.MaxLoad <= 0:
		return fmt.Errorf("invalid max_load: %d", c.MaxLoad)
	case c.HandlerPoolSize <= 0:
		return fmt.Errorf("invalid handler_pool_size: %d", c.HandlerPoolSize)
	case c.ReadTimeout < 0 || c.WriteTimeout < 0:
		return fmt.Errorf("invalid timeouts: read %v, write %v", c.ReadTimeout, c.WriteTimeout)
	}
	return nil
}
