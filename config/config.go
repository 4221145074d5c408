/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	"github.com/tomoncle/orderbook/database"
)

// Durations read from HTTP_* and DB_* variables accept bare seconds.
var _ cleanenv.Setter = (*database.Duration)(nil)

type Config struct {
	HTTP     HTTPConfig      `yaml:"http"`
	Log      LogConfig       `yaml:"log"`
	Database database.Config `yaml:"database"`
}

type HTTPConfig struct {
	Host         string            `yaml:"host" env:"HTTP_HOST"`
	Port         string            `yaml:"port" env:"HTTP_PORT"`
	ReadTimeout  database.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT"`
	WriteTimeout database.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT"`
	IdleTimeout  database.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT"`
}

// Addr is the listen address for http.Server.
func (c HTTPConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"CONSOLE_LOG_FORMAT"` // text or json
}

// Default returns the built-in configuration: an on-disk sqlite store and
// an HTTP server on :8080.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Host:         "0.0.0.0",
			Port:         "8080",
			ReadTimeout:  database.Duration(10 * time.Second),
			WriteTimeout: database.Duration(10 * time.Second),
			IdleTimeout:  database.Duration(60 * time.Second),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Database: *database.DefaultConfig(),
	}
}

// Load layers the YAML file at path, if it exists, and then the environment
// over Default.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := cleanenv.UpdateEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.HTTP.Port == "" {
		return fmt.Errorf("http port is required")
	}
	switch c.Database.ConnectionConfig.Type {
	case "sqlite", "sqlite3", "mysql", "postgres", "postgresql":
	default:
		return fmt.Errorf("unsupported database type %q", c.Database.ConnectionConfig.Type)
	}
	if c.Database.ConnectionConfig.MaxOpenConns < 0 {
		return fmt.Errorf("max_open_conns must not be negative")
	}
	return nil
}
