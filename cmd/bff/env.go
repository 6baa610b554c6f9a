// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/bigfile"
	"github.com/woozymasta/bigfile/class"
	"github.com/woozymasta/bigfile/extract"
	"github.com/woozymasta/bigfile/names"
)

// config is the optional YAML configuration file. Flags override it.
type config struct {
	Platform string        `yaml:"platform,omitempty"`
	LogLevel string        `yaml:"log_level,omitempty"`
	Names    []string      `yaml:"names,omitempty"`
	Extract  extractConfig `yaml:"extract,omitempty"`
	Workers  int           `yaml:"workers,omitempty"`
}

// extractConfig holds extract defaults.
type extractConfig struct {
	Format     extract.Format   `yaml:"format,omitempty"`
	FileMode   extract.FileMode `yaml:"file_mode,omitempty"`
	Include    []string         `yaml:"include,omitempty"`
	Exclude    []string         `yaml:"exclude,omitempty"`
	RawNames   bool             `yaml:"raw_names,omitempty"`
	NoManifest bool             `yaml:"no_manifest,omitempty"`
	OutNames   string           `yaml:"out_names,omitempty"`
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configPath string
	platform   string
	logLevel   string
	names      []string
	workers    int
}

func (c *commonFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&c.configPath, "config", "c", "", "YAML configuration file")
	fs.StringVarP(&c.platform, "platform", "p", "", "target platform (default: from file extension, else PC)")
	fs.StringVar(&c.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	fs.StringArrayVar(&c.names, "in-names", nil, "file with one name per line, may be repeated")
	fs.IntVarP(&c.workers, "workers", "j", 0, "decode and extract workers (0 means GOMAXPROCS)")
}

// env is the per-invocation state shared by commands.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *zap.Logger
	flags  *pflag.FlagSet
	common commonFlags
	cfg    config
}

// setup loads the config file, applies flag overrides, installs the logger
// and loads name tables.
func (e *env) setup(fs *pflag.FlagSet) error {
	e.flags = fs

	if e.common.configPath != "" {
		data, err := os.ReadFile(e.common.configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}

		if err := yaml.Unmarshal(data, &e.cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", e.common.configPath, err)
		}
	}

	if fs.Changed("platform") || e.cfg.Platform == "" {
		e.cfg.Platform = e.common.platform
	}
	if fs.Changed("log-level") || e.cfg.LogLevel == "" {
		e.cfg.LogLevel = e.common.logLevel
	}
	if fs.Changed("workers") {
		e.cfg.Workers = e.common.workers
	}
	e.cfg.Names = append(e.cfg.Names, e.common.names...)

	log, err := newLogger(e.cfg.LogLevel, e.stderr)
	if err != nil {
		return err
	}
	e.log = log
	bigfile.SetLogger(log)
	class.SetLogger(log)

	for _, path := range e.cfg.Names {
		if err := loadNames(path); err != nil {
			return err
		}
	}

	return nil
}

// newLogger builds a console logger writing to w at the named level.
func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), lvl)

	return zap.New(core), nil
}

// loadNames adds every line of path to the process name table.
func loadNames(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open names: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := names.Default().Load(f); err != nil {
		return fmt.Errorf("load names %s: %w", path, err)
	}

	return nil
}

// isStdio reports whether path names a standard stream.
func isStdio(path string) bool {
	return path == "" || path == "-"
}

// readInput reads path, or stdin for "-" and "".
func (e *env) readInput(path string) ([]byte, error) {
	if isStdio(path) {
		data, err := io.ReadAll(e.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}

		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	return data, nil
}

// writeOutput writes data to path, or stdout for "-" and "".
func (e *env) writeOutput(path string, data []byte) error {
	if isStdio(path) {
		if _, err := e.stdout.Write(data); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}

		return nil
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

// readerOptions returns parse options for the configured platform.
func (e *env) readerOptions() bigfile.ReaderOptions {
	return bigfile.ReaderOptions{Platform: e.cfg.Platform}
}
