// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pdiddy/argos-import/pkg/types"
)

// envKeyReplacer maps nested keys such as log.level to ARGOS_IMPORT_LOG_LEVEL.
var envKeyReplacer = strings.NewReplacer(".", "_")

func logConfig() types.LogConfig {
	return types.LogConfig{
		Level:      viper.GetString("log.level"),
		File:       viper.GetString("log.file"),
		MaxAgeDays: viper.GetInt("log.max_age_days"),
	}
}

// configureLogging builds a logger writing text to stderr. When cfg.File is
// set, every level is also written to a rotating file through an lfshook hook.
func configureLogging(cfg types.LogConfig) (*logrus.Logger, error) {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	level := logrus.InfoLevel
	if cfg.Level != "" {
		lv, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		level = lv
	}
	l.SetLevel(level)

	if cfg.File == "" {
		return l, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	rotating := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    100,
		MaxBackups: 10,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	writers := lfshook.WriterMap{}
	for _, lv := range logrus.AllLevels {
		writers[lv] = rotating
	}
	l.AddHook(lfshook.NewHook(writers, &logrus.TextFormatter{DisableColors: true, FullTimestamp: true}))
	return l, nil
}
