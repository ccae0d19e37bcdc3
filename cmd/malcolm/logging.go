package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger builds the logger for a run.  Progress is always written to
// stdout; if cfg.LogFile is set it is also appended to that file, which is
// rotated by size.  The returned function closes the file.
func newLogger(cfg *config, stdout io.Writer) (*logrus.Logger, func(), error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}

	log := logrus.New()
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if cfg.LogFile == "" {
		log.SetOutput(stdout)
		return log, func() {}, nil
	}

	file := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}
	log.SetOutput(io.MultiWriter(stdout, file))

	return log, func() { _ = file.Close() }, nil
}
