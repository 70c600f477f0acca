package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

var logger = hclog.New(&hclog.LoggerOptions{Name: "wled-mqtt"})

// Init replaces the package logger. A nil writer logs to stderr and an
// unrecognised level falls back to info.
func Init(w io.Writer, level string) {
	if w == nil {
		w = os.Stderr
	}
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Info
	}
	logger = hclog.New(&hclog.LoggerOptions{
		Name:   "wled-mqtt",
		Output: w,
		Level:  lvl,
	})
}

func Debug(format string, v ...interface{}) {
	logger.Debug(fmt.Sprintf(format, v...))
}

func Info(format string, v ...interface{}) {
	logger.Info(fmt.Sprintf(format, v...))
}

func Warn(format string, v ...interface{}) {
	logger.Warn(fmt.Sprintf(format, v...))
}

func Error(format string, v ...interface{}) {
	logger.Error(fmt.Sprintf(format, v...))
}
