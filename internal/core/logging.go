package core

import (
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var once sync.Once

type logger struct {
	*log.Logger
}

var singleton *logger

func getLogger() *logger {
	once.Do(
		func() {
			l := log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
				TimeFormat:      time.RFC3339,
				Prefix:          "objscale",
			})
			l.SetLevel(log.InfoLevel)
			singleton = &logger{l}
		})
	return singleton
}

// SetLevel accepts debug, info, warn, error or fatal.
func SetLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	getLogger().SetLevel(lvl)
	return nil
}

func LogDebug(msg string, keyvals ...interface{}) {
	getLogger().Debug(msg, keyvals...)
}

func LogInfo(msg string, keyvals ...interface{}) {
	getLogger().Info(msg, keyvals...)
}

func LogWarn(msg string, keyvals ...interface{}) {
	getLogger().Warn(msg, keyvals...)
}

func LogError(msg string, keyvals ...interface{}) {
	getLogger().Error(msg, keyvals...)
}

func LogFatal(msg string, keyvals ...interface{}) {
	getLogger().Fatal(msg, keyvals...)
}
