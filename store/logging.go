package store

import (
	"fmt"
	"log/slog"
	"strings"
)

// badgerLogger adapts a slog.Logger to the badger.Logger interface so the
// storage engine logs through the same sink as the rest of the store.
type badgerLogger struct {
	log *slog.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.log.Error(badgerMsg(format, args...))
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.log.Warn(badgerMsg(format, args...))
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.log.Info(badgerMsg(format, args...))
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.log.Debug(badgerMsg(format, args...))
}

func badgerMsg(format string, args ...any) string {
	return "badger: " + strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")
}
