package logger

import (
	"io"
	"os"
	"strings"

	"visa_slot_watcher/internal/infra/config"

	"github.com/sirupsen/logrus"
)

const serviceName = "visa_slot_watcher"

// Log is the process-wide logger. Components take an entry from Component rather than using it directly.
var Log = logrus.New()

// Init applies the configured level and environment to Log and writes to stdout.
func Init(cfg *config.AppConfig) {
	Configure(Log, os.Stdout, cfg.LogLevel, cfg.Environment)
	Log.WithFields(logrus.Fields{
		"level_name":  Log.GetLevel().String(),
		"environment": cfg.Environment,
	}).Debug("Logger configured")
}

// Configure sets up l for the given level and environment. An unknown level falls back to info.
func Configure(l *logrus.Logger, out io.Writer, level, env string) {
	l.SetOutput(out)
	l.SetFormatter(newFormatter(env))
	l.ReplaceHooks(make(logrus.LevelHooks))
	l.AddHook(serviceHook{})

	lvl, ok := parseLevel(level)
	l.SetLevel(lvl)
	if !ok {
		l.Warnf("Unknown log level %q, using %s", level, lvl)
	}
}

func parseLevel(level string) (logrus.Level, bool) {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return logrus.InfoLevel, false
	}
	return lvl, true
}

func newFormatter(env string) logrus.Formatter {
	if IsProduction(env) {
		return &logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap:        logrus.FieldMap{logrus.FieldKeyMsg: "message"},
		}
	}
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		ForceColors:     env == "development",
	}
}

// IsProduction reports whether env selects the structured production output.
func IsProduction(env string) bool {
	env = strings.ToLower(env)
	return env == "production" || env == "staging"
}

// Component returns an entry tagged with the component name.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}

// serviceHook stamps every entry with the service name so shipped logs can be filtered per binary.
type serviceHook struct{}

func (serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (serviceHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["service"]; !ok {
		e.Data["service"] = serviceName
	}
	return nil
}
