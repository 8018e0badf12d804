package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var logger = log.New()

func init() {
	Setup(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"), os.Getenv("LOG_TO_FILE") == "true")
}

// Setup configures the shared logger. Stage/prod write to stdout unless toFile is set,
// in which case logs go to logs/<date><env>.log in the working directory.
func Setup(env, level string, toFile bool) {
	logger.Out = os.Stdout
	if toFile && (env == "stage" || env == "prod" || env == "") {
		if out, err := openLogFile(env); err != nil {
			log.Warnf("Failed to open log file: %v, falling back to stdout", err)
		} else {
			logger.Out = out
		}
	}

	logger.Formatter = &log.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	}

	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = log.DebugLevel
	}
	logger.SetLevel(lvl)
}

func openLogFile(env string) (io.Writer, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	logsDir := filepath.Join(cwd, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, err
	}
	filePath := filepath.Join(logsDir, fmt.Sprintf("%s%s.log", time.Now().Format("2006-01-02"), env))
	return os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
}

// SetOutput redirects the shared logger, mostly for tests.
func SetOutput(w io.Writer) { logger.Out = w }

func GetLogger() *log.Entry {
	function, file, line, _ := runtime.Caller(1)

	functionObject := runtime.FuncForPC(function)
	entry := logger.WithFields(log.Fields{
		"service":   "scriptgo",
		"requestId": time.Now().UnixNano() / int64(time.Millisecond),
		"function":  functionObject.Name(),
		"file":      file,
		"line":      line,
	})

	return entry
}
