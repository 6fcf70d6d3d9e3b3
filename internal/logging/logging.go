// internal/logging/logging.go

// Package logging routes the standard logger to stdout and, optionally, a
// log file shared by every cryptic command.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
	quiet   bool
)

// Init points the standard logger at stdout plus the file at logPath. An
// empty logPath logs to stdout only. Calling Init again replaces the file.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	writers := []io.Writer{os.Stdout}
	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create log dir: %w", err)
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logFile = file
		writers = append(writers, logFile)
	}

	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

// Close flushes and closes the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

// SetDebug toggles request/response payload logging.
func SetDebug(enabled bool) {
	mu.Lock()
	quiet = !enabled
	mu.Unlock()
}

func LogEvent(format string, args ...any) {
	log.Println(fmt.Sprintf(format, args...))
}

// LogStage prefixes an event with the pipeline stage it belongs to.
func LogStage(stage, format string, args ...any) {
	log.Println(fmt.Sprintf("[%s] ", strings.ToUpper(strings.TrimSpace(stage))) + fmt.Sprintf(format, args...))
}

// LogRequest records a model request or response. Payloads are skipped
// when debug logging is off.
func LogRequest(direction, host, model string, payload any) {
	mu.Lock()
	skip := quiet
	mu.Unlock()
	if skip {
		return
	}
	log.Println(buildRequestMessage(direction, host, model, payload))
}

func buildRequestMessage(direction, host, model string, payload any) string {
	dir := strings.ToUpper(strings.TrimSpace(direction))
	hostValue := strings.TrimSpace(host)
	if hostValue == "" {
		hostValue = "unknown"
	}
	modelValue := strings.TrimSpace(model)
	if modelValue == "" {
		modelValue = "unknown"
	}
	return strings.Join([]string{
		fmt.Sprintf("[%s]", dir),
		"host=" + hostValue,
		"model=" + modelValue,
		"payload=" + formatPayload(payload),
	}, " ")
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
