package logger

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

const (
	fieldTier   = "tier"
	fieldPrefix = "prefix"
	timeLayout  = "2006-01-02 15:04:05"
)

// tierOf recovers the bot level stored on an entry
func tierOf(e *logrus.Entry) LogLevel {
	if level, ok := e.Data[fieldTier].(LogLevel); ok {
		return level
	}
	// Entries that bypassed Logger.log (third-party code using the logrus instance)
	switch e.Level {
	case logrus.PanicLevel, logrus.FatalLevel:
		return LevelCritical
	case logrus.ErrorLevel:
		return LevelError
	case logrus.WarnLevel:
		return LevelWarn
	case logrus.DebugLevel, logrus.TraceLevel:
		return LevelDebug
	default:
		return LevelInfo
	}
}

// lineFormatter renders "[time] [LEVEL] [Prefix]: message"
type lineFormatter struct {
	colors bool
}

func (f *lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	level := tierOf(e)
	prefix, _ := e.Data[fieldPrefix].(string)
	timestamp := e.Time.Format(timeLayout)

	var b bytes.Buffer
	if f.colors {
		fmt.Fprintf(&b, "[%s] [%s%s%s] [%s]: %s\n", timestamp, level.Color(), level.String(), colorReset, prefix, e.Message)
	} else {
		fmt.Fprintf(&b, "[%s] [%s] [%s]: %s\n", timestamp, level.String(), prefix, e.Message)
	}
	return b.Bytes(), nil
}

// fileHook appends every entry to combined.log and errors to error.log
type fileHook struct {
	formatter *lineFormatter
	combined  *os.File
	errors    *os.File
	mu        sync.Mutex
}

func newFileHook(dir string) (*fileHook, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	combinedPath, errorPath := logFilePaths(dir)

	combined, err := os.OpenFile(combinedPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	errs, err := os.OpenFile(errorPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		combined.Close()
		return nil, err
	}

	return &fileHook{
		formatter: &lineFormatter{colors: false},
		combined:  combined,
		errors:    errs,
	}, nil
}

func (h *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fileHook) Fire(e *logrus.Entry) error {
	line, err := h.formatter.Format(e)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.combined.Write(line); err != nil {
		return err
	}
	if tierOf(e) <= LevelError {
		if _, err := h.errors.Write(line); err != nil {
			return err
		}
	}
	return nil
}

func (h *fileHook) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.combined.Close()
	h.errors.Close()
}

// webhookHook forwards entries to Discord webhooks without blocking the caller
type webhookHook struct {
	errorURL string
	logsURL  string
	client   *http.Client
}

func newWebhookHook(errorURL, logsURL string) *webhookHook {
	return &webhookHook{
		errorURL: errorURL,
		logsURL:  logsURL,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

func (h *webhookHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *webhookHook) Fire(e *logrus.Entry) error {
	level := tierOf(e)
	prefix, _ := e.Data[fieldPrefix].(string)

	url := h.logsURL
	if level <= LevelError {
		url = h.errorURL
	}
	if url == "" {
		return nil
	}

	go h.send(url, level, e.Message, prefix)
	return nil
}

func (h *webhookHook) send(url string, level LogLevel, message, prefix string) {
	payload := map[string]interface{}{
		"embeds": []interface{}{
			map[string]interface{}{
				"title":       fmt.Sprintf("[%s] %s", level.String(), prefix),
				"description": fmt.Sprintf("```%s```", message),
				"color":       level.DiscordColor(),
				"timestamp":   time.Now().Format(time.RFC3339),
				"footer": map[string]string{
					"text": "💫 FloppaBot Go",
				},
			},
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return
	}

	resp, err := h.client.Post(url, "application/json", bytes.NewReader(jsonData))
	if err != nil {
		return
	}
	resp.Body.Close()
}
