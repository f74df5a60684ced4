package analytics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/tharun242005/EMPATH-AI/internal/models"
)

// InteractionLog appends one line per chat interaction, including the raw
// message text. It is the only sink in the system allowed to carry user
// content; keep its file out of any shared log aggregation.
type InteractionLog struct {
	log *logrus.Logger
}

type interactionFormatter struct{}

func (interactionFormatter) Format(e *logrus.Entry) ([]byte, error) {
	line := fmt.Sprintf("[%s] User: %v | Emotion: %v | Harassment: %v | Message: %v\n",
		e.Time.Format("2006-01-02 15:04:05"),
		e.Data["user"],
		e.Data["emotion"],
		e.Data["harassment"],
		e.Data["message"],
	)
	return []byte(line), nil
}

// NewInteractionLog opens (or creates) the interaction log file for append.
func NewInteractionLog(path string) (*InteractionLog, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open interaction log: %w", err)
	}

	log := logrus.New()
	log.SetOutput(file)
	log.SetFormatter(interactionFormatter{})
	log.SetLevel(logrus.InfoLevel)

	return &InteractionLog{log: log}, nil
}

// Record writes one interaction line.
func (l *InteractionLog) Record(sessionKey, message, emotion string, tier models.Severity) {
	l.log.WithFields(logrus.Fields{
		"user":       sessionKey,
		"emotion":    emotion,
		"harassment": string(tier),
		"message":    message,
	}).Info("interaction")
}
