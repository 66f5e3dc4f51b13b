package resultlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	domainResultLog "github.com/AzielCF/az-autopost/domains/resultlog"
	"github.com/AzielCF/az-autopost/pkg/utils"
	"github.com/sirupsen/logrus"
)

const (
	TimestampLayout = "2006-01-02T15:04:05.000000"
	tagField        = "tag"
)

// lineFormatter renders "<timestamp> - <TAG>: <message>".
type lineFormatter struct{}

func (lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	tag, _ := entry.Data[tagField].(domainResultLog.Tag)
	return []byte(fmt.Sprintf("%s - %s: %s\n", entry.Time.Format(TimestampLayout), tag, entry.Message)), nil
}

// FileLog appends result lines to a file. Existing content is never truncated.
type FileLog struct {
	path   string
	file   *os.File
	logger *logrus.Logger
	mu     sync.Mutex
}

func Open(path string) (*FileLog, error) {
	if err := utils.CreateFolder(filepath.Dir(path)); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open result log: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(f)
	logger.SetFormatter(lineFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	return &FileLog{path: path, file: f, logger: logger}, nil
}

func (l *FileLog) Record(tag domainResultLog.Tag, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		logrus.Warnf("[RESULTLOG] log closed, dropping %s: %s", tag, message)
		return
	}
	l.logger.WithField(tagField, tag).Info(message)
}

func (l *FileLog) Path() string {
	return l.path
}

func (l *FileLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
