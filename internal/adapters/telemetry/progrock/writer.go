package progrock

import (
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/bump/internal/core/ports"
)

// LogWriter is a progrock.Writer that reports every completed vertex to a logger.
type LogWriter struct {
	logger ports.Logger

	mu   sync.Mutex
	done map[string]bool
}

var _ progrock.Writer = (*LogWriter)(nil)

// NewLogWriter creates a new LogWriter.
func NewLogWriter(logger ports.Logger) *LogWriter {
	return &LogWriter{logger: logger, done: make(map[string]bool)}
}

// WriteStatus logs vertices completed by update. Each vertex is reported once.
func (w *LogWriter) WriteStatus(update *progrock.StatusUpdate) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, v := range update.Vertexes {
		if v.Completed == nil || w.done[v.Id] {
			continue
		}
		w.done[v.Id] = true
		if v.Error != nil {
			w.logger.Warn("task failed", "task", v.Name, "error", *v.Error)
			continue
		}
		w.logger.Debug("task completed", "task", v.Name)
	}
	return nil
}

// Close implements progrock.Writer.
func (w *LogWriter) Close() error {
	return nil
}
