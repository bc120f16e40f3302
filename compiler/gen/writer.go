package gen

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dave/jennifer/jen"
	"github.com/rs/zerolog"
	"golang.org/x/tools/imports"
)

// Writer renders jennifer files, formats them with goimports and writes them
// to disk. It is safe for concurrent use.
type Writer struct {
	log zerolog.Logger

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics WriterMetrics
}

// WriterMetrics tracks generation performance
type WriterMetrics struct {
	FilesGenerated int
	FilesUnchanged int
	TotalBytes     int64
	RenderTime     time.Duration
	FormatTime     time.Duration
	WriteTime      time.Duration
}

// NewWriter creates a new writer logging to log.
func NewWriter(log zerolog.Logger) *Writer {
	return &Writer{log: log}
}

// Metrics returns a snapshot of the write metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// WriteFile renders f and writes it to path. Files whose content did not
// change are left untouched.
func (w *Writer) WriteFile(path string, f *jen.File) error {
	name := filepath.Base(path)

	// 1. Render
	start := time.Now()
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return NewGenerationError("render", name, "render file", err)
	}
	rendered := time.Now()

	// 2. Format using goimports
	formatted, err := imports.Process(path, buf.Bytes(), nil)
	if err != nil {
		debugPath := w.writeDebug(path, buf.String())
		return NewGenerationError("format", name, "unformatted output written to "+debugPath, err)
	}
	formattedAt := time.Now()

	// 3. Skip unchanged files
	if current, err := os.ReadFile(path); err == nil && bytes.Equal(current, formatted) {
		w.record(func(m *WriterMetrics) {
			m.FilesUnchanged++
			m.RenderTime += rendered.Sub(start)
			m.FormatTime += formattedAt.Sub(rendered)
		})
		w.log.Debug().Str("file", path).Msg("unchanged")
		return nil
	}

	// 4. Write file
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return NewGenerationError("write", name, "create directory", err)
	}
	if err := os.WriteFile(path, formatted, 0o644); err != nil {
		return NewGenerationError("write", name, "write file", err)
	}
	w.record(func(m *WriterMetrics) {
		m.FilesGenerated++
		m.TotalBytes += int64(len(formatted))
		m.RenderTime += rendered.Sub(start)
		m.FormatTime += formattedAt.Sub(rendered)
		m.WriteTime += time.Since(formattedAt)
	})
	return nil
}

// writeDebug writes unformatted output next to path for debugging. Errors are
// intentionally ignored as we're already in error state.
func (w *Writer) writeDebug(path, content string) string {
	debugPath := path + ".error"
	_ = os.MkdirAll(filepath.Dir(debugPath), 0o755)
	_ = os.WriteFile(debugPath, []byte(content), 0o644)
	w.log.Warn().Str("file", debugPath).Msg("unformatted output written")
	return debugPath
}

func (w *Writer) record(fn func(*WriterMetrics)) {
	w.mu.Lock()
	fn(&w.metrics)
	w.mu.Unlock()
}
