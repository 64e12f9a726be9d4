package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/geodossier"
)

// Ensure LoggingCompiler implements geodossier.Compiler.
var _ geodossier.Compiler = (*LoggingCompiler)(nil)

// LoggingCompiler wraps a Compiler with logging.
type LoggingCompiler struct {
	next   geodossier.Compiler
	logger *slog.Logger
}

// NewLoggingCompiler creates a new LoggingCompiler.
func NewLoggingCompiler(next geodossier.Compiler, logger *slog.Logger) *LoggingCompiler {
	return &LoggingCompiler{next: next, logger: logger}
}

// Compile delegates to the wrapped compiler and logs the artifact.
func (c *LoggingCompiler) Compile(result *geodossier.AnalysisResult) (artifact *geodossier.DossierArtifact, err error) {
	defer func(begin time.Time) {
		var filename string
		var size int
		if artifact != nil {
			filename = artifact.Filename
			size = len(artifact.Content)
		}
		c.logger.Info("compile",
			"filename", filename,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Compile(result)
}
