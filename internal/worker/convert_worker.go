// Package worker runs the startup PDF conversion sweep.
package worker

import (
	"context"
	"log/slog"
	"time"

	"maccounting/internal/convert"
)

// ConvertWorker sweeps an input directory once and converts every PDF in it.
// It is launched fire-and-forget at process start: failures are logged and
// discarded so they can never block request handling, and completion is not
// observable by any other component.
type ConvertWorker struct {
	converter convert.DocumentConverter
	inputDir  string
	outputDir string
	timeout   time.Duration
}

func NewConvertWorker(conv convert.DocumentConverter, inputDir, outputDir string, timeout time.Duration) *ConvertWorker {
	return &ConvertWorker{
		converter: conv,
		inputDir:  inputDir,
		outputDir: outputDir,
		timeout:   timeout,
	}
}

// Start launches the sweep on its own goroutine and returns immediately.
func (w *ConvertWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *ConvertWorker) run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.WarnContext(ctx, "Startup conversion panicked", "panic", r)
		}
	}()

	cctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	slog.InfoContext(cctx, "Startup conversion sweep started",
		"input_dir", w.inputDir,
		"output_dir", w.outputDir)

	converted, err := convert.ConvertDirectory(cctx, w.converter, w.inputDir, w.outputDir)
	if err != nil {
		// Swallowed: a failed sweep is only visible through missing output files.
		slog.WarnContext(cctx, "Startup conversion sweep failed",
			"error", err,
			"converted", len(converted))
		return
	}
	slog.InfoContext(cctx, "Startup conversion sweep finished", "converted", len(converted))
}
