// Package picker shows the native open-file dialog without blocking the
// render thread.
package picker

import (
	"errors"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/logger"
)

// Sink receives a chosen path. It must be safe to call from any goroutine.
type Sink interface {
	Submit(path string)
}

// OpenModel shows an OBJ file dialog in a goroutine and hands the chosen
// path to sink. Cancelling the dialog does nothing.
func OpenModel(sink Sink, startDir string) {
	go func() {
		b := dialog.File().
			Filter("Wavefront OBJ", "obj").
			Filter("All Files", "*").
			Title("Open Model")
		if startDir != "" {
			b = b.SetStartDir(startDir)
		}

		path, err := b.Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				logger.Warn("file dialog failed", zap.Error(err))
			}
			return
		}

		sink.Submit(path)
	}()
}
