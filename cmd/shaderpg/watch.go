package main

import (
	"context"
	"os"
	"time"

	"github.com/Overpeek/shaderpg/common"
)

// fileWatcher polls a file's modification time and size and reports new contents.
type fileWatcher struct {
	path     string
	interval time.Duration

	stat func(string) (os.FileInfo, error)
	read func(string) ([]byte, error)

	seen    bool
	modTime time.Time
	size    int64
}

func newFileWatcher(path string, interval time.Duration) *fileWatcher {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &fileWatcher{
		path:     path,
		interval: interval,
		stat:     os.Stat,
		read:     os.ReadFile,
	}
}

// poll reads the file when it changed since the previous poll. The first successful poll always reports the file.
//
// Returns:
//   - []byte: the file contents, valid when changed is true
//   - bool: whether the file changed
//   - error: the stat or read error
func (w *fileWatcher) poll() ([]byte, bool, error) {
	info, err := w.stat(w.path)
	if err != nil {
		return nil, false, err
	}
	if w.seen && info.ModTime().Equal(w.modTime) && info.Size() == w.size {
		return nil, false, nil
	}

	data, err := w.read(w.path)
	if err != nil {
		return nil, false, err
	}
	w.seen = true
	w.modTime = info.ModTime()
	w.size = info.Size()
	return data, true, nil
}

// run calls onChange with the file contents now and after every change until ctx is done.
// onChange runs on the watcher goroutine, so a blocking send paces the watcher.
func (w *fileWatcher) run(ctx context.Context, onChange func(data []byte)) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var lastErr string
	for {
		data, changed, err := w.poll()
		switch {
		case err != nil:
			if err.Error() != lastErr {
				common.Logger().Warn("watched file unavailable", "path", w.path, "error", err)
				lastErr = err.Error()
			}
		case changed:
			lastErr = ""
			common.Logger().Debug("watched file changed", "path", w.path, "bytes", len(data))
			onChange(data)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
