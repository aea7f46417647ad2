package main

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// fileChanged is the payload of the interrupt events posted by watchFiles.
type fileChanged struct {
	Path string // As given to watchFiles
}

// watchFiles posts a tcell interrupt carrying a fileChanged whenever one of
// paths is written or replaced. The parent directories are watched, so files
// saved through a rename are still seen. It stops when ctx is done.
func watchFiles(ctx context.Context, s tcell.Screen, paths []string, log logrus.FieldLogger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating watcher")
	}

	watched := make(map[string]string, len(paths)) // Absolute path to given path
	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			_ = watcher.Close()
			return errors.Wrapf(err, "resolving file. path=%s", path)
		}
		watched[abs] = path

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return errors.Wrapf(err, "watching directory. path=%s", dir)
		}
		dirs[dir] = true
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				path, ok := watched[filepath.Clean(event.Name)]
				if !ok {
					continue
				}
				log.WithField("path", path).Debug("watched file changed")
				_ = s.PostEvent(tcell.NewEventInterrupt(fileChanged{path}))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.WithError(err).Warn("file watcher error")
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
