package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads path whenever it is written or replaced and hands the new
// config to onChange. Load failures go to onError (which may be nil). The
// watcher is registered before Watch returns and stops when ctx is done.
//
// The parent directory is watched rather than the file itself so that editors
// which save by rename keep triggering reloads.
func Watch(ctx context.Context, path string, onChange func(SimulationConfig), onError func(error)) error {
	if _, err := FormatForPath(path); err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return fmt.Errorf("watch config: %w", err)
	}

	report := func(err error) {
		if onError != nil {
			onError(err)
		}
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				cfg, err := Load(abs)
				if err != nil {
					report(err)
					continue
				}
				log.Printf("Config: reloaded %s (mode %s)", filepath.Base(abs), cfg.Mode)
				onChange(cfg)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				report(fmt.Errorf("watch config: %w", err))
			}
		}
	}()
	return nil
}
