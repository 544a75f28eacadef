package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/juju/errors"
)

// reloadDelay coalesces the burst of events editors produce on save.
const reloadDelay = 100 * time.Millisecond

// Watch reloads configPath whenever it is written and passes the new
// config to onChange. The parent directory is watched so that editors
// replacing the file by rename are noticed too. Watch blocks until ctx is
// done.
func Watch(ctx context.Context, configPath string, onChange func(*Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Annotate(err, "config: create watcher")
	}
	defer w.Close()

	dir := filepath.Dir(configPath)
	if err := w.Add(dir); err != nil {
		return errors.Annotatef(err, "config: watch %s", dir)
	}
	target := filepath.Clean(configPath)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				pending = time.After(reloadDelay)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warnf("Config watcher error: %v", err)
		case <-pending:
			pending = nil
			cfg, err := LoadConfig(configPath)
			if err != nil {
				log.Warnf("Failed to reload config from %s: %v", configPath, err)
				continue
			}
			log.Debugf("Reloaded config from %s", configPath)
			onChange(cfg)
		}
	}
}
