// Copyright (C) 2024 Deneb Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"context"
	"sync"
	"time"

	"code.denebprotocol.io/deneb/logging"
	"code.denebprotocol.io/deneb/paths"

	"github.com/fsnotify/fsnotify"
)

const namedLogger = "cfgwatcher"

// Watcher watches the configuration file and keeps the last version that
// parsed successfully.
type Watcher struct {
	log  *logging.Logger
	home string

	cfg                Config
	cfgUpdateListeners []func(Config)
	mu                 sync.Mutex
}

// NewWatcher loads the configuration under the given home and starts
// watching the file for updates until the context is cancelled.
func NewWatcher(ctx context.Context, log *logging.Logger, home string) (*Watcher, error) {
	log = log.Named(namedLogger)
	// configuration changes are always worth reporting
	log.SetLevel(logging.DebugLevel)

	w := &Watcher{
		log:  log,
		home: home,
	}

	if err := w.load(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(paths.ConfigFile(home)); err != nil {
		return nil, err
	}

	w.log.Info("config watcher started successfully",
		logging.Path(paths.ConfigFile(home)))

	go w.watch(ctx, watcher)

	return w, nil
}

// Get returns the last configuration that parsed successfully.
func (w *Watcher) Get() Config {
	w.mu.Lock()
	cfg := w.cfg
	w.mu.Unlock()
	return cfg
}

// OnConfigUpdate registers functions called after each configuration
// reload.
func (w *Watcher) OnConfigUpdate(fns ...func(Config)) {
	w.mu.Lock()
	w.cfgUpdateListeners = append(w.cfgUpdateListeners, fns...)
	w.mu.Unlock()
}

func (w *Watcher) notifyConfigUpdate() {
	w.mu.Lock()
	for _, f := range w.cfgUpdateListeners {
		f(w.cfg)
	}
	w.mu.Unlock()
}

func (w *Watcher) load() error {
	cfg, err := Read(w.home)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.cfg = *cfg
	w.mu.Unlock()
	return nil
}

func (w *Watcher) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()
	for {
		select {
		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Rename != 0 {
				// Editors tend to replace the file rather than write it in
				// place. Give the rename a moment to settle before reading.
				time.Sleep(50 * time.Millisecond)
			}

			w.log.Info("configuration updated", logging.String("event", event.Name))
			if err := w.load(); err != nil {
				w.log.Error("unable to load configuration", logging.Error(err))
				continue
			}
			w.notifyConfigUpdate()
		case err := <-watcher.Errors:
			w.log.Error("config watcher received error event", logging.Error(err))
		case <-ctx.Done():
			return
		}
	}
}
