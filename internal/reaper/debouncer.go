// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reaper

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of directory events into single rescan
// triggers. A daemon writing its pid file, or an editor touching the
// directory, can produce several fsnotify events in quick succession;
// delivery is delayed until no new event arrives for the window duration.
// Each key (directory path) has its own timer.
type debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	timers  map[string]*time.Timer
	onFlush func(key string)
	stopped bool
}

func newDebouncer(window time.Duration, onFlush func(key string)) *debouncer {
	return &debouncer{
		window:  window,
		timers:  make(map[string]*time.Timer),
		onFlush: onFlush,
	}
}

// add records an event for key, resetting its pending timer if one exists.
func (d *debouncer) add(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if t, ok := d.timers[key]; ok {
		t.Stop()
	}

	d.timers[key] = time.AfterFunc(d.window, func() {
		d.flush(key)
	})
}

// flush delivers the pending trigger for key and cleans up its timer.
func (d *debouncer) flush(key string) {
	d.mu.Lock()

	if _, ok := d.timers[key]; !ok {
		d.mu.Unlock()
		return
	}
	delete(d.timers, key)
	stopped := d.stopped
	d.mu.Unlock()

	// Call onFlush outside of the lock to prevent deadlocks.
	if !stopped && d.onFlush != nil {
		d.onFlush(key)
	}
}

// stop cancels all pending timers without flushing them.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}

// pending returns the number of keys with pending timers.
func (d *debouncer) pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}
