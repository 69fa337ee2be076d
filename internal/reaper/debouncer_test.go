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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_CoalescesBursts(t *testing.T) {
	var mu sync.Mutex
	var flushes []string

	d := newDebouncer(50*time.Millisecond, func(key string) {
		mu.Lock()
		defer mu.Unlock()
		flushes = append(flushes, key)
	})
	defer d.stop()

	// A burst of events for the same key must produce one flush.
	for i := 0; i < 5; i++ {
		d.add("/tmp/pids")
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(flushes) == 1
	}, time.Second, 10*time.Millisecond, "burst should coalesce into one flush")

	// No further flushes after the window.
	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	assert.Len(t, flushes, 1)
	mu.Unlock()
}

func TestDebouncer_SeparateKeys(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[string]int)

	d := newDebouncer(20*time.Millisecond, func(key string) {
		mu.Lock()
		defer mu.Unlock()
		seen[key]++
	})
	defer d.stop()

	d.add("/a")
	d.add("/b")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return seen["/a"] == 1 && seen["/b"] == 1
	}, time.Second, 10*time.Millisecond)
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	var mu sync.Mutex
	var flushed bool

	d := newDebouncer(50*time.Millisecond, func(string) {
		mu.Lock()
		defer mu.Unlock()
		flushed = true
	})

	d.add("/tmp/pids")
	assert.Equal(t, 1, d.pending())

	d.stop()
	assert.Equal(t, 0, d.pending())

	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	assert.False(t, flushed, "stopped debouncer must not flush")
	mu.Unlock()

	// Events after stop are ignored.
	d.add("/tmp/pids")
	assert.Equal(t, 0, d.pending())
}
