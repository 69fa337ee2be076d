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

// Package reaper runs the supervisory watch loop that detects and deletes
// pid files whose owning process is no longer alive.
package reaper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tombee/pidkeep/pkg/pidfile"
)

// Config configures a Service.
type Config struct {
	// Dir is the pid file directory to watch.
	Dir string

	// Programs are the logical program names whose records are reaped.
	Programs []string

	// DebounceWindow is how long to wait after a directory event before
	// rescanning.
	DebounceWindow time.Duration

	// SweepInterval is the period of the fallback full sweep.
	SweepInterval time.Duration

	// Table supplies liveness checks. Defaults to the host OS.
	Table pidfile.ProcessTable

	// Logger receives diagnostics. Defaults to slog.Default.
	Logger *slog.Logger

	// Audit, if non-nil, records reap outcomes to the audit log.
	Audit *AuditLog
}

// Service watches a pid file directory and reaps stale records, both in
// response to directory events and on a periodic sweep. Events can be
// missed (fsnotify watches are best-effort); the sweep bounds how long a
// stale record survives.
type Service struct {
	cfg Config
}

// New creates a watch service. Zero-valued Config fields get defaults.
func New(cfg Config) *Service {
	if cfg.Table == nil {
		cfg.Table = pidfile.System()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = 500 * time.Millisecond
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	return &Service{cfg: cfg}
}

// Run watches until ctx is cancelled. An initial sweep runs immediately so
// records orphaned before startup don't wait for the first event.
func (s *Service) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating directory watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.cfg.Dir); err != nil {
		return fmt.Errorf("watching %s: %w", s.cfg.Dir, err)
	}

	deb := newDebouncer(s.cfg.DebounceWindow, func(string) {
		s.Sweep()
	})
	defer deb.stop()

	if err := s.cfg.Audit.LogWatchStart(s.cfg.Dir, s.cfg.Programs); err != nil {
		s.cfg.Logger.Warn("failed to write audit event", slog.Any("error", err))
	}
	s.cfg.Logger.Info("watching pid file directory",
		slog.String("dir", s.cfg.Dir),
		slog.Int("programs", len(s.cfg.Programs)))

	s.Sweep()

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := s.cfg.Audit.LogWatchStop(s.cfg.Dir); err != nil {
				s.cfg.Logger.Warn("failed to write audit event", slog.Any("error", err))
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".pid") {
				continue
			}
			// Creations and writes matter (a new record may be stale
			// already); removals need no reaction but cost nothing.
			deb.add(s.cfg.Dir)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.cfg.Logger.Warn("directory watcher error", slog.Any("error", err))

		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep runs one reap pass over every configured program. Per-program scan
// failures are logged and do not stop the pass.
func (s *Service) Sweep() {
	for _, program := range s.cfg.Programs {
		before, err := pidfile.Scan(s.cfg.Dir, program, false,
			pidfile.WithProcessTable(s.cfg.Table),
			pidfile.WithLogger(s.cfg.Logger))
		if err != nil {
			s.sweepFailed(program, err)
			continue
		}

		live, err := pidfile.Scan(s.cfg.Dir, program, true,
			pidfile.WithProcessTable(s.cfg.Table),
			pidfile.WithLogger(s.cfg.Logger))
		if err != nil {
			s.sweepFailed(program, err)
			continue
		}

		reaped := len(before) - len(live)
		if reaped < 0 {
			// Records appeared between the two scans.
			reaped = 0
		}

		s.cfg.Logger.Debug("sweep complete",
			slog.String("program", program),
			slog.Int("reaped", reaped),
			slog.Int("live", len(live)))

		if reaped > 0 {
			if err := s.cfg.Audit.LogSweep(program, reaped, len(live)); err != nil {
				s.cfg.Logger.Warn("failed to write audit event", slog.Any("error", err))
			}
		}
	}
}

func (s *Service) sweepFailed(program string, err error) {
	s.cfg.Logger.Warn("sweep failed",
		slog.String("program", program),
		slog.Any("error", err))
	if aerr := s.cfg.Audit.LogSweepError(program, err); aerr != nil {
		s.cfg.Logger.Warn("failed to write audit event", slog.Any("error", aerr))
	}
}
