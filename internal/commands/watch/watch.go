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

// Package watch implements the watch command.
package watch

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tombee/pidkeep/internal/commands/shared"
	"github.com/tombee/pidkeep/internal/config"
	"github.com/tombee/pidkeep/internal/log"
	"github.com/tombee/pidkeep/internal/reaper"
)

// NewCommand creates the watch command.
func NewCommand() *cobra.Command {
	var (
		dir      string
		window   time.Duration
		interval time.Duration
		auditLog string
	)

	cmd := &cobra.Command{
		Use:   "watch [program...]",
		Short: "Watch a directory and reap stale pid files continuously",
		Long: `Watch the pid file directory and reap stale records as they appear:
an initial sweep at startup, a rescan after each directory change, and a
periodic full sweep as a fallback for missed events.

Programs default to the 'programs' list in the config file. The loop
runs until interrupted.`,
		Example: `  # Example 1: Watch the configured programs
  pidkeep watch

  # Example 2: Watch two programs in a specific directory
  pidkeep watch web worker --dir /tmp/pids

  # Example 3: Keep an audit trail of reaps
  pidkeep watch web --audit-log /var/log/pidkeep/reap.jsonl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, dir, window, interval, auditLog)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Pid file directory (default: from config)")
	cmd.Flags().DurationVar(&window, "window", 0, "Debounce window for directory events (default: from config)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Fallback sweep interval (default: from config)")
	cmd.Flags().StringVar(&auditLog, "audit-log", "", "Append reap events to this JSONL file (default: from config)")
	return cmd
}

func runWatch(cmd *cobra.Command, programs []string, dir string, window, interval time.Duration, auditLog string) error {
	cfg, err := config.Load(shared.GetConfigPath())
	if err != nil {
		return err
	}

	if dir == "" {
		dir = cfg.Dir
	}
	if len(programs) == 0 {
		programs = cfg.Programs
	}
	if len(programs) == 0 {
		return fmt.Errorf("no programs to watch: pass program names or set 'programs' in the config")
	}
	if window <= 0 {
		window = cfg.Watch.DebounceWindow
	}
	if interval <= 0 {
		interval = cfg.Watch.SweepInterval
	}
	if auditLog == "" {
		auditLog = cfg.Watch.AuditLog
	}

	logger := log.WithComponent(shared.NewLogger(cfg.Log.Level, cfg.Log.Format), "reaper")

	var audit *reaper.AuditLog
	if auditLog != "" {
		audit = reaper.NewAuditLog(auditLog)
	}

	svc := reaper.New(reaper.Config{
		Dir:            dir,
		Programs:       programs,
		DebounceWindow: window,
		SweepInterval:  interval,
		Logger:         logger,
		Audit:          audit,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return svc.Run(ctx)
}
