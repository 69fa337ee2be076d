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

// Package check implements the check command.
package check

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tombee/pidkeep/internal/commands/shared"
	"github.com/tombee/pidkeep/internal/config"
	"github.com/tombee/pidkeep/pkg/pidfile"
)

// Status values reported by check.
const (
	StatusRunning = "running"
	StatusStale   = "stale"
	StatusAbsent  = "absent"
)

// NewCommand creates the check command.
func NewCommand() *cobra.Command {
	var (
		dir  string
		path string
	)

	cmd := &cobra.Command{
		Use:   "check [program]",
		Short: "Check whether a recorded process is alive",
		Long: `Read a pid file and classify it: running (the recorded process is
alive), stale (a record exists but its process is gone or the content is
invalid), or absent (no record).

By default the single-instance record for the given program is checked;
--path checks an explicit pid file instead. The exit status is zero only
when the process is running.`,
		Example: `  # Example 1: Check the "web" record in the default directory
  pidkeep check web

  # Example 2: Check an explicit pid file
  pidkeep check --path /tmp/pids/web0.pid

  # Example 3: Script against the result
  pidkeep check web && echo up || echo down`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" && len(args) == 0 {
				return fmt.Errorf("a program name or --path is required")
			}
			program := ""
			if len(args) > 0 {
				program = args[0]
			}
			return runCheck(cmd, program, dir, path)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Pid file directory (default: from config)")
	cmd.Flags().StringVar(&path, "path", "", "Check an explicit pid file instead of deriving the path")
	return cmd
}

func runCheck(cmd *cobra.Command, program, dir, path string) error {
	cfg, err := config.Load(shared.GetConfigPath())
	if err != nil {
		return err
	}
	if dir == "" {
		dir = cfg.Dir
	}

	var f *pidfile.File
	if path != "" {
		f = pidfile.FromPath(path)
	} else {
		f, err = pidfile.Locate(dir, program, false)
		if err != nil {
			return err
		}
	}

	table := pidfile.System()

	status := StatusAbsent
	pid := 0
	command := ""

	if f.Exists() {
		status = StatusStale
		if p, ok := f.Read(); ok {
			pid = p
			if table.Alive(p) {
				status = StatusRunning
				if c, err := pidfile.Command(p); err == nil {
					command = c
				}
			}
		}
	}

	if shared.GetJSON() {
		output := struct {
			shared.JSONResponse
			Path    string `json:"path"`
			Status  string `json:"status"`
			PID     int    `json:"pid,omitempty"`
			Command string `json:"process_command,omitempty"`
		}{
			JSONResponse: shared.NewJSONResponse("check"),
			Path:         f.Path(),
			Status:       status,
			PID:          pid,
			Command:      command,
		}
		output.Success = status == StatusRunning
		if err := shared.EmitJSON(output); err != nil {
			return err
		}
	} else if !shared.GetQuiet() {
		switch status {
		case StatusRunning:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: running (pid %d)\n", f.Path(), pid)
			if command != "" && shared.GetVerbose() {
				fmt.Fprintf(cmd.OutOrStdout(), "  command: %s\n", command)
			}
		case StatusStale:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: stale record\n", f.Path())
		case StatusAbsent:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: no record\n", f.Path())
		}
	}

	if status != StatusRunning {
		return fmt.Errorf("not running: %s", f.Path())
	}
	return nil
}
