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

// Package scan implements the list and reap commands.
package scan

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tombee/pidkeep/internal/commands/shared"
	"github.com/tombee/pidkeep/internal/config"
	"github.com/tombee/pidkeep/pkg/pidfile"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "list <program>",
		Short: "List a program's pid files",
		Long: `List the pid files claimed by a program, with the recorded process
identifier and whether that process is currently alive. Nothing is
deleted; use 'pidkeep reap' to remove stale records.`,
		Example: `  # Example 1: List records for "web" in the default directory
  pidkeep list web

  # Example 2: List records in a specific directory
  pidkeep list web --dir /tmp/pids

  # Example 3: Extract live pids
  pidkeep list web --json | jq -r '.records[] | select(.alive) | .pid'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args[0], dir, false)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Pid file directory (default: from config)")
	return cmd
}

// NewReapCommand creates the reap command.
func NewReapCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "reap <program>",
		Short: "Delete a program's stale pid files",
		Long: `Delete the pid files of a program whose recorded process is no longer
alive, including records with unreadable or zero content. Records with a
live owner are kept and listed.`,
		Example: `  # Example 1: Reap stale records for "web"
  pidkeep reap web

  # Example 2: Reap in a specific directory
  pidkeep reap web --dir /tmp/pids`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args[0], dir, true)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Pid file directory (default: from config)")
	return cmd
}

// record is one row of list/reap output.
type record struct {
	Path  string `json:"path"`
	PID   int    `json:"pid,omitempty"`
	Alive bool   `json:"alive"`
}

func runScan(cmd *cobra.Command, program, dir string, reap bool) error {
	cfg, err := config.Load(shared.GetConfigPath())
	if err != nil {
		return err
	}
	if dir == "" {
		dir = cfg.Dir
	}

	logger := shared.NewLogger(cfg.Log.Level, cfg.Log.Format)
	table := pidfile.System()

	paths, err := pidfile.Scan(dir, program, reap,
		pidfile.WithProcessTable(table),
		pidfile.WithLogger(logger))
	if err != nil {
		return err
	}

	records := make([]record, 0, len(paths))
	for _, path := range paths {
		r := record{Path: path}
		if pid, ok := pidfile.FromPath(path).Read(); ok {
			r.PID = pid
			r.Alive = table.Alive(pid)
		}
		records = append(records, r)
	}

	command := "list"
	if reap {
		command = "reap"
	}

	if shared.GetJSON() {
		output := struct {
			shared.JSONResponse
			Program string   `json:"program"`
			Dir     string   `json:"dir"`
			Records []record `json:"records"`
		}{
			JSONResponse: shared.NewJSONResponse(command),
			Program:      program,
			Dir:          dir,
			Records:      records,
		}
		return shared.EmitJSON(output)
	}

	if len(records) == 0 {
		if !shared.GetQuiet() {
			fmt.Fprintf(cmd.OutOrStdout(), "no pid files for %q in %s\n", program, dir)
		}
		return nil
	}

	for _, r := range records {
		state := "dead"
		if r.Alive {
			state = "alive"
		}
		if r.PID == 0 {
			state = "invalid"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", r.Path, r.PID, state)
	}
	return nil
}
