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

// Package cli assembles the pidkeep command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/tombee/pidkeep/internal/commands/check"
	"github.com/tombee/pidkeep/internal/commands/scan"
	"github.com/tombee/pidkeep/internal/commands/shared"
	versioncmd "github.com/tombee/pidkeep/internal/commands/version"
	"github.com/tombee/pidkeep/internal/commands/watch"
)

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	shared.SetVersion(v, c, b)
}

// NewRootCommand creates the root Cobra command for pidkeep
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pidkeep",
		Short: "pidkeep - pid file supervision",
		Long: `pidkeep inspects and maintains the pid files daemons leave behind.

It lists the records a program has claimed, checks whether a recorded
process is still alive, reaps records orphaned by processes that died
without cleaning up, and can watch a directory to reap continuously.

pidkeep never starts or stops daemons; it only manages their on-disk
identity records.`,
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // We handle errors ourselves for proper exit codes
	}

	shared.BindGlobalFlags(cmd)

	cmd.AddCommand(scan.NewListCommand())
	cmd.AddCommand(scan.NewReapCommand())
	cmd.AddCommand(check.NewCommand())
	cmd.AddCommand(watch.NewCommand())
	cmd.AddCommand(versioncmd.NewCommand())

	return cmd
}

// GetVersion returns version information
func GetVersion() (string, string, string) {
	return shared.GetVersion()
}
