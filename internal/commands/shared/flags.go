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

// Package shared holds flag state and output helpers used by all
// pidkeep command packages.
package shared

import "github.com/spf13/cobra"

// globalFlags are the persistent flag values every command can consult.
// Cobra parses the persistent flags once per invocation, so a single
// instance is enough.
type globalFlags struct {
	verbose bool
	quiet   bool
	json    bool
	config  string
}

var flags globalFlags

// Build-time version information, injected from main via SetVersion.
var buildInfo = struct {
	version, commit, date string
}{"dev", "unknown", "unknown"}

// BindGlobalFlags registers the persistent flags on the root command and
// wires them to the shared flag state.
func BindGlobalFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "Suppress non-error output")
	pf.BoolVar(&flags.json, "json", false, "Output in JSON format")
	pf.StringVar(&flags.config, "config", "", "Path to config file (default: ~/.config/pidkeep/config.yaml)")
}

// SetVersion sets the version information (called from main).
func SetVersion(version, commit, date string) {
	buildInfo.version = version
	buildInfo.commit = commit
	buildInfo.date = date
}

// GetVersion returns the version, commit, and build date.
func GetVersion() (string, string, string) {
	return buildInfo.version, buildInfo.commit, buildInfo.date
}

// GetVerbose reports whether --verbose was given.
func GetVerbose() bool { return flags.verbose }

// GetQuiet reports whether --quiet was given.
func GetQuiet() bool { return flags.quiet }

// GetJSON reports whether --json was given.
func GetJSON() bool { return flags.json }

// GetConfigPath returns the --config value, empty for the default
// location.
func GetConfigPath() string { return flags.config }
