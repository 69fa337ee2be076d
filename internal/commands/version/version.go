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

// Package version implements the version command.
package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/tombee/pidkeep/internal/commands/shared"
)

// NewCommand creates the version command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show pidkeep version",
		RunE:  runVersion,
	}
}

func runVersion(cmd *cobra.Command, args []string) error {
	version, commit, buildDate := shared.GetVersion()

	if shared.GetJSON() {
		output := struct {
			shared.JSONResponse
			Ver       string `json:"version"`
			Commit    string `json:"commit"`
			BuildDate string `json:"build_date"`
			GoVersion string `json:"go_version"`
			OS        string `json:"os"`
			Arch      string `json:"arch"`
		}{
			JSONResponse: shared.NewJSONResponse("version"),
			Ver:          version,
			Commit:       commit,
			BuildDate:    buildDate,
			GoVersion:    runtime.Version(),
			OS:           runtime.GOOS,
			Arch:         runtime.GOARCH,
		}
		return shared.EmitJSON(output)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "pidkeep %s (commit %s, built %s, %s %s/%s)\n",
		version, commit, buildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return nil
}
