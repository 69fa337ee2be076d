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

package shared

import (
	"log/slog"

	"github.com/tombee/pidkeep/internal/log"
)

// NewLogger builds the command logger from config-file settings,
// overridden by the global --verbose and --quiet flags.
func NewLogger(level, format string) *slog.Logger {
	if GetVerbose() {
		level = "debug"
	}
	if GetQuiet() {
		level = "error"
	}

	return log.New(&log.Config{
		Level:  level,
		Format: log.Format(format),
	})
}
