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

package pidfile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Scan enumerates the pid files in dir whose names start with program and
// end in ".pid", in lexical order, restricted to regular readable files.
// Unreadable or irregular entries are excluded up front, never reported
// as errors.
//
// With reap true, each matching record is classified through the
// ProcessTable: records whose stored identifier is dead — or unparsable,
// since identifier 0 cannot be running — are deleted and excluded from
// the result. Deletion is best-effort; a failed unlink is logged and the
// scan continues. Records with a live owner are always retained and
// returned.
//
// Scan fails only when dir itself cannot be listed.
func Scan(dir, program string, reap bool, opts ...Option) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading pid file directory %s: %w", dir, err)
	}

	// Only the "*" is a wildcard; the program name matches literally
	// even when it contains glob metacharacters.
	pattern := globEscape(program) + "*.pid"
	var found []string

	for _, entry := range entries {
		ok, err := doublestar.Match(pattern, entry.Name())
		if err != nil || !ok {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		f := FromPath(path, opts...)
		if !f.Exists() {
			continue
		}

		if reap {
			pid, valid := f.Read()
			if !valid || !f.table.Alive(pid) {
				f.logger.Info("reaping stale pid file",
					slog.String("path", path),
					slog.Int("pid", pid))
				if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
					f.logger.Warn("failed to remove stale pid file",
						slog.String("path", path),
						slog.Any("error", err))
				}
				continue
			}
		}

		found = append(found, path)
	}

	return found, nil
}

// globEscape backslash-escapes glob metacharacters in s so it matches
// only itself in a pattern.
func globEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
