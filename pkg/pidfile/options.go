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

import "log/slog"

// Option configures a File or a Scan.
type Option func(*File)

// WithProcessTable sets the ProcessTable consulted for the calling
// process's identifier and for liveness checks. The default is the host
// OS via System.
func WithProcessTable(t ProcessTable) Option {
	return func(f *File) {
		if t != nil {
			f.table = t
		}
	}
}

// WithLogger sets the logger used for diagnostics (reap reports, failed
// unlinks). The default is slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(f *File) {
		if l != nil {
			f.logger = l
		}
	}
}

func applyOptions(f *File, opts []Option) {
	f.table = System()
	f.logger = slog.Default()
	for _, opt := range opts {
		opt(f)
	}
}
