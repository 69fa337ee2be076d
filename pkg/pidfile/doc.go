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

/*
Package pidfile manages the on-disk records that associate a running
background process with a discoverable identifier.

A pid file is a plain text file whose first line is the decimal process
identifier of its owner. External tooling (a CLI, an init system, a
supervisor) uses it to locate and signal a daemon without holding a handle
to it.

# Locating a record

Locate computes the canonical path for a daemon instance. In
single-instance mode the path is fixed; in multiple-instance mode the
smallest free instance number below MaxInstances is allocated:

	f, err := pidfile.Locate("/var/run/myapp", "myapp", false)
	if err != nil {
	    // Handle error
	}

	if err := f.Write(os.Getpid()); err != nil {
	    // Directory missing or unwritable
	}
	defer f.Cleanup()

Allocation only reserves a name; no file is created until Write. Two
processes locating at the same instant may pick the same slot — the first
writer wins and the loser is overwritten. Callers needing strict
uniqueness must verify after writing.

# Reading and ownership

Read never fails: a missing, unreadable, empty, corrupt, or zero-valued
file all report "no identifier", so a half-written record looks the same
as an absent one. Cleanup deletes the file only when it still names the
calling process, so a restarted daemon cannot delete its successor's
record.

# Scanning

Scan enumerates the pid files for a program prefix, optionally reaping
records whose owner is no longer alive:

	live, err := pidfile.Scan("/var/run/myapp", "myapp", true)

Liveness and the caller's own identifier come from a ProcessTable. The
default is the host OS; tests inject a fake.
*/
package pidfile
