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
	"errors"
	"os"
	"syscall"
)

// ProcessTable answers the two questions this package asks of its host:
// what is the calling process's identifier, and does a given identifier
// currently name a live process. Injecting it keeps ownership and reap
// logic testable against a fake process table.
type ProcessTable interface {
	// Self returns the calling process's own identifier.
	Self() int

	// Alive reports whether pid names a live process. A non-existent
	// process is a normal negative result, never a failure.
	Alive(pid int) bool
}

// System returns the ProcessTable backed by the host operating system.
func System() ProcessTable {
	return systemTable{}
}

type systemTable struct{}

func (systemTable) Self() int {
	return os.Getpid()
}

// Alive probes with signal 0, which checks existence and permissions
// without delivering a signal. EPERM means the process exists but belongs
// to someone else, so it counts as alive.
func (systemTable) Alive(pid int) bool {
	if pid <= 0 {
		return false
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// FindProcess succeeds unconditionally on Unix; the Signal call is
	// what actually probes the process table.
	err = proc.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	return errors.Is(err, syscall.EPERM)
}

// Command returns the command line of the process with the given pid,
// for display in status output. Platform-specific.
func Command(pid int) (string, error) {
	return processCommand(pid)
}
