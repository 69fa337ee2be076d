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
	"os"
	"testing"
)

func TestSystemTable_Self(t *testing.T) {
	if got := System().Self(); got != os.Getpid() {
		t.Errorf("Self() = %d, want %d", got, os.Getpid())
	}
}

func TestSystemTable_Alive(t *testing.T) {
	table := System()

	t.Run("returns true for current process", func(t *testing.T) {
		if !table.Alive(os.Getpid()) {
			t.Error("Alive(os.Getpid()) = false, want true")
		}
	})

	t.Run("returns false for non-existent PID", func(t *testing.T) {
		// Use a very high PID that's unlikely to exist
		if table.Alive(999999) {
			t.Error("Alive(999999) = true, want false")
		}
	})

	t.Run("returns false for invalid identifiers", func(t *testing.T) {
		for _, pid := range []int{0, -1} {
			if table.Alive(pid) {
				t.Errorf("Alive(%d) = true, want false", pid)
			}
		}
	})

	t.Run("PID 1 exists even without signal permission", func(t *testing.T) {
		// init always exists; EPERM from signal 0 still means alive.
		if !table.Alive(1) {
			t.Error("Alive(1) = false, want true")
		}
	})
}

func TestCommand(t *testing.T) {
	t.Run("returns a command line for the current process", func(t *testing.T) {
		cmd, err := Command(os.Getpid())
		if err != nil {
			t.Fatalf("Command() error = %v", err)
		}
		if cmd == "" {
			t.Error("Command() returned empty string for current process")
		}
	})

	t.Run("fails for a non-existent process", func(t *testing.T) {
		if _, err := Command(999999); err == nil {
			t.Error("Command(999999) succeeded, want error")
		}
	})
}
