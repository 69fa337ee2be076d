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
	"path/filepath"
	"reflect"
	"testing"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
}

func TestScan_List(t *testing.T) {
	t.Run("matches program prefix and .pid suffix", func(t *testing.T) {
		tmpDir := t.TempDir()

		writeTestFile(t, filepath.Join(tmpDir, "app.pid"), "100\n")
		writeTestFile(t, filepath.Join(tmpDir, "app0.pid"), "200\n")
		writeTestFile(t, filepath.Join(tmpDir, "app1.pid"), "300\n")
		writeTestFile(t, filepath.Join(tmpDir, "other.pid"), "400\n")
		writeTestFile(t, filepath.Join(tmpDir, "app.txt"), "500\n")

		got, err := Scan(tmpDir, "app", false)
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}

		want := []string{
			filepath.Join(tmpDir, "app.pid"),
			filepath.Join(tmpDir, "app0.pid"),
			filepath.Join(tmpDir, "app1.pid"),
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Scan() = %v, want %v", got, want)
		}
	})

	t.Run("matches metacharacters in program names literally", func(t *testing.T) {
		tmpDir := t.TempDir()

		literal := filepath.Join(tmpDir, "app[1]0.pid")
		decoy := filepath.Join(tmpDir, "app10.pid")
		writeTestFile(t, literal, "100\n")
		writeTestFile(t, decoy, "200\n")

		// Unescaped, "app[1]" is a character class that would match the
		// decoy instead of the literal name.
		got, err := Scan(tmpDir, "app[1]", false)
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}

		want := []string{literal}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Scan() = %v, want %v", got, want)
		}
	})

	t.Run("includes corrupt files when not reaping", func(t *testing.T) {
		tmpDir := t.TempDir()

		writeTestFile(t, filepath.Join(tmpDir, "app0.pid"), "garbage\n")

		got, err := Scan(tmpDir, "app", false)
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		if len(got) != 1 {
			t.Errorf("Scan() returned %d files, want 1", len(got))
		}
	})

	t.Run("skips directories", func(t *testing.T) {
		tmpDir := t.TempDir()

		if err := os.Mkdir(filepath.Join(tmpDir, "app0.pid"), 0755); err != nil {
			t.Fatalf("Mkdir() error = %v", err)
		}
		writeTestFile(t, filepath.Join(tmpDir, "app1.pid"), "100\n")

		got, err := Scan(tmpDir, "app", false)
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}

		want := []string{filepath.Join(tmpDir, "app1.pid")}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Scan() = %v, want %v", got, want)
		}
	})

	t.Run("fails when the directory cannot be listed", func(t *testing.T) {
		_, err := Scan(filepath.Join(t.TempDir(), "missing"), "app", false)
		if err == nil {
			t.Error("Scan() of missing directory succeeded, want error")
		}
	})
}

func TestScan_Reap(t *testing.T) {
	t.Run("deletes dead records and keeps live ones", func(t *testing.T) {
		tmpDir := t.TempDir()

		dead := filepath.Join(tmpDir, "app0.pid")
		live := filepath.Join(tmpDir, "app1.pid")
		writeTestFile(t, dead, "100\n")
		writeTestFile(t, live, "200\n")

		table := &fakeTable{self: 1, alive: map[int]bool{200: true}}

		got, err := Scan(tmpDir, "app", true, WithProcessTable(table))
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}

		want := []string{live}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Scan() = %v, want %v", got, want)
		}

		if _, err := os.Stat(dead); !os.IsNotExist(err) {
			t.Error("dead record still exists after reap")
		}
		if _, err := os.Stat(live); err != nil {
			t.Errorf("live record missing after reap: %v", err)
		}
	})

	t.Run("treats unparsable content as dead", func(t *testing.T) {
		tmpDir := t.TempDir()

		corrupt := filepath.Join(tmpDir, "app0.pid")
		writeTestFile(t, corrupt, "not-a-number\n")

		table := &fakeTable{self: 1, alive: map[int]bool{}}

		got, err := Scan(tmpDir, "app", true, WithProcessTable(table))
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Scan() = %v, want empty", got)
		}

		if _, err := os.Stat(corrupt); !os.IsNotExist(err) {
			t.Error("corrupt record still exists after reap")
		}
	})

	t.Run("treats zero content as dead", func(t *testing.T) {
		tmpDir := t.TempDir()

		zero := filepath.Join(tmpDir, "app0.pid")
		writeTestFile(t, zero, "0\n")

		_, err := Scan(tmpDir, "app", true, WithProcessTable(&fakeTable{self: 1}))
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}

		if _, err := os.Stat(zero); !os.IsNotExist(err) {
			t.Error("zero-pid record still exists after reap")
		}
	})

	t.Run("swallows deletion failure and continues the scan", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("directory permissions are not enforced for root")
		}

		tmpDir := t.TempDir()

		dead := filepath.Join(tmpDir, "app0.pid")
		live := filepath.Join(tmpDir, "app1.pid")
		writeTestFile(t, dead, "100\n")
		writeTestFile(t, live, "200\n")

		// A read-only directory makes every unlink fail.
		if err := os.Chmod(tmpDir, 0555); err != nil {
			t.Fatalf("Chmod() error = %v", err)
		}
		t.Cleanup(func() { os.Chmod(tmpDir, 0755) })

		table := &fakeTable{self: 1, alive: map[int]bool{200: true}}

		got, err := Scan(tmpDir, "app", true, WithProcessTable(table))
		if err != nil {
			t.Fatalf("Scan() error = %v, want nil despite failed unlink", err)
		}

		// The dead record survives on disk but is still excluded; the
		// scan carries on to the live record after it.
		want := []string{live}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Scan() = %v, want %v", got, want)
		}
		if _, err := os.Stat(dead); err != nil {
			t.Errorf("dead record unexpectedly gone from read-only directory: %v", err)
		}
	})

	t.Run("retains live records regardless of reap flag", func(t *testing.T) {
		tmpDir := t.TempDir()

		live := filepath.Join(tmpDir, "app.pid")
		writeTestFile(t, live, "300\n")

		table := &fakeTable{self: 1, alive: map[int]bool{300: true}}

		for _, reap := range []bool{false, true} {
			got, err := Scan(tmpDir, "app", reap, WithProcessTable(table))
			if err != nil {
				t.Fatalf("Scan(reap=%v) error = %v", reap, err)
			}
			if len(got) != 1 || got[0] != live {
				t.Errorf("Scan(reap=%v) = %v, want [%s]", reap, got, live)
			}
		}
	})
}
