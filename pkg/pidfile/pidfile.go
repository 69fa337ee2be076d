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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// MaxInstances is the number of instance slots available to a program in
// multiple-instance mode. Slots are numbered 0 through MaxInstances-1.
// This is a policy ceiling, not a resource limit.
const MaxInstances = 1024

// ErrInstanceLimit is returned by Locate when every instance slot below
// MaxInstances is already occupied.
var ErrInstanceLimit = errors.New("pid file instance limit reached")

// filePerm is the mode applied to pid files on write: owner read/write,
// group and other read.
const filePerm = 0644

// File is one daemon instance's identity claim: a path under a pid
// directory, plus operations to read, write, and remove the backing file.
//
// A File constructed by Locate knows its program name and instance
// number; one constructed by FromPath is opaque and carries only the
// path. The backing file is created by Write and removed by Cleanup —
// constructing a File touches nothing on disk.
type File struct {
	path     string
	program  string
	instance int
	derived  bool
	multi    bool

	table  ProcessTable
	logger *slog.Logger
}

// Locate computes the pid file path for the given program under dir,
// resolving dir to an absolute path.
//
// With multi false the path is dir/program.pid. With multi true the
// smallest instance number whose candidate path dir/program<N>.pid has no
// existing file is allocated, failing with ErrInstanceLimit once all
// MaxInstances slots are taken.
//
// Locate only reserves a name. No file is created, and a concurrent
// Locate in another process may pick the same slot; the first Write wins.
func Locate(dir, program string, multi bool, opts ...Option) (*File, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving pid file directory %s: %w", dir, err)
	}

	f := &File{
		program: program,
		derived: true,
		multi:   multi,
	}
	applyOptions(f, opts)

	if !multi {
		f.path = filepath.Join(abs, program+".pid")
		return f, nil
	}

	for n := 0; n < MaxInstances; n++ {
		candidate := filepath.Join(abs, program+strconv.Itoa(n)+".pid")
		// Any stat failure counts as a free slot, consistent with
		// Exists collapsing filesystem errors to "not there".
		if _, err := os.Stat(candidate); err != nil {
			f.path = candidate
			f.instance = n
			return f, nil
		}
	}

	return nil, fmt.Errorf("%w: no free slot below %d for %q in %s", ErrInstanceLimit, MaxInstances, program, abs)
}

// FromPath constructs an opaque File over an already-known pid file path,
// typically one discovered by Scan. It supports the same read, write,
// existence, and cleanup operations as a located File but carries no
// program name or instance number.
func FromPath(path string, opts ...Option) *File {
	f := &File{path: path}
	applyOptions(f, opts)
	return f
}

// Path returns the file path this record refers to. No I/O.
func (f *File) Path() string {
	return f.path
}

// Instance returns the allocated instance number. The second return is
// false for opaque records and for records located in single-instance
// mode.
func (f *File) Instance() (int, bool) {
	return f.instance, f.derived && f.multi
}

// Exists reports whether a regular, readable file is present at Path.
// Any filesystem error is folded into false.
func (f *File) Exists() bool {
	fh, err := os.Open(f.path)
	if err != nil {
		return false
	}
	defer fh.Close()

	info, err := fh.Stat()
	return err == nil && info.Mode().IsRegular()
}

// Write records pid as the sole content of the file at Path, creating or
// truncating it, and sets the mode to 0644 whether or not the file
// already existed. The parent directory is not created; a missing or
// unwritable directory is a write failure surfaced to the caller.
func (f *File) Write(pid int) error {
	data := []byte(strconv.Itoa(pid) + "\n")
	if err := os.WriteFile(f.path, data, filePerm); err != nil {
		return fmt.Errorf("writing pid file %s: %w", f.path, err)
	}
	// WriteFile only applies the mode on create, and the umask filters
	// it; an overwritten record must still end up world-readable.
	if err := os.Chmod(f.path, filePerm); err != nil {
		return fmt.Errorf("setting pid file mode %s: %w", f.path, err)
	}
	return nil
}

// Read parses the first line of the file as a process identifier.
//
// The second return is false — and the identifier 0 — whenever no valid
// identifier is present: the file is missing, unreadable, empty, not
// numeric, or names the reserved identifier 0. A corrupt or half-written
// record is indistinguishable from an absent one; callers treat both as
// "not currently running".
func (f *File) Read() (int, bool) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return 0, false
	}

	line, _, _ := strings.Cut(string(data), "\n")
	pid, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || pid <= 0 {
		return 0, false
	}

	return pid, true
}

// Cleanup removes the backing file if it still names the calling process,
// per the File's ProcessTable. A record claimed by any other identifier —
// stale or not — is left untouched; reclaiming someone else's record is
// Scan's job, from a supervisory context. Cleanup never fails: a
// mismatch, an absent file, or a failed unlink all result in no action.
func (f *File) Cleanup() {
	pid, ok := f.Read()
	if !ok || pid != f.table.Self() {
		return
	}

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		f.logger.Debug("failed to remove pid file",
			slog.String("path", f.path),
			slog.Any("error", err))
	}
}
