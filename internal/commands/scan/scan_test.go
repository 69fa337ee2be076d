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

package scan

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCommand(t *testing.T) {
	tmpDir := t.TempDir()

	// The test process itself is the only pid guaranteed alive.
	self := os.Getpid()
	livePath := filepath.Join(tmpDir, "app0.pid")
	deadPath := filepath.Join(tmpDir, "app1.pid")
	require.NoError(t, os.WriteFile(livePath, []byte(strconv.Itoa(self)+"\n"), 0644))
	require.NoError(t, os.WriteFile(deadPath, []byte("999999\n"), 0644))

	cmd := NewListCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"app", "--dir", tmpDir})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), fmt.Sprintf("%s\t%d\talive", livePath, self))
	assert.Contains(t, out.String(), deadPath+"\t999999\tdead")

	// Listing must not delete anything.
	_, err := os.Stat(deadPath)
	assert.NoError(t, err)
}

func TestReapCommand(t *testing.T) {
	tmpDir := t.TempDir()

	self := os.Getpid()
	livePath := filepath.Join(tmpDir, "app0.pid")
	deadPath := filepath.Join(tmpDir, "app1.pid")
	require.NoError(t, os.WriteFile(livePath, []byte(strconv.Itoa(self)+"\n"), 0644))
	require.NoError(t, os.WriteFile(deadPath, []byte("999999\n"), 0644))

	cmd := NewReapCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"app", "--dir", tmpDir})

	require.NoError(t, cmd.Execute())

	_, err := os.Stat(deadPath)
	assert.True(t, os.IsNotExist(err), "dead record should be reaped")

	_, err = os.Stat(livePath)
	assert.NoError(t, err, "live record should survive")

	assert.Contains(t, out.String(), livePath)
	assert.NotContains(t, out.String(), deadPath)
}

func TestListCommand_EmptyDirectory(t *testing.T) {
	cmd := NewListCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"app", "--dir", t.TempDir()})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "no pid files")
}

func TestListCommand_MissingDirectory(t *testing.T) {
	cmd := NewListCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"app", "--dir", filepath.Join(t.TempDir(), "missing")})

	assert.Error(t, cmd.Execute())
}
