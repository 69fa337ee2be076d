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

package reaper

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// AuditEvent is one entry in the reap audit log.
type AuditEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Event     string    `json:"event"` // "watch_start", "watch_stop", "sweep", "reap"
	Program   string    `json:"program,omitempty"`
	Path      string    `json:"path,omitempty"`
	PID       int       `json:"pid,omitempty"`
	Reaped    int       `json:"reaped,omitempty"`
	Live      int       `json:"live,omitempty"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// AuditLog appends reaper events to a JSONL file for post-hoc inspection.
// A nil *AuditLog is valid and discards all events.
type AuditLog struct {
	logPath string
}

// NewAuditLog creates an audit log writing to logPath.
func NewAuditLog(logPath string) *AuditLog {
	return &AuditLog{
		logPath: logPath,
	}
}

// LogWatchStart logs the start of a watch session.
func (l *AuditLog) LogWatchStart(dir string, programs []string) error {
	return l.writeEvent(AuditEvent{
		Timestamp: time.Now(),
		Event:     "watch_start",
		Path:      dir,
		Message:   fmt.Sprintf("Watching %d program(s)", len(programs)),
	})
}

// LogWatchStop logs the end of a watch session.
func (l *AuditLog) LogWatchStop(dir string) error {
	return l.writeEvent(AuditEvent{
		Timestamp: time.Now(),
		Event:     "watch_stop",
		Path:      dir,
	})
}

// LogSweep logs the outcome of one reap pass over a program's records.
func (l *AuditLog) LogSweep(program string, reaped, live int) error {
	return l.writeEvent(AuditEvent{
		Timestamp: time.Now(),
		Event:     "sweep",
		Program:   program,
		Reaped:    reaped,
		Live:      live,
	})
}

// LogSweepError logs a failed reap pass.
func (l *AuditLog) LogSweepError(program string, err error) error {
	return l.writeEvent(AuditEvent{
		Timestamp: time.Now(),
		Event:     "sweep",
		Program:   program,
		Error:     err.Error(),
	})
}

// writeEvent appends an event to the log file.
func (l *AuditLog) writeEvent(event AuditEvent) error {
	if l == nil {
		return nil
	}

	logDir := filepath.Dir(l.logPath)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	f, err := os.OpenFile(l.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}
