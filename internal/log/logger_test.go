/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestInitAndStructuredLoggingToFile verifies that Init with a file sink writes JSON logs
// and that static and contextual attributes are present.
func TestInitAndStructuredLoggingToFile(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "gtw.log")
	Init(Options{Level: "debug", Format: "json", File: fpath, Writer: io.Discard})
	t.Cleanup(func() { Init(Options{Writer: io.Discard}) })

	l := WithOperation(WithComponent("typewriter"), "begin")
	l.Info("page complete", slog.Int("page", 2))

	b, err := os.ReadFile(fpath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	scanner := bufio.NewScanner(bytes.NewReader(b))
	var last string
	for scanner.Scan() {
		if s := strings.TrimSpace(scanner.Text()); s != "" {
			last = s
		}
	}
	if last == "" {
		t.Fatalf("no log lines found")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal json log: %v", err)
	}
	if m["app"] != "gotypewriter" {
		t.Fatalf("missing app attr: %v", m["app"])
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("missing ver attr")
	}
	if m["component"] != "typewriter" || m["op"] != "begin" {
		t.Fatalf("context attrs mismatch: %v", m)
	}
	if m["page"] != float64(2) {
		t.Fatalf("page attr mismatch: %v", m["page"])
	}
}

func TestInitConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "warn", Writer: &buf})
	t.Cleanup(func() { Init(Options{Writer: io.Discard}) })

	l := WithComponent("cli")
	l.Info("hidden")
	l.Warn("shown", slog.String("script", "intro.txt"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered: %q", out)
	}
	if !strings.Contains(out, "WRN shown") || !strings.Contains(out, "component=cli") || !strings.Contains(out, "script=intro.txt") {
		t.Fatalf("unexpected console output: %q", out)
	}
}
