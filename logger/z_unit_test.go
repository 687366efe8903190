// Copyright 2025 Zintix Labs
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

package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseMode(t *testing.T) {
	for s, want := range modeNames {
		got, err := ParseMode(s)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", s, got, err)
		}
	}
	if _, err := ParseMode("loud"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestAsyncHandlerDrainsOnClose(t *testing.T) {
	var out bytes.Buffer
	ah := NewAsyncHandler(slog.NewTextHandler(&out, nil), 64)
	l := slog.New(ah).With("game", "jewel_rush")
	for i := 0; i < 10; i++ {
		l.Info("iteration", "i", i)
	}
	ah.Close()
	if n := strings.Count(out.String(), "iteration"); n+int(ah.Dropped()) != 10 {
		t.Fatalf("expected 10 records written or dropped, got %d written, %d dropped", n, ah.Dropped())
	}
	if !strings.Contains(out.String(), "game=jewel_rush") {
		t.Fatalf("attrs lost: %s", out.String())
	}
	l.Info("after close")
	if strings.Contains(out.String(), "after close") {
		t.Fatalf("records after Close must be dropped")
	}
}

func TestOrSilent(t *testing.T) {
	if OrSilent(nil) == nil {
		t.Fatalf("nil logger should become silent logger")
	}
	l := NewDefaultLogger(ModeProd)
	if OrSilent(l) != l {
		t.Fatalf("non-nil logger must be kept")
	}
}
