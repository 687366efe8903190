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

package errs

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestConfigfCarriesLocation(t *testing.T) {
	err := Configf("reel 2 stop 7", "unknown symbol %q", "X9")
	if !IsConfig(err) {
		t.Fatalf("expected config error")
	}
	if err.ErrLv != Fatal {
		t.Fatalf("config errors must be fatal, got %s", ErrLv(err.ErrLv))
	}
	msg := err.Error()
	if !strings.Contains(msg, "reel 2 stop 7") || !strings.Contains(msg, `"X9"`) {
		t.Fatalf("message misses context: %s", msg)
	}
}

func TestWrapKeepsLevel(t *testing.T) {
	inner := NewWarn("trials must > 0")
	w := Wrap(inner, "sample failed")
	if w.ErrLv != Warn {
		t.Fatalf("expected warn level preserved, got %s", ErrLv(w.ErrLv))
	}
	if !errors.Is(w, inner) {
		t.Fatalf("wrapped error must unwrap to inner")
	}

	std := Wrap(io.ErrUnexpectedEOF, "read config")
	if std.ErrLv != Fatal {
		t.Fatalf("foreign errors must be fatal")
	}
	if !errors.Is(std, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF in chain")
	}
}

func TestWrapConfigStillDetectable(t *testing.T) {
	err := WrapWithExtra(Configf("line 4", "row 3 out of range"), "load definition", "jewel_rush.yaml")
	if !IsConfig(err) {
		t.Fatalf("wrapped config error lost ErrConfig")
	}
	e, ok := AsErr(err)
	if !ok || e.Extra != "jewel_rush.yaml" {
		t.Fatalf("unexpected AsErr result: %+v", e)
	}
}

func TestExitCodeFollowsLevel(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{NewLog("note"), 0},
		{Warnf("trials must > 0, got %d", 0), 2},
		{Wrap(NewWarn("bad shards"), "sample"), 2},
		{Configf("reel 0", "empty reel"), 1},
		{io.ErrUnexpectedEOF, 1},
	}
	for _, tc := range cases {
		if got := ExitCode(tc.err); got != tc.want {
			t.Fatalf("ExitCode(%v) = %d want %d", tc.err, got, tc.want)
		}
	}
}
