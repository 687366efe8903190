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

package catalog

import (
	"testing"
	"testing/fstest"
)

const gameA = `
game_name: Alpha
game_id: 1
symbols:
  - {id: A, name: Ace, role: paying}
reels: [[A, A, A], [A, A, A], [A, A, A]]
lines: [[0, 0, 0]]
pay_table: {A: {3: 5}}
`

const gameB = `{
  "game_name": "beta",
  "game_id": 2,
  "symbols": [{"id": "A", "name": "Ace", "role": "paying"}],
  "reels": [["A","A","A"],["A","A","A"],["A","A","A"]],
  "lines": [[1,1,1]],
  "pay_table": {"A": {"3": 7}}
}`

func file(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }

func TestRegisterAllAndLookup(t *testing.T) {
	cat, err := New(fstest.MapFS{"alpha.yaml": file(gameA), "beta.json": file(gameB), "README.md": file("x")})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := cat.RegisterAll(); err != nil {
		t.Fatalf("register all: %v", err)
	}
	cat.Freeze()
	if ids := cat.IDs(); len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("unexpected ids: %v", ids)
	}
	gd, err := cat.DefByName("ALPHA")
	if err != nil || gd.GameID != 1 || gd.Pays[0][3] != 5 {
		t.Fatalf("lookup by name failed: %v", err)
	}
	gd2, _ := cat.DefByID(1)
	if gd == gd2 {
		t.Fatalf("each lookup must return a fresh definition")
	}
	sum, err := cat.Summaries()
	if err != nil || len(sum) != 2 || sum[1].Name != "beta" || sum[1].Lines != 1 || sum[0].Reels != 3 {
		t.Fatalf("summaries wrong: %+v %v", sum, err)
	}
	if err := cat.Register(Entry{GID: 3, Name: "gamma", ConfigName: "alpha.yaml"}); err == nil {
		t.Fatalf("frozen catalog must reject register")
	}
	if _, err := cat.DefByID(42); err == nil {
		t.Fatalf("expected missing id error")
	}
}

func TestRegisterAllIsAtomic(t *testing.T) {
	broken := "game_name: zed\ngame_id: 3\nsymbols: []\n"
	cat, err := New(fstest.MapFS{"alpha.yaml": file(gameA), "zed.yaml": file(broken)})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := cat.RegisterAll(); err == nil {
		t.Fatalf("expected invalid definition error")
	}
	if len(cat.IDs()) != 0 {
		t.Fatalf("failed RegisterAll must not register anything")
	}
}

func TestDuplicatesRejected(t *testing.T) {
	cat, _ := New(fstest.MapFS{"a.yaml": file(gameA), "b.yaml": file(gameA)})
	if err := cat.RegisterAll(); err != ErrDupID {
		t.Fatalf("expected duplicate id, got %v", err)
	}
	if _, err := New(fstest.MapFS{"x.yaml": file(gameA)}, fstest.MapFS{"x.yaml": file(gameA)}); err == nil {
		t.Fatalf("expected duplicate config across sources")
	}
	if _, err := New(fstest.MapFS{"sub/x.yaml": file(gameA)}); err == nil {
		t.Fatalf("expected flat directory error")
	}
}

func TestValidFileName(t *testing.T) {
	for _, bad := range []string{"", "a/b.yaml", ".yaml", "game.txt", "c:game.yml"} {
		if validFileName(bad) == nil {
			t.Fatalf("%q should be invalid", bad)
		}
	}
	if err := validFileName("Game.YML"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
