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

package spec

import (
	"errors"
	"strings"
	"testing"

	"github.com/stardak/neon-vault/errs"
	"github.com/stardak/neon-vault/sdk/core"
	"github.com/stardak/neon-vault/sdk/sampler"
)

const miniYAML = `
game_name: mini
game_id: 7
target_ratio: 0.9
symbols:
  - {id: W, name: Wild, role: wild, tier: high}
  - {id: S, name: Scatter, role: scatter}
  - {id: A, name: Ace, role: paying, tier: high}
  - {id: B, name: King, role: paying, tier: low}
reels:
  - [A, B, W, S, B]
  - [B, A, B, W, S]
  - [A, S, B, A, W]
lines:
  - [1, 1, 1]
  - [0, 1, 2]
pay_table:
  W: {3: 50}
  A: {3: 10}
  B: {3: 2}
scatter_pays: {3: 5}
free_spins:
  awards: {3: 10}
  multiplier: 3
`

func mustLoad(t *testing.T, src string) *GameDef {
	t.Helper()
	gd, err := GetGameDefByYAML([]byte(src))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return gd
}

func TestLoadYAMLBuildsTables(t *testing.T) {
	gd := mustLoad(t, miniYAML)
	if gd.Rows != DefaultRows {
		t.Fatalf("rows default expected %d, got %d", DefaultRows, gd.Rows)
	}
	if gd.WildID != 0 || gd.ScatterID != 1 {
		t.Fatalf("unexpected wild/scatter ids: %d %d", gd.WildID, gd.ScatterID)
	}
	if gd.Strips[1][3] != gd.WildID {
		t.Fatalf("reel 1 stop 3 should resolve to wild")
	}
	if gd.Pays[gd.SymbolIndex["A"]][3] != 10 {
		t.Fatalf("pay lookup broken: %v", gd.Pays)
	}
	if gd.ScatterPayTable[3] != 5 || gd.AwardTable[3] != 10 || gd.AwardTable[4] != 0 {
		t.Fatalf("scatter tables wrong: %v %v", gd.ScatterPayTable, gd.AwardTable)
	}
	if !gd.FreeSpins.HasFreeSpins() || gd.FreeSpins.AwardValues[0] != 10 {
		t.Fatalf("award picker not built")
	}
	if gd.Sampling.MaxExamples != DefaultMaxExamples || gd.Tuning.QuickTrials != DefaultQuickTrials {
		t.Fatalf("defaults not applied: %+v %+v", gd.Sampling, gd.Tuning)
	}
	// 預設高分集合：wild + tier high
	if len(gd.Tuning.HighIDs) != 2 || len(gd.Tuning.LowIDs) != 1 {
		t.Fatalf("default tuning sets wrong: %v %v", gd.Tuning.HighIDs, gd.Tuning.LowIDs)
	}
}

func TestLoadYAMLRejectsUnknownField(t *testing.T) {
	_, err := GetGameDefByYAML([]byte(miniYAML + "bogus_field: 1\n"))
	if err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestConfigErrorsNameTheLocation(t *testing.T) {
	cases := []struct {
		name    string
		from    string
		to      string
		wantSub string
	}{
		{"empty reel", "  - [B, A, B, W, S]", "  - []", "reel 1"},
		{"unknown reel symbol", "  - [A, S, B, A, W]", "  - [A, S, Q, A, W]", "reel 2 stop 2"},
		{"short reel", "  - [A, B, W, S, B]", "  - [A, B]", "reel 0"},
		{"row out of range", "  - [0, 1, 2]", "  - [0, 1, 3]", "line 1 reel 2"},
		{"line length", "  - [1, 1, 1]", "  - [1, 1]", "line 0"},
		{"unknown paytable symbol", "  B: {3: 2}", "  B: {3: 2}\n  Q: {3: 1}", "pay_table Q"},
		{"scatter on paytable", "  B: {3: 2}", "  B: {3: 2}\n  S: {3: 1}", "pay_table S"},
		{"missing paying entry", "  B: {3: 2}\n", "\n", "symbol B"},
		{"second wild", "{id: B, name: King, role: paying, tier: low}", "{id: B, name: King, role: wild}", "symbol B"},
		{"bad role", "role: scatter}", "role: bonus}", "symbol S"},
		{"duplicate id", "{id: B, name: King", "{id: A, name: King", "symbol A"},
		{"weight without award", "  multiplier: 3", "  multiplier: 3\n  session_weights: {10: 5, 20: 1}", "free_spins.session_weights"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := strings.Replace(miniYAML, tc.from, tc.to, 1)
			if src == miniYAML {
				t.Fatalf("case did not modify fixture")
			}
			_, err := GetGameDefByYAML([]byte(src))
			if err == nil {
				t.Fatalf("expected config error")
			}
			if !errors.Is(err, errs.ErrConfig) {
				t.Fatalf("expected ErrConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error %q does not mention %q", err.Error(), tc.wantSub)
			}
		})
	}
}

func TestScatterTablesNeedScatterSymbol(t *testing.T) {
	gd := &GameDef{
		Symbols:     []Symbol{{ID: "A", RoleStr: "paying"}},
		Reels:       [][]string{{"A", "A", "A"}},
		Lines:       [][]int{{0}},
		PayTable:    map[string]map[int]float64{"A": {}},
		ScatterPays: map[int]float64{3: 1},
	}
	err := gd.Init()
	if err == nil || !errs.IsConfig(err) || !strings.Contains(err.Error(), "scatter_pays") {
		t.Fatalf("expected scatter_pays config error, got %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	src := `{
		"game_name": "json",
		"symbols": [{"id": "A", "name": "Ace", "role": "paying"}],
		"reels": [["A","A","A"],["A","A","A"],["A","A","A"]],
		"lines": [[0,0,0]],
		"pay_table": {"A": {"3": 10}}
	}`
	gd, err := GetGameDefByJSON([]byte(src))
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	if gd.Pays[0][3] != 10 || gd.WildID != NoSymbol || gd.ScatterID != NoSymbol {
		t.Fatalf("json tables wrong: %v", gd.Pays)
	}
	if gd.FreeSpins.HasFreeSpins() {
		t.Fatalf("no awards configured, free spins must be unavailable")
	}
	if _, err := GetGameDefByJSON([]byte(`{"game_name":"x","nope":1}`)); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	gd := mustLoad(t, miniYAML)
	c := gd.Clone()
	c.SetStop(0, 0, c.WildID)
	c.PayTable["A"][3] = 99
	if gd.Strips[0][0] == gd.WildID || gd.Reels[0][0] != "A" {
		t.Fatalf("clone mutation leaked into original strips")
	}
	if gd.PayTable["A"][3] != 10 {
		t.Fatalf("clone mutation leaked into original pay table")
	}
	if c.Reels[0][0] != "W" {
		t.Fatalf("SetStop must keep ids in sync, got %s", c.Reels[0][0])
	}
}

func TestEncodeYAMLRoundTrip(t *testing.T) {
	gd := mustLoad(t, miniYAML)
	c := gd.Clone()
	c.SetStop(2, 1, c.SymbolIndex["A"])
	bs, err := c.EncodeYAML()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := GetGameDefByYAML(bs)
	if err != nil {
		t.Fatalf("reload: %v\n%s", err, bs)
	}
	for r := range c.Strips {
		for i := range c.Strips[r] {
			if back.Strips[r][i] != c.Strips[r][i] {
				t.Fatalf("strip mismatch at reel %d stop %d", r, i)
			}
		}
	}
	if back.FreeSpins.Multiplier != 3 || back.TargetRatio != 0.9 {
		t.Fatalf("settings lost in round trip")
	}
}

func TestZeroSettingsFallBackToDefaults(t *testing.T) {
	src := strings.Replace(miniYAML, "  multiplier: 3", "  multiplier: 0", 1) +
		"tuning:\n  tolerance: 0\n  raise_cap: 0\n"
	gd := mustLoad(t, src)
	if gd.FreeSpins.Multiplier != 1 {
		t.Fatalf("multiplier 0 should default to 1, got %v", gd.FreeSpins.Multiplier)
	}
	if gd.Tuning.Tolerance != DefaultTolerance || gd.Tuning.RaiseCap != DefaultRaiseCap {
		t.Fatalf("zero tuning values should take defaults: %+v", gd.Tuning)
	}
	_, err := GetGameDefByYAML([]byte(src + "sampling:\n  max_examples: -1\n"))
	if !errs.IsConfig(err) {
		t.Fatalf("negative max_examples must be rejected, got %v", err)
	}
}

func TestLargeSessionWeightsUseAliasTable(t *testing.T) {
	src := strings.Replace(miniYAML, "  awards: {3: 10}", "  awards: {3: 10, 4: 15}\n  session_weights: {10: 150000, 15: 50000}", 1)
	gd := mustLoad(t, src)
	if _, ok := gd.FreeSpins.AwardPicker.(*sampler.AliasTable); !ok {
		t.Fatalf("weights above the lut threshold should build an alias table, got %T", gd.FreeSpins.AwardPicker)
	}
	c := core.New(core.Default().New(3))
	tens := 0
	for range 20000 {
		if gd.FreeSpins.AwardValues[gd.FreeSpins.AwardPicker.Pick(c)] == 10 {
			tens++
		}
	}
	if r := float64(tens) / 20000; r < 0.73 || r > 0.77 {
		t.Fatalf("10-spin share expected ~0.75, got %v", r)
	}
	if gd.Tuning.HighPicker == nil || len(gd.Tuning.HighIDs) != 2 {
		t.Fatalf("default high set should build a picker: %+v", gd.Tuning)
	}
}

func TestHighSymbolWeightOverflowIsConfigError(t *testing.T) {
	src := miniYAML + "tuning:\n  high_symbols:\n    - {symbol: A, weight: 9223372036854775807}\n    - {symbol: W, weight: 9223372036854775807}\n"
	_, err := GetGameDefByYAML([]byte(src))
	if !errs.IsConfig(err) || !strings.Contains(err.Error(), "tuning.high_symbols") {
		t.Fatalf("expected tuning.high_symbols config error, got %v", err)
	}
}
