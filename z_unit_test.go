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

package neonvault

import (
	"errors"
	"testing"

	"github.com/stardak/neon-vault/errs"
	"github.com/stardak/neon-vault/recorder"
	"github.com/stardak/neon-vault/spec"
)

func allADef(t *testing.T, pays map[int]float64) *spec.GameDef {
	t.Helper()
	strip := []string{"A", "A", "A"}
	gd := &spec.GameDef{
		GameName: "all_a",
		Symbols:  []spec.Symbol{{ID: "A", RoleStr: "paying"}},
		Reels:    [][]string{strip, strip, strip, strip, strip},
		Lines:    [][]int{{0, 0, 0, 0, 0}},
		PayTable: map[string]map[int]float64{"A": pays},
	}
	if err := gd.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	return gd
}

// mixedDef 有 wild/scatter 與免費遊戲的小型遊戲
func mixedDef(t *testing.T) *spec.GameDef {
	t.Helper()
	gd := &spec.GameDef{
		GameName:    "mixed",
		GameID:      9,
		TargetRatio: 0.9,
		Symbols: []spec.Symbol{
			{ID: "W", RoleStr: "wild", Tier: "high"},
			{ID: "S", RoleStr: "scatter"},
			{ID: "H", RoleStr: "paying", Tier: "high"},
			{ID: "L", RoleStr: "paying", Tier: "low"},
		},
		Reels: [][]string{
			{"L", "H", "L", "S", "L", "W", "L", "H"},
			{"H", "L", "S", "L", "W", "L", "L"},
			{"L", "L", "H", "S", "L", "W", "L", "H", "L"},
		},
		Lines:       [][]int{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}, {0, 1, 2}},
		PayTable:    map[string]map[int]float64{"W": {3: 20}, "H": {3: 8}, "L": {3: 2}},
		ScatterPays: map[int]float64{2: 1, 3: 5},
		FreeSpins: spec.FreeSpinSetting{
			Awards:         map[int]int{2: 3, 3: 5},
			Multiplier:     2,
			SessionWeights: map[int]int{3: 9, 5: 1},
		},
	}
	if err := gd.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	return gd
}

func TestSampleRunFivePaysNothingWithoutEntry(t *testing.T) {
	tb, err := Sample(allADef(t, map[int]float64{3: 10}), 100, 1, recorder.ModeBase)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if len(tb.Buckets) != 1 || tb.Buckets[0].Key != 0 || tb.Buckets[0].Count != 100 {
		t.Fatalf("expected single bucket {0 -> 100}, got %+v", tb.Buckets)
	}
	if !tb.Ratio().IsZero() {
		t.Fatalf("expected ratio 0, got %s", tb.Ratio())
	}
}

func TestSampleRunFivePaysTen(t *testing.T) {
	tb, err := Sample(allADef(t, map[int]float64{3: 10, 4: 10, 5: 10}), 100, 1, recorder.ModeBase)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if len(tb.Buckets) != 1 || tb.Buckets[0].Key != 1000 || tb.Buckets[0].Count != 100 {
		t.Fatalf("expected single bucket {10 -> 100}, got %+v", tb.Buckets)
	}
	if tb.RatioFloat() != 10 {
		t.Fatalf("expected ratio 10, got %s", tb.Ratio())
	}
	w := tb.Buckets[0].Examples[0].Rounds[0].LineWins[0]
	if w.Count != 5 || w.Payout != 10 {
		t.Fatalf("example should show A x5, got %+v", w)
	}
}

func tablesEqual(a, b *recorder.Table) bool {
	if a.Trials != b.Trials || a.Spins != b.Spins || a.Triggers != b.Triggers || len(a.Buckets) != len(b.Buckets) {
		return false
	}
	for i := range a.Buckets {
		if a.Buckets[i].Key != b.Buckets[i].Key || a.Buckets[i].Count != b.Buckets[i].Count {
			return false
		}
	}
	return true
}

func TestSampleDeterministicPerSeed(t *testing.T) {
	gd := mixedDef(t)
	a, _ := Sample(gd, 20_000, 42, recorder.ModeBase)
	b, _ := Sample(gd, 20_000, 42, recorder.ModeBase)
	if !tablesEqual(a, b) {
		t.Fatalf("same seed produced different tables")
	}
	c, _ := Sample(gd, 20_000, 43, recorder.ModeBase)
	if tablesEqual(a, c) {
		t.Fatalf("different seeds produced identical tables")
	}
}

func TestProbabilitiesSumToOne(t *testing.T) {
	tb, err := Sample(mixedDef(t), 10_000, 7, recorder.ModeBase)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	var count int64
	for i, b := range tb.Buckets {
		count += b.Count
		if b.Key < 0 {
			t.Fatalf("negative payout bucket %d", b.Key)
		}
		if i > 0 && tb.Buckets[i-1].Key >= b.Key {
			t.Fatalf("buckets not strictly ascending")
		}
	}
	if count != tb.Trials {
		t.Fatalf("Σ count %d != trials %d", count, tb.Trials)
	}
	sum := tb.Probability(0)
	for i := 1; i < len(tb.Buckets); i++ {
		sum = sum.Add(tb.Probability(i))
	}
	if f := sum.InexactFloat64(); f < 1-1e-9 || f > 1+1e-9 {
		t.Fatalf("probabilities sum to %v", f)
	}
}

func TestSampleMPReproducible(t *testing.T) {
	gd := mixedDef(t)
	s, err := NewSampler(gd, 99)
	if err != nil {
		t.Fatalf("sampler: %v", err)
	}
	a, _, err := s.SampleMP(recorder.ModeBase, 30_001, 4)
	if err != nil {
		t.Fatalf("sample mp: %v", err)
	}
	b, _, _ := s.SampleMP(recorder.ModeBase, 30_001, 4)
	if !tablesEqual(a, b) || a.Trials != 30_001 {
		t.Fatalf("sharded sampling not reproducible: %d vs %d trials", a.Trials, b.Trials)
	}
	for _, bk := range a.Buckets {
		if len(bk.Examples) > gd.Sampling.MaxExamples {
			t.Fatalf("merge exceeded example bound: %d", len(bk.Examples))
		}
	}
	// 一個分片就是單線抽樣
	one, _, _ := s.SampleMP(recorder.ModeBase, 5_000, 1)
	seq, _, _ := s.Sample(recorder.ModeBase, 5_000)
	if !tablesEqual(one, seq) {
		t.Fatalf("one shard must equal sequential sampling")
	}
}

func TestShardSeeds(t *testing.T) {
	seeds := ShardSeeds(5, 4)
	if seeds[0] != 5 {
		t.Fatalf("shard 0 must use the base seed")
	}
	sm := NewSeedMaker(5)
	seen := map[int64]bool{seeds[0]: true}
	for i := 1; i < 4; i++ {
		if seeds[i] != sm.Next() || seeds[i] < 0 {
			t.Fatalf("shard %d seed mismatch", i)
		}
		if seen[seeds[i]] {
			t.Fatalf("duplicate shard seed")
		}
		seen[seeds[i]] = true
	}
}

func TestFreeSpinSessions(t *testing.T) {
	gd := mixedDef(t)
	tb, err := Sample(gd, 2_000, 3, recorder.ModeFreeSpins)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if tb.Mode != recorder.ModeFreeSpins || tb.Trials != 2_000 {
		t.Fatalf("unexpected table: %+v", tb)
	}
	// 每場 3 或 5 轉
	if tb.Spins < 3*tb.Trials || tb.Spins > 5*tb.Trials {
		t.Fatalf("spins %d out of range for %d sessions", tb.Spins, tb.Trials)
	}
	for _, b := range tb.Buckets {
		for _, ex := range b.Examples {
			if ex.Spins != 3 && ex.Spins != 5 {
				t.Fatalf("session length %d not an award value", ex.Spins)
			}
			if len(ex.Rounds) != gd.Sampling.PreviewSpins {
				t.Fatalf("preview should keep %d spins, got %d", gd.Sampling.PreviewSpins, len(ex.Rounds))
			}
			// 只有線獎乘上倍數，分散獎不計
			var want float64
			if ex.Spins == len(ex.Rounds) {
				for _, r := range ex.Rounds {
					want += r.LinePayout * gd.FreeSpins.Multiplier
				}
				if recorder.BucketKey(want) != b.Key {
					t.Fatalf("session payout %v does not match its bucket %d", want, b.Key)
				}
			}
		}
	}
}

func TestSessionPayoutExcludesScatter(t *testing.T) {
	// 整條輪帶都是分散圖標：每轉 3 個分散圖標，線獎為 0
	strip := []string{"S", "S", "S"}
	gd := &spec.GameDef{
		GameName:    "scatter_only",
		Symbols:     []spec.Symbol{{ID: "S", RoleStr: "scatter"}, {ID: "A", RoleStr: "paying"}},
		Reels:       [][]string{strip, strip, strip},
		Lines:       [][]int{{0, 0, 0}},
		PayTable:    map[string]map[int]float64{"A": {3: 1}},
		ScatterPays: map[int]float64{9: 50},
		FreeSpins:   spec.FreeSpinSetting{Awards: map[int]int{9: 4}, Multiplier: 3},
	}
	if err := gd.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	base, _ := Sample(gd, 50, 1, recorder.ModeBase)
	if base.RatioFloat() != 50 || base.Triggers != 50 {
		t.Fatalf("base game should pay scatter 50 and trigger every spin: %s %d", base.Ratio(), base.Triggers)
	}
	fs, _ := Sample(gd, 50, 1, recorder.ModeFreeSpins)
	if !fs.Ratio().IsZero() || fs.Spins != 200 {
		t.Fatalf("free spins must exclude scatter pays and never retrigger: ratio=%s spins=%d", fs.Ratio(), fs.Spins)
	}
}

func TestInvalidArgumentsAreWarnings(t *testing.T) {
	gd := allADef(t, map[int]float64{3: 1})
	s, _ := NewSampler(gd, 1)
	cases := []struct {
		name   string
		mode   recorder.Mode
		trials int
		shards int
	}{
		{"zero trials", recorder.ModeBase, 0, 1},
		{"zero shards", recorder.ModeBase, 10, 0},
		{"free spins without awards", recorder.ModeFreeSpins, 10, 1},
	}
	for _, tc := range cases {
		_, _, err := s.SampleMP(tc.mode, tc.trials, tc.shards)
		var e *errs.E
		if !errors.As(err, &e) || e.ErrLv != errs.Warn {
			t.Fatalf("%s: expected warn error, got %v", tc.name, err)
		}
	}
	if _, err := NewSampler(&spec.GameDef{GameName: "broken"}, 1); !errs.IsConfig(err) {
		t.Fatalf("expected config error before sampling, got %v", err)
	}
}

func TestMachineSnapshotRestore(t *testing.T) {
	m, err := NewMachine(mixedDef(t), 11)
	if err != nil {
		t.Fatalf("machine: %v", err)
	}
	snap, err := m.SnapshotCore()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	first := m.SpinBase().Clone()
	if err := m.RestoreCore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	again := m.SpinBase()
	for i := range first.Stops {
		if first.Stops[i] != again.Stops[i] {
			t.Fatalf("restored machine drew different stops")
		}
	}
	if m.Seed() != 11 {
		t.Fatalf("seed not kept")
	}
}

func TestReplayRestoresExactRun(t *testing.T) {
	gd := mixedDef(t)
	r, err := NewReplayer(gd, 21)
	if err != nil {
		t.Fatalf("replayer: %v", err)
	}
	first, err := r.Play(recorder.ModeFreeSpins, 20)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	next, err := r.Play(recorder.ModeBase, 5)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if next.Before != first.After {
		t.Fatalf("second run should start where the first ended")
	}

	other, _ := NewReplayer(gd, 99)
	again, err := other.RestorePlay(first.Before, recorder.ModeFreeSpins, 20)
	if err != nil {
		t.Fatalf("restore play: %v", err)
	}
	if again.Payout != first.Payout || again.After != first.After || len(again.Results) != 20 {
		t.Fatalf("replay differs: %v vs %v", again.Payout, first.Payout)
	}
	for i := range first.Results {
		if first.Results[i].Spins != again.Results[i].Spins || first.Results[i].Payout != again.Results[i].Payout {
			t.Fatalf("round %d differs", i)
		}
	}

	if _, err := r.Play(recorder.ModeBase, 0); err == nil {
		t.Fatalf("expected error for zero rounds")
	}
	if err := r.Restore("!!"); err == nil {
		t.Fatalf("expected error for bad token")
	}
}
