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

package calc

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stardak/neon-vault/errs"
	"github.com/stardak/neon-vault/spec"
)

// buildDef 建立含 W/S/A/B 四種圖標的測試定義
func buildDef(t *testing.T, rows int, strips [][]string, lines [][]int) *spec.GameDef {
	t.Helper()
	gd := &spec.GameDef{
		Rows: rows,
		Symbols: []spec.Symbol{
			{ID: "W", RoleStr: "wild"},
			{ID: "S", RoleStr: "scatter"},
			{ID: "A", RoleStr: "paying"},
			{ID: "B", RoleStr: "paying"},
		},
		Reels: strips,
		Lines: lines,
		PayTable: map[string]map[int]float64{
			"W": {3: 50, 4: 200, 5: 1000},
			"A": {3: 10, 4: 30, 5: 100},
			"B": {3: 5},
		},
		ScatterPays: map[int]float64{3: 5, 4: 20},
		FreeSpins:   spec.FreeSpinSetting{Awards: map[int]int{3: 10, 4: 15}},
	}
	if err := gd.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	return gd
}

// lineDef 以一列盤面測單線：每軸輪帶為 [sym, B, B]，stops 全 0
func lineDef(t *testing.T, syms ...string) *spec.GameDef {
	strips := make([][]string, len(syms))
	for i, s := range syms {
		strips[i] = []string{s, "B", "B"}
	}
	return buildDef(t, 1, strips, [][]int{make([]int, len(syms))})
}

func evalZero(t *testing.T, gd *spec.GameDef) *spinView {
	t.Helper()
	sr, err := Evaluate(make([]int, gd.ReelCount()), gd)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	return &spinView{sr.LineWins, sr.Payout, sr.ScatterCount, sr.ScatterPayout, sr.FreeSpins}
}

type spinView struct {
	Wins          any
	Payout        float64
	ScatterCount  int
	ScatterPayout float64
	FreeSpins     int
}

func TestLineRunStopsAtFirstGap(t *testing.T) {
	gd := lineDef(t, "A", "A", "B", "A", "A")
	e := NewEvaluator(gd)
	sr := e.Evaluate([]int{0, 0, 0, 0, 0})
	sym, run := e.lineRun(sr.Grid, e.lineFlat[:5])
	if sym != gd.SymbolIndex["A"] || run != 2 {
		t.Fatalf("expected A run 2, got sym=%d run=%d", sym, run)
	}
	if len(sr.LineWins) != 0 || sr.Payout != 0 {
		t.Fatalf("run 2 must not pay: %+v", sr)
	}
}

func TestScatterOnLineKillsLine(t *testing.T) {
	// 前 4 軸是 A，第 5 軸是 S：去掉分散圖標本來是 A x4
	v := evalZero(t, lineDef(t, "A", "A", "A", "A", "S"))
	if v.Payout != 0 {
		t.Fatalf("line with scatter must pay nothing, got %v", v.Payout)
	}
	// 分散圖標放在中間也一樣
	v = evalZero(t, lineDef(t, "A", "A", "S", "A", "A"))
	if v.Payout != 0 {
		t.Fatalf("line with scatter must pay nothing, got %v", v.Payout)
	}
}

func TestAllWildPaysWildEntry(t *testing.T) {
	gd := lineDef(t, "W", "W", "W", "W", "W")
	sr, _ := Evaluate([]int{0, 0, 0, 0, 0}, gd)
	if len(sr.LineWins) != 1 {
		t.Fatalf("expected one line win, got %+v", sr.LineWins)
	}
	w := sr.LineWins[0]
	if w.Symbol != gd.WildID || w.Count != 5 || w.Payout != 1000 {
		t.Fatalf("expected wild x5 paying 1000, got %+v", w)
	}
	if sr.Payout != 1000 {
		t.Fatalf("single line total should equal line pay, got %v", sr.Payout)
	}
}

func TestWildSubstitutes(t *testing.T) {
	gd := lineDef(t, "W", "A", "W", "A", "B")
	sr, _ := Evaluate([]int{0, 0, 0, 0, 0}, gd)
	if len(sr.LineWins) != 1 || sr.LineWins[0].Symbol != gd.SymbolIndex["A"] || sr.LineWins[0].Count != 4 {
		t.Fatalf("expected A x4 through wilds, got %+v", sr.LineWins)
	}
	if sr.Payout != 30 {
		t.Fatalf("expected payout 30, got %v", sr.Payout)
	}
}

func TestSparsePayTableMissingRunPaysZero(t *testing.T) {
	// B 只定義 3 連，B x5 沒有對應賠率
	v := evalZero(t, lineDef(t, "B", "B", "B", "B", "B"))
	if v.Payout != 0 {
		t.Fatalf("missing run length must pay 0, got %v", v.Payout)
	}
}

func TestLinePayDividedByLineCount(t *testing.T) {
	strips := [][]string{
		{"A", "B", "B"}, {"A", "B", "B"}, {"A", "B", "B"}, {"B", "B", "B"}, {"B", "B", "B"},
	}
	// 第 0 列 A A A B B 中 A x3；其他 3 條線都在第 1 列，B x5 沒有賠率
	gd := buildDef(t, 3, strips, [][]int{{0, 0, 0, 0, 0}, {1, 1, 1, 1, 1}, {2, 2, 2, 2, 2}, {1, 2, 1, 2, 1}})
	sr, err := Evaluate([]int{0, 0, 0, 0, 0}, gd)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if sr.LineSum != 10 || sr.LinePayout != 2.5 || sr.Payout != 2.5 {
		t.Fatalf("expected line sum 10 -> payout 2.5 over 4 lines, got %+v", sr)
	}
	if sr.LineWins[0].LineID != 1 {
		t.Fatalf("line ids are 1-based, got %d", sr.LineWins[0].LineID)
	}
}

func TestScatterLookupIsExact(t *testing.T) {
	cases := []struct {
		syms      []string
		count     int
		pay       float64
		freeSpins int
	}{
		{[]string{"S", "S", "A", "B", "B"}, 2, 0, 0},
		{[]string{"S", "S", "S", "B", "B"}, 3, 5, 10},
		{[]string{"S", "S", "S", "S", "B"}, 4, 20, 15},
		{[]string{"S", "S", "S", "S", "S"}, 5, 0, 0},
	}
	for _, tc := range cases {
		v := evalZero(t, lineDef(t, tc.syms...))
		if v.ScatterCount != tc.count || v.ScatterPayout != tc.pay || v.FreeSpins != tc.freeSpins {
			t.Fatalf("%v: expected count=%d pay=%v fs=%d, got %+v", tc.syms, tc.count, tc.pay, tc.freeSpins, v)
		}
		if v.Payout != tc.pay {
			t.Fatalf("%v: free spins must not fold into payout, got %v", tc.syms, v.Payout)
		}
	}
}

func TestScatterCountsWholeGrid(t *testing.T) {
	// 分散圖標在第 1、2 列，不在任何線上
	strips := [][]string{
		{"A", "S", "B"}, {"A", "B", "S"}, {"A", "S", "B"}, {"B", "B", "B"}, {"B", "B", "B"},
	}
	gd := buildDef(t, 3, strips, [][]int{{0, 0, 0, 0, 0}})
	sr, _ := Evaluate([]int{0, 0, 0, 0, 0}, gd)
	if sr.ScatterCount != 3 || sr.ScatterPayout != 5 || sr.FreeSpins != 10 {
		t.Fatalf("expected 3 scatters off-line, got %+v", sr)
	}
	// 線獎 A x3 = 10，1 條線
	if sr.Payout != 15 {
		t.Fatalf("expected payout 10 + 5, got %v", sr.Payout)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	strips := [][]string{
		{"A", "S", "B", "W", "A"}, {"A", "B", "S", "W"}, {"A", "W", "B"}, {"B", "A", "B", "W"}, {"W", "B", "B", "S"},
	}
	gd := buildDef(t, 3, strips, [][]int{{0, 0, 0, 0, 0}, {1, 1, 1, 1, 1}, {2, 2, 2, 2, 2}, {0, 1, 2, 1, 0}})
	e := NewEvaluator(gd)
	reuse := e.NewResult()
	for a := 0; a < 5; a++ {
		for b := 0; b < 4; b++ {
			stops := []int{a, b, a % 3, b, (a + b) % 4}
			first := e.Evaluate(stops)
			e.EvaluateInto(stops, reuse)
			if !reflect.DeepEqual(first.Grid, reuse.Grid) || first.Payout != reuse.Payout ||
				first.ScatterCount != reuse.ScatterCount || len(first.LineWins) != len(reuse.LineWins) {
				t.Fatalf("stops %v evaluated differently: %+v vs %+v", stops, first, reuse)
			}
			for i := range first.LineWins {
				if first.LineWins[i] != reuse.LineWins[i] {
					t.Fatalf("stops %v line wins differ", stops)
				}
			}
		}
	}
}

func TestEvaluateRejectsBadStops(t *testing.T) {
	gd := lineDef(t, "A", "A", "A", "A", "A")
	if _, err := Evaluate([]int{0, 0, 0}, gd); err == nil {
		t.Fatalf("expected error for wrong stop count")
	}
	_, err := Evaluate([]int{0, 0, 3, 0, 0}, gd)
	if err == nil {
		t.Fatalf("expected error for out of range stop")
	}
	var e *errs.E
	if !errors.As(err, &e) || e.ErrLv != errs.Warn {
		t.Fatalf("bad stops should be a warn error, got %v", err)
	}
}
