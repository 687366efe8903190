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
	"github.com/stardak/neon-vault/sdk/buf"
	"github.com/stardak/neon-vault/spec"
)

// calcLines 逐線計算線獎並寫入 sr
func (e *Evaluator) calcLines(sr *buf.SpinResult) {
	grid := sr.Grid
	cols := e.Cols
	for l := 0; l < e.LineCount; l++ {
		line := e.lineFlat[l*cols : (l+1)*cols]
		sym, run := e.lineRun(grid, line)
		if run < spec.MinRun {
			continue
		}
		if pay := e.pays[sym][run]; pay > 0 {
			sr.AppendLineWin(buf.LineWin{LineID: l + 1, Symbol: sym, Count: run, Payout: pay})
		}
	}
}

// lineRun 回傳單線的計分圖標與由左起的連線長度。
//
// 線上出現分散圖標即整條線不計分（run = 0），不論出現在哪一軸。
// 計分圖標為由左起第一個非 wild；整條都是 wild 時為 wild 本身。
// 連線只計前綴：遇到第一個既非計分圖標也非 wild 的格子即停止。
func (e *Evaluator) lineRun(grid []int16, line []int) (int16, int) {
	wild, scatter := e.wild, e.scatter
	sym := wild
	for _, idx := range line {
		s := grid[idx]
		if s == scatter {
			return spec.NoSymbol, 0
		}
		if sym == wild && s != wild {
			sym = s
		}
	}

	run := 0
	for _, idx := range line {
		s := grid[idx]
		if s != sym && s != wild {
			break
		}
		run++
	}
	return sym, run
}
