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
	"fmt"
	"sort"

	"github.com/stardak/neon-vault/errs"
)

// MinRun 是線獎成立的最短連線長度
const MinRun = 3

// initLines 檢查每條線的長度與列索引範圍
func (gd *GameDef) initLines() error {
	if len(gd.Lines) == 0 {
		return errs.Configf("lines", "no paylines")
	}
	reels := len(gd.Strips)
	for l, line := range gd.Lines {
		if len(line) != reels {
			return errs.Configf(fmt.Sprintf("line %d", l), "has %d entries, want one per reel (%d)", len(line), reels)
		}
		for r, row := range line {
			if row < 0 || row >= gd.Rows {
				return errs.Configf(fmt.Sprintf("line %d reel %d", l, r), "row %d out of range [0,%d)", row, gd.Rows)
			}
		}
	}
	return nil
}

// initPayTable 把稀疏賠率表展開成 Pays[symbol][run]，沒有定義的連線長度為 0。
func (gd *GameDef) initPayTable() error {
	reels := len(gd.Strips)
	gd.Pays = make([][]float64, len(gd.Symbols))
	for i := range gd.Pays {
		gd.Pays[i] = make([]float64, reels+1)
	}

	for _, id := range sortedKeys(gd.PayTable) {
		where := "pay_table " + id
		sym, err := gd.lookupSymbol(where, id)
		if err != nil {
			return err
		}
		if sym == gd.ScatterID {
			return errs.Configf(where, "scatter symbol never pays on lines")
		}
		for run, pay := range gd.PayTable[id] {
			if run < MinRun || run > reels {
				return errs.Configf(where, "run length %d out of range [%d,%d]", run, MinRun, reels)
			}
			if pay < 0 {
				return errs.Configf(where, "negative pay %v for run %d", pay, run)
			}
			gd.Pays[sym][run] = pay
		}
	}

	for _, s := range gd.Symbols {
		if s.Role != RolePaying {
			continue
		}
		if _, ok := gd.PayTable[s.ID]; !ok {
			return errs.Configf("symbol "+s.ID, "paying symbol has no pay_table entry")
		}
	}
	return nil
}

// initScatter 建立依分散圖標數量查表的賠率與免費遊戲次數
func (gd *GameDef) initScatter() error {
	size := gd.GridSize()
	if (len(gd.ScatterPays) > 0 || len(gd.FreeSpins.Awards) > 0) && gd.ScatterID == NoSymbol {
		return errs.Configf("scatter_pays", "scatter tables defined without a scatter symbol")
	}

	gd.ScatterPayTable = make([]float64, size+1)
	for count, pay := range gd.ScatterPays {
		if count < 1 || count > size {
			return errs.Configf("scatter_pays", "scatter count %d out of range [1,%d]", count, size)
		}
		if pay < 0 {
			return errs.Configf("scatter_pays", "negative pay %v for count %d", pay, count)
		}
		gd.ScatterPayTable[count] = pay
	}

	gd.AwardTable = make([]int, size+1)
	for count, spins := range gd.FreeSpins.Awards {
		if count < 1 || count > size {
			return errs.Configf("free_spins.awards", "scatter count %d out of range [1,%d]", count, size)
		}
		if spins < 1 {
			return errs.Configf("free_spins.awards", "award %d for count %d must be positive", spins, count)
		}
		gd.AwardTable[count] = spins
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
