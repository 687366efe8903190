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

	"github.com/stardak/neon-vault/errs"
)

// DefaultRows 是可視窗口的預設列數
const DefaultRows = 3

// initReels 將輪帶上的圖標 id 轉為 index，每條輪帶各自持有一份 slice。
func (gd *GameDef) initReels() error {
	if gd.Rows == 0 {
		gd.Rows = DefaultRows
	}
	if gd.Rows < 0 {
		return errs.Configf("rows", "rows must be positive, got %d", gd.Rows)
	}
	if len(gd.Reels) == 0 {
		return errs.Configf("reels", "no reel strips")
	}
	gd.Strips = make([][]int16, len(gd.Reels))
	for r, strip := range gd.Reels {
		if len(strip) == 0 {
			return errs.Configf(fmt.Sprintf("reel %d", r), "empty reel strip")
		}
		if len(strip) < gd.Rows {
			return errs.Configf(fmt.Sprintf("reel %d", r), "strip length %d shorter than %d rows", len(strip), gd.Rows)
		}
		ids := make([]int16, len(strip))
		for pos, sym := range strip {
			idx, err := gd.lookupSymbol(fmt.Sprintf("reel %d stop %d", r, pos), sym)
			if err != nil {
				return err
			}
			ids[pos] = idx
		}
		gd.Strips[r] = ids
	}
	return nil
}

// SetStop 替換某條輪帶上一個位置的圖標，id 與 index 兩種表示同步更新。
func (gd *GameDef) SetStop(reel, pos int, sym int16) {
	gd.Strips[reel][pos] = sym
	gd.Reels[reel][pos] = gd.Symbols[sym].ID
}

// ReelCount 回傳輪軸數
func (gd *GameDef) ReelCount() int { return len(gd.Strips) }

// GridSize 回傳可視盤面格數
func (gd *GameDef) GridSize() int { return gd.Rows * len(gd.Strips) }
