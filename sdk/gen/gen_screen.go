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

// Package gen 負責抽出輪帶停止位置並由停止位置建立可視盤面。
package gen

import (
	"github.com/stardak/neon-vault/sdk/core"
	"github.com/stardak/neon-vault/spec"
)

// GridGenerator 保存抽停止位置所需的狀態，每個 Machine 各自持有一個。
type GridGenerator struct {
	core *core.Core
	Cols int
	Rows int
	lens []int // 每軸輪帶長度
}

// NewGridGenerator 根據已初始化的 GameDef 建立生成器
func NewGridGenerator(c *core.Core, def *spec.GameDef) *GridGenerator {
	g := &GridGenerator{
		core: c,
		Cols: def.ReelCount(),
		Rows: def.Rows,
		lens: make([]int, def.ReelCount()),
	}
	for r, strip := range def.Strips {
		g.lens[r] = len(strip)
	}
	return g
}

// DrawStops 依軸序每軸抽一次 [0, len) 的停止位置，寫入 stops 並回傳。
func (g *GridGenerator) DrawStops(stops []int) []int {
	_ = stops[g.Cols-1] // BCE hint
	for r, n := range g.lens {
		stops[r] = g.core.IntN(n)
	}
	return stops
}

// FillGrid 依停止位置填滿列優先盤面 grid[row*cols+reel]，沒有任何隨機性。
func FillGrid(strips [][]int16, rows int, stops []int, grid []int16) []int16 {
	cols := len(strips)
	_ = grid[rows*cols-1] // BCE hint
	for reel, strip := range strips {
		n := len(strip)
		stop := stops[reel]
		for row := range rows {
			grid[row*cols+reel] = strip[(stop+row)%n]
		}
	}
	return grid
}
