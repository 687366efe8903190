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

// Package spec 定義遊戲設定（GameDef）的資料結構、載入與驗證。
//
// GameDef 載入後即為唯讀；需要修改輪帶時（例如調校）必須先 Clone。
package spec

import (
	"maps"
	"slices"

	"github.com/stardak/neon-vault/errs"
)

// GameDef 一款遊戲的完整靜態定義
type GameDef struct {
	GameName    string                     `yaml:"game_name"    json:"game_name"`
	GameID      uint                       `yaml:"game_id"      json:"game_id"`
	Rows        int                        `yaml:"rows"         json:"rows"`
	TargetRatio float64                    `yaml:"target_ratio" json:"target_ratio"`
	Symbols     []Symbol                   `yaml:"symbols"      json:"symbols"`
	Reels       [][]string                 `yaml:"reels"        json:"reels"`
	Lines       [][]int                    `yaml:"lines"        json:"lines"`
	PayTable    map[string]map[int]float64 `yaml:"pay_table"    json:"pay_table"`
	ScatterPays map[int]float64            `yaml:"scatter_pays" json:"scatter_pays"`
	FreeSpins   FreeSpinSetting            `yaml:"free_spins"   json:"free_spins"`
	Sampling    SamplingSetting            `yaml:"sampling"     json:"sampling"`
	Tuning      TuningSetting              `yaml:"tuning"       json:"tuning"`

	// 以下由 Init 產生，熱路徑只讀這些欄位
	SymbolIndex     map[string]int16 `yaml:"-" json:"-"`
	Strips          [][]int16        `yaml:"-" json:"-"`
	WildID          int16            `yaml:"-" json:"-"`
	ScatterID       int16            `yaml:"-" json:"-"`
	Pays            [][]float64      `yaml:"-" json:"-"` // [symbol][run]
	ScatterPayTable []float64        `yaml:"-" json:"-"` // [scatter count]
	AwardTable      []int            `yaml:"-" json:"-"` // [scatter count]
	initFlag        bool
}

// Init 檢查設定並建立查表資料。任何違規都在抽樣開始前回傳 errs.ErrConfig。
func (gd *GameDef) Init() error {
	if gd.initFlag {
		return nil
	}
	steps := []func() error{
		gd.initSymbols,
		gd.initReels,
		gd.initLines,
		gd.initPayTable,
		gd.initScatter,
		gd.FreeSpins.init,
		gd.Sampling.init,
		gd.initTuning,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return gd.valid()
}

// valid 檢查跨區段的條件
func (gd *GameDef) valid() error {
	if gd.TargetRatio < 0 {
		return errs.Configf("target_ratio", "must not be negative, got %v", gd.TargetRatio)
	}
	gd.initFlag = true
	return nil
}

// Ready 回傳是否已完成 Init
func (gd *GameDef) Ready() bool { return gd.initFlag }

// LineCount 回傳線數
func (gd *GameDef) LineCount() int { return len(gd.Lines) }

// Clone 深拷貝一份獨立的 GameDef（含查表資料），修改副本不會影響原本的定義。
func (gd *GameDef) Clone() *GameDef {
	c := *gd
	c.Symbols = slices.Clone(gd.Symbols)
	c.Reels = cloneGrid(gd.Reels)
	c.Lines = cloneGrid(gd.Lines)
	c.PayTable = make(map[string]map[int]float64, len(gd.PayTable))
	for k, v := range gd.PayTable {
		c.PayTable[k] = maps.Clone(v)
	}
	c.ScatterPays = maps.Clone(gd.ScatterPays)

	c.FreeSpins.Awards = maps.Clone(gd.FreeSpins.Awards)
	c.FreeSpins.SessionWeights = maps.Clone(gd.FreeSpins.SessionWeights)
	c.FreeSpins.AwardValues = slices.Clone(gd.FreeSpins.AwardValues)
	c.FreeSpins.AwardWeights = slices.Clone(gd.FreeSpins.AwardWeights)

	c.Tuning.HighSymbols = slices.Clone(gd.Tuning.HighSymbols)
	c.Tuning.LowSymbols = slices.Clone(gd.Tuning.LowSymbols)
	c.Tuning.HighIDs = slices.Clone(gd.Tuning.HighIDs)
	c.Tuning.HighWeights = slices.Clone(gd.Tuning.HighWeights)
	c.Tuning.LowIDs = slices.Clone(gd.Tuning.LowIDs)

	c.SymbolIndex = maps.Clone(gd.SymbolIndex)
	c.Strips = cloneGrid(gd.Strips)
	c.Pays = cloneGrid(gd.Pays)
	c.ScatterPayTable = slices.Clone(gd.ScatterPayTable)
	c.AwardTable = slices.Clone(gd.AwardTable)
	return &c
}

func cloneGrid[T any](src [][]T) [][]T {
	if src == nil {
		return nil
	}
	out := make([][]T, len(src))
	for i, row := range src {
		out[i] = slices.Clone(row)
	}
	return out
}
