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

package export

import (
	"io"

	"github.com/stardak/neon-vault/errs"
	"github.com/stardak/neon-vault/spec"
)

// GameConfig 提供給前端的遊戲設定
type GameConfig struct {
	GameName    string                     `json:"game_name"`
	GameID      uint                       `json:"game_id"`
	NumReels    int                        `json:"num_reels"`
	NumRows     int                        `json:"num_rows"`
	NumPaylines int                        `json:"num_paylines"`
	Symbols     map[string]SymbolInfo      `json:"symbols"`
	Paylines    [][]int                    `json:"paylines"`
	Paytable    map[string]map[int]float64 `json:"paytable"`
	ScatterPays map[int]float64            `json:"scatter_pays"`
	FreeSpins   FreeSpinInfo               `json:"free_spins"`
	TargetRatio float64                    `json:"target_ratio"`
	ReelStrips  [][]string                 `json:"reel_strips"`
}

type SymbolInfo struct {
	Name string `json:"name"`
	Role string `json:"role"`
	Tier string `json:"tier,omitempty"`
}

type FreeSpinInfo struct {
	Awards         map[int]int `json:"awards"`
	Multiplier     float64     `json:"multiplier"`
	SessionWeights map[int]int `json:"session_weights,omitempty"`
}

// NewGameConfig 由已初始化的定義整理出前端設定
func NewGameConfig(def *spec.GameDef) *GameConfig {
	gc := &GameConfig{
		GameName:    def.GameName,
		GameID:      def.GameID,
		NumReels:    def.ReelCount(),
		NumRows:     def.Rows,
		NumPaylines: def.LineCount(),
		Symbols:     make(map[string]SymbolInfo, len(def.Symbols)),
		Paylines:    def.Lines,
		Paytable:    def.PayTable,
		ScatterPays: def.ScatterPays,
		FreeSpins: FreeSpinInfo{
			Awards:         def.FreeSpins.Awards,
			Multiplier:     def.FreeSpins.Multiplier,
			SessionWeights: def.FreeSpins.SessionWeights,
		},
		TargetRatio: def.TargetRatio,
		ReelStrips:  def.Reels,
	}
	for _, s := range def.Symbols {
		gc.Symbols[s.ID] = SymbolInfo{Name: s.Name, Role: s.Role.String(), Tier: s.Tier}
	}
	return gc
}

// WriteGameConfig 以縮排 JSON 輸出遊戲設定
func WriteGameConfig(w io.Writer, def *spec.GameDef) error {
	if def == nil {
		return errs.NewWarn("export: game definition is nil")
	}
	if err := def.Init(); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewGameConfig(def)); err != nil {
		return errs.Wrap(err, "export: encode game config")
	}
	return nil
}
