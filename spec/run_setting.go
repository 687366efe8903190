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
	"slices"

	"github.com/stardak/neon-vault/errs"
	"github.com/stardak/neon-vault/sdk/sampler"
)

// SamplingSetting 是每款遊戲的抽樣預設值，CLI 參數可以覆蓋。欄位為 0 時套用預設值。
type SamplingSetting struct {
	BaseTrials       int `yaml:"base_trials"        json:"base_trials"`
	FreeSpinSessions int `yaml:"free_spin_sessions" json:"free_spin_sessions"`
	MaxExamples      int `yaml:"max_examples"       json:"max_examples"`
	PreviewSpins     int `yaml:"preview_spins"      json:"preview_spins"`
	Workers          int `yaml:"workers"            json:"workers"`
}

const (
	DefaultBaseTrials       = 2_000_000
	DefaultFreeSpinSessions = 500_000
	DefaultMaxExamples      = 3
	DefaultPreviewSpins     = 3
)

func (ss *SamplingSetting) init() error {
	if ss.BaseTrials == 0 {
		ss.BaseTrials = DefaultBaseTrials
	}
	if ss.FreeSpinSessions == 0 {
		ss.FreeSpinSessions = DefaultFreeSpinSessions
	}
	if ss.MaxExamples == 0 {
		ss.MaxExamples = DefaultMaxExamples
	}
	if ss.PreviewSpins == 0 {
		ss.PreviewSpins = DefaultPreviewSpins
	}
	if ss.Workers == 0 {
		ss.Workers = 1
	}
	switch {
	case ss.BaseTrials < 0:
		return errs.Configf("sampling.base_trials", "must be positive, got %d", ss.BaseTrials)
	case ss.FreeSpinSessions < 0:
		return errs.Configf("sampling.free_spin_sessions", "must be positive, got %d", ss.FreeSpinSessions)
	case ss.MaxExamples < 0:
		return errs.Configf("sampling.max_examples", "must be positive, got %d", ss.MaxExamples)
	case ss.PreviewSpins < 0:
		return errs.Configf("sampling.preview_spins", "must be positive, got %d", ss.PreviewSpins)
	case ss.Workers < 0:
		return errs.Configf("sampling.workers", "must be positive, got %d", ss.Workers)
	}
	return nil
}

// WeightedSymbol 是調校時用來替換的高分圖標與其權重
type WeightedSymbol struct {
	Symbol string `yaml:"symbol" json:"symbol"`
	Weight int    `yaml:"weight" json:"weight"`
}

// TuningSetting 輪帶組成調校參數
//
// 低於目標時每軸替換 min(max(1, int(|d|*RaiseGain)), RaiseCap) 個低分位置，
// 高於目標時每軸替換 min(max(1, int(|d|*LowerGain)), LowerCap) 個高分位置。
//
// 數值欄位為 0 代表「使用預設值」（DefaultTolerance 等），所以 tolerance: 0 會變成 0.005；
// 要更嚴格的收斂請填一個很小的正數。
type TuningSetting struct {
	QuickTrials   int              `yaml:"quick_trials"   json:"quick_trials"`
	Tolerance     float64          `yaml:"tolerance"      json:"tolerance"`
	MaxIterations int              `yaml:"max_iterations" json:"max_iterations"`
	HighSymbols   []WeightedSymbol `yaml:"high_symbols"   json:"high_symbols"`
	LowSymbols    []string         `yaml:"low_symbols"    json:"low_symbols"`
	RaiseGain     float64          `yaml:"raise_gain"     json:"raise_gain"`
	RaiseCap      int              `yaml:"raise_cap"      json:"raise_cap"`
	LowerGain     float64          `yaml:"lower_gain"     json:"lower_gain"`
	LowerCap      int              `yaml:"lower_cap"      json:"lower_cap"`

	HighIDs     []int16        `yaml:"-" json:"-"`
	HighWeights []int          `yaml:"-" json:"-"`
	HighPicker  sampler.Picker `yaml:"-" json:"-"` // 依 HighWeights 抽 HighIDs 的索引，唯讀
	LowIDs      []int16        `yaml:"-" json:"-"`
}

const (
	DefaultQuickTrials   = 500_000
	DefaultTolerance     = 0.005
	DefaultMaxIterations = 50
	DefaultRaiseGain     = 15
	DefaultRaiseCap      = 3
	DefaultLowerGain     = 10
	DefaultLowerCap      = 2
)

// initTuning 補上預設值並解析圖標集合。
// 未指定集合時，高分集合為 wild 加上 tier=high 的圖標（權重 1），低分集合為 tier=low 的圖標。
func (gd *GameDef) initTuning() error {
	ts := &gd.Tuning
	if ts.QuickTrials == 0 {
		ts.QuickTrials = DefaultQuickTrials
	}
	if ts.Tolerance == 0 {
		ts.Tolerance = DefaultTolerance
	}
	if ts.MaxIterations == 0 {
		ts.MaxIterations = DefaultMaxIterations
	}
	if ts.RaiseGain == 0 {
		ts.RaiseGain = DefaultRaiseGain
	}
	if ts.RaiseCap == 0 {
		ts.RaiseCap = DefaultRaiseCap
	}
	if ts.LowerGain == 0 {
		ts.LowerGain = DefaultLowerGain
	}
	if ts.LowerCap == 0 {
		ts.LowerCap = DefaultLowerCap
	}
	if ts.QuickTrials < 0 || ts.Tolerance < 0 || ts.MaxIterations < 0 ||
		ts.RaiseGain < 0 || ts.RaiseCap < 0 || ts.LowerGain < 0 || ts.LowerCap < 0 {
		return errs.Configf("tuning", "negative tuning parameter")
	}

	if len(ts.HighSymbols) == 0 {
		for _, s := range gd.Symbols {
			if s.Role == RoleWild || (s.Role == RolePaying && s.Tier == "high") {
				ts.HighSymbols = append(ts.HighSymbols, WeightedSymbol{Symbol: s.ID, Weight: 1})
			}
		}
	}
	if len(ts.LowSymbols) == 0 {
		for _, s := range gd.Symbols {
			if s.Role == RolePaying && s.Tier == "low" {
				ts.LowSymbols = append(ts.LowSymbols, s.ID)
			}
		}
	}

	ts.HighIDs = make([]int16, 0, len(ts.HighSymbols))
	ts.HighWeights = make([]int, 0, len(ts.HighSymbols))
	for i, hs := range ts.HighSymbols {
		where := fmt.Sprintf("tuning.high_symbols[%d]", i)
		id, err := gd.lookupSymbol(where, hs.Symbol)
		if err != nil {
			return err
		}
		if id == gd.ScatterID {
			return errs.Configf(where, "scatter cannot be tuned")
		}
		if hs.Weight <= 0 {
			return errs.Configf(where, "weight must be positive, got %d", hs.Weight)
		}
		ts.HighIDs = append(ts.HighIDs, id)
		ts.HighWeights = append(ts.HighWeights, hs.Weight)
	}
	ts.LowIDs = make([]int16, 0, len(ts.LowSymbols))
	for i, ls := range ts.LowSymbols {
		where := fmt.Sprintf("tuning.low_symbols[%d]", i)
		id, err := gd.lookupSymbol(where, ls)
		if err != nil {
			return err
		}
		if id == gd.ScatterID {
			return errs.Configf(where, "scatter cannot be tuned")
		}
		if slices.Contains(ts.HighIDs, id) {
			return errs.Configf(where, "symbol %s is in both high and low sets", ls)
		}
		ts.LowIDs = append(ts.LowIDs, id)
	}
	ts.HighPicker = nil
	if len(ts.HighWeights) > 0 {
		picker, err := sampler.BuildPicker(ts.HighWeights)
		if err != nil {
			return configFrom("tuning.high_symbols", err)
		}
		ts.HighPicker = picker
	}
	return nil
}

// configFrom 把下層的參數錯誤轉成指向 where 的設定錯誤
func configFrom(where string, err error) error {
	msg := err.Error()
	if e, ok := errs.AsErr(err); ok {
		msg = e.Message
	}
	return errs.Configf(where, "%s", msg)
}
