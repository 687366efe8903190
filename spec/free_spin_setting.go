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
	"slices"

	"github.com/stardak/neon-vault/errs"
	"github.com/stardak/neon-vault/sdk/sampler"
)

// FreeSpinSetting 免費遊戲設定
//
// Fields:
//   - Awards: 分散圖標數量 -> 免費遊戲次數
//   - Multiplier: 免費遊戲中線獎的倍數（分散獎不加乘）；0 或未填一律視為 1，無法設定為 0
//   - SessionWeights: 免費遊戲模式抽樣時，各次數的權重；留空代表等權重
type FreeSpinSetting struct {
	Awards         map[int]int `yaml:"awards"                    json:"awards"`
	Multiplier     float64     `yaml:"multiplier"                json:"multiplier"`
	SessionWeights map[int]int `yaml:"session_weights,omitempty" json:"session_weights,omitempty"`

	// AwardValues 為遞增排序且不重複的次數，與 AwardWeights 一一對應
	AwardValues  []int          `yaml:"-" json:"-"`
	AwardWeights []int          `yaml:"-" json:"-"`
	AwardPicker  sampler.Picker `yaml:"-" json:"-"`
}

// init 建立次數抽樣表
func (fs *FreeSpinSetting) init() error {
	if fs.Multiplier == 0 {
		fs.Multiplier = 1
	}
	if fs.Multiplier < 0 {
		return errs.Configf("free_spins.multiplier", "multiplier must be positive, got %v", fs.Multiplier)
	}

	fs.AwardValues = fs.AwardValues[:0]
	for _, spins := range fs.Awards {
		if !slices.Contains(fs.AwardValues, spins) {
			fs.AwardValues = append(fs.AwardValues, spins)
		}
	}
	slices.Sort(fs.AwardValues)

	for spins := range fs.SessionWeights {
		if !slices.Contains(fs.AwardValues, spins) {
			return errs.Configf("free_spins.session_weights", "weight for %d spins, which no scatter count awards", spins)
		}
	}

	fs.AwardWeights = make([]int, len(fs.AwardValues))
	total := 0
	for i, spins := range fs.AwardValues {
		w := 1
		if len(fs.SessionWeights) > 0 {
			w = fs.SessionWeights[spins]
		}
		if w < 0 {
			return errs.Configf("free_spins.session_weights", "negative weight %d for %d spins", w, spins)
		}
		fs.AwardWeights[i] = w
		total += w
	}
	fs.AwardPicker = nil
	if len(fs.AwardValues) == 0 {
		return nil
	}
	if total == 0 {
		return errs.Configf("free_spins.session_weights", "all weights are zero")
	}
	picker, err := sampler.BuildPicker(fs.AwardWeights)
	if err != nil {
		return configFrom("free_spins.session_weights", err)
	}
	fs.AwardPicker = picker
	return nil
}

// HasFreeSpins 回傳設定是否可以進行免費遊戲抽樣
func (fs *FreeSpinSetting) HasFreeSpins() bool {
	return fs.AwardPicker != nil
}
