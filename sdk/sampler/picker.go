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

// Package sampler 提供加權抽樣結構：LUT 與 AliasTable。
//
// 權重來自遊戲定義（免費遊戲次數權重、調校用高分圖標權重），建表時檢查不合法的權重並回傳錯誤。
// 兩者都以 *core.Core 作為亂數來源，建表後唯讀，可被多個 Machine 共用。
package sampler

import (
	"math"

	"github.com/stardak/neon-vault/errs"
	"github.com/stardak/neon-vault/sdk/core"
)

// lutThreshold 以下用 LUT，超過改用 AliasTable。
const lutThreshold = 100_000

// Picker 是加權抽樣結構的共同介面，回傳被抽中的索引。
type Picker interface {
	Pick(c *core.Core) int
}

// BuildPicker 依權重總和挑選 LUT 或 AliasTable
func BuildPicker(weights []int) (Picker, error) {
	total, err := sumWeights(weights)
	if err != nil {
		return nil, err
	}
	if total > lutThreshold {
		return BuildAliasTable(weights)
	}
	return BuildLUT(weights)
}

// sumWeights 檢查權重並回傳總和：不可為空、不可為負、不可全為 0、總和不可溢位
func sumWeights(weights []int) (int, error) {
	if len(weights) == 0 {
		return 0, errs.NewWarn("no weights")
	}
	total := 0
	for i, w := range weights {
		if w < 0 {
			return 0, errs.Warnf("weight %d is negative: %d", i, w)
		}
		if total > math.MaxInt-w {
			return 0, errs.Warnf("total weight overflows at index %d", i)
		}
		total += w
	}
	if total == 0 {
		return 0, errs.NewWarn("all weights are zero")
	}
	return total, nil
}
