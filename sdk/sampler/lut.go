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

package sampler

import (
	"github.com/stardak/neon-vault/errs"
	"github.com/stardak/neon-vault/sdk/core"
)

const maxLUTCap = 10_000_000

// LUT 查找表：索引依權重重複展開，抽樣只做一次 IntN。
// 權重 [3,5,0] 展開為 [0,0,0,1,1,1,1,1]。
type LUT []int

// BuildLUT 以權重建立查找表，總和超過 maxLUTCap 時回傳錯誤
func BuildLUT(weights []int) (LUT, error) {
	total, err := sumWeights(weights)
	if err != nil {
		return nil, err
	}
	if total > maxLUTCap {
		return nil, errs.Warnf("total weight %d exceeds lut limit %d", total, maxLUTCap)
	}
	lut := make(LUT, 0, total)
	for i, w := range weights {
		for range w {
			lut = append(lut, i)
		}
	}
	return lut, nil
}

// Pick 抽出一個索引
func (l LUT) Pick(c *core.Core) int {
	return c.Pick(l)
}
