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
	"math"
	"math/bits"

	"github.com/stardak/neon-vault/errs"
	"github.com/stardak/neon-vault/sdk/core"
)

// AliasTable 是整數版的 Vose Alias Method。
//
// 每個槽位只存「自己」與「別名」兩個選項，抽樣固定兩次 IntN；
// 權重乘上元素數量做整數 scaling，不經過浮點運算。
type AliasTable struct {
	Prob    []int
	Aliases []int
	Size    int
	Total   int
}

// BuildAliasTable 根據非負整數權重建立 AliasTable，權重不合法或 scaling 溢位時回傳錯誤
func BuildAliasTable(weights []int) (*AliasTable, error) {
	total, err := sumWeights(weights)
	if err != nil {
		return nil, err
	}
	n := len(weights)
	if !isSafeMultiply(total, n) {
		return nil, errs.Warnf("alias table: total weight %d x %d slots overflows", total, n)
	}

	prob := make([]int, n)
	aliases := make([]int, n)
	small := make([]int, 0, n)
	large := make([]int, 0, n)

	for i, w := range weights {
		prob[i] = w * n
		if prob[i] < total {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		aliases[s] = l
		// 維持 sum(prob) = total * n
		prob[l] = prob[l] + prob[s] - total

		if prob[l] < total {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}

	return &AliasTable{Prob: prob, Aliases: aliases, Size: n, Total: total}, nil
}

func isSafeMultiply(a, b int) bool {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	return hi == 0 && (lo <= math.MaxInt64)
}

// Pick 先選槽位，再以 IntN(Total) < Prob[idx] 決定取自己或別名
func (at *AliasTable) Pick(c *core.Core) int {
	idx := c.IntN(at.Size)
	if c.IntN(at.Total) < at.Prob[idx] {
		return idx
	}
	return at.Aliases[idx]
}
