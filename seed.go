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

package neonvault

import "sync/atomic"

const mask63 = uint64(1<<63) - 1

// SeedMaker 由一個基準種子產生分片種子串流。
//
// 分片 0 直接使用基準種子，分片 i (i >= 1) 使用第 i 次 Next() 的結果，
// 所以結果只取決於 (seed, shards)。
type SeedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func NewSeedMaker(seed int64) *SeedMaker {
	s := &SeedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// Next 以全週期 LCG 推進 state，再用可逆 mix63 打散
//
// 推進用 CAS 迴圈，多個 goroutine 同時呼叫時每次都會取得唯一的下一個 state。
func (s *SeedMaker) Next() int64 {
	for {
		old := s.state.Load()
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next))
		}
	}
}

// ShardSeeds 回傳 n 個分片的種子
func ShardSeeds(seed int64, n int) []int64 {
	out := make([]int64, n)
	if n == 0 {
		return out
	}
	out[0] = seed
	sm := NewSeedMaker(seed)
	for i := 1; i < n; i++ {
		out[i] = sm.Next()
	}
	return out
}

// mix63：只用「可逆」的 bit 操作 + 乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
