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

package core

// PRNG 定義 Core 所需的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	Snapshot() ([]byte, error)
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
//
// bounded 取樣（UintN / IntN）交由 PRNG 自己實作，讓每種產生器使用最合適的無偏策略。
type RAND interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// UintN 回傳 [0,max) 的 uint 亂數，若 max == 0 回傳 0。
	UintN(uint) uint
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

// PRNGFactory 以 seed 建立 PRNG。
//
// 合約：同一實作同一版本下 New(seed) 必須是決定性的。
// 抽樣表的可重現性（相同 seed、相同試驗數 → 相同結果）完全建立在這個合約上。
type PRNGFactory interface {
	New(int64) PRNG
}

// DefaultPRNG 實作預設的 PRNGFactory（PCG64）
type DefaultPRNG struct{}

func (d *DefaultPRNG) New(seed int64) PRNG {
	return newPCG64WithSeed(seed)
}

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// Core 封裝 PRNG，並提供常用取樣方法。
//
// Core 不是併發安全的：每個 shard / Machine 持有自己的 Core。
type Core struct {
	PRNG
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{rng}
}

// Pick 從列表中隨機選取一個元素，若列表為空回傳 -1
func (c *Core) Pick(src []int) int {
	if len(src) == 0 {
		return -1
	}
	return src[c.IntN(len(src))]
}
