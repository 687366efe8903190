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

import (
	"github.com/stardak/neon-vault/errs"
	"github.com/stardak/neon-vault/sdk/buf"
	"github.com/stardak/neon-vault/sdk/calc"
	"github.com/stardak/neon-vault/sdk/core"
	"github.com/stardak/neon-vault/sdk/gen"
	"github.com/stardak/neon-vault/spec"
)

// Machine 持有一個分片抽樣所需的全部狀態：RNG、盤面生成器、結算器與可重用的 buffer。
//
// 並發語意：
//   - Machine 不是併發安全的；同一台 Machine 不應被多 goroutine 同時使用。
//   - 併發抽樣由 Sampler 為每個分片各建一台 Machine。
//
// Buffer 語意：
//   - SpinResult / Session 每次呼叫都會被覆寫，需要保留請自行 Clone。
type Machine struct {
	gameName   string
	gameID     uint
	def        *spec.GameDef
	core       *core.Core
	gen        *gen.GridGenerator
	eval       *calc.Evaluator
	stops      []int
	SpinResult *buf.SpinResult
	Session    *buf.SessionResult
	initseed   int64
}

// NewMachine 以指定 seed 與預設 PRNG 建立 Machine
func NewMachine(def *spec.GameDef, seed int64) (*Machine, error) {
	return newMachineWithSeed(def, core.Default(), seed)
}

// newMachineWithSeed 同一份 GameDef + 同一個 seed 必定得到相同的抽樣序列。
func newMachineWithSeed(def *spec.GameDef, cf core.PRNGFactory, seed int64) (*Machine, error) {
	if def == nil {
		return nil, errs.NewWarn("game definition is nil")
	}
	if err := def.Init(); err != nil {
		return nil, err
	}
	m := &Machine{
		gameName: def.GameName,
		gameID:   def.GameID,
		def:      def,
		core:     core.New(cf.New(seed)),
		eval:     calc.NewEvaluator(def),
		stops:    make([]int, def.ReelCount()),
		initseed: seed,
	}
	m.gen = gen.NewGridGenerator(m.core, def)
	m.SpinResult = m.eval.NewResult()
	m.Session = buf.NewSessionResult(def.Sampling.PreviewSpins)
	return m, nil
}

// SpinBase 依軸序抽停止位置並結算一轉
func (m *Machine) SpinBase() *buf.SpinResult {
	m.gen.DrawStops(m.stops)
	m.eval.EvaluateInto(m.stops, m.SpinResult)
	return m.SpinResult
}

// PlaySession 進行一場免費遊戲：先抽次數，再逐轉抽停止位置。
//
// 每轉只有線獎乘上倍數；分散獎與再觸發不計。呼叫前需確認 HasFreeSpins。
func (m *Machine) PlaySession() *buf.SessionResult {
	fs := &m.def.FreeSpins
	spins := fs.AwardValues[fs.AwardPicker.Pick(m.core)]
	m.Session.Reset(spins)
	for i := 0; i < spins; i++ {
		sr := m.SpinBase()
		m.Session.AddSpin(sr, sr.LinePayout*fs.Multiplier)
	}
	return m.Session
}

// Seed 回傳建立時的種子
func (m *Machine) Seed() int64 { return m.initseed }

// SnapshotCore 取得 Core 狀態暫存
func (m *Machine) SnapshotCore() ([]byte, error) {
	return m.core.Snapshot()
}

// RestoreCore 恢復 Core 狀態暫存
func (m *Machine) RestoreCore(src []byte) error {
	return m.core.Restore(src)
}
