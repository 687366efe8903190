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
	"github.com/stardak/neon-vault/corefmt"
	"github.com/stardak/neon-vault/errs"
	"github.com/stardak/neon-vault/recorder"
	"github.com/stardak/neon-vault/sdk/buf"
	"github.com/stardak/neon-vault/spec"
)

// MaxReplayRounds 單次重播的上限
const MaxReplayRounds = 5000

// Replayer
//
// 單線重播器，重點在可審計、可重現：每次播放前後都會留下 RNG 快照，
// 之後可用 Before 快照在任何機器上重播出完全相同的結果。
type Replayer struct {
	m *Machine
}

// ReplayRound 一次試驗（主遊戲一轉或免費遊戲一場）
type ReplayRound struct {
	Spins  int              `json:"spins"`
	Payout float64          `json:"payout"`
	Rounds []buf.SpinResult `json:"rounds"`
}

// ReplayReport 播放結果；Before / After 為 base64url 的 RNG 快照
type ReplayReport struct {
	GameName string        `json:"game_name"`
	Mode     string        `json:"mode"`
	Before   string        `json:"before_b64u"`
	After    string        `json:"after_b64u"`
	Trials   int           `json:"trials"`
	Payout   float64       `json:"payout"`
	Ratio    float64       `json:"ratio"`
	Results  []ReplayRound `json:"results"`
}

// NewReplayer 以指定種子建立重播器
func NewReplayer(def *spec.GameDef, seed int64) (*Replayer, error) {
	m, err := NewMachine(def, seed)
	if err != nil {
		return nil, err
	}
	return &Replayer{m: m}, nil
}

// Play 從目前的 RNG 狀態播放 n 次試驗
func (r *Replayer) Play(mode recorder.Mode, n int) (*ReplayReport, error) {
	if n < 1 || n > MaxReplayRounds {
		return nil, errs.Warnf("rounds must be between 1 and %d, got %d", MaxReplayRounds, n)
	}
	if mode == recorder.ModeFreeSpins && !r.m.def.FreeSpins.HasFreeSpins() {
		return nil, errs.NewWarn("free spins mode requested but the game has no free spin awards")
	}
	before, err := r.m.SnapshotCore()
	if err != nil {
		return nil, errs.Wrap(err, "snapshot before replay")
	}
	rep := &ReplayReport{
		GameName: r.m.gameName,
		Mode:     mode.String(),
		Before:   corefmt.EncodeBase64URL(before),
		Trials:   n,
		Results:  make([]ReplayRound, 0, n),
	}
	for range n {
		var rd ReplayRound
		if mode == recorder.ModeFreeSpins {
			ss := r.m.PlaySession()
			rd = ReplayRound{Spins: ss.Spins, Payout: ss.Payout, Rounds: make([]buf.SpinResult, len(ss.Preview))}
			for i := range ss.Preview {
				rd.Rounds[i] = ss.Preview[i].Clone()
			}
		} else {
			sr := r.m.SpinBase()
			rd = ReplayRound{Spins: 1, Payout: sr.Payout, Rounds: []buf.SpinResult{sr.Clone()}}
		}
		rep.Payout += rd.Payout
		rep.Results = append(rep.Results, rd)
	}
	rep.Ratio = rep.Payout / float64(n)

	after, err := r.m.SnapshotCore()
	if err != nil {
		return nil, errs.Wrap(err, "snapshot after replay")
	}
	rep.After = corefmt.EncodeBase64URL(after)
	return rep, nil
}

// Restore 將 RNG 還原到 token 表示的快照
func (r *Replayer) Restore(token string) error {
	be, err := corefmt.DecodeBase64URL(token)
	if err != nil {
		return errs.Wrap(err, "decode snapshot failed")
	}
	if err := r.m.RestoreCore(be); err != nil {
		return errs.Wrap(err, "machine restore failed")
	}
	return nil
}

// RestorePlay 先還原快照再播放
func (r *Replayer) RestorePlay(token string, mode recorder.Mode, n int) (*ReplayReport, error) {
	if err := r.Restore(token); err != nil {
		return nil, err
	}
	return r.Play(mode, n)
}
