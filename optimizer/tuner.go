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

// Package optimizer 以重複抽樣加上貪婪擾動，調整輪帶組成使實現回報逼近目標。
package optimizer

import (
	"log/slog"
	"math"

	neonvault "github.com/stardak/neon-vault"
	"github.com/stardak/neon-vault/errs"
	"github.com/stardak/neon-vault/logger"
	"github.com/stardak/neon-vault/recorder"
	"github.com/stardak/neon-vault/sdk/core"
	"github.com/stardak/neon-vault/spec"
)

// Iteration 一輪調校的紀錄
type Iteration struct {
	Iter  int     `json:"iter"  yaml:"iter"`
	Ratio float64 `json:"ratio" yaml:"ratio"`
	Delta float64 `json:"delta" yaml:"delta"` // target - ratio（擾動前）
	Swaps int     `json:"swaps" yaml:"swaps"`
	Best  bool    `json:"best"  yaml:"best"`
}

// Result 調校結果；Def 是獨立的新定義，不會與初始定義共用記憶體
type Result struct {
	Def          *spec.GameDef `json:"-"             yaml:"-"`
	Target       float64       `json:"target"        yaml:"target"`
	InitialRatio float64       `json:"initial_ratio" yaml:"initial_ratio"`
	Ratio        float64       `json:"ratio"         yaml:"ratio"`
	Converged    bool          `json:"converged"     yaml:"converged"`
	History      []Iteration   `json:"history"       yaml:"history"`
}

// Tuner 調優器主體
type Tuner struct {
	initial   *spec.GameDef
	target    float64
	maxIter   int
	ts        spec.TuningSetting
	seed      int64 // 擾動用
	quickSeed int64 // 每個候選都用同一個抽樣種子
	shards    int
	cf        core.PRNGFactory
	log       *slog.Logger
}

// Option 設定 Tuner 的可選項
type Option func(*Tuner)

func WithLogger(l *slog.Logger) Option {
	return func(t *Tuner) { t.log = logger.OrSilent(l) }
}

// WithSeed 擾動使用的種子；抽樣種子預設同值
func WithSeed(seed int64) Option {
	return func(t *Tuner) { t.seed, t.quickSeed = seed, seed }
}

// WithQuickSeed 單獨指定快速抽樣的種子
func WithQuickSeed(seed int64) Option {
	return func(t *Tuner) { t.quickSeed = seed }
}

// WithQuickTrials 覆蓋 tuning.quick_trials
func WithQuickTrials(n int) Option {
	return func(t *Tuner) { t.ts.QuickTrials = n }
}

// WithTolerance 覆蓋 tuning.tolerance
func WithTolerance(tol float64) Option {
	return func(t *Tuner) { t.ts.Tolerance = tol }
}

// WithShards 快速抽樣的分片數
func WithShards(n int) Option {
	return func(t *Tuner) { t.shards = n }
}

func NewTuner(initial *spec.GameDef, target float64, maxIter int, opts ...Option) (*Tuner, error) {
	if initial == nil {
		return nil, errs.NewWarn("initial game definition is nil")
	}
	if err := initial.Init(); err != nil {
		return nil, err
	}
	if target < 0 || math.IsNaN(target) {
		return nil, errs.Warnf("target ratio must not be negative, got %v", target)
	}
	if maxIter < 0 {
		return nil, errs.Warnf("max iterations must not be negative, got %d", maxIter)
	}
	t := &Tuner{
		initial: initial,
		target:  target,
		maxIter: maxIter,
		ts:      initial.Tuning,
		shards:  1,
		cf:      core.Default(),
		log:     logger.Silent(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.ts.QuickTrials < 1 {
		return nil, errs.Warnf("quick trials must > 0, got %d", t.ts.QuickTrials)
	}
	if t.shards < 1 {
		return nil, errs.Warnf("shards must > 0, got %d", t.shards)
	}
	return t, nil
}

// Run 執行調校。
//
// 每一輪先看目前候選與目標的差距 d：|d| < tolerance 就停止；
// 否則低於目標時把低分位置換成加權抽出的高分圖標，高於目標時反過來，再重新抽樣。
// 只有嚴格更接近目標時才更新最佳解，因此結果不會比初始定義更差。
func (t *Tuner) Run() (*Result, error) {
	rng := core.New(t.cf.New(t.seed))

	cur := t.initial.Clone()
	ratio, err := t.quick(cur)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Target:       t.target,
		InitialRatio: ratio,
		History:      make([]Iteration, 0, t.maxIter),
	}
	best, bestRatio := cur.Clone(), ratio
	t.log.Info("tuning start",
		slog.String("game", cur.GameName),
		slog.Float64("target", t.target),
		slog.Float64("ratio", ratio))

	for iter := 0; iter < t.maxIter; iter++ {
		d := t.target - ratio
		if math.Abs(d) < t.ts.Tolerance {
			res.Converged = true
			t.log.Info("target achieved", slog.Int("iter", iter))
			break
		}
		var swaps int
		if d > 0 {
			swaps = t.raise(cur, rng, d)
		} else {
			swaps = t.lower(cur, rng, d)
		}
		if ratio, err = t.quick(cur); err != nil {
			return nil, err
		}
		it := Iteration{Iter: iter + 1, Ratio: ratio, Delta: d, Swaps: swaps}
		if math.Abs(ratio-t.target) < math.Abs(bestRatio-t.target) {
			best, bestRatio = cur.Clone(), ratio
			it.Best = true
		}
		res.History = append(res.History, it)

		t.log.Debug("tuning iteration",
			slog.Int("iter", it.Iter),
			slog.Float64("ratio", ratio),
			slog.Int("swaps", swaps),
			slog.Float64("best", bestRatio))
		if it.Iter%5 == 0 {
			t.log.Info("tuning progress", slog.Int("iter", it.Iter), slog.Float64("ratio", ratio), slog.Float64("best", bestRatio))
		}
	}
	if !res.Converged && math.Abs(bestRatio-t.target) < t.ts.Tolerance {
		res.Converged = true
	}
	res.Def, res.Ratio = best, bestRatio
	t.log.Info("tuning done",
		slog.String("game", best.GameName),
		slog.Float64("ratio", bestRatio),
		slog.Bool("converged", res.Converged),
		slog.Int("iterations", len(res.History)))
	return res, nil
}

// raise 每軸替換 min(max(1, int(|d|*gain)), cap) 個低分位置
func (t *Tuner) raise(gd *spec.GameDef, rng *core.Core, d float64) int {
	high := t.ts.HighPicker
	if high == nil || len(t.ts.LowIDs) == 0 {
		return 0
	}
	n := swapCount(d, t.ts.RaiseGain, t.ts.RaiseCap)
	done := 0
	for reel := range gd.Strips {
		for range n {
			pos := randomPosition(gd.Strips[reel], t.ts.LowIDs, rng)
			if pos < 0 {
				break
			}
			gd.SetStop(reel, pos, t.ts.HighIDs[high.Pick(rng)])
			done++
		}
	}
	return done
}

// lower 每軸替換 min(max(1, int(|d|*gain)), cap) 個高分位置為均勻抽出的低分圖標
func (t *Tuner) lower(gd *spec.GameDef, rng *core.Core, d float64) int {
	if len(t.ts.LowIDs) == 0 || len(t.ts.HighIDs) == 0 {
		return 0
	}
	n := swapCount(d, t.ts.LowerGain, t.ts.LowerCap)
	done := 0
	for reel := range gd.Strips {
		for range n {
			pos := randomPosition(gd.Strips[reel], t.ts.HighIDs, rng)
			if pos < 0 {
				break
			}
			gd.SetStop(reel, pos, t.ts.LowIDs[rng.IntN(len(t.ts.LowIDs))])
			done++
		}
	}
	return done
}

// quick 以固定種子快速抽樣主遊戲
func (t *Tuner) quick(gd *spec.GameDef) (float64, error) {
	s, err := neonvault.NewSampler(gd, t.quickSeed, neonvault.WithPRNG(t.cf))
	if err != nil {
		return 0, err
	}
	tb, _, err := s.SampleMP(recorder.ModeBase, t.ts.QuickTrials, t.shards)
	if err != nil {
		return 0, err
	}
	return tb.RatioFloat(), nil
}

func swapCount(d, gain float64, cap int) int {
	return min(max(1, int(math.Abs(d)*gain)), cap)
}

// randomPosition 在 strip 中均勻挑一個屬於 set 的位置，沒有則回傳 -1
func randomPosition(strip []int16, set []int16, rng *core.Core) int {
	var buf [64]int
	pos := buf[:0]
	for i, s := range strip {
		for _, id := range set {
			if s == id {
				pos = append(pos, i)
				break
			}
		}
	}
	if len(pos) == 0 {
		return -1
	}
	return rng.Pick(pos)
}

// Tune 以定義內的 tuning 設定調校，回傳最佳定義與其快速抽樣回報
func Tune(initial *spec.GameDef, target float64, maxIter int, opts ...Option) (*spec.GameDef, float64, error) {
	t, err := NewTuner(initial, target, maxIter, opts...)
	if err != nil {
		return nil, 0, err
	}
	res, err := t.Run()
	if err != nil {
		return nil, 0, err
	}
	return res.Def, res.Ratio, nil
}
