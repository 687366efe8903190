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
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/stardak/neon-vault/errs"
	"github.com/stardak/neon-vault/logger"
	"github.com/stardak/neon-vault/recorder"
	"github.com/stardak/neon-vault/sdk/core"
	"github.com/stardak/neon-vault/spec"
)

// Sampler 以固定種子對一款遊戲大量抽樣，產出結果表。
//
// 同一份 (def, trials, seed, mode, shards) 必定得到相同的結果表。
type Sampler struct {
	GameName string
	GameID   uint
	def      *spec.GameDef
	cf       core.PRNGFactory
	seed     int64
	log      *slog.Logger
	showpb   bool
}

// SamplerOption 設定 Sampler 的可選項
type SamplerOption func(*Sampler)

// WithLogger 注入 logger，預設靜默
func WithLogger(l *slog.Logger) SamplerOption {
	return func(s *Sampler) { s.log = logger.OrSilent(l) }
}

// WithProgress 是否顯示進度條
func WithProgress(show bool) SamplerOption {
	return func(s *Sampler) { s.showpb = show }
}

// WithPRNG 替換亂數產生器工廠
func WithPRNG(cf core.PRNGFactory) SamplerOption {
	return func(s *Sampler) {
		if cf != nil {
			s.cf = cf
		}
	}
}

// NewSampler 檢查定義後建立 Sampler；設定錯誤在任何抽樣之前回傳
func NewSampler(def *spec.GameDef, seed int64, opts ...SamplerOption) (*Sampler, error) {
	if def == nil {
		return nil, errs.NewWarn("game definition is nil")
	}
	if err := def.Init(); err != nil {
		return nil, err
	}
	s := &Sampler{
		GameName: def.GameName,
		GameID:   def.GameID,
		def:      def,
		cf:       core.Default(),
		seed:     seed,
		log:      logger.Silent(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Seed 回傳基準種子
func (s *Sampler) Seed() int64 { return s.seed }

// Sample 單線抽樣：以一台機台連續跑 trials 次，回傳結果表與用時
func (s *Sampler) Sample(mode recorder.Mode, trials int) (*recorder.Table, time.Duration, error) {
	return s.SampleMP(mode, trials, 1)
}

// SampleMP 將 trials 切成 shards 份平行抽樣，再依分片順序合併。
//
// 分片 i 的次數為 trials/shards，前 trials%shards 個分片各多一次。
func (s *Sampler) SampleMP(mode recorder.Mode, trials int, shards int) (*recorder.Table, time.Duration, error) {
	if err := s.valid(mode, trials, shards); err != nil {
		return nil, 0, err
	}
	seeds := ShardSeeds(s.seed, shards)
	machines := make([]*Machine, shards)
	recs := make([]*recorder.SpinRecorder, shards)
	for i := range shards {
		m, err := newMachineWithSeed(s.def, s.cf, seeds[i])
		if err != nil {
			return nil, 0, err
		}
		r, err := recorder.NewSpinRecorder(s.GameName, s.GameID, mode, s.def.Sampling.MaxExamples)
		if err != nil {
			return nil, 0, err
		}
		r.SetSeed(s.seed)
		r.SetTarget(s.def.TargetRatio)
		machines[i], recs[i] = m, r
	}

	s.log.Debug("sampling start",
		slog.String("game", s.GameName),
		slog.String("mode", mode.String()),
		slog.Int("trials", trials),
		slog.Int("shards", shards),
		slog.Int64("seed", s.seed))

	bar := pb.New(trials)
	if !s.showpb {
		bar.SetWriter(io.Discard)
	}
	bar.Start()
	wg := new(sync.WaitGroup)
	wg.Add(shards)
	base, rem := trials/shards, trials%shards
	for i := range shards {
		n := base
		if i < rem {
			n++
		}
		go func(m *Machine, r *recorder.SpinRecorder, n int) {
			defer wg.Done()
			run(m, r, mode, n, bar)
		}(machines[i], recs[i], n)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	tables := make([]*recorder.Table, shards)
	for i, r := range recs {
		tables[i] = r.Done()
	}
	t, err := recorder.Merge(tables)
	if err != nil {
		return nil, 0, err
	}
	s.log.Info("sampling done",
		slog.String("game", s.GameName),
		slog.String("mode", mode.String()),
		slog.Int64("trials", t.Trials),
		slog.Int("buckets", len(t.Buckets)),
		slog.String("ratio", t.Ratio().StringFixed(6)),
		slog.Duration("used", used))
	return t, used, nil
}

// run 單一分片的抽樣迴圈
func run(m *Machine, r *recorder.SpinRecorder, mode recorder.Mode, n int, bar *pb.ProgressBar) {
	const step = 1024
	switch mode {
	case recorder.ModeFreeSpins:
		for i := 1; i <= n; i++ {
			r.RecordSession(m.PlaySession())
			if i%step == 0 {
				bar.Add(step)
			}
		}
	default:
		for i := 1; i <= n; i++ {
			r.RecordSpin(m.SpinBase())
			if i%step == 0 {
				bar.Add(step)
			}
		}
	}
	bar.Add(n % step)
}

func (s *Sampler) valid(mode recorder.Mode, trials, shards int) error {
	if trials < 1 {
		return errs.Warnf("trials must > 0, got %d", trials)
	}
	if shards < 1 {
		return errs.Warnf("shards must > 0, got %d", shards)
	}
	switch mode {
	case recorder.ModeBase:
	case recorder.ModeFreeSpins:
		if !s.def.FreeSpins.HasFreeSpins() {
			return errs.NewWarn("free spins mode requires free_spins.awards")
		}
	default:
		return errs.Warnf("unknown mode %d", mode)
	}
	return nil
}

// Sample 以單一分片對 def 抽樣 trials 次
func Sample(def *spec.GameDef, trials int, seed int64, mode recorder.Mode) (*recorder.Table, error) {
	s, err := NewSampler(def, seed)
	if err != nil {
		return nil, err
	}
	t, _, err := s.Sample(mode, trials)
	return t, err
}
