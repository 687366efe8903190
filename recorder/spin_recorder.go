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

// Package recorder 將抽樣結果依贏倍分桶，形成機率加權的結果表。
package recorder

import (
	"slices"

	"github.com/shopspring/decimal"
	"github.com/stardak/neon-vault/errs"
	"github.com/stardak/neon-vault/sdk/buf"
	"github.com/stardak/neon-vault/stats"
)

// Mode 抽樣模式
type Mode uint8

const (
	ModeBase Mode = iota
	ModeFreeSpins
)

var modeName = map[Mode]string{
	ModeBase:      "base",
	ModeFreeSpins: "free_spins",
}

func (m Mode) String() string {
	if s, ok := modeName[m]; ok {
		return s
	}
	return "unknown"
}

// ParseMode 解析 "base" / "free_spins"
func ParseMode(s string) (Mode, error) {
	for m, name := range modeName {
		if name == s {
			return m, nil
		}
	}
	return ModeBase, errs.Warnf("unknown mode %q", s)
}

// Example 桶內保存的範例結果。
//
// 主遊戲只有一轉；免費遊戲保存整場的轉數、總贏倍與前幾轉的預覽。
type Example struct {
	Spins  int
	Payout float64
	Rounds []buf.SpinResult
}

// Bucket 以兩位小數的贏倍為鍵（單位 0.01）
type Bucket struct {
	Key      int64
	Count    int64
	Examples []Example
}

// Payout 回傳桶的贏倍
func (b *Bucket) Payout() decimal.Decimal {
	return decimal.New(b.Key, -2)
}

// BucketKey 將贏倍四捨五入（遠離 0）到兩位小數，回傳以 0.01 為單位的整數鍵。
// 捨入作用在 float 的最短十進位表示上，所以 2.675 會得到 268。
func BucketKey(p float64) int64 {
	if p == 0 {
		return 0
	}
	return decimal.NewFromFloat(p).Round(2).Shift(2).IntPart()
}

// Table 結果表：Buckets 依贏倍遞增排序，Σ Count = Trials。
//
// Done 之後不可再修改。
type Table struct {
	GameName    string
	GameID      uint
	Mode        Mode
	Seed        int64
	TargetRatio float64
	MaxExamples int
	Trials      int64
	Spins       int64
	Triggers    int64
	RawSum      float64 // 未四捨五入的贏倍加總
	Buckets     []*Bucket
}

// Ratio 實現回報：Σ 桶贏倍 × 次數 / Trials
func (t *Table) Ratio() decimal.Decimal {
	if t.Trials == 0 {
		return decimal.Zero
	}
	var cents int64
	for _, b := range t.Buckets {
		cents += b.Key * b.Count
	}
	return decimal.New(cents, -2).Div(decimal.NewFromInt(t.Trials))
}

// RatioFloat Ratio 的 float64 版本
func (t *Table) RatioFloat() float64 {
	return t.Ratio().InexactFloat64()
}

// Probability 第 i 個桶的機率
func (t *Table) Probability(i int) decimal.Decimal {
	if t.Trials == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(t.Buckets[i].Count).Div(decimal.NewFromInt(t.Trials))
}

// Report 將結果表整理成統計報表
func (t *Table) Report() *stats.StatReport {
	in := stats.Input{
		GameName:    t.GameName,
		GameID:      t.GameID,
		Mode:        t.Mode.String(),
		Trials:      t.Trials,
		Spins:       t.Spins,
		Triggers:    t.Triggers,
		TargetRatio: t.TargetRatio,
		Payouts:     make([]float64, len(t.Buckets)),
		Counts:      make([]int64, len(t.Buckets)),
	}
	for i, b := range t.Buckets {
		in.Payouts[i] = b.Payout().InexactFloat64()
		in.Counts[i] = b.Count
	}
	return stats.Build(in)
}

// SpinRecorder 遊戲紀錄員
//
// SpinRecorder 負責將每一轉（或每一場免費遊戲）放進對應的桶，並透過 Done 輸出結果表
type SpinRecorder struct {
	table *Table
	index map[int64]*Bucket
	done  bool
}

func NewSpinRecorder(name string, id uint, mode Mode, maxExamples int) (*SpinRecorder, error) {
	if maxExamples < 0 {
		return nil, errs.Warnf("max examples must not be negative, got: %d", maxExamples)
	}
	if _, ok := modeName[mode]; !ok {
		return nil, errs.Warnf("unknown mode %d", mode)
	}
	s := &SpinRecorder{
		table: &Table{GameName: name, GameID: id, Mode: mode, MaxExamples: maxExamples},
		index: make(map[int64]*Bucket, 256),
	}
	return s, nil
}

// SetSeed 紀錄本次抽樣使用的種子
func (s *SpinRecorder) SetSeed(seed int64) { s.table.Seed = seed }

// SetTarget 紀錄目標回報，報表用
func (s *SpinRecorder) SetTarget(target float64) { s.table.TargetRatio = target }

// RecordSpin 紀錄一轉主遊戲
func (s *SpinRecorder) RecordSpin(sr *buf.SpinResult) {
	s.mustOpen()
	t := s.table
	t.Trials++
	t.Spins++
	t.RawSum += sr.Payout
	if sr.FreeSpins > 0 {
		t.Triggers++
	}
	b := s.bucket(sr.Payout)
	b.Count++
	if len(b.Examples) < t.MaxExamples {
		b.Examples = append(b.Examples, Example{Spins: 1, Payout: sr.Payout, Rounds: []buf.SpinResult{sr.Clone()}})
	}
}

// RecordSession 紀錄一整場免費遊戲
func (s *SpinRecorder) RecordSession(ss *buf.SessionResult) {
	s.mustOpen()
	t := s.table
	t.Trials++
	t.Spins += int64(ss.Played())
	t.RawSum += ss.Payout
	b := s.bucket(ss.Payout)
	b.Count++
	if len(b.Examples) < t.MaxExamples {
		rounds := make([]buf.SpinResult, len(ss.Preview))
		for i := range ss.Preview {
			rounds[i] = ss.Preview[i].Clone()
		}
		b.Examples = append(b.Examples, Example{Spins: ss.Spins, Payout: ss.Payout, Rounds: rounds})
	}
}

// Done 排序並封存結果表，之後再紀錄會 panic
func (s *SpinRecorder) Done() *Table {
	if !s.done {
		s.table.Buckets = sortedBuckets(s.index)
		s.done = true
	}
	return s.table
}

// Merge 依分片順序合併結果表：同鍵次數相加，範例依序保留前 MaxExamples 筆
func Merge(tables []*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, errs.NewWarn("merge outcome tables err : no tables")
	}
	t0 := tables[0]
	out := &Table{
		GameName:    t0.GameName,
		GameID:      t0.GameID,
		Mode:        t0.Mode,
		Seed:        t0.Seed,
		TargetRatio: t0.TargetRatio,
		MaxExamples: t0.MaxExamples,
	}
	index := make(map[int64]*Bucket, len(t0.Buckets))
	for _, t := range tables {
		if t.GameName != t0.GameName || t.GameID != t0.GameID {
			return nil, errs.NewFatal("merge outcome tables err : different game")
		}
		if t.Mode != t0.Mode {
			return nil, errs.NewFatal("merge outcome tables err : different mode")
		}
		out.Trials += t.Trials
		out.Spins += t.Spins
		out.Triggers += t.Triggers
		out.RawSum += t.RawSum
		for _, b := range t.Buckets {
			m, ok := index[b.Key]
			if !ok {
				m = &Bucket{Key: b.Key}
				index[b.Key] = m
			}
			m.Count += b.Count
			for _, ex := range b.Examples {
				if len(m.Examples) >= out.MaxExamples {
					break
				}
				m.Examples = append(m.Examples, ex)
			}
		}
	}
	out.Buckets = sortedBuckets(index)
	return out, nil
}

func (s *SpinRecorder) bucket(p float64) *Bucket {
	k := BucketKey(p)
	b, ok := s.index[k]
	if !ok {
		b = &Bucket{Key: k}
		s.index[k] = b
	}
	return b
}

func (s *SpinRecorder) mustOpen() {
	if s.done {
		panic("recorder: record after Done")
	}
}

func sortedBuckets(index map[int64]*Bucket) []*Bucket {
	bs := make([]*Bucket, 0, len(index))
	for _, b := range index {
		bs = append(bs, b)
	}
	slices.SortFunc(bs, func(a, b *Bucket) int {
		switch {
		case a.Key < b.Key:
			return -1
		case a.Key > b.Key:
			return 1
		}
		return 0
	})
	return bs
}
