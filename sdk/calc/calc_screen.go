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

// Package calc 是唯一的盤面算分器：由停止位置建立盤面，計算線獎與分散獎。
package calc

import (
	"github.com/stardak/neon-vault/errs"
	"github.com/stardak/neon-vault/sdk/buf"
	"github.com/stardak/neon-vault/sdk/gen"
	"github.com/stardak/neon-vault/spec"
)

// Evaluator 根據 GameDef 預先整理好熱路徑需要的查表資料。
//
// Evaluator 本身不保存每次 spin 的狀態，可以被多個 goroutine 共用；
// 結果寫入呼叫端提供的 SpinResult。
type Evaluator struct {
	def *spec.GameDef

	Cols      int
	Rows      int
	LineCount int
	lineFlat  []int // 線表轉成盤面 index：lineFlat[l*Cols+reel] = row*Cols+reel
	wild      int16
	scatter   int16
	pays      [][]float64
	scPays    []float64
	awards    []int
}

// NewEvaluator 建立算分器，def 必須已完成 Init。
func NewEvaluator(def *spec.GameDef) *Evaluator {
	e := &Evaluator{
		def:       def,
		Cols:      def.ReelCount(),
		Rows:      def.Rows,
		LineCount: def.LineCount(),
		wild:      def.WildID,
		scatter:   def.ScatterID,
		pays:      def.Pays,
		scPays:    def.ScatterPayTable,
		awards:    def.AwardTable,
	}
	e.lineFlat = make([]int, 0, e.LineCount*e.Cols)
	for _, line := range def.Lines {
		for reel, row := range line {
			e.lineFlat = append(e.lineFlat, row*e.Cols+reel)
		}
	}
	return e
}

// Def 回傳算分器使用的遊戲定義
func (e *Evaluator) Def() *spec.GameDef { return e.def }

// NewResult 配置一個符合盤面大小的 SpinResult
func (e *Evaluator) NewResult() *buf.SpinResult {
	return buf.NewSpinResult(e.Cols, e.Rows)
}

// EvaluateInto 以 stops 計算一次 spin，結果覆寫到 sr。熱路徑不配置記憶體。
//
// 1. 建立盤面
// 2. 逐線計算線獎，加總後除以線數換算成總押注倍數
// 3. 全盤計算分散圖標數量，精確查表取得分散獎與免費遊戲次數
func (e *Evaluator) EvaluateInto(stops []int, sr *buf.SpinResult) {
	sr.Reset()
	sr.Stops = append(sr.Stops[:0], stops...)
	if len(sr.Grid) != e.Cols*e.Rows {
		sr.Grid = make([]int16, e.Cols*e.Rows)
	}
	gen.FillGrid(e.def.Strips, e.Rows, stops, sr.Grid)

	e.calcLines(sr)
	sr.LinePayout = sr.LineSum / float64(e.LineCount)

	e.calcScatter(sr)
	sr.Payout = sr.LinePayout + sr.ScatterPayout
}

// Evaluate 與 EvaluateInto 相同，但回傳新配置的結果
func (e *Evaluator) Evaluate(stops []int) *buf.SpinResult {
	sr := e.NewResult()
	e.EvaluateInto(stops, sr)
	return sr
}

// Evaluate 是單次算分的便利入口：檢查停止位置後回傳結果。
// def 尚未初始化時會先執行 Init。
func Evaluate(stops []int, def *spec.GameDef) (*buf.SpinResult, error) {
	if err := def.Init(); err != nil {
		return nil, err
	}
	if len(stops) != def.ReelCount() {
		return nil, errs.Warnf("got %d stops for %d reels", len(stops), def.ReelCount())
	}
	for r, s := range stops {
		if s < 0 || s >= len(def.Strips[r]) {
			return nil, errs.Warnf("reel %d stop %d out of range [0,%d)", r, s, len(def.Strips[r]))
		}
	}
	return NewEvaluator(def).Evaluate(stops), nil
}
