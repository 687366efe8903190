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

package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/stardak/neon-vault/errs"
	"github.com/stardak/neon-vault/recorder"
	"github.com/stardak/neon-vault/sdk/buf"
	"github.com/stardak/neon-vault/spec"
)

// OutcomeHeader 結果表 CSV 的欄位
var OutcomeHeader = []string{"simulation_number", "probability", "payout_multiplier"}

// WriteOutcomeCSV 每個桶一列，依贏倍遞增，編號從 0 開始；
// 機率固定 10 位小數，贏倍固定 2 位小數。
func WriteOutcomeCSV(w io.Writer, tb *recorder.Table) error {
	if tb == nil {
		return errs.NewWarn("export: outcome table is nil")
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(OutcomeHeader); err != nil {
		return errs.Wrap(err, "export: write csv header")
	}
	row := make([]string, 3)
	for i, b := range tb.Buckets {
		row[0] = strconv.Itoa(i)
		row[1] = tb.Probability(i).StringFixed(10)
		row[2] = b.Payout().StringFixed(2)
		if err := cw.Write(row); err != nil {
			return errs.Wrap(err, "export: write csv row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errs.Wrap(err, "export: flush csv")
	}
	return nil
}

// Event 一個結果桶的代表事件（桶內第一筆範例）
type Event struct {
	PayoutMultiplier float64 `json:"payout_multiplier"`
	Spins            int     `json:"spins"`
	Rounds           []Round `json:"rounds"`
}

// Round 單轉的前端資料；Grid 為 Grid[reel][row]
type Round struct {
	Stops         []int       `json:"stops"`
	Grid          [][]string  `json:"grid"`
	WinningLines  []LineEvent `json:"winning_lines"`
	ScatterCount  int         `json:"scatter_count"`
	ScatterPayout float64     `json:"scatter_payout"`
	FreeSpins     int         `json:"free_spins"`
	Payout        float64     `json:"payout"`
}

type LineEvent struct {
	Line   int     `json:"line"`
	Symbol string  `json:"symbol"`
	Count  int     `json:"count"`
	Payout float64 `json:"payout"`
}

// NewRound 將 SpinResult 轉為以圖標 id 表示的事件
func NewRound(def *spec.GameDef, sr *buf.SpinResult) Round {
	reels := len(sr.Stops)
	rows := 0
	if reels > 0 {
		rows = len(sr.Grid) / reels
	}
	rd := Round{
		Stops:         append([]int(nil), sr.Stops...),
		Grid:          make([][]string, reels),
		WinningLines:  make([]LineEvent, len(sr.LineWins)),
		ScatterCount:  sr.ScatterCount,
		ScatterPayout: sr.ScatterPayout,
		FreeSpins:     sr.FreeSpins,
		Payout:        sr.Payout,
	}
	for r := 0; r < reels; r++ {
		col := make([]string, rows)
		for row := 0; row < rows; row++ {
			col[row] = def.Symbols[sr.Grid[row*reels+r]].ID
		}
		rd.Grid[r] = col
	}
	for i, lw := range sr.LineWins {
		rd.WinningLines[i] = LineEvent{Line: lw.LineID, Symbol: def.Symbols[lw.Symbol].ID, Count: lw.Count, Payout: lw.Payout}
	}
	return rd
}

// WriteEvents 以桶編號為鍵輸出事件物件，鍵依數字遞增；沒有範例的桶略過但仍佔編號
func WriteEvents(w io.Writer, tb *recorder.Table, def *spec.GameDef) error {
	if tb == nil || def == nil {
		return errs.NewWarn("export: events need both table and game definition")
	}
	stream := json.BorrowStream(w)
	defer json.ReturnStream(stream)

	stream.WriteObjectStart()
	first := true
	for i, b := range tb.Buckets {
		if len(b.Examples) == 0 {
			continue
		}
		ex := &b.Examples[0]
		ev := Event{
			PayoutMultiplier: b.Payout().InexactFloat64(),
			Spins:            ex.Spins,
			Rounds:           make([]Round, len(ex.Rounds)),
		}
		for k := range ex.Rounds {
			ev.Rounds[k] = NewRound(def, &ex.Rounds[k])
		}
		if !first {
			stream.WriteMore()
		}
		first = false
		stream.WriteObjectField(strconv.Itoa(i))
		stream.WriteVal(ev)
		if stream.Error != nil {
			return errs.Wrap(stream.Error, "export: encode event")
		}
	}
	stream.WriteObjectEnd()
	if err := stream.Flush(); err != nil {
		return errs.Wrap(err, "export: flush events")
	}
	return nil
}
