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

// Package stats 將分桶後的贏倍分佈整理成報表：RTP、標準差、信賴區間與贏倍區間分佈。
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var lang language.Tag = language.English

// Confidence 報表使用的信賴水準
const Confidence = 0.95

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// Input 建立報表所需的原始資料。
//
// Payouts 與 Counts 一一對應（每個贏倍桶一筆），Trials 為總抽樣次數。
type Input struct {
	GameName    string
	GameID      uint
	Mode        string
	Trials      int64
	Spins       int64 // 免費遊戲模式為實際轉數；主遊戲等於 Trials
	Triggers    int64
	TargetRatio float64
	Payouts     []float64
	Counts      []int64
}

// StatReport 遊戲統計報告
type StatReport struct {
	Summary *SummaryReport `json:"Summary"`
	Dist    *DistReport    `json:"Dist"`
}

type SummaryReport struct {
	GameName      string  `json:"GameName"`
	GameID        uint    `json:"GameId"`
	Mode          string  `json:"Mode"`
	Trials        int64   `json:"Trials"`
	Spins         int64   `json:"Spins"`
	Buckets       int     `json:"Buckets"`
	RTP           float64 `json:"RTP"`
	RtpCI         CI      `json:"RtpCI"`
	Std           float64 `json:"Std"`
	Cv            float64 `json:"Cv"`
	Hits          int64   `json:"Hits"`
	HitRate       float64 `json:"HitRate"`
	HitRateCI     CI      `json:"HitRateCI"`
	NoWin         int64   `json:"NoWin"`
	Trigger       int64   `json:"Trigger"`
	TriggerRate   float64 `json:"TriggerRate"`
	TriggerRateCI CI      `json:"TriggerRateCI"`
	MaxWin        float64 `json:"MaxWin"`
	AvgWin        float64 `json:"AvgWin"` // 有中獎時的平均贏倍
	TargetRatio   float64 `json:"TargetRatio"`
	Deviation     float64 `json:"Deviation"`
}

// DistReport 贏倍區間落點統計
type DistReport struct {
	WinBucket []string  `json:"WinBucket"`
	Collect   []int64   `json:"Collect"`
	Dist      []float64 `json:"Dist"`
}

// CombinedReport 主遊戲與免費遊戲合併後的整體回報
//
// CombinedRTP = BaseRTP + TriggerRate * FreeSpinMean
type CombinedReport struct {
	GameName          string  `json:"GameName"`
	BaseRTP           float64 `json:"BaseRTP"`
	TriggerRate       float64 `json:"TriggerRate"`
	FreeSpinMean      float64 `json:"FreeSpinMean"`
	FreeSpinShare     float64 `json:"FreeSpinShare"`
	CombinedRTP       float64 `json:"CombinedRTP"`
	TargetRatio       float64 `json:"TargetRatio"`
	CombinedDeviation float64 `json:"CombinedDeviation"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Build 由分桶資料一次性計算報表。
func Build(in Input) *StatReport {
	s := &SummaryReport{
		GameName:    in.GameName,
		GameID:      in.GameID,
		Mode:        in.Mode,
		Trials:      in.Trials,
		Spins:       in.Spins,
		Buckets:     len(in.Payouts),
		Trigger:     in.Triggers,
		TargetRatio: in.TargetRatio,
	}
	d := &DistReport{
		WinBucket: Bands.Names(),
		Collect:   make([]int64, Bands.Len()),
		Dist:      make([]float64, Bands.Len()),
	}
	rep := &StatReport{Summary: s, Dist: d}
	if in.Trials <= 0 || len(in.Payouts) == 0 {
		return rep
	}

	w := make([]float64, len(in.Counts))
	var hitSum float64
	for i, c := range in.Counts {
		w[i] = float64(c)
		p := in.Payouts[i]
		d.Collect[Bands.Index(p)] += c
		if p > 0 {
			s.Hits += c
			hitSum += p * float64(c)
		}
		if p > s.MaxWin {
			s.MaxWin = p
		}
	}
	s.NoWin = in.Trials - s.Hits
	for i, c := range d.Collect {
		d.Dist[i] = float64(c) / float64(in.Trials)
	}

	mean, std := stat.MeanStdDev(in.Payouts, w)
	if math.IsNaN(std) {
		std = 0
	}
	s.RTP = mean
	s.Std = std
	if mean > 0 {
		s.Cv = std / mean
	}
	s.RtpCI = meanCI(mean, std, in.Trials, Confidence)
	if s.Hits > 0 {
		s.AvgWin = hitSum / float64(s.Hits)
	}
	s.HitRate, s.HitRateCI = proportionCICP(s.Hits, in.Trials, Confidence)
	s.TriggerRate, s.TriggerRateCI = proportionCICP(in.Triggers, in.Trials, Confidence)
	s.Deviation = s.RTP - s.TargetRatio
	return rep
}

// Combine 以主遊戲觸發率加權免費遊戲平均回報。fs 可為 nil（遊戲沒有免費遊戲）。
func Combine(base, fs *StatReport) *CombinedReport {
	c := &CombinedReport{
		GameName:    base.Summary.GameName,
		BaseRTP:     base.Summary.RTP,
		TriggerRate: base.Summary.TriggerRate,
		TargetRatio: base.Summary.TargetRatio,
	}
	if fs != nil {
		c.FreeSpinMean = fs.Summary.RTP
	}
	c.FreeSpinShare = c.TriggerRate * c.FreeSpinMean
	c.CombinedRTP = c.BaseRTP + c.FreeSpinShare
	c.CombinedDeviation = c.CombinedRTP - c.TargetRatio
	return c
}

// WriteWith 以指定的渲染器輸出
func (s *StatReport) WriteWith(w io.Writer, rep StatReportRender) error {
	return rep.Write(w, s)
}

// StdOut 印出摘要表與區間分佈；ut 為抽樣耗時
func (s *StatReport) StdOut(ut time.Duration) {
	fmt.Print(formatDuration(ut, s.Summary.Spins))
	_ = s.WriteTable(os.Stdout)
}

// WriteTable 輸出人類可讀的表格
func (s *StatReport) WriteTable(w io.Writer) error {
	sk, sm := s.fmtBasic()
	str := fmtTable(s.Summary.GameName+" ["+s.Summary.Mode+"]", sk, sm)
	dk, dm := s.fmtDist()
	str += fmtTable("Win Distribution", dk, dm)
	_, err := io.WriteString(w, str)
	return err
}

// WriteTable 輸出合併報表
func (c *CombinedReport) WriteTable(w io.Writer) error {
	p := message.NewPrinter(lang)
	m := map[string]string{
		"Base RTP":       p.Sprintf("%.4f %%", 100*c.BaseRTP),
		"Trigger Rate":   p.Sprintf("%.4f %%", 100*c.TriggerRate),
		"Free Spin Mean": p.Sprintf("%.4f", c.FreeSpinMean),
		"Free Spin RTP":  p.Sprintf("%.4f %%", 100*c.FreeSpinShare),
		"Combined RTP":   p.Sprintf("%.4f %%", 100*c.CombinedRTP),
		"Target RTP":     p.Sprintf("%.4f %%", 100*c.TargetRatio),
	}
	keys := []string{"Base RTP", "Trigger Rate", "Free Spin Mean", "Free Spin RTP", "Combined RTP", "Target RTP"}
	_, err := io.WriteString(w, fmtTable(c.GameName+" [combined]", keys, m))
	return err
}

// ============================================================
// ** 內部方法 **
// ============================================================

// meanCI 常態近似的平均值信賴區間，下界不低於 0
func meanCI(mean, std float64, n int64, confidence float64) CI {
	if n < 2 {
		return CI{Lo: mean, Hi: mean}
	}
	z := distuv.UnitNormal.Quantile(1 - (1-confidence)/2)
	se := std / math.Sqrt(float64(n))
	return CI{Lo: max(mean-z*se, 0), Hi: mean + z*se}
}

// proportionCICP Clopper-Pearson 二項比例信賴區間，回傳 (pHat, CI)
func proportionCICP(k, n int64, confidence float64) (pHat float64, ci CI) {
	if n <= 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}

func formatDuration(d time.Duration, spins int64) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	sps := int64(float64(spins) / sec)
	if sec < 60.0 {
		return p.Sprintf("used: %.2f seconds\nsps : %d spins/sec\n", sec, sps)
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		return p.Sprintf("used: %dm %ds\nsps : %d spins/sec\n", m, s, sps)
	}
	return p.Sprintf("used: %dh:%dm:%ds\nsps : %d spins/sec\n", h, m, s, sps)
}

func (s *StatReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	sm := s.Summary
	basic := map[string]string{
		"Game Name":    p.Sprintf("%s", sm.GameName),
		"Game ID":      fmt.Sprintf("%d", sm.GameID),
		"Mode":         sm.Mode,
		"Trials":       p.Sprintf("%d", sm.Trials),
		"Spins":        p.Sprintf("%d", sm.Spins),
		"Buckets":      p.Sprintf("%d", sm.Buckets),
		"Ratio":        p.Sprintf("%.4f", sm.RTP),
		"Ratio 95% CI": p.Sprintf("[%.4f, %.4f]", sm.RtpCI.Lo, sm.RtpCI.Hi),
		"Target":       p.Sprintf("%.4f", sm.TargetRatio),
		"Deviation":    p.Sprintf("%+.4f", sm.Deviation),
		"Hit Rate":     p.Sprintf("%.2f %%", 100*sm.HitRate),
		"NoWin":        p.Sprintf("%d", sm.NoWin),
		"Trigger":      p.Sprintf("%d", sm.Trigger),
		"Trigger Rate": p.Sprintf("%.4f %%", 100*sm.TriggerRate),
		"Max Win":      p.Sprintf("%.2f", sm.MaxWin),
		"STD":          p.Sprintf("%.3f", sm.Std),
		"CV":           p.Sprintf("%.3f", sm.Cv),
	}
	keys := []string{"Game Name", "Game ID", "Mode", "Trials", "Spins", "Buckets", "Ratio", "Ratio 95% CI", "Target", "Deviation", "Hit Rate", "NoWin", "Trigger", "Trigger Rate", "Max Win", "STD", "CV"}
	return keys, basic
}

func (s *StatReport) fmtDist() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	m := make(map[string]string, len(s.Dist.WinBucket))
	for i, name := range s.Dist.WinBucket {
		m[name] = p.Sprintf("%d (%.4f %%)", s.Dist.Collect[i], 100*s.Dist.Dist[i])
	}
	return s.Dist.WinBucket, m
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := runewidth.StringWidth(title)
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	var sb strings.Builder
	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	sb.WriteString("+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n")

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	sb.WriteString(p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right)))
	sb.WriteString(divider)
	for _, k := range keys {
		sb.WriteString(p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k]))))
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
