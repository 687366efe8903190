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

// eval 檢視單一停輪組合：印出盤面、中獎線與分散獎
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/mattn/go-runewidth"
	neonvault "github.com/stardak/neon-vault"
	"github.com/stardak/neon-vault/demo"
	"github.com/stardak/neon-vault/errs"
	"github.com/stardak/neon-vault/export"
	"github.com/stardak/neon-vault/recorder"
	"github.com/stardak/neon-vault/sdk/buf"
	"github.com/stardak/neon-vault/sdk/calc"
	"github.com/stardak/neon-vault/spec"
)

var (
	gid     uint = demo.JewelRush
	configs string
	stops   string
	seed    int64
	asJSON  bool
	replay  int
	mode    string
	snap    string
)

func main() {
	flag.Var(gidFlag{&gid}, "game", "target game id")
	flag.StringVar(&configs, "configs", "", "directory of game definitions (default: embedded demo games)")
	flag.StringVar(&stops, "stops", "", "comma separated stop per reel, e.g. 3,10,5,0,7 (empty: draw with -seed)")
	flag.Int64Var(&seed, "seed", 1, "seed used when -stops is empty")
	flag.BoolVar(&asJSON, "json", false, "print the round as events json")
	flag.IntVar(&replay, "replay", 0, "play this many trials from -seed or -snapshot and print the replay report")
	flag.StringVar(&mode, "mode", "base", "replay mode: base, free_spins")
	flag.StringVar(&snap, "snapshot", "", "base64url rng snapshot to replay from")
	flag.Parse()

	if err := run(os.Stdout); err != nil {
		log.Print(err)
		os.Exit(errs.ExitCode(err))
	}
}

func run(w io.Writer) error {
	var (
		lab *neonvault.Lab
		err error
	)
	if configs == "" {
		lab, err = demo.NewLab()
	} else {
		lab, err = neonvault.New(neonvault.Configs(os.DirFS(configs)))
	}
	if err != nil {
		return err
	}
	def, err := lab.Def(gid)
	if err != nil {
		return err
	}

	if replay > 0 {
		return runReplay(w, lab)
	}

	var sr *buf.SpinResult
	if stops == "" {
		m, err := lab.NewMachine(gid, seed)
		if err != nil {
			return err
		}
		sr = m.SpinBase()
	} else {
		st, err := parseStops(stops)
		if err != nil {
			return err
		}
		if sr, err = calc.Evaluate(st, def); err != nil {
			return err
		}
	}

	if asJSON {
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(export.NewRound(def, sr))
	}
	_, err = io.WriteString(w, render(def, sr))
	return err
}

// runReplay 以 Replayer 播放並輸出含前後快照的報表
func runReplay(w io.Writer, lab *neonvault.Lab) error {
	md, err := recorder.ParseMode(mode)
	if err != nil {
		return err
	}
	r, err := lab.NewReplayer(gid, seed)
	if err != nil {
		return err
	}
	var rep *neonvault.ReplayReport
	if snap != "" {
		rep, err = r.RestorePlay(snap, md, replay)
	} else {
		rep, err = r.Play(md, replay)
	}
	if err != nil {
		return err
	}
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func parseStops(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errs.Warnf("stop %d: %q is not an integer", i, p)
		}
		out[i] = v
	}
	return out, nil
}

// render 盤面以列為單位輸出，欄寬依最長的圖標 id 對齊
func render(def *spec.GameDef, sr *buf.SpinResult) string {
	reels := def.ReelCount()
	width := 1
	for _, s := range def.Symbols {
		width = max(width, runewidth.StringWidth(s.ID))
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  stops %v\n", def.GameName, sr.Stops)
	for row := 0; row < def.Rows; row++ {
		sb.WriteString("| ")
		for r := 0; r < reels; r++ {
			id := def.Symbols[sr.Grid[row*reels+r]].ID
			sb.WriteString(runewidth.FillRight(id, width))
			sb.WriteString(" | ")
		}
		sb.WriteString("\n")
	}
	for _, lw := range sr.LineWins {
		fmt.Fprintf(&sb, "line %2d  %s x%d  pays %g\n", lw.LineID, def.Symbols[lw.Symbol].ID, lw.Count, lw.Payout)
	}
	fmt.Fprintf(&sb, "line total %g / %d lines = %g\n", sr.LineSum, def.LineCount(), sr.LinePayout)
	fmt.Fprintf(&sb, "scatters %d  pays %g  free spins %d\n", sr.ScatterCount, sr.ScatterPayout, sr.FreeSpins)
	fmt.Fprintf(&sb, "payout %g\n", sr.Payout)
	return sb.String()
}

type gidFlag struct{ p *uint }

func (f gidFlag) String() string {
	if f.p == nil {
		return "0"
	}
	return fmt.Sprint(*f.p)
}
func (f gidFlag) Set(s string) error {
	u, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return err
	}
	*f.p = uint(u)
	return nil
}
