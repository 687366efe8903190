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

package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	neonvault "github.com/stardak/neon-vault"
	"github.com/stardak/neon-vault/demo"
	"github.com/stardak/neon-vault/errs"
	"github.com/stardak/neon-vault/export"
	"github.com/stardak/neon-vault/logger"
	"github.com/stardak/neon-vault/optimizer"
	"github.com/stardak/neon-vault/recorder"
	"github.com/stardak/neon-vault/sdk/perf"
	"gopkg.in/yaml.v3"
)

var (
	optgid    uint = demo.JewelRush
	configs   string
	target    float64
	iters     int
	quick     int
	shards    int
	seed      int64
	verify    int
	outDir    string
	logmode   string
	pprofmode string
)

func main() {
	flag.Var(gidFlag{&optgid}, "game", "target game id")
	flag.StringVar(&configs, "configs", "", "directory of game definitions (default: embedded demo games)")
	flag.Float64Var(&target, "target", 0, "target ratio (0: target_ratio of the game)")
	flag.IntVar(&iters, "iter", 0, "max iterations (0: tuning.max_iterations)")
	flag.IntVar(&quick, "quick", 0, "trials per candidate (0: tuning.quick_trials)")
	flag.IntVar(&shards, "shards", 1, "parallel shards per candidate")
	flag.Int64Var(&seed, "seed", 4127483647, "int64 seed for swaps and quick sampling")
	flag.IntVar(&verify, "verify", 0, "re-sample the tuned game with this many trials (0: skip)")
	flag.StringVar(&outDir, "out", filepath.Join("build", "optimizer"), "output directory")
	flag.StringVar(&logmode, "log", "dev", "log mode: dev, prod, silent")
	flag.StringVar(&pprofmode, "p", "", "pprof: '', cpu, heap, allocs")
	flag.Parse()

	if err := perf.RunPProf(run, pprofmode); err != nil {
		log.Print(err)
		os.Exit(errs.ExitCode(err))
	}
}

func run() error {
	mode, err := logger.ParseMode(logmode)
	if err != nil {
		return err
	}
	lg := logger.NewDefaultLogger(mode)

	var lab *neonvault.Lab
	if configs == "" {
		lab, err = demo.NewLab()
	} else {
		lab, err = neonvault.New(neonvault.Configs(os.DirFS(configs)))
	}
	if err != nil {
		return err
	}
	def, err := lab.Def(optgid)
	if err != nil {
		return err
	}
	if target == 0 {
		target = def.TargetRatio
	}
	if iters == 0 {
		iters = def.Tuning.MaxIterations
	}
	opts := []optimizer.Option{optimizer.WithLogger(lg), optimizer.WithSeed(seed), optimizer.WithShards(shards)}
	if quick > 0 {
		opts = append(opts, optimizer.WithQuickTrials(quick))
	}
	tuner, err := optimizer.NewTuner(def, target, iters, opts...)
	if err != nil {
		return err
	}
	res, err := tuner.Run()
	if err != nil {
		return err
	}

	bs, err := res.Def.EncodeYAML()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	defPath := filepath.Join(outDir, fmt.Sprintf("%s_tuned.yaml", def.GameName))
	if err := export.WriteFileAtomic(defPath, bs, 0o644); err != nil {
		return err
	}
	hist, err := yaml.Marshal(res)
	if err != nil {
		return err
	}
	histPath := filepath.Join(outDir, fmt.Sprintf("%s_history.yaml", def.GameName))
	if err := export.WriteFileAtomic(histPath, hist, 0o644); err != nil {
		return err
	}
	lg.Info("tuned definition written",
		slog.String("def", defPath),
		slog.String("history", histPath),
		slog.Float64("initial", res.InitialRatio),
		slog.Float64("ratio", res.Ratio),
		slog.Bool("converged", res.Converged))

	if verify > 0 {
		s, err := neonvault.NewSampler(res.Def, seed+1, neonvault.WithLogger(lg), neonvault.WithProgress(true))
		if err != nil {
			return err
		}
		tb, used, err := s.SampleMP(recorder.ModeBase, verify, shards)
		if err != nil {
			return err
		}
		tb.Report().StdOut(used)
	}
	return nil
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
