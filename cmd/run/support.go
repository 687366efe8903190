package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"math/big"
	"os"
	"strconv"
	"time"

	neonvault "github.com/stardak/neon-vault"
	"github.com/stardak/neon-vault/demo"
	"github.com/stardak/neon-vault/errs"
	"github.com/stardak/neon-vault/export"
	"github.com/stardak/neon-vault/logger"
	"github.com/stardak/neon-vault/recorder"
	"github.com/stardak/neon-vault/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	id        uint
	configs   string
	trials    int
	sessions  int
	shards    int
	seed      int64
	out       string
	compress  string
	format    string
	logmode   string
	progress  bool
	noExport  bool
	pprofmode string
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

func bindVar() {
	cfg.id = demo.JewelRush
	flag.Var(gidFlag{&cfg.id}, "game", "target game id")
	flag.StringVar(&cfg.configs, "configs", "", "directory of game definitions (default: embedded demo games)")
	flag.IntVar(&cfg.trials, "trials", 0, "base game trials (0: sampling.base_trials)")
	flag.IntVar(&cfg.sessions, "sessions", 0, "free spin sessions (0: sampling.free_spin_sessions)")
	flag.IntVar(&cfg.shards, "shards", 0, "parallel shards (0: sampling.workers)")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.StringVar(&cfg.out, "out", "build/output", "output directory")
	flag.StringVar(&cfg.compress, "compress", "gz", "extra compressed forms: none, gz, zst or gz,zst")
	flag.StringVar(&cfg.format, "format", "table", "report format: table, json, yaml")
	flag.StringVar(&cfg.logmode, "log", "dev", "log mode: dev, prod, silent")
	flag.BoolVar(&cfg.progress, "pb", true, "show progress bar")
	flag.BoolVar(&cfg.noExport, "no-export", false, "print reports only")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")

	flag.Parse()

	// given seed illeagel -> default seed
	if cfg.seed < 1 {
		seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			log.Fatal(err)
		}
		cfg.seed = seed.Int64()
	}
}

// executeSimulator 主遊戲與免費遊戲各抽樣一次，印出報表後輸出檔案
func executeSimulator() error {
	if err := cfg.valid(); err != nil {
		return err
	}
	mode, _ := logger.ParseMode(cfg.logmode)
	lg, ah := logger.NewAsync(1024, mode)
	defer ah.Close()

	lab, err := newLab()
	if err != nil {
		return err
	}
	def, err := lab.Def(cfg.id)
	if err != nil {
		return err
	}
	s, err := lab.NewSampler(cfg.id, cfg.seed, neonvault.WithLogger(lg), neonvault.WithProgress(cfg.progress))
	if err != nil {
		return err
	}
	ss := def.Sampling
	trials, sessions, shards := pick(cfg.trials, ss.BaseTrials), pick(cfg.sessions, ss.FreeSpinSessions), pick(cfg.shards, ss.Workers)

	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)

	p.Printf("%s[GAME:%s] [MODE:base] [TRIALS:%d] [SHARDS:%d] [SEED:%d]%s\n", green, def.GameName, trials, shards, cfg.seed, reset)
	base, used, err := s.SampleMP(recorder.ModeBase, trials, shards)
	if err != nil {
		return err
	}
	baseReport := base.Report()
	if err := cfg.print(baseReport, used); err != nil {
		return err
	}
	tables := []*recorder.Table{base}

	var fsReport *stats.StatReport
	if def.FreeSpins.HasFreeSpins() {
		p.Printf("%s[GAME:%s] [MODE:free_spins] [SESSIONS:%d] [SHARDS:%d]%s\n", green, def.GameName, sessions, shards, reset)
		fsSampler, err := lab.NewSampler(cfg.id, neonvault.NewSeedMaker(cfg.seed).Next(), neonvault.WithLogger(lg), neonvault.WithProgress(cfg.progress))
		if err != nil {
			return err
		}
		fs, used, err := fsSampler.SampleMP(recorder.ModeFreeSpins, sessions, shards)
		if err != nil {
			return err
		}
		fsReport = fs.Report()
		if err := cfg.print(fsReport, used); err != nil {
			return err
		}
		tables = append(tables, fs)
	}
	combined := stats.Combine(baseReport, fsReport)
	if cfg.format == "yaml" {
		err = combined.WriteYAML(os.Stdout)
	} else {
		err = combined.WriteTable(os.Stdout)
	}
	if err != nil {
		return err
	}

	if cfg.noExport {
		return nil
	}
	comps, _ := export.ParseCompressions(cfg.compress)
	ex, err := export.New(cfg.out, export.WithLogger(lg), export.WithCompression(comps...))
	if err != nil {
		return err
	}
	m, err := ex.WriteAll(def, tables...)
	if err != nil {
		return err
	}
	lg.Info("export done", slog.String("dir", ex.Dir()), slog.String("run_id", m.RunID), slog.Int("files", len(m.Files)))
	return nil
}

func newLab() (*neonvault.Lab, error) {
	if cfg.configs == "" {
		return demo.NewLab()
	}
	return neonvault.New(neonvault.Configs(os.DirFS(cfg.configs)))
}

func (cfg *config) print(r *stats.StatReport, used time.Duration) error {
	switch cfg.format {
	case "json":
		return r.WriteWith(os.Stdout, &stats.JsonStatReportRender{})
	case "yaml":
		return r.WriteWith(os.Stdout, &stats.YAMLStatReportRender{})
	}
	r.StdOut(used)
	return nil
}

// pick 旗標未指定（0）時使用遊戲設定值
func pick(flagValue, defValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return defValue
}

func (cfg *config) valid() error {
	if cfg.trials < 0 || cfg.sessions < 0 {
		return errs.NewWarn("value err : trials must not be negative")
	}
	if cfg.shards < 0 {
		return errs.NewWarn("value err : shards must not be negative")
	}
	switch cfg.format {
	case "table", "json", "yaml":
	default:
		return errs.Warnf("value err : unknown format %q", cfg.format)
	}
	if _, err := logger.ParseMode(cfg.logmode); err != nil {
		return err
	}
	if _, err := export.ParseCompressions(cfg.compress); err != nil {
		return err
	}
	return nil
}
