package main

import (
	"log"
	"os"

	"github.com/stardak/neon-vault/errs"
	"github.com/stardak/neon-vault/sdk/perf"
)

// makefile runner
func main() {
	bindVar()
	if err := perf.RunPProf(executeSimulator, cfg.pprofmode); err != nil {
		log.Print(err)
		os.Exit(errs.ExitCode(err))
	}
}
