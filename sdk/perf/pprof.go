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

// Package perf 包裝 runtime/pprof，讓 CLI 以 -p cpu|heap|allocs 取得性能檔。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/stardak/neon-vault/errs"
)

// Dir pprof 檔案寫入路徑
var Dir = filepath.Join("build", "profiling")

// Modes 支援的 profiling 模式
var Modes = []string{"", "cpu", "heap", "allocs"}

// Valid 檢查模式是否支援
func Valid(mode string) bool {
	for _, m := range Modes {
		if m == mode {
			return true
		}
	}
	return false
}

// RunPProf 依 mode 決定是否包一層 profiling 後執行 exe。
// mode 為空字串時直接執行；未知模式回傳錯誤且不執行。
func RunPProf(exe func() error, mode string) error {
	if !Valid(mode) {
		return errs.Warnf("unknown pprof mode %q", mode)
	}
	switch mode {
	case "cpu":
		return PProfCPU(exe)
	case "heap":
		return PProfHeap(exe)
	case "allocs":
		return PProfAllocs(exe)
	}
	return exe()
}

// PProfCPU 在 exe 執行期間收集 CPU profile，也可作為 pgo 的輸入。
// 輸出檔：build/profiling/cpu.pprof
func PProfCPU(exe func() error) error {
	f, err := create("cpu.pprof")
	if err != nil {
		return err
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return errs.Wrap(err, "failed to start cpu profile")
	}
	defer pprof.StopCPUProfile()
	return exe()
}

// PProfHeap 在 exe 結束後寫出一次 in-use heap 快照，寫出前先 GC 讓快照貼近存活物件。
// 輸出檔：build/profiling/heap.pprof
func PProfHeap(exe func() error) error {
	if err := exe(); err != nil {
		return err
	}
	runtime.GC()
	return writeProfile("heap", "heap.pprof")
}

// PProfAllocs 在 exe 結束後寫出累積配置，搭配 -alloc_space / -alloc_objects 查看。
// 輸出檔：build/profiling/allocs.pprof
func PProfAllocs(exe func() error) error {
	if err := exe(); err != nil {
		return err
	}
	return writeProfile("allocs", "allocs.pprof")
}

func writeProfile(name, file string) error {
	prof := pprof.Lookup(name)
	if prof == nil {
		return errs.Warnf("pprof profile %s not found", name)
	}
	f, err := create(file)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := prof.WriteTo(f, 0); err != nil {
		return errs.Wrap(err, "failed to write "+name+" profile")
	}
	return nil
}

func create(file string) (*os.File, error) {
	if err := os.MkdirAll(Dir, 0o755); err != nil {
		return nil, errs.Wrap(err, "failed to create "+Dir)
	}
	f, err := os.Create(filepath.Join(Dir, file))
	if err != nil {
		return nil, errs.Wrap(err, "failed to create "+file)
	}
	return f, nil
}
