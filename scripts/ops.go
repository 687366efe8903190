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

// ops 開發用的任務入口：go run ./scripts [task]
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen).PrintlnFunc()
	red    = color.New(color.FgRed).PrintlnFunc()
	yellow = color.New(color.FgYellow).PrintlnFunc()
)

type task struct {
	desc string
	run  func() error
}

var tasks = map[string]task{
	"test":        {"go test ./... -cover -count=1, only ok/FAIL lines", runTest},
	"test-detail": {"go test ./... -v -count=1 without [no test files]", runTestDetail},
	"demo":        {"sample jewel_rush with small trials and export to build/output", runDemo},
	"tune":        {"tune jewel_rush with 10 quick iterations into build/optimizer", runTune},
}

func main() {
	// 如果沒有送任何參數進來，告訴用戶需要帶上 task
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	t, ok := tasks[os.Args[1]]
	if !ok {
		yellow(fmt.Sprintf("Unknown task: %s", os.Args[1]))
		usage()
		os.Exit(1)
	}
	if err := t.run(); err != nil {
		red(err.Error())
		os.Exit(1) // 告訴 Makefile 失敗了
	}
}

func usage() {
	fmt.Println("Usage: go run ./scripts [task]")
	for _, name := range []string{"test", "test-detail", "demo", "tune"} {
		fmt.Printf("  %-12s %s\n", name, tasks[name].desc)
	}
}

func runTest() error {
	green("running tests")
	cleanCache()
	return stream(func(line string) {
		switch {
		case strings.HasPrefix(line, "ok"):
			green(line)
		case strings.HasPrefix(line, "FAIL"), strings.Contains(line, "build failed"), strings.Contains(line, "setup failed"):
			red(line)
		}
	}, "go", "test", "./...", "-cover", "-count=1")
}

func runTestDetail() error {
	green("running tests (detail)")
	cleanCache()
	return stream(func(line string) {
		switch {
		case strings.Contains(line, "[no test files]"):
		case strings.HasPrefix(line, "ok"):
			green(line)
		case strings.HasPrefix(line, "FAIL"):
			red(line)
		default:
			fmt.Println(line)
		}
	}, "go", "test", "./...", "-v", "-count=1")
}

func runDemo() error {
	green("sampling demo game")
	return stream(func(line string) { fmt.Println(line) },
		"go", "run", "./cmd/run", "-trials", "200000", "-sessions", "20000", "-shards", "4", "-seed", "20250101", "-compress", "gz,zst")
}

func runTune() error {
	green("tuning demo game")
	return stream(func(line string) { fmt.Println(line) },
		"go", "run", "./cmd/opt", "-iter", "10", "-quick", "100000", "-shards", "4")
}

// cleanCache 清除 test cache，失敗不中斷
func cleanCache() {
	if err := exec.Command("go", "clean", "-testcache").Run(); err != nil {
		red(err.Error())
	}
}

// stream 執行指令並將 stdout/stderr 合併後逐行交給 onLine
func stream(onLine func(string), name string, args ...string) error {
	cmd := exec.Command(name, args...)
	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	sc := bufio.NewScanner(pipe)
	for sc.Scan() {
		onLine(sc.Text())
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%s %s finished with errors", name, strings.Join(args, " "))
	}
	return nil
}
