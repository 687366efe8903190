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

// Package logger 組裝引擎與 CLI 共用的 slog.Logger。
//
// 函式庫元件（Sampler、Tuner、Exporter）只接受 *slog.Logger，預設使用 Silent()；
// 要輸出到哪裡、用什麼格式由 CLI 決定。
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/stardak/neon-vault/errs"
)

// enum LogMode
type LogMode uint8

const (
	ModeDev LogMode = iota
	ModeProd
	ModeSilence
)

var modeNames = map[string]LogMode{
	"dev":    ModeDev,
	"prod":   ModeProd,
	"silent": ModeSilence,
}

// ParseMode 解析 CLI 的 -log 參數：dev | prod | silent
func ParseMode(s string) (LogMode, error) {
	if m, ok := modeNames[s]; ok {
		return m, nil
	}
	return ModeDev, errs.Warnf("unknown log mode %q (dev|prod|silent)", s)
}

// NewDefaultLogger returns a *slog.Logger built from LogMode defaults.
func NewDefaultLogger(mode LogMode) *slog.Logger {
	return slog.New(buildHandler(mode))
}

// NewLogger wraps a Handler into a *slog.Logger.
func NewLogger(h slog.Handler) *slog.Logger {
	if h == nil {
		h = buildHandler(ModeDev)
	}
	return slog.New(h)
}

// Silent 全部丟棄的 logger，函式庫元件的預設值
func Silent() *slog.Logger {
	return slog.New(buildHandler(ModeSilence))
}

// OrSilent 若 l 為 nil 回傳 Silent()
func OrSilent(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Silent()
	}
	return l
}

// AsyncHandler 是一個 slog.Handler wrapper：
// - Handle 只做 enqueue，由背景 goroutine 逐筆交給 next 寫出
// - channel 滿時直接丟棄並計數，不會拖慢抽樣迴圈
//
// 注意：slog.Logger 會忽略 Handler.Handle 回傳的 error。
type AsyncHandler struct {
	next slog.Handler
	d    *asyncDispatcher
}

type asyncDispatcher struct {
	ch     chan asyncItem
	closed chan struct{}
	once   sync.Once
	wg     sync.WaitGroup

	dropCount atomic.Uint64
}

type asyncItem struct {
	ctx     context.Context
	rec     slog.Record
	handler slog.Handler
}

// NewAsyncHandler wraps next with an async dispatcher.
// buf 控制隊列大小。
func NewAsyncHandler(next slog.Handler, buf int) *AsyncHandler {
	if next == nil {
		next = buildHandler(ModeDev)
	}
	if buf <= 0 {
		buf = 1024
	}
	d := &asyncDispatcher{
		ch:     make(chan asyncItem, buf),
		closed: make(chan struct{}),
	}
	d.wg.Add(1)
	go d.worker()
	return &AsyncHandler{next: next, d: d}
}

// Dropped returns number of dropped log records.
func (h *AsyncHandler) Dropped() uint64 {
	if h == nil || h.d == nil {
		return 0
	}
	return h.d.dropCount.Load()
}

// Close 停止接收新紀錄，並把隊列內剩下的寫完
func (h *AsyncHandler) Close() {
	if h == nil || h.d == nil {
		return
	}
	h.d.once.Do(func() { close(h.d.closed) })
	h.d.wg.Wait()
}

func (d *asyncDispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case it := <-d.ch:
			_ = it.handler.Handle(it.ctx, it.rec)
		case <-d.closed:
			for {
				select {
				case it := <-d.ch:
					_ = it.handler.Handle(it.ctx, it.rec)
				default:
					return
				}
			}
		}
	}
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	if h == nil || h.d == nil {
		return nil
	}
	select {
	case <-h.d.closed:
		h.d.dropCount.Add(1)
		return nil
	default:
	}

	it := asyncItem{ctx: ctx, rec: r.Clone(), handler: h.next}
	select {
	case h.d.ch <- it:
	default:
		h.d.dropCount.Add(1)
	}
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{next: h.next.WithAttrs(attrs), d: h.d}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{next: h.next.WithGroup(name), d: h.d}
}

// NewAsync 以 LogMode 預設值建立非同步 logger；結束前記得呼叫 Close。
func NewAsync(buf int, mode LogMode) (*slog.Logger, *AsyncHandler) {
	ah := NewAsyncHandler(buildHandler(mode), buf)
	return slog.New(ah), ah
}

func buildHandler(logmode LogMode) slog.Handler {
	switch logmode {
	case ModeDev:
		return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	case ModeProd:
		// 批次作業：JSON + stdout，交給收集器
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	case ModeSilence:
		return slog.NewTextHandler(io.Discard, nil)
	default:
		return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}
}
