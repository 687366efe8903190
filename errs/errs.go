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

// Package errs 定義引擎共用的分級錯誤。
//
// 批次計算沒有自動重試：Fatal 代表本次執行必須中止，Warn 代表呼叫參數有誤（修正後可重跑），
// Log 只做紀錄。設定檔驗證錯誤一律為 Fatal 並可用 errors.Is(err, ErrConfig) 辨識。
package errs

import (
	"errors"
	"fmt"
)

// ErrLevel : Error 分級，使最上層理解問題嚴重程度
type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
	Log
)

var errLvMap = map[ErrLevel]string{
	None:  "",
	Fatal: "fatal",
	Warn:  "warn",
	Log:   "log",
}

func ErrLv(errlv ErrLevel) string {
	if str, ok := errLvMap[errlv]; ok {
		return str
	}
	return ""
}

// ErrConfig 是所有遊戲定義驗證錯誤的根因。
var ErrConfig = errors.New("invalid game definition")

// E 是統一的錯誤型別。
// Where 標示錯誤位置（例如 "reel 2 stop 7"、"line 4"、"symbol H1"），Extra 為額外上下文，
// Cause 可串接下層錯誤。
type E struct {
	Message string
	Where   string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
}

// Error 實作 error 介面並回傳格式化後的錯誤訊息。
func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s ", ErrLv(e.ErrLv))
	if e.Where != "" {
		base += e.Where + ": "
	}
	base += e.Message
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil && e.Cause != ErrConfig {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

// Unwrap 讓 errors.Is / errors.As 能夠向下展開。
func (e *E) Unwrap() error { return e.Cause }

func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

func NewFatal(msg string) *E {
	return &E{Message: msg, ErrLv: Fatal}
}

func NewWarn(msg string) *E {
	return &E{Message: msg, ErrLv: Warn}
}

func NewLog(msg string) *E {
	return &E{Message: msg, ErrLv: Log}
}

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

// Configf 建立遊戲定義驗證錯誤。where 必須能讓人直接找到要修的資料位置。
func Configf(where string, format string, a ...any) *E {
	return &E{
		Message: fmt.Sprintf(format, a...),
		Where:   where,
		Cause:   ErrConfig,
		ErrLv:   Fatal,
	}
}

// IsConfig 回傳 err 是否為遊戲定義驗證錯誤。
func IsConfig(err error) bool {
	return errors.Is(err, ErrConfig)
}

// Wrap 以訊息包裝底層錯誤。
//
// ErrLevel 規則：
//   - cause 已經是 *E：沿用其 ErrLv。
//   - 其他錯誤（標準庫 / 三方依賴）：一律視為 Fatal。
func Wrap(cause error, msg string) *E {
	var e *E
	r := New(Fatal, msg)
	if errors.As(cause, &e) {
		r.ErrLv = e.ErrLv
	}
	r.Cause = cause
	return r
}

// WrapWithExtra 與 Wrap 相同，另外附加上下文字串。
func WrapWithExtra(cause error, msg string, extra string) *E {
	r := Wrap(cause, msg)
	r.Extra = extra
	return r
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return e, false
}

// ExitCode 依錯誤分級回傳程序結束碼：nil 與 Log 為 0，Warn（參數錯誤）為 2，其餘為 1。
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	e, ok := AsErr(err)
	if !ok {
		return 1
	}
	switch e.ErrLv {
	case Log:
		return 0
	case Warn:
		return 2
	default:
		return 1
	}
}
