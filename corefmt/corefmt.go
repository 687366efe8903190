// Package corefmt 將 RNG 快照轉成可以貼在 CLI 或日誌裡的文字。
package corefmt

import (
	"encoding/base64"
	"strings"

	"github.com/stardak/neon-vault/errs"
)

// EncodeBase64URL 無 padding 的 base64url，可直接放進命令列參數
func EncodeBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeBase64URL 反解 EncodeBase64URL，容忍前後空白與尾端的 '='
func DecodeBase64URL(s string) ([]byte, error) {
	s = strings.TrimRight(strings.TrimSpace(s), "=")
	if s == "" {
		return nil, errs.NewWarn("decode base64url failed: empty token")
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, errs.Wrap(err, "decode base64url failed")
	}
	return b, nil
}
