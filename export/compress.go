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

package export

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stardak/neon-vault/errs"
)

// Compression 輸出檔的壓縮格式
type Compression uint8

const (
	None Compression = iota
	Gzip
	Zstd
)

// Ext 壓縮檔的副檔名（含點）
func (c Compression) Ext() string {
	switch c {
	case Gzip:
		return ".gz"
	case Zstd:
		return ".zst"
	default:
		return ""
	}
}

func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	default:
		return "none"
	}
}

// ParseCompression 解析 none / gz / gzip / zst / zstd
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "gz", "gzip":
		return Gzip, nil
	case "zst", "zstd":
		return Zstd, nil
	}
	return None, errs.Warnf("unknown compression %q", s)
}

// ParseCompressions 解析以逗號分隔的清單，略過 none 與重複項
func ParseCompressions(s string) ([]Compression, error) {
	var out []Compression
	seen := map[Compression]bool{}
	for _, part := range strings.Split(s, ",") {
		c, err := ParseCompression(part)
		if err != nil {
			return nil, err
		}
		if c == None || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out, nil
}

// Compress 將 src 以指定格式壓縮
func Compress(src []byte, c Compression) ([]byte, error) {
	var out bytes.Buffer
	switch c {
	case None:
		return src, nil
	case Gzip:
		gw, err := gzip.NewWriterLevel(&out, gzip.BestCompression)
		if err != nil {
			return nil, errs.Wrap(err, "export: create gzip writer")
		}
		if _, err := gw.Write(src); err != nil {
			_ = gw.Close()
			return nil, errs.Wrap(err, "export: gzip write")
		}
		if err := gw.Close(); err != nil {
			return nil, errs.Wrap(err, "export: close gzip writer")
		}
	case Zstd:
		zw, err := zstd.NewWriter(&out,
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			return nil, errs.Wrap(err, "export: create zstd writer")
		}
		if _, err := zw.Write(src); err != nil {
			_ = zw.Close()
			return nil, errs.Wrap(err, "export: zstd write")
		}
		if err := zw.Close(); err != nil {
			return nil, errs.Wrap(err, "export: close zstd writer")
		}
	default:
		return nil, errs.Warnf("unknown compression %d", c)
	}
	return out.Bytes(), nil
}

// Decompress 還原 Compress 的輸出
func Decompress(r io.Reader, c Compression) ([]byte, error) {
	switch c {
	case None:
		return io.ReadAll(r)
	case Gzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, errs.Wrap(err, "export: create gzip reader")
		}
		defer gr.Close()
		return io.ReadAll(gr)
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, errs.Wrap(err, "export: create zstd reader")
		}
		defer zr.Close()
		return io.ReadAll(zr)
	}
	return nil, errs.Warnf("unknown compression %d", c)
}

// ReadFile 依副檔名判斷壓縮格式並讀回原始內容
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(err, "export: open "+path)
	}
	defer f.Close()
	c := None
	switch {
	case strings.HasSuffix(path, Gzip.Ext()):
		c = Gzip
	case strings.HasSuffix(path, Zstd.Ext()):
		c = Zstd
	}
	return Decompress(f, c)
}
