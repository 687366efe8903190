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

// Package export 將結果表與遊戲設定輸出為前端與上架使用的檔案。
//
// 每個檔案都以原子方式寫入（暫存檔 + fsync + rename），並可額外輸出 gzip / zstd 壓縮版本。
package export

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/stardak/neon-vault/errs"
	"github.com/stardak/neon-vault/logger"
	"github.com/stardak/neon-vault/recorder"
	"github.com/stardak/neon-vault/spec"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	GameConfigFile = "game_config.json"
	ManifestFile   = "manifest.json"
)

// FileInfo 已輸出檔案的摘要
type FileInfo struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
}

// ModeInfo 單一模式的抽樣摘要
type ModeInfo struct {
	Mode     string `json:"mode"`
	Seed     int64  `json:"seed"`
	Trials   int64  `json:"trials"`
	Buckets  int    `json:"buckets"`
	Ratio    string `json:"ratio"`
	Triggers int64  `json:"triggers"`
}

// Manifest 一次輸出的清單
type Manifest struct {
	RunID     string     `json:"run_id"`
	CreatedAt time.Time  `json:"created_at"`
	GameName  string     `json:"game_name"`
	GameID    uint       `json:"game_id"`
	Modes     []ModeInfo `json:"modes"`
	Files     []FileInfo `json:"files"`
}

// Exporter 將檔案輸出到同一個目錄，並記錄每個檔案的大小與雜湊
type Exporter struct {
	dir   string
	comps []Compression
	runID uuid.UUID
	log   *slog.Logger

	mu    sync.Mutex
	files []FileInfo
}

type Option func(*Exporter)

func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) { e.log = logger.OrSilent(l) }
}

// WithCompression 除了原始檔，額外輸出這些壓縮版本
func WithCompression(cs ...Compression) Option {
	return func(e *Exporter) {
		e.comps = e.comps[:0]
		for _, c := range cs {
			if c != None {
				e.comps = append(e.comps, c)
			}
		}
	}
}

// WithRunID 指定 manifest 的 run id，預設隨機產生
func WithRunID(id uuid.UUID) Option {
	return func(e *Exporter) { e.runID = id }
}

// New 建立輸出目錄並回傳 Exporter
func New(dir string, opts ...Option) (*Exporter, error) {
	if dir == "" {
		return nil, errs.NewWarn("export: output dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(err, "export: mkdir "+dir)
	}
	e := &Exporter{
		dir:   dir,
		comps: []Compression{Gzip},
		runID: uuid.New(),
		log:   logger.Silent(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Exporter) Dir() string { return e.dir }
func (e *Exporter) RunID() uuid.UUID { return e.runID }

// Files 回傳目前為止輸出的檔案（依輸出順序）
func (e *Exporter) Files() []FileInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]FileInfo(nil), e.files...)
}

// OutcomeFile 結果表 CSV 的檔名
func OutcomeFile(mode recorder.Mode) string {
	if mode == recorder.ModeFreeSpins {
		return "free_spins.csv"
	}
	return "base_game.csv"
}

// EventsFile 事件 JSON 的檔名
func EventsFile(mode recorder.Mode) string {
	if mode == recorder.ModeFreeSpins {
		return "free_spins_game_events.json"
	}
	return "base_game_events.json"
}

// Outcomes 輸出結果表 CSV（含壓縮版本）
func (e *Exporter) Outcomes(tb *recorder.Table) error {
	if tb == nil {
		return errs.NewWarn("export: outcome table is nil")
	}
	return e.emit(OutcomeFile(tb.Mode), true, func(w io.Writer) error { return WriteOutcomeCSV(w, tb) })
}

// Events 輸出事件 JSON（含壓縮版本）
func (e *Exporter) Events(tb *recorder.Table, def *spec.GameDef) error {
	if tb == nil {
		return errs.NewWarn("export: outcome table is nil")
	}
	return e.emit(EventsFile(tb.Mode), true, func(w io.Writer) error { return WriteEvents(w, tb, def) })
}

// GameConfig 輸出遊戲設定 JSON（不壓縮）
func (e *Exporter) GameConfig(def *spec.GameDef) error {
	return e.emit(GameConfigFile, false, func(w io.Writer) error { return WriteGameConfig(w, def) })
}

// Manifest 寫出 manifest.json，列出之前輸出的所有檔案
func (e *Exporter) Manifest(def *spec.GameDef, tables ...*recorder.Table) (*Manifest, error) {
	if def == nil {
		return nil, errs.NewWarn("export: game definition is nil")
	}
	m := &Manifest{
		RunID:     e.runID.String(),
		CreatedAt: time.Now().UTC(),
		GameName:  def.GameName,
		GameID:    def.GameID,
		Files:     e.Files(),
	}
	for _, tb := range tables {
		if tb == nil {
			continue
		}
		m.Modes = append(m.Modes, ModeInfo{
			Mode:     tb.Mode.String(),
			Seed:     tb.Seed,
			Trials:   tb.Trials,
			Buckets:  len(tb.Buckets),
			Ratio:    tb.Ratio().StringFixed(6),
			Triggers: tb.Triggers,
		})
	}
	bs, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errs.Wrap(err, "export: encode manifest")
	}
	if err := WriteFileAtomic(filepath.Join(e.dir, ManifestFile), bs, 0o644); err != nil {
		return nil, err
	}
	e.log.Info("manifest written", slog.String("run_id", m.RunID), slog.Int("files", len(m.Files)))
	return m, nil
}

// WriteAll 依序輸出每個結果表的 CSV 與事件、遊戲設定，最後寫 manifest
func (e *Exporter) WriteAll(def *spec.GameDef, tables ...*recorder.Table) (*Manifest, error) {
	for _, tb := range tables {
		if tb == nil {
			continue
		}
		if err := e.Outcomes(tb); err != nil {
			return nil, err
		}
		if err := e.Events(tb, def); err != nil {
			return nil, err
		}
	}
	if err := e.GameConfig(def); err != nil {
		return nil, err
	}
	return e.Manifest(def, tables...)
}

// emit 先在記憶體中完成編碼，再原子寫入原始檔與各壓縮版本
func (e *Exporter) emit(name string, compress bool, render func(io.Writer) error) error {
	var raw bytes.Buffer
	if err := render(&raw); err != nil {
		return err
	}
	if err := e.put(name, raw.Bytes()); err != nil {
		return err
	}
	if !compress {
		return nil
	}
	for _, c := range e.comps {
		bs, err := Compress(raw.Bytes(), c)
		if err != nil {
			return err
		}
		if err := e.put(name+c.Ext(), bs); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) put(name string, data []byte) error {
	if err := WriteFileAtomic(filepath.Join(e.dir, name), data, 0o644); err != nil {
		return err
	}
	sum := sha256.Sum256(data)
	fi := FileInfo{Name: name, Size: int64(len(data)), SHA256: hex.EncodeToString(sum[:])}
	e.mu.Lock()
	e.files = append(e.files, fi)
	e.mu.Unlock()
	e.log.Info("exported", slog.String("file", name), slog.Int64("bytes", fi.Size))
	return nil
}
