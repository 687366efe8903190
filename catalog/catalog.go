// Package catalog 管理一組遊戲定義檔：以 fs.FS 注入來源，用遊戲 ID 或名稱取回已驗證的 GameDef。
package catalog

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stardak/neon-vault/errs"
	"github.com/stardak/neon-vault/spec"
)

var (
	ErrDupID   = errs.NewFatal("duplicate game id")
	ErrDupName = errs.NewFatal("duplicate game name")
)

type Entry struct {
	GID        uint
	Name       string
	ConfigName string
}

type Summary struct {
	GID         uint    `json:"gid"`
	Name        string  `json:"name"`
	Reels       int     `json:"reels"`
	Rows        int     `json:"rows"`
	Lines       int     `json:"lines"`
	FreeSpins   bool    `json:"free_spins"`
	TargetRatio float64 `json:"target_ratio"`
}

type Catalog struct {
	byID   map[uint]Entry
	byName map[string]Entry
	ids    []uint              // 用來穩定排序
	unique map[string]struct{} // 一組遊戲，檔名需唯一
	config *multiFS
	frozen bool
}

func New(cfg ...fs.FS) (*Catalog, error) {
	multFS, err := newMultiFS(cfg...)
	if err != nil {
		return nil, errs.Wrap(err, "can not create catalog")
	}
	return &Catalog{
		byID:   map[uint]Entry{},
		byName: map[string]Entry{},
		ids:    make([]uint, 0, 16),
		unique: map[string]struct{}{},
		config: multFS,
	}, nil
}

func (c *Catalog) Register(metas ...Entry) error {
	if c.frozen {
		return errs.NewWarn("can not register when catalog already frozen")
	}
	seenID := map[uint]struct{}{}
	seenName := map[string]struct{}{}
	seenCfg := map[string]struct{}{}
	for i := range metas {
		meta := &metas[i]
		meta.Name = strings.ToLower(strings.TrimSpace(meta.Name))
		if meta.Name == "" {
			return errs.NewFatal("game name required")
		}
		if err := validFileName(meta.ConfigName); err != nil {
			return err
		}
		if _, ok := c.config.index[meta.ConfigName]; !ok {
			return errs.NewFatal(fmt.Sprintf("config file not found: %s", meta.ConfigName))
		}
		if _, ok := c.byID[meta.GID]; ok {
			return ErrDupID
		}
		if _, ok := c.byName[meta.Name]; ok {
			return ErrDupName
		}
		if _, ok := c.unique[meta.ConfigName]; ok {
			return errs.NewFatal(fmt.Sprintf("duplicate config name: %s", meta.ConfigName))
		}
		if _, ok := seenID[meta.GID]; ok {
			return ErrDupID
		}
		if _, ok := seenName[meta.Name]; ok {
			return ErrDupName
		}
		if _, ok := seenCfg[meta.ConfigName]; ok {
			return errs.NewFatal(fmt.Sprintf("duplicate config name: %s", meta.ConfigName))
		}
		seenID[meta.GID] = struct{}{}
		seenName[meta.Name] = struct{}{}
		seenCfg[meta.ConfigName] = struct{}{}
	}
	for _, meta := range metas {
		c.unique[meta.ConfigName] = struct{}{}
		c.byID[meta.GID] = meta
		c.byName[meta.Name] = meta
		c.ids = append(c.ids, meta.GID)
	}
	sort.Slice(c.ids, func(i, j int) bool { return c.ids[i] < c.ids[j] })
	return nil
}

// RegisterAll 掃描所有來源的 .yaml/.yml/.json，解析後以定義內的 game_id / game_name 註冊。
//
//  1. Fail-fast：任一檔案讀取、解析或驗證失敗都立刻回傳（錯誤會帶檔名）。
//  2. 原子性：全部成功才一次性 Register，不會留下註冊一半的目錄。
//  3. 依檔名排序處理，錯誤訊息穩定可重現。
func (c *Catalog) RegisterAll() error {
	names := make([]string, 0, len(c.config.index))
	for name := range c.config.index {
		names = append(names, name)
	}
	if len(names) == 0 {
		return errs.NewFatal("no config files found to register")
	}
	sort.Strings(names)

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		gd, err := c.load(name)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{GID: gd.GameID, Name: gd.GameName, ConfigName: name})
	}
	return c.Register(entries...)
}

func (c *Catalog) GetByID(id uint) (Entry, bool) {
	m, ok := c.byID[id]
	return m, ok
}

func (c *Catalog) GetByName(name string) (Entry, bool) {
	m, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

func (c *Catalog) IDs() []uint {
	if len(c.ids) == 0 {
		return nil
	}
	return append([]uint(nil), c.ids...)
}

func (c *Catalog) All() []Entry {
	m := make([]Entry, 0, len(c.ids))
	for _, id := range c.ids {
		m = append(m, c.byID[id])
	}
	return m
}

func (c *Catalog) Freeze() {
	c.frozen = true
}

func (c *Catalog) IsFrozen() bool {
	return c.frozen
}

// DefByID 每次呼叫都重新讀檔解析，回傳的 GameDef 由呼叫端獨佔
func (c *Catalog) DefByID(id uint) (*spec.GameDef, error) {
	e, ok := c.GetByID(id)
	if !ok {
		return nil, errs.Warnf("game id %d dose not exist in catalog", id)
	}
	return c.load(e.ConfigName)
}

// DefByName 同 DefByID，以遊戲名稱查詢（不分大小寫）
func (c *Catalog) DefByName(name string) (*spec.GameDef, error) {
	e, ok := c.GetByName(name)
	if !ok {
		return nil, errs.Warnf("game %q dose not exist in catalog", name)
	}
	return c.load(e.ConfigName)
}

// Summaries 依遊戲 ID 排序回傳所有遊戲的摘要
func (c *Catalog) Summaries() ([]Summary, error) {
	out := make([]Summary, 0, len(c.ids))
	for _, id := range c.ids {
		gd, err := c.DefByID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, Summary{
			GID:         id,
			Name:        gd.GameName,
			Reels:       gd.ReelCount(),
			Rows:        gd.Rows,
			Lines:       gd.LineCount(),
			FreeSpins:   gd.FreeSpins.HasFreeSpins(),
			TargetRatio: gd.TargetRatio,
		})
	}
	return out, nil
}

func (c *Catalog) load(name string) (*spec.GameDef, error) {
	src, ok := c.config.GetFS(name)
	if !ok {
		return nil, errs.Warnf("config %s dose not exist in catalog", name)
	}
	raw, err := fs.ReadFile(src, name)
	if err != nil {
		return nil, errs.Wrap(err, "catalog read file error")
	}
	gd, err := parseGameDefByExt(name, raw)
	if err != nil {
		return nil, errs.WrapWithExtra(err, "parse game definition failed", name)
	}
	if strings.TrimSpace(gd.GameName) == "" {
		return nil, errs.NewFatal(fmt.Sprintf("game name required: %s", name))
	}
	return gd, nil
}

func validFileName(file string) error {
	if file == "" {
		return errs.NewFatal("empty config filename")
	}
	// 1) 不能包含路徑或類似字元
	if strings.ContainsAny(file, `/\:`) {
		return errs.NewFatal(fmt.Sprintf("invalid config filename: %q (must be a basename; no / \\ :) ", file))
	}
	// 2) 必須以 .yaml/.yml/.json 結尾（大小寫不敏感）
	if !isConfigFile(file) {
		return errs.NewFatal(fmt.Sprintf("invalid config filename: %q (must end with .yaml, .yml, or .json)", file))
	}
	// 3) 不能以 . 開頭
	if strings.HasPrefix(file, ".") {
		return errs.NewFatal(fmt.Sprintf("invalid config filename: %q (cannot start with '.')", file))
	}
	return nil
}

func isConfigFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func parseGameDefByExt(filename string, raw []byte) (*spec.GameDef, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return spec.GetGameDefByYAML(raw)
	case ".json":
		return spec.GetGameDefByJSON(raw)
	default:
		return nil, errs.NewFatal(fmt.Sprintf("unsupported config format: %q", filename))
	}
}

type multiFS struct {
	src   []fs.FS
	index map[string]int // name -> src index
}

func newMultiFS(src ...fs.FS) (*multiFS, error) {
	if len(src) == 0 {
		return nil, errs.NewFatal("no fs provided")
	}
	for i, s := range src {
		if s == nil {
			return nil, errs.NewFatal(fmt.Sprintf("fs[%d] is nil", i))
		}
	}
	m := &multiFS{
		src:   src,
		index: make(map[string]int, 16),
	}
	for i := range src {
		err := fs.WalkDir(src[i], ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				// 設定目錄必須是平的，只允許根目錄
				if path == "." {
					return nil
				}
				return errs.NewFatal(fmt.Sprintf("config FS must be flat (no subdirectories): %q", path))
			}
			if strings.HasPrefix(path, ".") || !isConfigFile(path) {
				return nil
			}
			if prev, ok := m.index[path]; ok {
				return errs.NewFatal(fmt.Sprintf("duplicate config %q in fs[%d] and fs[%d]", path, prev, i))
			}
			m.index[path] = i
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *multiFS) GetFS(name string) (fs.FS, bool) {
	if id, ok := m.index[name]; ok {
		return m.src[id], ok
	}
	return nil, false
}
