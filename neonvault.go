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

// Package neonvault 是拉霸結果模型引擎的組裝入口。
//
// Lab 把遊戲目錄（catalog，來源一律以 fs.FS 注入）與亂數核心工廠組在一起，
// 依遊戲 ID 建立 Machine 或 Sampler。單款遊戲也可以直接用 NewSampler / Sample。
//
// 典型用法：
//
//	lab, _ := neonvault.New(neonvault.Configs(demo_configs.FS))
//	s, _ := lab.NewSampler(1001, 42)
//	table, used, _ := s.SampleMP(recorder.ModeBase, 2_000_000, 8)
package neonvault

import (
	"io/fs"

	"github.com/stardak/neon-vault/catalog"
	"github.com/stardak/neon-vault/errs"
	"github.com/stardak/neon-vault/sdk/core"
	"github.com/stardak/neon-vault/spec"
)

// Configs 把一或多個設定檔來源打包成 New() 需要的參數
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Lab 持有一份凍結的遊戲目錄與 PRNG 工廠
type Lab struct {
	cat *catalog.Catalog
	cf  core.PRNGFactory
	sum []catalog.Summary
}

// New 掃描所有來源並註冊其中的遊戲定義，任何一份定義無效都會直接失敗
func New(cfgs []fs.FS) (*Lab, error) {
	return NewWithPRNG(core.Default(), cfgs)
}

// NewWithPRNG 同 New，由呼叫端指定 PRNG 工廠
func NewWithPRNG(cf core.PRNGFactory, cfgs []fs.FS) (*Lab, error) {
	if cf == nil {
		return nil, errs.NewFatal("prng factory required")
	}
	if len(cfgs) == 0 {
		return nil, errs.NewFatal("configs required")
	}
	cat, err := catalog.New(cfgs...)
	if err != nil {
		return nil, err
	}
	if err := cat.RegisterAll(); err != nil {
		return nil, err
	}
	cat.Freeze()
	return &Lab{cat: cat, cf: cf}, nil
}

func (l *Lab) IDs() []uint {
	return l.cat.IDs()
}

func (l *Lab) EntryByID(id uint) (catalog.Entry, bool) {
	return l.cat.GetByID(id)
}

func (l *Lab) EntryByName(name string) (catalog.Entry, bool) {
	return l.cat.GetByName(name)
}

// Summary 回傳目錄摘要（結果會快取）
func (l *Lab) Summary() ([]catalog.Summary, error) {
	if l.sum != nil {
		return l.sum, nil
	}
	s, err := l.cat.Summaries()
	if err != nil {
		return nil, err
	}
	l.sum = s
	return s, nil
}

// Def 回傳一份新的遊戲定義，呼叫端可以自由修改
func (l *Lab) Def(id uint) (*spec.GameDef, error) {
	return l.cat.DefByID(id)
}

// DefByName 以遊戲名稱取回定義
func (l *Lab) DefByName(name string) (*spec.GameDef, error) {
	return l.cat.DefByName(name)
}

// NewMachine 依遊戲 ID 建立一台指定種子的 Machine
func (l *Lab) NewMachine(id uint, seed int64) (*Machine, error) {
	gd, err := l.cat.DefByID(id)
	if err != nil {
		return nil, err
	}
	return newMachineWithSeed(gd, l.cf, seed)
}

// NewSampler 依遊戲 ID 建立 Sampler
func (l *Lab) NewSampler(id uint, seed int64, opts ...SamplerOption) (*Sampler, error) {
	gd, err := l.cat.DefByID(id)
	if err != nil {
		return nil, err
	}
	opts = append([]SamplerOption{WithPRNG(l.cf)}, opts...)
	return NewSampler(gd, seed, opts...)
}

// NewReplayer 依遊戲 ID 建立單線重播器
func (l *Lab) NewReplayer(id uint, seed int64) (*Replayer, error) {
	m, err := l.NewMachine(id, seed)
	if err != nil {
		return nil, err
	}
	return &Replayer{m: m}, nil
}
