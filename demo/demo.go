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

// Package demo 提供內嵌的示範遊戲（jewel_rush、golden_reef）。
package demo

import (
	neonvault "github.com/stardak/neon-vault"
	"github.com/stardak/neon-vault/catalog"
	"github.com/stardak/neon-vault/demo/demo_configs"
	"github.com/stardak/neon-vault/errs"
)

const (
	JewelRush  uint = 1001
	GoldenReef uint = 1002
)

// New 回傳只含示範遊戲、已註冊完畢的目錄
func New() (*catalog.Catalog, error) {
	cat, err := catalog.New(demo_configs.FS)
	if err != nil {
		return nil, err
	}
	if err := cat.RegisterAll(); err != nil {
		return nil, err
	}
	cat.Freeze()
	return cat, nil
}

// NewLab 以示範遊戲組裝 Lab
func NewLab() (*neonvault.Lab, error) {
	lab, err := neonvault.New(neonvault.Configs(demo_configs.FS))
	if err != nil {
		return nil, errs.Wrap(err, "new lab failed")
	}
	return lab, nil
}
