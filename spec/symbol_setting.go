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

package spec

import (
	"fmt"
	"math"

	"github.com/stardak/neon-vault/errs"
)

// Role 定義圖標在計分上的角色
type Role int

const (
	RolePaying Role = iota
	RoleWild
	RoleScatter
)

var roleMap = map[string]Role{
	"paying":  RolePaying,
	"wild":    RoleWild,
	"scatter": RoleScatter,
}

// ParseRole 將設定檔字串轉為 Role
func ParseRole(s string) (Role, bool) {
	r, ok := roleMap[s]
	return r, ok
}

func (r Role) String() string {
	switch r {
	case RoleWild:
		return "wild"
	case RoleScatter:
		return "scatter"
	default:
		return "paying"
	}
}

// Symbol 描述一個圖標。
//
// Tier（high / low）只是企劃分級，計分時不使用；調校器以它推導預設的高低分圖標集合。
type Symbol struct {
	ID      string `yaml:"id"             json:"id"`
	Name    string `yaml:"name"           json:"name"`
	RoleStr string `yaml:"role"           json:"role"`
	Tier    string `yaml:"tier,omitempty" json:"tier,omitempty"`
	Role    Role   `yaml:"-"              json:"-"`
}

// NoSymbol 代表設定中沒有對應的 wild / scatter
const NoSymbol int16 = -1

// initSymbols 解析角色並建立 id -> index 對照表
func (gd *GameDef) initSymbols() error {
	if len(gd.Symbols) == 0 {
		return errs.Configf("symbols", "symbol table is empty")
	}
	if len(gd.Symbols) > math.MaxInt16 {
		return errs.Configf("symbols", "too many symbols: %d", len(gd.Symbols))
	}
	gd.SymbolIndex = make(map[string]int16, len(gd.Symbols))
	gd.WildID, gd.ScatterID = NoSymbol, NoSymbol
	for i := range gd.Symbols {
		s := &gd.Symbols[i]
		where := fmt.Sprintf("symbols[%d]", i)
		if s.ID == "" {
			return errs.Configf(where, "empty symbol id")
		}
		where = "symbol " + s.ID
		if _, dup := gd.SymbolIndex[s.ID]; dup {
			return errs.Configf(where, "duplicate symbol id")
		}
		role, ok := ParseRole(s.RoleStr)
		if !ok {
			return errs.Configf(where, "unknown role %q", s.RoleStr)
		}
		s.Role = role
		id := int16(i)
		switch role {
		case RoleWild:
			if gd.WildID != NoSymbol {
				return errs.Configf(where, "second wild symbol, %s is already wild", gd.Symbols[gd.WildID].ID)
			}
			gd.WildID = id
		case RoleScatter:
			if gd.ScatterID != NoSymbol {
				return errs.Configf(where, "second scatter symbol, %s is already scatter", gd.Symbols[gd.ScatterID].ID)
			}
			gd.ScatterID = id
		}
		gd.SymbolIndex[s.ID] = id
	}
	return nil
}

// lookupSymbol 回傳 id 對應的 index
func (gd *GameDef) lookupSymbol(where, id string) (int16, error) {
	idx, ok := gd.SymbolIndex[id]
	if !ok {
		return NoSymbol, errs.Configf(where, "unknown symbol %q", id)
	}
	return idx, nil
}
