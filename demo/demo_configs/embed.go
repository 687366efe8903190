package demo_configs

import (
	"embed"
)

// FS 內嵌的示範遊戲定義（平面目錄，一款遊戲一個 YAML）。
//
//go:embed *.yaml
var FS embed.FS
