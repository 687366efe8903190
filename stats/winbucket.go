package stats

import "sort"

// WinBands 贏倍區間：[0,0], (0,1), [1,2), [2,5), ..., [2000,10000), [10000, +inf)
//
// 請勿修改預設值，報表與歷史紀錄依賴相同的區間定義。
type WinBands struct {
	edges []float64
	names []string
}

// Bands 預設贏倍區間
var Bands = &WinBands{
	edges: []float64{1, 2, 5, 10, 20, 50, 100, 300, 500, 1000, 2000, 10000},
	names: []string{"[0,0]", "(0,1)", "[1,2)", "[2,5)", "[5,10)", "[10,20)", "[20,50)", "[50,100)", "[100,300)", "[300,500)", "[500,1000)", "[1000,2000)", "[2000,10000)", "[10000,+inf)"},
}

// Names 回傳區間名稱
func (b *WinBands) Names() []string {
	return b.names
}

// Len 回傳區間數量
func (b *WinBands) Len() int { return len(b.names) }

// Index 回傳贏倍所在區間；0 與負值都落在 [0,0]
func (b *WinBands) Index(mult float64) int {
	if mult <= 0 {
		return 0
	}
	return 1 + sort.Search(len(b.edges), func(i int) bool { return b.edges[i] > mult })
}
