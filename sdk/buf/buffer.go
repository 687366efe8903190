// Package buf 保存單次 spin 與免費遊戲 session 的結果，熱路徑上重複使用同一份記憶體。
package buf

const capLineWinGrow int = 8

// LineWin 單條線的中獎紀錄
type LineWin struct {
	LineID int     // 線號，從 1 開始
	Symbol int16   // 計分圖標 index（全 wild 時為 wild）
	Count  int     // 連線長度
	Payout float64 // 相對單線押注的倍數
}

// SpinResult 保存一次 spin 的完整結果。
//
// Grid 為列優先：Grid[row*reels+reel]。
// Payout = LinePayout + ScatterPayout，皆為相對總押注；FreeSpins 另外回報，不計入 Payout。
type SpinResult struct {
	Stops         []int
	Grid          []int16
	LineWins      []LineWin
	LineSum       float64 // 線獎加總（單線押注）
	LinePayout    float64 // LineSum / 線數
	ScatterCount  int
	ScatterPayout float64
	FreeSpins     int
	Payout        float64
}

// NewSpinResult 依盤面大小預先配置緩衝
func NewSpinResult(reels, rows int) *SpinResult {
	return &SpinResult{
		Stops:    make([]int, reels),
		Grid:     make([]int16, reels*rows),
		LineWins: make([]LineWin, 0, capLineWinGrow),
	}
}

// Reset 重置累積資料，保留已配置的內部切片容量。
func (s *SpinResult) Reset() {
	s.LineWins = s.LineWins[:0]
	s.LineSum = 0
	s.LinePayout = 0
	s.ScatterCount = 0
	s.ScatterPayout = 0
	s.FreeSpins = 0
	s.Payout = 0
}

// AppendLineWin 紀錄一條中獎線
func (s *SpinResult) AppendLineWin(w LineWin) {
	s.LineWins = append(s.LineWins, w)
	s.LineSum += w.Payout
}

// CopyFrom 將 src 深拷貝到 s，盡量沿用 s 既有的切片
func (s *SpinResult) CopyFrom(src *SpinResult) {
	s.Stops = append(s.Stops[:0], src.Stops...)
	s.Grid = append(s.Grid[:0], src.Grid...)
	s.LineWins = append(s.LineWins[:0], src.LineWins...)
	s.LineSum = src.LineSum
	s.LinePayout = src.LinePayout
	s.ScatterCount = src.ScatterCount
	s.ScatterPayout = src.ScatterPayout
	s.FreeSpins = src.FreeSpins
	s.Payout = src.Payout
}

// Clone 回傳不共用記憶體的副本
func (s *SpinResult) Clone() SpinResult {
	var c SpinResult
	c.CopyFrom(s)
	return c
}

// SessionResult 一場免費遊戲的結果。
//
// Payout 只累加每一轉的線獎乘上免費遊戲倍數；分散獎與再觸發不計入。
// Preview 保存前幾轉的完整結果供前端預覽。
type SessionResult struct {
	Spins   int
	Payout  float64
	Preview []SpinResult

	previewCap int
	played     int
}

// NewSessionResult 建立 session 緩衝，previewCap 為預覽保留的轉數
func NewSessionResult(previewCap int) *SessionResult {
	return &SessionResult{
		Preview:    make([]SpinResult, 0, previewCap),
		previewCap: previewCap,
	}
}

// Reset 開始新的一場 session
func (s *SessionResult) Reset(spins int) {
	s.Spins = spins
	s.Payout = 0
	s.Preview = s.Preview[:0]
	s.played = 0
}

// AddSpin 累加一轉的加成後贏分，前 previewCap 轉會被複製到 Preview
func (s *SessionResult) AddSpin(sr *SpinResult, boosted float64) {
	s.Payout += boosted
	if s.played < s.previewCap {
		n := len(s.Preview)
		if n < cap(s.Preview) {
			s.Preview = s.Preview[:n+1]
		} else {
			s.Preview = append(s.Preview, SpinResult{})
		}
		s.Preview[n].CopyFrom(sr)
	}
	s.played++
}

// Played 回傳已完成的轉數
func (s *SessionResult) Played() int { return s.played }
