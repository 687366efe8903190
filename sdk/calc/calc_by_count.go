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

package calc

import "github.com/stardak/neon-vault/sdk/buf"

// calcScatter 全盤計數分散圖標，分散獎與免費遊戲次數都只做精確查表。
func (e *Evaluator) calcScatter(sr *buf.SpinResult) {
	if e.scatter < 0 {
		return
	}
	n := 0
	for _, s := range sr.Grid {
		if s == e.scatter {
			n++
		}
	}
	sr.ScatterCount = n
	if n < len(e.scPays) {
		sr.ScatterPayout = e.scPays[n]
	}
	if n < len(e.awards) {
		sr.FreeSpins = e.awards[n]
	}
}
