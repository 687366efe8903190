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
	"os"
	"path/filepath"

	"github.com/stardak/neon-vault/errs"
)

// WriteFileAtomic 先寫入同目錄的暫存檔，fsync 後再 rename 到 path。
// 任何一步失敗都會刪除暫存檔，path 不會出現寫到一半的內容。
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return errs.Wrap(err, "export: create temp file for "+base)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return errs.Wrap(err, "export: write "+base)
	}
	if err = f.Sync(); err != nil {
		return errs.Wrap(err, "export: sync "+base)
	}
	if err = f.Close(); err != nil {
		return errs.Wrap(err, "export: close "+base)
	}
	if err = os.Chmod(tmp, perm); err != nil {
		return errs.Wrap(err, "export: chmod "+base)
	}
	if err = os.Rename(tmp, path); err != nil {
		return errs.Wrap(err, "export: rename "+base)
	}
	return nil
}
