package spec

import (
	"bytes"
	"errors"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/stardak/neon-vault/errs"
	"gopkg.in/yaml.v3"
)

// strictJSON 拒絕未知欄位，行為與 YAML 的 KnownFields 一致
var strictJSON = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	DisallowUnknownFields:  true,
}.Froze()

// GetGameDefByYAML
// 會讀取 YAML 設定、初始化各子設定並執行基本檢查後回傳。
func GetGameDefByYAML(data []byte) (*GameDef, error) {
	gd := &GameDef{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // 多寫/拼錯欄位就報錯
	if err := dec.Decode(gd); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errs.NewFatal("empty yaml document")
		}
		return nil, errs.Wrap(err, "failed to unmarshal yaml")
	}

	if err := gd.Init(); err != nil {
		return nil, errs.Wrap(err, "game definition "+gd.GameName)
	}
	return gd, nil
}

// GetGameDefByJSON
// 會讀取 JSON 設定、初始化各子設定並執行基本檢查後回傳
func GetGameDefByJSON(data []byte) (*GameDef, error) {
	gd := &GameDef{}
	if err := strictJSON.Unmarshal(data, gd); err != nil {
		return nil, errs.Wrap(err, "can not unmarshal json byte")
	}

	if err := gd.Init(); err != nil {
		return nil, errs.Wrap(err, "game definition "+gd.GameName)
	}
	return gd, nil
}

// EncodeYAML 將定義輸出為可再次載入的 YAML（調校後的輪帶使用）
func (gd *GameDef) EncodeYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(gd); err != nil {
		return nil, errs.Wrap(err, "failed to marshal yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, errs.Wrap(err, "failed to marshal yaml")
	}
	return buf.Bytes(), nil
}
