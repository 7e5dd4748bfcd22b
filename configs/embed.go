// Package configs 嵌入的配置模板
package configs

import _ "embed"

// 默认配置模板，字段取值与 internal/config/*/defaults.go 一致
//
//go:embed zkgeo.json
var templateConfig []byte

// GetTemplateConfig 获取配置模板
func GetTemplateConfig() []byte {
	out := make([]byte, len(templateConfig))
	copy(out, templateConfig)
	return out
}
