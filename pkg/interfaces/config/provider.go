// Package config provides configuration provider interfaces.
package config

import (
	logconfig "github.com/weisyn/zkgeo/internal/config/log"
	zkproofconfig "github.com/weisyn/zkgeo/internal/config/zkproof"
	"github.com/weisyn/zkgeo/pkg/types"
)

// AppOptions 应用配置选项接口
type AppOptions interface {
	// GetAppConfig 获取应用配置
	GetAppConfig() *types.AppConfig
}

// Provider 配置提供者接口
type Provider interface {
	// GetLog 获取日志配置
	GetLog() *logconfig.LogOptions

	// GetZKProof 获取证明流水线配置
	GetZKProof() *zkproofconfig.Config
}
