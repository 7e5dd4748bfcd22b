package config

import (
	"encoding/json"
	"fmt"
	"os"

	logconfig "github.com/weisyn/zkgeo/internal/config/log"
	zkproofconfig "github.com/weisyn/zkgeo/internal/config/zkproof"
	"github.com/weisyn/zkgeo/pkg/interfaces/config"
	"github.com/weisyn/zkgeo/pkg/types"
)

// Provider 实现配置提供者接口
type Provider struct {
	appConfig *types.AppConfig
}

// NewProvider 创建配置提供者，appConfig 为 nil 时全部使用默认值
func NewProvider(appConfig *types.AppConfig) config.Provider {
	return &Provider{
		appConfig: appConfig,
	}
}

// GetLog 获取日志配置
func (p *Provider) GetLog() *logconfig.LogOptions {
	var userLogConfig *types.UserLogConfig
	if p.appConfig != nil {
		userLogConfig = p.appConfig.Log
	}
	return logconfig.New(userLogConfig).GetOptions()
}

// GetZKProof 获取证明流水线配置
func (p *Provider) GetZKProof() *zkproofconfig.Config {
	var userProofConfig *types.UserZKProofConfig
	if p.appConfig != nil {
		userProofConfig = p.appConfig.ZKProof
	}
	return zkproofconfig.New(userProofConfig)
}

// staticAppOptions 包装已解析的应用配置
type staticAppOptions struct {
	appConfig *types.AppConfig
}

func (o *staticAppOptions) GetAppConfig() *types.AppConfig {
	return o.appConfig
}

// NewAppOptions 包装应用配置，供 fx 注入
func NewAppOptions(appConfig *types.AppConfig) config.AppOptions {
	return &staticAppOptions{appConfig: appConfig}
}

// LoadAppConfig 从 JSON 文件加载应用配置，path 为空时返回空配置
func LoadAppConfig(path string) (*types.AppConfig, error) {
	if path == "" {
		return &types.AppConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	appConfig, err := ParseAppConfig(data)
	if err != nil {
		return nil, fmt.Errorf("解析配置文件失败 %s: %w", path, err)
	}
	return appConfig, nil
}

// ParseAppConfig 解析 JSON 格式的应用配置
func ParseAppConfig(data []byte) (*types.AppConfig, error) {
	var appConfig types.AppConfig
	if err := json.Unmarshal(data, &appConfig); err != nil {
		return nil, err
	}
	return &appConfig, nil
}
