package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/weisyn/zkgeo/internal/config"
	corelog "github.com/weisyn/zkgeo/internal/core/infrastructure/log"
	"github.com/weisyn/zkgeo/internal/core/zkproof"
	configiface "github.com/weisyn/zkgeo/pkg/interfaces/config"
	"github.com/weisyn/zkgeo/pkg/types"
)

// cliRuntime 一次命令执行所需的组件
type cliRuntime struct {
	app      *fx.App
	manager  *zkproof.Manager
	registry *prometheus.Registry
}

// loadAppConfig 读取配置文件并叠加命令行标志
func loadAppConfig() (*types.AppConfig, error) {
	appConfig, err := config.LoadAppConfig(globalFlags.ConfigFile)
	if err != nil {
		return nil, err
	}

	if appConfig.Log == nil {
		appConfig.Log = &types.UserLogConfig{}
	}
	if globalFlags.LogLevel != "" {
		level := globalFlags.LogLevel
		appConfig.Log.Level = &level
	} else if appConfig.Log.Level == nil {
		level := "warn"
		appConfig.Log.Level = &level
	}
	if globalFlags.LogFile != "" {
		path := globalFlags.LogFile
		appConfig.Log.FilePath = &path
	}
	return appConfig, nil
}

// startRuntime 通过 fx 装配配置、日志和证明模块
func startRuntime(ctx context.Context) (*cliRuntime, error) {
	appConfig, err := loadAppConfig()
	if err != nil {
		return nil, err
	}

	rt := &cliRuntime{registry: prometheus.NewRegistry()}
	rt.app = fx.New(
		fx.NopLogger,
		fx.Provide(
			func() configiface.AppOptions { return config.NewAppOptions(appConfig) },
			func() prometheus.Registerer { return rt.registry },
		),
		config.Module(),
		corelog.Module(),
		zkproof.Module(),
		fx.Populate(&rt.manager),
	)
	if err := rt.app.Start(ctx); err != nil {
		return nil, fmt.Errorf("启动证明模块失败: %w", err)
	}
	return rt, nil
}

// stop 关闭组件，按需打印指标
func (rt *cliRuntime) stop(ctx context.Context) {
	if globalFlags.Metrics {
		if err := printer.PrintMetrics(rt.registry); err != nil {
			printer.Warn(fmt.Sprintf("读取指标失败: %v", err))
		}
	}
	_ = rt.app.Stop(context.WithoutCancel(ctx))
	_ = corelog.GetLogger().Sync()
}
