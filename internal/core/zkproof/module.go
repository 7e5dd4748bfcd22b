package zkproof

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	zkproofconfig "github.com/weisyn/zkgeo/internal/config/zkproof"
	corelog "github.com/weisyn/zkgeo/internal/core/infrastructure/log"
	"github.com/weisyn/zkgeo/internal/core/zkproof/input"
	"github.com/weisyn/zkgeo/pkg/interfaces/infrastructure/log"
)

// ModuleParams 定义证明模块的依赖参数
type ModuleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Logger     log.Logger
	Config     *zkproofconfig.Config
	Registerer prometheus.Registerer `optional:"true"`
	Random     input.RandomSource    `optional:"true"`
}

// ModuleOutput 定义证明模块的输出结构
type ModuleOutput struct {
	fx.Out

	Manager *Manager
	Loader  *CircuitLoader
	Builder *input.Builder
}

// Module 返回证明模块
func Module() fx.Option {
	return fx.Module("zkproof",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 创建证明管理器并注册关闭钩子
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	logger := corelog.NewModuleLogger(params.Logger, "zkproof")

	manager, err := NewManager(logger, params.Config, params.Registerer, params.Random)
	if err != nil {
		return ModuleOutput{}, err
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return manager.Close()
		},
	})

	return ModuleOutput{
		Manager: manager,
		Loader:  manager.Loader(),
		Builder: manager.Builder(),
	}, nil
}
