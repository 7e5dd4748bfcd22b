package zkproof

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	zkproofconfig "github.com/weisyn/zkgeo/internal/config/zkproof"
	"github.com/weisyn/zkgeo/internal/core/zkproof/commitment"
	"github.com/weisyn/zkgeo/internal/core/zkproof/input"
	"github.com/weisyn/zkgeo/pkg/interfaces/infrastructure/log"
)

// Manager 零知识证明管理器
//
// 薄实现：只负责组装子组件，业务逻辑委托给会话、加载器和可信设置管理器。
type Manager struct {
	// ==================== 基础设施服务 ====================
	logger log.Logger
	config *zkproofconfig.Config

	// ==================== 子组件 ====================
	schemes  *ProvingSchemeRegistry
	loader   *CircuitLoader
	circuits *CircuitManager
	registry *KeyRegistry
	metrics  *Metrics
	builder  *input.Builder
	random   input.RandomSource
}

// NewManager 创建零知识证明管理器
//
// registerer 为 nil 时不导出指标。
func NewManager(
	logger log.Logger,
	config *zkproofconfig.Config,
	registerer prometheus.Registerer,
	random input.RandomSource,
) (*Manager, error) {
	if config == nil {
		config = zkproofconfig.Default()
	}

	ConfigureBackendLogger(config.IsBackendLogSilenced())

	schemes := NewProvingSchemeRegistry(logger)
	if !schemes.IsSchemeSupported(config.GetProvingScheme()) {
		return nil, WrapUnsupportedSchemeError(config.GetProvingScheme())
	}
	if _, err := ParseCurve(config.GetCurve()); err != nil {
		return nil, err
	}

	primitive, err := commitment.NewPrimitive(config.GetHashPrimitive())
	if err != nil {
		return nil, err
	}

	var metrics *Metrics
	if registerer != nil {
		if metrics, err = NewMetrics(config.GetMetricsNamespace(), registerer); err != nil {
			return nil, fmt.Errorf("注册证明指标失败: %w", err)
		}
	}

	registry, err := NewKeyRegistry(config.GetVerifierKeyCacheMB(), config.GetVerifierKeyLifeWindow(), logger)
	if err != nil {
		return nil, err
	}

	return &Manager{
		logger:   logger,
		config:   config,
		schemes:  schemes,
		loader:   NewCircuitLoader(logger, schemes),
		circuits: NewCircuitManager(logger, schemes, metrics, config.IsSetupCacheEnabled()),
		registry: registry,
		metrics:  metrics,
		builder:  input.NewBuilder(commitment.NewEngine(primitive), random, logger),
		random:   random,
	}, nil
}

// Loader 电路加载器
func (m *Manager) Loader() *CircuitLoader {
	return m.loader
}

// Builder 证明输入构建器
func (m *Manager) Builder() *input.Builder {
	return m.builder
}

// BuilderFor 返回按指定承诺原语计算承诺的构建器
//
// 电路文件记录了导出时使用的原语，证明输入必须与之一致。
func (m *Manager) BuilderFor(hash string) (*input.Builder, error) {
	if hash == "" || hash == m.builder.Primitive() {
		return m.builder, nil
	}
	primitive, err := commitment.NewPrimitive(hash)
	if err != nil {
		return nil, err
	}
	return input.NewBuilder(commitment.NewEngine(primitive), m.random, m.logger), nil
}

// LoadCircuit 按 ResolveCircuitPath 的规则加载电路文件
func (m *Manager) LoadCircuit(circuitPath string) (*CircuitHandle, error) {
	return m.loader.LoadCircuitFile(m.ResolveCircuitPath(circuitPath))
}

// Schemes 证明方案注册表
func (m *Manager) Schemes() *ProvingSchemeRegistry {
	return m.schemes
}

// DefaultManifest 按配置生成指定类型的电路清单
func (m *Manager) DefaultManifest(kind string) Manifest {
	return Manifest{
		Kind:        kind,
		Scheme:      m.config.GetProvingScheme(),
		Curve:       m.config.GetCurve(),
		Hash:        m.config.GetHashPrimitive(),
		MaxDistance: m.config.GetMaxDistance(),
	}
}

// NewSession 创建证明会话
func (m *Manager) NewSession() *Session {
	return NewSession(m.logger, m.schemes, m.circuits, m.registry, m.metrics)
}

// ResolveCircuitPath 相对路径在当前目录不存在时，到电路目录下查找
func (m *Manager) ResolveCircuitPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return filepath.Join(m.config.GetCircuitDir(), path)
}

// RunProof 加载电路、完成可信设置、生成证明并验证
//
// 证明不成立时返回 false, nil。
func (m *Manager) RunProof(ctx context.Context, circuitPath string, in input.ProofInput) (bool, error) {
	h, err := m.LoadCircuit(circuitPath)
	if err != nil {
		return false, err
	}
	return m.RunCircuit(ctx, h, in)
}

// RunCircuit 在已加载的电路上完成可信设置、生成证明并验证
func (m *Manager) RunCircuit(ctx context.Context, h *CircuitHandle, in input.ProofInput) (bool, error) {
	if timeout := m.config.GetProveTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	start := time.Now()

	session := m.NewSession()
	defer session.Close()

	pk, vk, err := session.Setup(h)
	if err != nil {
		return false, err
	}

	artifact, err := session.Prove(ctx, pk, h, in)
	if err != nil {
		return false, err
	}

	ok, err := session.Verify(vk, artifact)
	if err != nil {
		return false, err
	}

	m.logger.Infof("证明流程完成: kind=%s, circuit=%s, verified=%t, 耗时=%v",
		h.Manifest.Kind, h.Digest, ok, time.Since(start))
	return ok, nil
}

// Close 释放验证密钥注册表
func (m *Manager) Close() error {
	return m.registry.Close()
}
