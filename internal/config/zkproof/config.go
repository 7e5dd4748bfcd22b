// Package zkproof 提供证明流水线的配置
package zkproof

import (
	"time"

	configtypes "github.com/weisyn/zkgeo/pkg/types"
)

// ProofOptions 证明流水线配置选项
type ProofOptions struct {
	// === 证明方案 ===
	ProvingScheme string `json:"proving_scheme"` // groth16 | plonk
	Curve         string `json:"curve"`          // bn254
	HashPrimitive string `json:"hash_primitive"` // pedersen | mimc

	// === 电路参数 ===
	MaxDistance uint64 `json:"max_distance"` // dark forest 最大移动距离
	CircuitDir  string `json:"circuit_dir"`  // 电路文件目录

	// === 运行参数 ===
	ProveTimeout time.Duration `json:"prove_timeout"`

	// === 验证密钥注册表 ===
	VerifierKeyCacheMB    int           `json:"verifier_key_cache_mb"`
	VerifierKeyLifeWindow time.Duration `json:"verifier_key_life_window"`

	// === 可观测性 ===
	MetricsNamespace   string `json:"metrics_namespace"`
	EnableSetupCache   bool   `json:"enable_setup_cache"`
	SilenceBackendLogs bool   `json:"silence_backend_logs"`
}

// Config 证明配置实现
type Config struct {
	options *ProofOptions
}

// New 创建证明配置，用户配置按字段覆盖默认值
func New(userConfig *configtypes.UserZKProofConfig) *Config {
	options := createDefaultProofOptions()
	if userConfig != nil {
		applyUserProofConfig(options, userConfig)
	}
	return &Config{options: options}
}

// Default 返回默认配置
func Default() *Config {
	return New(nil)
}

func createDefaultProofOptions() *ProofOptions {
	return &ProofOptions{
		ProvingScheme: defaultProvingScheme,
		Curve:         defaultCurve,
		HashPrimitive: defaultHashPrimitive,

		MaxDistance: defaultMaxDistance,
		CircuitDir:  defaultCircuitDir,

		ProveTimeout: defaultProveTimeout,

		VerifierKeyCacheMB:    defaultVerifierKeyCacheMB,
		VerifierKeyLifeWindow: defaultVerifierKeyLifeWindow,

		MetricsNamespace:   defaultMetricsNamespace,
		EnableSetupCache:   defaultEnableSetupCache,
		SilenceBackendLogs: defaultSilenceBackendLogs,
	}
}

func applyUserProofConfig(options *ProofOptions, uc *configtypes.UserZKProofConfig) {
	if uc.ProvingScheme != nil && *uc.ProvingScheme != "" {
		options.ProvingScheme = *uc.ProvingScheme
	}
	if uc.Curve != nil && *uc.Curve != "" {
		options.Curve = *uc.Curve
	}
	if uc.HashPrimitive != nil && *uc.HashPrimitive != "" {
		options.HashPrimitive = *uc.HashPrimitive
	}
	if uc.MaxDistance != nil && *uc.MaxDistance > 0 {
		options.MaxDistance = *uc.MaxDistance
	}
	if uc.CircuitDir != nil {
		options.CircuitDir = *uc.CircuitDir
	}
	if uc.ProveTimeoutSeconds != nil && *uc.ProveTimeoutSeconds > 0 {
		options.ProveTimeout = time.Duration(*uc.ProveTimeoutSeconds) * time.Second
	}
	if uc.VerifierKeyCacheMB != nil && *uc.VerifierKeyCacheMB > 0 {
		options.VerifierKeyCacheMB = *uc.VerifierKeyCacheMB
	}
	if uc.VerifierKeyLifeWindow != nil {
		// 解析失败时保留默认值
		if d, err := time.ParseDuration(*uc.VerifierKeyLifeWindow); err == nil && d > 0 {
			options.VerifierKeyLifeWindow = d
		}
	}
	if uc.MetricsNamespace != nil && *uc.MetricsNamespace != "" {
		options.MetricsNamespace = *uc.MetricsNamespace
	}
	if uc.EnableSetupCache != nil {
		options.EnableSetupCache = *uc.EnableSetupCache
	}
	if uc.SilenceBackendLogs != nil {
		options.SilenceBackendLogs = *uc.SilenceBackendLogs
	}
}

// GetOptions 获取完整配置选项
func (c *Config) GetOptions() *ProofOptions {
	return c.options
}

// GetProvingScheme 获取证明方案
func (c *Config) GetProvingScheme() string {
	return c.options.ProvingScheme
}

// GetCurve 获取椭圆曲线
func (c *Config) GetCurve() string {
	return c.options.Curve
}

// GetHashPrimitive 获取承诺原语名称
func (c *Config) GetHashPrimitive() string {
	return c.options.HashPrimitive
}

// GetMaxDistance 获取 dark forest 最大移动距离
func (c *Config) GetMaxDistance() uint64 {
	return c.options.MaxDistance
}

// GetCircuitDir 获取电路目录
func (c *Config) GetCircuitDir() string {
	return c.options.CircuitDir
}

// GetProveTimeout 获取证明超时
func (c *Config) GetProveTimeout() time.Duration {
	return c.options.ProveTimeout
}

// GetVerifierKeyCacheMB 获取验证密钥注册表容量
func (c *Config) GetVerifierKeyCacheMB() int {
	return c.options.VerifierKeyCacheMB
}

// GetVerifierKeyLifeWindow 获取验证密钥保留时间
func (c *Config) GetVerifierKeyLifeWindow() time.Duration {
	return c.options.VerifierKeyLifeWindow
}

// GetMetricsNamespace 获取指标命名空间
func (c *Config) GetMetricsNamespace() string {
	return c.options.MetricsNamespace
}

// IsSetupCacheEnabled 是否复用可信设置
func (c *Config) IsSetupCacheEnabled() bool {
	return c.options.EnableSetupCache
}

// IsBackendLogSilenced 是否屏蔽 gnark 日志
func (c *Config) IsBackendLogSilenced() bool {
	return c.options.SilenceBackendLogs
}
