package zkproof

import "time"

// 零知识证明默认配置
const (
	// defaultProvingScheme 默认使用 Groth16，证明体积小、验证快
	defaultProvingScheme = "groth16"

	// defaultCurve 默认曲线，承诺原语依赖其扭曲爱德华兹曲线
	defaultCurve = "bn254"

	// defaultHashPrimitive 默认承诺原语
	defaultHashPrimitive = "pedersen"

	// defaultMaxDistance dark forest 电路允许的最大移动距离
	defaultMaxDistance uint64 = 8

	// defaultCircuitDir 电路文件默认目录
	defaultCircuitDir = "circuits"

	// defaultProveTimeout 调用方等待单次证明的时间
	defaultProveTimeout = 5 * time.Minute

	// === 验证密钥注册表 ===

	defaultVerifierKeyCacheMB    = 64
	defaultVerifierKeyLifeWindow = 24 * time.Hour

	// defaultMetricsNamespace prometheus 指标命名空间
	defaultMetricsNamespace = "zkgeo"

	defaultEnableSetupCache   = true
	defaultSilenceBackendLogs = true
)
