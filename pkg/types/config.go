// Package types provides configuration type definitions.
package types

// AppConfig 应用程序根配置
// 只包含JSON配置文件解析所需的结构，字段为 nil 表示使用默认值
// 默认值和完整配置结构在 internal/config/*/defaults.go 和 internal/config/*/config.go 中定义
type AppConfig struct {
	// 日志配置
	Log *UserLogConfig `json:"log,omitempty"`

	// 零知识证明配置
	ZKProof *UserZKProofConfig `json:"zkproof,omitempty"`
}

// UserLogConfig 用户日志配置
type UserLogConfig struct {
	Level     *string `json:"level,omitempty"`      // 日志级别：debug, info, warn, error, fatal
	FilePath  *string `json:"file_path,omitempty"`  // 日志文件路径
	ToConsole *bool   `json:"to_console,omitempty"` // 是否输出到控制台
	MaxSize   *int    `json:"max_size,omitempty"`   // 单个日志文件最大大小(MB)
}

// UserZKProofConfig 用户零知识证明配置
type UserZKProofConfig struct {
	ProvingScheme *string `json:"proving_scheme,omitempty"` // groth16 | plonk
	Curve         *string `json:"curve,omitempty"`          // 目前仅支持 bn254
	HashPrimitive *string `json:"hash_primitive,omitempty"` // pedersen | mimc
	MaxDistance   *uint64 `json:"max_distance,omitempty"`   // dark forest 电路的最大移动距离
	CircuitDir    *string `json:"circuit_dir,omitempty"`    // 电路文件默认目录

	ProveTimeoutSeconds *int `json:"prove_timeout_seconds,omitempty"` // 调用方等待证明的超时

	VerifierKeyCacheMB    *int    `json:"verifier_key_cache_mb,omitempty"`    // 验证密钥注册表容量(MB)
	VerifierKeyLifeWindow *string `json:"verifier_key_life_window,omitempty"` // 验证密钥在注册表中的保留时间
	MetricsNamespace      *string `json:"metrics_namespace,omitempty"`        // prometheus 指标命名空间
	EnableSetupCache      *bool   `json:"enable_setup_cache,omitempty"`       // 同一进程内复用可信设置
	SilenceBackendLogs    *bool   `json:"silence_backend_logs,omitempty"`     // 屏蔽 gnark 内部日志
}
