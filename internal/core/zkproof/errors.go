// Package zkproof 零知识证明编排
//
// 负责电路加载、可信设置、证明生成与验证，并维护会话状态机：
//
//	Uninitialized --Setup--> Ready --Prove--> Proving --done--> Ready
//	任意状态 --Close--> Closed
package zkproof

import (
	"errors"
	"fmt"

	"github.com/weisyn/zkgeo/internal/core/zkproof/field"
	"github.com/weisyn/zkgeo/internal/core/zkproof/input"
)

// ============================================================================
//                            零知识证明错误定义
// ============================================================================

var (
	// ErrOutOfRange 输入超出域元素范围
	ErrOutOfRange = field.ErrOutOfRange

	// ErrRandomnessUnavailable 随机源不可用
	ErrRandomnessUnavailable = input.ErrRandomnessUnavailable

	// ErrMalformedCircuit 电路文件无法解析
	ErrMalformedCircuit = errors.New("malformed circuit")

	// ErrSetupFailed 可信设置失败
	ErrSetupFailed = errors.New("setup failed")

	// ErrSchemaMismatch 输入、密钥或证明与电路不匹配
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrMalformedArtifact 证明产物无法解析
	ErrMalformedArtifact = errors.New("malformed proof artifact")

	// ErrProofGenerationFailed 证明生成失败
	ErrProofGenerationFailed = errors.New("proof generation failed")

	// ErrNotReady 会话尚未完成可信设置
	ErrNotReady = errors.New("session not ready")

	// ErrAlreadyInitialized 会话已经完成可信设置
	ErrAlreadyInitialized = errors.New("session already initialized")

	// ErrSessionClosed 会话已关闭
	ErrSessionClosed = errors.New("session closed")

	// ErrUnsupportedScheme 未注册的证明方案
	ErrUnsupportedScheme = errors.New("unsupported proving scheme")

	// ErrUnsupportedCurve 不支持的椭圆曲线
	ErrUnsupportedCurve = errors.New("unsupported curve")
)

// ============================================================================
//                               错误包装函数
// ============================================================================

// WrapMalformedCircuitError 包装电路解析错误
func WrapMalformedCircuitError(source string, err error) error {
	return fmt.Errorf("%w: source=%s, cause=%v", ErrMalformedCircuit, source, err)
}

// WrapSetupFailedError 包装可信设置失败错误
func WrapSetupFailedError(digest string, err error) error {
	return fmt.Errorf("%w: circuit=%s, cause=%v", ErrSetupFailed, digest, err)
}

// WrapSchemaMismatchError 包装不匹配错误
func WrapSchemaMismatchError(parameter string, expected, actual interface{}) error {
	return fmt.Errorf("%w: parameter=%s, expected=%v, actual=%v", ErrSchemaMismatch, parameter, expected, actual)
}

// WrapMalformedArtifactError 包装证明产物解析错误
func WrapMalformedArtifactError(reason string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: reason=%s", ErrMalformedArtifact, reason)
	}
	return fmt.Errorf("%w: reason=%s, cause=%v", ErrMalformedArtifact, reason, err)
}

// WrapProofGenerationFailedError 包装证明生成失败错误
func WrapProofGenerationFailedError(digest string, err error) error {
	return fmt.Errorf("%w: circuit=%s, cause=%v", ErrProofGenerationFailed, digest, err)
}

// WrapUnsupportedSchemeError 包装未注册证明方案错误
func WrapUnsupportedSchemeError(scheme string) error {
	return fmt.Errorf("%w: scheme=%s", ErrUnsupportedScheme, scheme)
}
