package input

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// ErrRandomnessUnavailable 系统随机源不可用
var ErrRandomnessUnavailable = errors.New("randomness unavailable")

// RandomSource 均匀随机整数源
type RandomSource interface {
	// Intn 返回 [0, max) 内的均匀随机数
	Intn(max uint64) (uint64, error)
}

// CryptoSource 基于操作系统 CSPRNG 的随机源，可并发使用
type CryptoSource struct{}

// NewCryptoSource 创建密码学随机源
func NewCryptoSource() *CryptoSource {
	return &CryptoSource{}
}

// Intn 实现 RandomSource
func (CryptoSource) Intn(max uint64) (uint64, error) {
	if max == 0 {
		return 0, fmt.Errorf("%w: empty range", ErrRandomnessUnavailable)
	}
	n, err := rand.Int(rand.Reader, new(big.Int).SetUint64(max))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRandomnessUnavailable, err)
	}
	return n.Uint64(), nil
}
