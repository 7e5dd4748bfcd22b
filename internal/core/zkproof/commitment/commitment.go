// Package commitment 提供对有序域元素序列的承诺计算
//
// 承诺引擎本身不实现哈希，底层原语通过 Primitive 注入，
// 电路侧在 circuits 包中提供逐位一致的约束实现。
package commitment

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/weisyn/zkgeo/internal/core/zkproof/field"
)

// 支持的原语名称
const (
	PrimitivePedersen = "pedersen"
	PrimitiveMiMC     = "mimc"
)

var (
	// ErrEmptyInput 空输入序列
	ErrEmptyInput = errors.New("commitment input is empty")

	// ErrTooManyInputs 输入个数超过原语容量
	ErrTooManyInputs = errors.New("too many commitment inputs")

	// ErrUnknownPrimitive 未注册的原语
	ErrUnknownPrimitive = errors.New("unknown hash primitive")
)

// Primitive 承诺使用的哈希原语
type Primitive interface {
	// Name 原语名称，同时写入电路清单
	Name() string

	// MaxInputs 单次哈希接受的最大元素个数，0 表示不限
	MaxInputs() int

	// Hash 对有序元素序列求哈希，结果为标量域元素
	Hash(elems []fr.Element) (fr.Element, error)
}

// NewPrimitive 按名称创建原语
func NewPrimitive(name string) (Primitive, error) {
	switch name {
	case PrimitivePedersen, "":
		return NewPedersen(), nil
	case PrimitiveMiMC:
		return NewMiMC(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPrimitive, name)
	}
}

// Engine 承诺引擎
type Engine struct {
	primitive Primitive
}

// NewEngine 创建承诺引擎
func NewEngine(primitive Primitive) *Engine {
	return &Engine{primitive: primitive}
}

// Primitive 返回底层原语
func (e *Engine) Primitive() Primitive {
	return e.primitive
}

// Commit 计算 elems 的承诺，顺序敏感，无副作用
func (e *Engine) Commit(elems []field.Element) (field.Element, error) {
	if len(elems) == 0 {
		return "", ErrEmptyInput
	}
	if max := e.primitive.MaxInputs(); max > 0 && len(elems) > max {
		return "", fmt.Errorf("%w: primitive=%s, got=%d, max=%d", ErrTooManyInputs, e.primitive.Name(), len(elems), max)
	}

	values := make([]fr.Element, len(elems))
	for i, elem := range elems {
		v, err := elem.Fr()
		if err != nil {
			return "", fmt.Errorf("commitment input[%d]: %w", i, err)
		}
		values[i] = v
	}

	digest, err := e.primitive.Hash(values)
	if err != nil {
		return "", fmt.Errorf("%s hash failed: %w", e.primitive.Name(), err)
	}
	return field.FromFr(&digest), nil
}
