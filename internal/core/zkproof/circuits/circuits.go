// Package circuits 定义 zkgeo 的证明电路
package circuits

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/weisyn/zkgeo/internal/core/zkproof/field"
)

// 电路类型
const (
	KindPreimage   = "preimage"
	KindDarkForest = "dark_forest"
)

// DefaultMaxDistance dark forest 默认最大移动距离
const DefaultMaxDistance uint64 = 8

// ErrUnknownKind 未知电路类型
var ErrUnknownKind = errors.New("unknown circuit kind")

// Params 电路编译参数（不属于见证）
type Params struct {
	Hash        string // 承诺原语
	MaxDistance uint64 // 仅 dark forest 使用
}

// Template 返回指定类型的空电路定义，用于编译
func Template(kind string, params Params) (frontend.Circuit, error) {
	switch kind {
	case KindPreimage:
		return &PreimageCircuit{Hash: params.Hash}, nil
	case KindDarkForest:
		maxDistance := params.MaxDistance
		if maxDistance == 0 {
			maxDistance = DefaultMaxDistance
		}
		return &DarkForestCircuit{Hash: params.Hash, MaxDistance: maxDistance}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

// Kinds 列出支持的电路类型
func Kinds() []string {
	return []string{KindPreimage, KindDarkForest}
}

// PreimageCircuit 原像电路
//
// 证明知道 (X, Y) 使得 H(X, Y) == OutX。
type PreimageCircuit struct {
	// 私有输入
	X frontend.Variable
	Y frontend.Variable

	// 公开输入
	OutX frontend.Variable `gnark:",public"`

	Hash string `gnark:"-"`
}

// Define 定义原像电路的约束
func (c *PreimageCircuit) Define(api frontend.API) error {
	hasher, err := NewHasher(c.Hash)
	if err != nil {
		return err
	}

	rangeCheck(api, c.X, c.Y)

	out, err := hasher.Hash(api, c.X, c.Y)
	if err != nil {
		return err
	}
	api.AssertIsEqual(c.OutX, out)
	return nil
}

// DarkForestCircuit dark forest 移动电路
//
// 两个坐标点分别以同一个盐值做承诺，电路证明：
//   - HashX1Y1 == H(X1, Y1, Salt)
//   - HashX2Y2 == H(X2, Y2, Salt)
//   - (X1-X2)^2 + (Y1-Y2)^2 <= MaxDistance^2
//
// 坐标与盐值均不公开。
type DarkForestCircuit struct {
	// 私有输入
	X1   frontend.Variable
	Y1   frontend.Variable
	X2   frontend.Variable
	Y2   frontend.Variable
	Salt frontend.Variable

	// 公开输入
	HashX1Y1 frontend.Variable `gnark:",public"`
	HashX2Y2 frontend.Variable `gnark:",public"`

	Hash        string `gnark:"-"`
	MaxDistance uint64 `gnark:"-"`
}

// Define 定义 dark forest 电路的约束
func (c *DarkForestCircuit) Define(api frontend.API) error {
	hasher, err := NewHasher(c.Hash)
	if err != nil {
		return err
	}

	rangeCheck(api, c.X1, c.Y1, c.X2, c.Y2, c.Salt)

	h1, err := hasher.Hash(api, c.X1, c.Y1, c.Salt)
	if err != nil {
		return err
	}
	api.AssertIsEqual(c.HashX1Y1, h1)

	h2, err := hasher.Hash(api, c.X2, c.Y2, c.Salt)
	if err != nil {
		return err
	}
	api.AssertIsEqual(c.HashX2Y2, h2)

	// 坐标差在域内可能回绕，平方后恢复为真实距离
	dx := api.Sub(c.X1, c.X2)
	dy := api.Sub(c.Y1, c.Y2)
	distSquared := api.Add(api.Mul(dx, dx), api.Mul(dy, dy))
	api.AssertIsLessOrEqual(distSquared, c.MaxDistance*c.MaxDistance)
	return nil
}

// rangeCheck 约束每个输入都能用 field.MaxFieldBits 位表示
func rangeCheck(api frontend.API, vars ...frontend.Variable) {
	for _, v := range vars {
		api.ToBinary(v, field.MaxFieldBits)
	}
}
