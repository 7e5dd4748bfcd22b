package circuits

import (
	"fmt"
	"math/big"

	tedwards "github.com/consensys/gnark-crypto/ecc/twistededwards"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"
	"github.com/consensys/gnark/std/hash/mimc"

	"github.com/weisyn/zkgeo/internal/core/zkproof/commitment"
)

// ============================================================================
//                         电路内承诺原语
// ============================================================================
//
// 每个 Hasher 与 commitment 包中同名原语逐位一致，
// 原生侧算出的承诺可以直接作为电路公开输入。
//
// ============================================================================

// Hasher 电路内哈希
type Hasher interface {
	Hash(api frontend.API, inputs ...frontend.Variable) (frontend.Variable, error)
}

// NewHasher 按原语名称创建电路内哈希
func NewHasher(name string) (Hasher, error) {
	switch name {
	case commitment.PrimitivePedersen, "":
		return pedersenHasher{}, nil
	case commitment.PrimitiveMiMC:
		return mimcHasher{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", commitment.ErrUnknownPrimitive, name)
	}
}

// pedersenHasher 扭曲爱德华兹曲线上的 Pedersen 向量哈希
type pedersenHasher struct{}

func (pedersenHasher) Hash(api frontend.API, inputs ...frontend.Variable) (frontend.Variable, error) {
	if len(inputs) > commitment.MaxPedersenInputs {
		return nil, fmt.Errorf("%w: got=%d, max=%d", commitment.ErrTooManyInputs, len(inputs), commitment.MaxPedersenInputs)
	}

	curve, err := twistededwards.NewEdCurve(api, tedwards.BN254)
	if err != nil {
		return nil, fmt.Errorf("创建扭曲爱德华兹曲线失败: %w", err)
	}

	gens := commitment.Generators()
	acc := twistededwards.Point{X: 0, Y: 1}
	for i, in := range inputs {
		g := twistededwards.Point{
			X: gens[i].X.BigInt(new(big.Int)),
			Y: gens[i].Y.BigInt(new(big.Int)),
		}
		acc = curve.Add(acc, curve.ScalarMul(g, in))
	}
	return acc.X, nil
}

// mimcHasher MiMC 哈希
type mimcHasher struct{}

func (mimcHasher) Hash(api frontend.API, inputs ...frontend.Variable) (frontend.Variable, error) {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return nil, fmt.Errorf("创建MiMC失败: %w", err)
	}
	h.Write(inputs...)
	return h.Sum(), nil
}
