package commitment

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

// MiMC BN254 标量域上的 MiMC 哈希（Miyaguchi-Preneel 结构）
type MiMC struct{}

// NewMiMC 创建 MiMC 原语
func NewMiMC() *MiMC {
	return &MiMC{}
}

// Name 原语名称
func (m *MiMC) Name() string {
	return PrimitiveMiMC
}

// MaxInputs MiMC 不限制输入个数
func (m *MiMC) MaxInputs() int {
	return 0
}

// Hash 逐个写入 32 字节大端元素后求和
func (m *MiMC) Hash(elems []fr.Element) (fr.Element, error) {
	h := mimc.NewMiMC()
	for i := range elems {
		b := elems[i].Bytes()
		if _, err := h.Write(b[:]); err != nil {
			return fr.Element{}, fmt.Errorf("mimc write[%d]: %w", i, err)
		}
	}

	var out fr.Element
	out.SetBytes(h.Sum(nil))
	return out, nil
}
