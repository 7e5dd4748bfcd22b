package commitment

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
	"golang.org/x/crypto/sha3"

	"github.com/weisyn/zkgeo/internal/core/zkproof/field"
)

// MaxPedersenInputs Pedersen 向量哈希的生成元个数
const MaxPedersenInputs = 8

// pedersenDomain 生成元派生的域分隔标签
const pedersenDomain = "zkgeo/pedersen/bn254-twisted-edwards/v1"

var (
	generatorsOnce sync.Once
	generators     []twistededwards.PointAffine
)

// Pedersen BN254 扭曲爱德华兹曲线上的 Pedersen 向量哈希
//
//	H(m_1..m_k) = X(m_1*G_1 + ... + m_k*G_k)
//
// 生成元由 Keccak-256 try-and-increment 映射到曲线并清除余因子，
// 彼此之间没有已知离散对数关系。
type Pedersen struct{}

// NewPedersen 创建 Pedersen 原语
func NewPedersen() *Pedersen {
	return &Pedersen{}
}

// Name 原语名称
func (p *Pedersen) Name() string {
	return PrimitivePedersen
}

// MaxInputs 最大输入个数
func (p *Pedersen) MaxInputs() int {
	return MaxPedersenInputs
}

// SubgroupOrder 生成元所在素数阶子群的阶 ℓ
//
// 标量按 ℓ 取模参与运算，m 与 m+ℓ 的承诺相同，因此只接受 [0, ℓ) 内的元素。
func SubgroupOrder() *big.Int {
	params := twistededwards.GetEdwardsCurve()
	return new(big.Int).Set(&params.Order)
}

// Hash 计算 Pedersen 向量哈希
func (p *Pedersen) Hash(elems []fr.Element) (fr.Element, error) {
	if len(elems) > MaxPedersenInputs {
		return fr.Element{}, fmt.Errorf("%w: got=%d, max=%d", ErrTooManyInputs, len(elems), MaxPedersenInputs)
	}

	order := SubgroupOrder()
	scalars := make([]*big.Int, len(elems))
	for i := range elems {
		scalars[i] = elems[i].BigInt(new(big.Int))
		if scalars[i].Cmp(order) >= 0 {
			return fr.Element{}, fmt.Errorf("%w: pedersen input[%d] exceeds subgroup order", field.ErrOutOfRange, i)
		}
	}

	gens := Generators()

	var acc twistededwards.PointAffine
	acc.X.SetZero()
	acc.Y.SetOne()

	var term twistededwards.PointAffine
	for i, scalar := range scalars {
		term.ScalarMultiplication(&gens[i], scalar)
		acc.Add(&acc, &term)
	}
	return acc.X, nil
}

// Generators 返回派生好的生成元，调用方不得修改
func Generators() []twistededwards.PointAffine {
	generatorsOnce.Do(func() {
		generators = deriveGenerators(pedersenDomain, MaxPedersenInputs)
	})
	return generators
}

// deriveGenerators 以 try-and-increment 方式派生 n 个素数阶子群中的点
func deriveGenerators(domain string, n int) []twistededwards.PointAffine {
	params := twistededwards.GetEdwardsCurve()
	cofactor := params.Cofactor.BigInt(new(big.Int))

	out := make([]twistededwards.PointAffine, 0, n)
	var one fr.Element
	one.SetOne()

	for index := uint32(0); len(out) < n; index++ {
		for counter := uint32(0); ; counter++ {
			x := hashToField(domain, index, counter)

			// a*x^2 + y^2 = 1 + d*x^2*y^2  =>  y^2 = (1 - a*x^2) / (1 - d*x^2)
			var x2, num, den, y2, y fr.Element
			x2.Square(&x)
			num.Mul(&params.A, &x2)
			num.Sub(&one, &num)
			den.Mul(&params.D, &x2)
			den.Sub(&one, &den)
			if den.IsZero() {
				continue
			}
			den.Inverse(&den)
			y2.Mul(&num, &den)
			if y.Sqrt(&y2) == nil {
				continue
			}

			var candidate, point twistededwards.PointAffine
			candidate.X.Set(&x)
			candidate.Y.Set(&y)
			if !candidate.IsOnCurve() {
				continue
			}
			point.ScalarMultiplication(&candidate, cofactor)
			if point.X.IsZero() {
				// 低阶点，清除余因子后落到单位元或 2 阶点
				continue
			}
			out = append(out, point)
			break
		}
	}
	return out
}

func hashToField(domain string, index, counter uint32) fr.Element {
	var buf [8]byte
	binary.BigEndian.PutUint32(buf[:4], index)
	binary.BigEndian.PutUint32(buf[4:], counter)

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(domain))
	h.Write(buf[:])

	var x fr.Element
	x.SetBytes(h.Sum(nil))
	return x
}
