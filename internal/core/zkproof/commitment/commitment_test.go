package commitment

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/zkgeo/internal/core/zkproof/field"
)

func mustEncode(t *testing.T, values ...uint64) []field.Element {
	t.Helper()
	out := make([]field.Element, len(values))
	for i, v := range values {
		e, err := field.Encode(v)
		require.NoError(t, err)
		out[i] = e
	}
	return out
}

// TestEngine_Deterministic 测试承诺的确定性
func TestEngine_Deterministic(t *testing.T) {
	for _, name := range []string{PrimitivePedersen, PrimitiveMiMC} {
		t.Run(name, func(t *testing.T) {
			p, err := NewPrimitive(name)
			require.NoError(t, err)
			engine := NewEngine(p)

			a, err := engine.Commit(mustEncode(t, 1, 2))
			require.NoError(t, err)
			b, err := engine.Commit(mustEncode(t, 1, 2))
			require.NoError(t, err)
			require.Equal(t, a, b)

			// 承诺值是定长 32 字节渲染
			require.Len(t, string(a), 2+2*field.ByteLen)
		})
	}
}

// TestEngine_OrderSensitive 测试顺序敏感
func TestEngine_OrderSensitive(t *testing.T) {
	for _, name := range []string{PrimitivePedersen, PrimitiveMiMC} {
		p, err := NewPrimitive(name)
		require.NoError(t, err)
		engine := NewEngine(p)

		ab, err := engine.Commit(mustEncode(t, 1, 2))
		require.NoError(t, err)
		ba, err := engine.Commit(mustEncode(t, 2, 1))
		require.NoError(t, err)
		require.NotEqual(t, ab, ba, name)

		salted, err := engine.Commit(mustEncode(t, 1, 2, 3))
		require.NoError(t, err)
		require.NotEqual(t, ab, salted, name)
	}
}

// TestEngine_InputErrors 测试输入校验
func TestEngine_InputErrors(t *testing.T) {
	engine := NewEngine(NewPedersen())

	_, err := engine.Commit(nil)
	require.ErrorIs(t, err, ErrEmptyInput)

	_, err = engine.Commit(mustEncode(t, 1, 2, 3, 4, 5, 6, 7, 8, 9))
	require.ErrorIs(t, err, ErrTooManyInputs)

	_, err = engine.Commit([]field.Element{"0x1"})
	require.ErrorIs(t, err, field.ErrMalformedElement)
}

// TestNewPrimitive 测试原语注册
func TestNewPrimitive(t *testing.T) {
	p, err := NewPrimitive("")
	require.NoError(t, err)
	require.Equal(t, PrimitivePedersen, p.Name())

	_, err = NewPrimitive("sha256")
	require.ErrorIs(t, err, ErrUnknownPrimitive)
}

// TestGenerators 测试生成元派生
func TestGenerators(t *testing.T) {
	gens := Generators()
	require.Len(t, gens, MaxPedersenInputs)

	params := twistededwards.GetEdwardsCurve()
	for i := range gens {
		require.True(t, gens[i].IsOnCurve(), "generator %d", i)

		// 素数阶子群：order * G = 单位元
		var check twistededwards.PointAffine
		check.ScalarMultiplication(&gens[i], &params.Order)
		require.True(t, check.X.IsZero())
		require.True(t, check.Y.IsOne())

		for j := 0; j < i; j++ {
			require.False(t, gens[i].Equal(&gens[j]), "generators %d and %d collide", i, j)
		}
	}

	// 派生是确定的
	again := deriveGenerators(pedersenDomain, 2)
	require.True(t, again[0].Equal(&gens[0]))
	require.True(t, again[1].Equal(&gens[1]))
}

// TestPedersen_ZeroInput 测试全零输入落在单位元
func TestPedersen_ZeroInput(t *testing.T) {
	engine := NewEngine(NewPedersen())
	c, err := engine.Commit(mustEncode(t, 0, 0))
	require.NoError(t, err)
	require.True(t, c.Equal("0x00"))
}

// TestPedersen_RejectsScalarsAboveOrder 测试超出子群阶的输入被拒绝
func TestPedersen_RejectsScalarsAboveOrder(t *testing.T) {
	engine := NewEngine(NewPedersen())
	order := SubgroupOrder()

	base, err := engine.Commit(mustEncode(t, 1, 1))
	require.NoError(t, err)

	// 1+ℓ 与 1 在子群上等价，必须拒绝而不是给出相同承诺
	wrapped, err := field.FromBig(new(big.Int).Add(order, big.NewInt(1)))
	require.NoError(t, err)
	one := mustEncode(t, 1)[0]

	_, err = engine.Commit([]field.Element{wrapped, one})
	require.ErrorIs(t, err, field.ErrOutOfRange)

	atOrder, err := field.FromBig(order)
	require.NoError(t, err)
	_, err = engine.Commit([]field.Element{one, atOrder})
	require.ErrorIs(t, err, field.ErrOutOfRange)

	// ℓ-1 仍然合法
	below, err := field.FromBig(new(big.Int).Sub(order, big.NewInt(1)))
	require.NoError(t, err)
	c, err := engine.Commit([]field.Element{below, one})
	require.NoError(t, err)
	require.NotEqual(t, base, c)
}
