package input

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/zkgeo/internal/core/zkproof/circuits"
	"github.com/weisyn/zkgeo/internal/core/zkproof/commitment"
	"github.com/weisyn/zkgeo/internal/core/zkproof/field"
	"github.com/weisyn/zkgeo/internal/core/zkproof/testutil"
)

func createTestBuilder(t *testing.T, random RandomSource) *Builder {
	t.Helper()
	p, err := commitment.NewPrimitive(commitment.PrimitivePedersen)
	require.NoError(t, err)
	return NewBuilder(commitment.NewEngine(p), random, testutil.NewTestLogger())
}

// TestBuildPreimageInput 测试原像输入构建
func TestBuildPreimageInput(t *testing.T) {
	b := createTestBuilder(t, nil)

	in, err := b.BuildPreimageInput(1, 2)
	require.NoError(t, err)
	require.Equal(t, field.Element("0x01"), in.X)
	require.Equal(t, field.Element("0x02"), in.Y)
	require.Equal(t, circuits.KindPreimage, in.Kind())
	require.Equal(t, commitment.PrimitivePedersen, in.Primitive())
	require.Equal(t, []field.Element{in.OutX}, in.PublicValues())

	// 确定性
	again, err := b.BuildPreimageInput(1, 2)
	require.NoError(t, err)
	require.Equal(t, in.OutX, again.OutX)

	// 输入满足原像电路
	assignment, err := in.Assignment()
	require.NoError(t, err)
	require.NoError(t, test.IsSolved(&circuits.PreimageCircuit{}, assignment, ecc.BN254.ScalarField()))
}

// TestBuildPreimageInput_OutOfRange 测试越界坐标
func TestBuildPreimageInput_OutOfRange(t *testing.T) {
	b := createTestBuilder(t, nil)

	_, err := b.BuildPreimageInput(field.MaxField, 0)
	require.ErrorIs(t, err, field.ErrOutOfRange)
}

// TestBuildDarkForestInput 测试 dark forest 输入构建
func TestBuildDarkForestInput(t *testing.T) {
	b := createTestBuilder(t, testutil.NewSequenceSource(42))

	in, err := b.BuildDarkForestInput(1, 2, 3, 4)
	require.NoError(t, err)
	require.Equal(t, field.Element("0x2a"), in.Salt)
	require.Equal(t, circuits.KindDarkForest, in.Kind())
	require.Equal(t, []field.Element{in.HashX1Y1, in.HashX2Y2}, in.PublicValues())

	engine := commitment.NewEngine(commitment.NewPedersen())
	want, err := engine.Commit([]field.Element{in.X1, in.Y1, in.Salt})
	require.NoError(t, err)
	require.Equal(t, want, in.HashX1Y1)

	assignment, err := in.Assignment()
	require.NoError(t, err)
	circuit := &circuits.DarkForestCircuit{MaxDistance: circuits.DefaultMaxDistance}
	require.NoError(t, test.IsSolved(circuit, assignment, ecc.BN254.ScalarField()))
}

// TestBuildDarkForestInput_FreshSalt 测试重复构建使用新的盐值
func TestBuildDarkForestInput_FreshSalt(t *testing.T) {
	b := createTestBuilder(t, nil)

	first, err := b.BuildDarkForestInput(1, 2, 3, 4)
	require.NoError(t, err)
	second, err := b.BuildDarkForestInput(1, 2, 3, 4)
	require.NoError(t, err)

	require.NotEqual(t, first.Salt, second.Salt)
	require.NotEqual(t, first.HashX1Y1, second.HashX1Y1)
	require.NotEqual(t, first.HashX2Y2, second.HashX2Y2)

	salt, err := field.Decode(first.Salt)
	require.NoError(t, err)
	require.Less(t, salt, field.MaxField)
}

// TestBuildDarkForestInput_RandomnessUnavailable 测试随机源失败
func TestBuildDarkForestInput_RandomnessUnavailable(t *testing.T) {
	logger := testutil.NewRecordingLogger()
	p, err := commitment.NewPrimitive("")
	require.NoError(t, err)
	b := NewBuilder(commitment.NewEngine(p), testutil.FailingSource{}, logger)

	_, err = b.BuildDarkForestInput(1, 2, 3, 4)
	require.ErrorIs(t, err, ErrRandomnessUnavailable)
	require.True(t, logger.Contains("抽取盐值失败"))
}

// TestBuildDarkForestInput_OutOfRange 测试越界坐标不会消耗随机数
func TestBuildDarkForestInput_OutOfRange(t *testing.T) {
	b := createTestBuilder(t, testutil.FailingSource{})

	_, err := b.BuildDarkForestInput(1, 2, 3, 1<<60)
	require.ErrorIs(t, err, field.ErrOutOfRange)
}

// TestCryptoSource 测试密码学随机源
func TestCryptoSource(t *testing.T) {
	src := NewCryptoSource()

	for i := 0; i < 100; i++ {
		v, err := src.Intn(10)
		require.NoError(t, err)
		require.Less(t, v, uint64(10))
	}

	_, err := src.Intn(0)
	require.ErrorIs(t, err, ErrRandomnessUnavailable)
}
