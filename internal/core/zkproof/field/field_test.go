package field

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"
)

// TestEncode_Padding 测试偶数位填充
func TestEncode_Padding(t *testing.T) {
	cases := []struct {
		n    uint64
		want Element
	}{
		{0, "0x00"},
		{1, "0x01"},
		{15, "0x0f"},
		{16, "0x10"},
		{0x123, "0x0123"},
		{255, "0xff"},
		{MaxField - 1, "0xfffffffffffe"},
	}

	for _, tc := range cases {
		got, err := Encode(tc.n)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
		require.Zero(t, (len(got)-2)%2)
	}
}

// TestEncode_OutOfRange 测试超出上界
func TestEncode_OutOfRange(t *testing.T) {
	for _, n := range []uint64{MaxField, MaxField + 1, 1 << 63} {
		_, err := Encode(n)
		require.ErrorIs(t, err, ErrOutOfRange)
	}
}

// TestEncodeDecode_RoundTrip 测试往返
func TestEncodeDecode_RoundTrip(t *testing.T) {
	values := []uint64{0, 1, 2, 9, 10, 4095, 4096, 1 << 20, 1<<47 + 3, MaxField - 1}
	for _, n := range values {
		e, err := Encode(n)
		require.NoError(t, err)

		got, err := Decode(e)
		require.NoError(t, err)
		require.Equal(t, n, got)
	}
}

// TestEncode_Injective 测试单射性
func TestEncode_Injective(t *testing.T) {
	seen := make(map[Element]uint64)
	for n := uint64(0); n < 5000; n++ {
		e, err := Encode(n)
		require.NoError(t, err)
		prev, dup := seen[e]
		require.False(t, dup, "%d and %d share encoding %s", prev, n, e)
		seen[e] = n
	}
}

// TestDecode_Malformed 测试非法文本
func TestDecode_Malformed(t *testing.T) {
	for _, s := range []Element{"", "01", "0x", "0x1", "0x0G", "0xAB", "123"} {
		_, err := Decode(s)
		require.ErrorIs(t, err, ErrMalformedElement, "input %q", s)
	}

	// 合法文本但超出原生上界
	_, err := Decode("0xffffffffffff")
	require.ErrorIs(t, err, ErrOutOfRange)
}

// TestFromBig 测试大整数编码
func TestFromBig(t *testing.T) {
	e, err := FromBig(big.NewInt(0xabc))
	require.NoError(t, err)
	require.Equal(t, Element("0x0abc"), e)

	_, err = FromBig(fr.Modulus())
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = FromBig(big.NewInt(-1))
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = FromBig(nil)
	require.ErrorIs(t, err, ErrOutOfRange)
}

// TestFromFr_Bytes 测试定长渲染与序列化
func TestFromFr_Bytes(t *testing.T) {
	var v fr.Element
	v.SetUint64(2)

	e := FromFr(&v)
	require.Len(t, string(e), 2+2*ByteLen)
	require.True(t, e.Equal("0x02"))

	b, err := e.Bytes()
	require.NoError(t, err)
	require.Equal(t, byte(2), b[ByteLen-1])

	short, err := Element("0x02").Bytes()
	require.NoError(t, err)
	require.Equal(t, b, short)

	back, err := e.Fr()
	require.NoError(t, err)
	require.True(t, back.Equal(&v))
}

// TestParse 测试文本解析
func TestParse(t *testing.T) {
	e, err := Parse("0x0102")
	require.NoError(t, err)
	require.Equal(t, "0x0102", e.String())

	_, err = Parse("0x102")
	require.ErrorIs(t, err, ErrMalformedElement)
}
