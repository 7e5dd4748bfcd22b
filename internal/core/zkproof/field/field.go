// Package field 将原生整数编码为证明系统使用的规范域元素表示
//
// 规范表示为 "0x" 前缀的小写十六进制，数字个数为偶数（按字节对齐），
// 下游按整字节解释该字符串，奇数位会错位并悄悄改变取值。
package field

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// MaxField 原生整数的上界（不含），2^48 - 1
const MaxField uint64 = 1<<48 - 1

// MaxFieldBits 原生整数的位宽，电路用它做范围约束
const MaxFieldBits = 48

// ByteLen 域元素的定长序列化字节数
const ByteLen = fr.Bytes

var (
	// ErrOutOfRange 取值超出域的安全容量
	ErrOutOfRange = errors.New("value out of field range")

	// ErrMalformedElement 无法解析的域元素文本
	ErrMalformedElement = errors.New("malformed field element")
)

func init() {
	// MaxField 必须严格小于 BN254 标量域模数
	if new(big.Int).SetUint64(MaxField).Cmp(fr.Modulus()) >= 0 {
		panic("field: MaxField exceeds the scalar field modulus")
	}
}

// Element 规范的域元素文本
type Element string

// Encode 将 [0, MaxField) 内的整数编码为域元素
func Encode(n uint64) (Element, error) {
	if n >= MaxField {
		return "", fmt.Errorf("%w: n=%d, max=%d", ErrOutOfRange, n, MaxField)
	}
	return Element("0x" + padEven(strconv.FormatUint(n, 16))), nil
}

// Decode 是 Encode 的逆运算
func Decode(e Element) (uint64, error) {
	v, err := e.BigInt()
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() || v.Uint64() >= MaxField {
		return 0, fmt.Errorf("%w: value=%s", ErrOutOfRange, e)
	}
	return v.Uint64(), nil
}

// FromBig 编码任意小于标量域模数的非负整数
func FromBig(v *big.Int) (Element, error) {
	if v == nil || v.Sign() < 0 || v.Cmp(fr.Modulus()) >= 0 {
		return "", fmt.Errorf("%w: value=%v", ErrOutOfRange, v)
	}
	return Element("0x" + padEven(v.Text(16))), nil
}

// FromFr 将标量域元素渲染为定长 32 字节的域元素（承诺值使用该形式）
func FromFr(v *fr.Element) Element {
	b := v.Bytes()
	return Element("0x" + hex.EncodeToString(b[:]))
}

// Parse 校验文本格式并返回域元素
func Parse(s string) (Element, error) {
	e := Element(s)
	if _, err := e.BigInt(); err != nil {
		return "", err
	}
	return e, nil
}

// String 实现 fmt.Stringer
func (e Element) String() string {
	return string(e)
}

// BigInt 解析为大整数，校验前缀、偶数位、小写与模数范围
func (e Element) BigInt() (*big.Int, error) {
	s := string(e)
	if !strings.HasPrefix(s, "0x") {
		return nil, fmt.Errorf("%w: missing 0x prefix: %q", ErrMalformedElement, s)
	}
	digits := s[2:]
	if len(digits) == 0 || len(digits)%2 != 0 {
		return nil, fmt.Errorf("%w: odd or empty hex payload: %q", ErrMalformedElement, s)
	}
	if strings.ToLower(digits) != digits {
		return nil, fmt.Errorf("%w: uppercase hex digits: %q", ErrMalformedElement, s)
	}
	raw, err := hex.DecodeString(digits)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedElement, err)
	}
	v := new(big.Int).SetBytes(raw)
	if v.Cmp(fr.Modulus()) >= 0 {
		return nil, fmt.Errorf("%w: value=%s", ErrOutOfRange, s)
	}
	return v, nil
}

// Fr 转换为标量域元素
func (e Element) Fr() (fr.Element, error) {
	var out fr.Element
	v, err := e.BigInt()
	if err != nil {
		return out, err
	}
	out.SetBigInt(v)
	return out, nil
}

// Bytes 定长 32 字节大端序列化（公开输入序列化格式）
func (e Element) Bytes() ([ByteLen]byte, error) {
	v, err := e.Fr()
	if err != nil {
		return [ByteLen]byte{}, err
	}
	return v.Bytes(), nil
}

// Equal 按数值比较，忽略渲染宽度差异
func (e Element) Equal(other Element) bool {
	a, errA := e.BigInt()
	b, errB := other.BigInt()
	if errA != nil || errB != nil {
		return false
	}
	return a.Cmp(b) == 0
}

func padEven(digits string) string {
	if len(digits)%2 != 0 {
		return "0" + digits
	}
	return digits
}
