package zkproof

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/constraint"
	"github.com/golang/snappy"
	"google.golang.org/protobuf/encoding/protowire"
)

// ============================================================================
//                              电路文件格式
// ============================================================================
//
// 电路文件是一条 protobuf 线格式记录：
//
//	1 version       varint
//	2 kind          string
//	3 scheme        string
//	4 curve         string
//	5 hash          string
//	6 max_distance  varint
//	7 cs            bytes   snappy 压缩的约束系统
//	8 digest        bytes   未压缩约束系统的 SHA-256
//
// ============================================================================

// CircuitFileVersion 当前电路文件版本
const CircuitFileVersion = 1

const (
	circuitFieldVersion     protowire.Number = 1
	circuitFieldKind        protowire.Number = 2
	circuitFieldScheme      protowire.Number = 3
	circuitFieldCurve       protowire.Number = 4
	circuitFieldHash        protowire.Number = 5
	circuitFieldMaxDistance protowire.Number = 6
	circuitFieldCS          protowire.Number = 7
	circuitFieldDigest      protowire.Number = 8
)

// Manifest 电路清单
type Manifest struct {
	Kind        string `json:"kind"`
	Scheme      string `json:"scheme"`
	Curve       string `json:"curve"`
	Hash        string `json:"hash"`
	MaxDistance uint64 `json:"max_distance,omitempty"`
}

// String 实现 fmt.Stringer
func (m Manifest) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", m.Kind, m.Scheme, m.Curve, m.Hash)
}

// CircuitHandle 已加载的电路
type CircuitHandle struct {
	Manifest Manifest
	CurveID  ecc.ID
	CS       constraint.ConstraintSystem

	// Digest 序列化约束系统的 SHA-256（十六进制），作为电路身份
	Digest string

	raw []byte
}

// NbConstraints 约束数量
func (h *CircuitHandle) NbConstraints() int {
	return h.CS.GetNbConstraints()
}

// digestOf 计算约束系统字节的摘要
func digestOf(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// encodeCircuitFile 编码电路文件
func encodeCircuitFile(h *CircuitHandle) []byte {
	sum, _ := hex.DecodeString(h.Digest)

	var b []byte
	b = appendVarint(b, circuitFieldVersion, CircuitFileVersion)
	b = appendString(b, circuitFieldKind, h.Manifest.Kind)
	b = appendString(b, circuitFieldScheme, h.Manifest.Scheme)
	b = appendString(b, circuitFieldCurve, h.Manifest.Curve)
	b = appendString(b, circuitFieldHash, h.Manifest.Hash)
	if h.Manifest.MaxDistance > 0 {
		b = appendVarint(b, circuitFieldMaxDistance, h.Manifest.MaxDistance)
	}
	b = appendBytes(b, circuitFieldCS, snappy.Encode(nil, h.raw))
	b = appendBytes(b, circuitFieldDigest, sum)
	return b
}

// decodeCircuitFile 解码电路文件，返回清单和未压缩的约束系统字节
func decodeCircuitFile(data []byte) (Manifest, []byte, error) {
	if len(data) == 0 {
		return Manifest{}, nil, errors.New("empty circuit file")
	}

	msg, err := parseWire(data)
	if err != nil {
		return Manifest{}, nil, err
	}

	if v := msg.varints[circuitFieldVersion]; v != CircuitFileVersion {
		return Manifest{}, nil, fmt.Errorf("unsupported circuit file version %d", v)
	}

	m := Manifest{
		Kind:        msg.str(circuitFieldKind),
		Scheme:      msg.str(circuitFieldScheme),
		Curve:       msg.str(circuitFieldCurve),
		Hash:        msg.str(circuitFieldHash),
		MaxDistance: msg.varints[circuitFieldMaxDistance],
	}
	if m.Kind == "" || m.Scheme == "" {
		return Manifest{}, nil, errors.New("circuit manifest incomplete")
	}

	compressed, ok := msg.bytes[circuitFieldCS]
	if !ok {
		return Manifest{}, nil, errors.New("constraint system missing")
	}
	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return Manifest{}, nil, fmt.Errorf("decompress constraint system: %w", err)
	}

	sum := sha256.Sum256(raw)
	if !bytes.Equal(sum[:], msg.bytes[circuitFieldDigest]) {
		return Manifest{}, nil, errors.New("constraint system digest mismatch")
	}
	return m, raw, nil
}
