package zkproof

import (
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

// ============================================================================
//                              证明产物格式
// ============================================================================
//
// 调用方只把证明产物当作不透明字节处理，内部是一条 protobuf 线格式记录：
//
//	1  id              string  产物ID（uuid）
//	2  scheme          string
//	3  curve           string
//	4  kind            string  电路类型
//	5  circuit_digest  string  电路摘要
//	6  vk_id           string  生成时使用的验证密钥ID
//	7  vk_hash         bytes   验证密钥 SHA-256
//	8  proof           bytes   序列化证明
//	9  public_witness  bytes   序列化公开见证
//	10 generated_at    varint  生成时间（Unix 纳秒）
//
// ============================================================================

const (
	artifactFieldID            protowire.Number = 1
	artifactFieldScheme        protowire.Number = 2
	artifactFieldCurve         protowire.Number = 3
	artifactFieldKind          protowire.Number = 4
	artifactFieldCircuitDigest protowire.Number = 5
	artifactFieldVKID          protowire.Number = 6
	artifactFieldVKHash        protowire.Number = 7
	artifactFieldProof         protowire.Number = 8
	artifactFieldPublicWitness protowire.Number = 9
	artifactFieldGeneratedAt   protowire.Number = 10
)

// ProofArtifact 解码后的证明产物
type ProofArtifact struct {
	ID            string
	Scheme        string
	Curve         string
	Kind          string
	CircuitDigest string
	VKID          string
	VKHash        []byte
	Proof         []byte
	PublicWitness []byte
	GeneratedAt   time.Time
}

// Marshal 编码证明产物
func (a *ProofArtifact) Marshal() []byte {
	var b []byte
	b = appendString(b, artifactFieldID, a.ID)
	b = appendString(b, artifactFieldScheme, a.Scheme)
	b = appendString(b, artifactFieldCurve, a.Curve)
	b = appendString(b, artifactFieldKind, a.Kind)
	b = appendString(b, artifactFieldCircuitDigest, a.CircuitDigest)
	b = appendString(b, artifactFieldVKID, a.VKID)
	b = appendBytes(b, artifactFieldVKHash, a.VKHash)
	b = appendBytes(b, artifactFieldProof, a.Proof)
	b = appendBytes(b, artifactFieldPublicWitness, a.PublicWitness)
	if !a.GeneratedAt.IsZero() {
		b = appendVarint(b, artifactFieldGeneratedAt, uint64(a.GeneratedAt.UnixNano()))
	}
	return b
}

// UnmarshalArtifact 解码证明产物，任何结构问题都返回 ErrMalformedArtifact
func UnmarshalArtifact(data []byte) (*ProofArtifact, error) {
	if len(data) == 0 {
		return nil, WrapMalformedArtifactError("empty artifact", nil)
	}

	msg, err := parseWire(data)
	if err != nil {
		return nil, WrapMalformedArtifactError("wire format", err)
	}

	for _, required := range []struct {
		num  protowire.Number
		name string
	}{
		{artifactFieldScheme, "scheme"},
		{artifactFieldCurve, "curve"},
		{artifactFieldKind, "kind"},
		{artifactFieldCircuitDigest, "circuit_digest"},
		{artifactFieldProof, "proof"},
		{artifactFieldPublicWitness, "public_witness"},
	} {
		if !msg.has(required.num) {
			return nil, WrapMalformedArtifactError("missing "+required.name, nil)
		}
	}

	a := &ProofArtifact{
		ID:            msg.str(artifactFieldID),
		Scheme:        msg.str(artifactFieldScheme),
		Curve:         msg.str(artifactFieldCurve),
		Kind:          msg.str(artifactFieldKind),
		CircuitDigest: msg.str(artifactFieldCircuitDigest),
		VKID:          msg.str(artifactFieldVKID),
		VKHash:        msg.bytes[artifactFieldVKHash],
		Proof:         msg.bytes[artifactFieldProof],
		PublicWitness: msg.bytes[artifactFieldPublicWitness],
	}
	if ts, ok := msg.varints[artifactFieldGeneratedAt]; ok {
		a.GeneratedAt = time.Unix(0, int64(ts))
	}
	return a, nil
}
