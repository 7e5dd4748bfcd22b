package zkproof

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestProofArtifact_Marshal 测试证明产物编解码
func TestProofArtifact_Marshal(t *testing.T) {
	now := time.Unix(1700000000, 123)
	a := &ProofArtifact{
		ID:            "6f1c2f7e-8f4a-4a53-9d3e-0c0f3f5b7a11",
		Scheme:        SchemeGroth16,
		Curve:         "bn254",
		Kind:          "preimage",
		CircuitDigest: "ab12",
		VKID:          "vk-1",
		VKHash:        []byte{1, 2, 3},
		Proof:         []byte{4, 5, 6},
		PublicWitness: []byte{7, 8},
		GeneratedAt:   now,
	}

	got, err := UnmarshalArtifact(a.Marshal())
	require.NoError(t, err)
	require.Equal(t, a.ID, got.ID)
	require.Equal(t, a.CircuitDigest, got.CircuitDigest)
	require.Equal(t, a.VKHash, got.VKHash)
	require.Equal(t, a.Proof, got.Proof)
	require.Equal(t, a.PublicWitness, got.PublicWitness)
	require.True(t, now.Equal(got.GeneratedAt))
}

// TestUnmarshalArtifact_MissingFields 测试缺少必需字段
func TestUnmarshalArtifact_MissingFields(t *testing.T) {
	a := &ProofArtifact{
		Scheme:        SchemeGroth16,
		Curve:         "bn254",
		Kind:          "preimage",
		CircuitDigest: "ab12",
		PublicWitness: []byte{7, 8},
	}

	_, err := UnmarshalArtifact(a.Marshal())
	require.ErrorIs(t, err, ErrMalformedArtifact)
	require.Contains(t, err.Error(), "missing proof")
}
