package zkproof

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	configtypes "github.com/weisyn/zkgeo/pkg/types"
)

// TestNew_Defaults 测试默认配置
func TestNew_Defaults(t *testing.T) {
	cfg := New(nil)

	require.Equal(t, "groth16", cfg.GetProvingScheme())
	require.Equal(t, "bn254", cfg.GetCurve())
	require.Equal(t, "pedersen", cfg.GetHashPrimitive())
	require.Equal(t, uint64(8), cfg.GetMaxDistance())
	require.True(t, cfg.IsSetupCacheEnabled())
	require.True(t, cfg.IsBackendLogSilenced())
}

// TestNew_UserOverrides 测试用户配置覆盖
func TestNew_UserOverrides(t *testing.T) {
	scheme := "plonk"
	hash := "mimc"
	distance := uint64(12)
	timeout := 30
	window := "10m"
	bogus := "not-a-duration"

	cfg := New(&configtypes.UserZKProofConfig{
		ProvingScheme:         &scheme,
		HashPrimitive:         &hash,
		MaxDistance:           &distance,
		ProveTimeoutSeconds:   &timeout,
		VerifierKeyLifeWindow: &window,
	})

	require.Equal(t, "plonk", cfg.GetProvingScheme())
	require.Equal(t, "mimc", cfg.GetHashPrimitive())
	require.Equal(t, uint64(12), cfg.GetMaxDistance())
	require.Equal(t, 30*time.Second, cfg.GetProveTimeout())
	require.Equal(t, 10*time.Minute, cfg.GetVerifierKeyLifeWindow())

	// 无法解析的时长保留默认值
	cfg = New(&configtypes.UserZKProofConfig{VerifierKeyLifeWindow: &bogus})
	require.Equal(t, defaultVerifierKeyLifeWindow, cfg.GetVerifierKeyLifeWindow())
}
