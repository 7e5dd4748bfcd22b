package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/weisyn/zkgeo/configs"
)

// TestLoadAppConfig 测试从 JSON 文件加载配置
func TestLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zkgeo.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"log": {"level": "debug"},
		"zkproof": {"proving_scheme": "plonk", "max_distance": 16}
	}`), 0o600))

	appConfig, err := LoadAppConfig(path)
	require.NoError(t, err)

	provider := NewProvider(appConfig)
	require.Equal(t, "debug", provider.GetLog().Level)
	require.Equal(t, "plonk", provider.GetZKProof().GetProvingScheme())
	require.Equal(t, uint64(16), provider.GetZKProof().GetMaxDistance())
	// 未出现的字段保留默认值
	require.Equal(t, "pedersen", provider.GetZKProof().GetHashPrimitive())
}

// TestLoadAppConfig_Errors 测试配置文件错误
func TestLoadAppConfig_Errors(t *testing.T) {
	_, err := LoadAppConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err = LoadAppConfig(path)
	require.Error(t, err)

	appConfig, err := LoadAppConfig("")
	require.NoError(t, err)
	require.NotNil(t, appConfig)
}

// TestProvider_NilConfig 测试空配置使用默认值
func TestProvider_NilConfig(t *testing.T) {
	provider := NewProvider(nil)
	require.Equal(t, "info", provider.GetLog().Level)
	require.Equal(t, "groth16", provider.GetZKProof().GetProvingScheme())
}

// TestTemplateConfig 配置模板与默认值一致
func TestTemplateConfig(t *testing.T) {
	appConfig, err := ParseAppConfig(configs.GetTemplateConfig())
	require.NoError(t, err)

	fromTemplate := NewProvider(appConfig)
	defaults := NewProvider(nil)

	require.Equal(t, defaults.GetLog().Level, fromTemplate.GetLog().Level)
	require.Equal(t, defaults.GetLog().MaxSize, fromTemplate.GetLog().MaxSize)

	got, want := fromTemplate.GetZKProof(), defaults.GetZKProof()
	require.Equal(t, want.GetProvingScheme(), got.GetProvingScheme())
	require.Equal(t, want.GetCurve(), got.GetCurve())
	require.Equal(t, want.GetHashPrimitive(), got.GetHashPrimitive())
	require.Equal(t, want.GetMaxDistance(), got.GetMaxDistance())
	require.Equal(t, want.GetCircuitDir(), got.GetCircuitDir())
	require.Equal(t, want.GetProveTimeout(), got.GetProveTimeout())
	require.Equal(t, want.GetVerifierKeyLifeWindow(), got.GetVerifierKeyLifeWindow())
	require.Equal(t, want.GetMetricsNamespace(), got.GetMetricsNamespace())
}
