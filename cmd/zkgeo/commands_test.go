package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/zkgeo/internal/config"
	"github.com/weisyn/zkgeo/internal/core/zkproof/commitment"
	"github.com/weisyn/zkgeo/internal/core/zkproof/field"
)

// resetFlags 恢复所有标志的默认值，cobra 在多次执行之间会保留标志状态
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// executeCommand 以 JSON 输出执行命令，返回 stdout 内容
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"-o", "json"}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func decodeRecord(t *testing.T, out string) map[string]string {
	t.Helper()
	var record map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &record), out)
	return record
}

// TestEncodeCommand 测试 encode 命令输出
func TestEncodeCommand(t *testing.T) {
	out, err := executeCommand(t, "encode", "1", "255", "0x123")
	require.NoError(t, err)

	var rows []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 3)
	require.Equal(t, "0x01", rows[0]["element"])
	require.Equal(t, "0xff", rows[1]["element"])
	require.Equal(t, "0x0123", rows[2]["element"])

	_, err = executeCommand(t, "encode", "281474976710655")
	require.ErrorIs(t, err, field.ErrOutOfRange)
	require.Equal(t, 1, exitCode(err))
}

// TestCommitCommand 测试 commit 命令与承诺引擎一致
func TestCommitCommand(t *testing.T) {
	for _, hash := range []string{commitment.PrimitivePedersen, commitment.PrimitiveMiMC} {
		t.Run(hash, func(t *testing.T) {
			out, err := executeCommand(t, "commit", "--hash", hash, "1", "2")
			require.NoError(t, err)
			record := decodeRecord(t, out)

			primitive, err := commitment.NewPrimitive(hash)
			require.NoError(t, err)
			one, err := field.Encode(1)
			require.NoError(t, err)
			two, err := field.Encode(2)
			require.NoError(t, err)
			want, err := commitment.NewEngine(primitive).Commit([]field.Element{one, two})
			require.NoError(t, err)

			require.Equal(t, hash, record["hash"])
			require.Equal(t, want.String(), record["commitment"])
		})
	}

	_, err := executeCommand(t, "commit", "--hash", "sha256", "1")
	require.ErrorIs(t, err, commitment.ErrUnknownPrimitive)
}

// TestCircuitExportAndProve 测试导出电路后在 CLI 上完成证明
func TestCircuitExportAndProve(t *testing.T) {
	dir := t.TempDir()
	darkForestPath := filepath.Join(dir, "dark_forest.zkc")

	out, err := executeCommand(t, "circuit", "export", "--kind", "dark_forest", "--out", darkForestPath)
	require.NoError(t, err)
	record := decodeRecord(t, out)
	require.Equal(t, darkForestPath, record["path"])
	require.Equal(t, "dark_forest", record["kind"])
	require.Equal(t, "pedersen", record["hash"])
	require.Equal(t, "8", record["max_distance"])
	require.NotEmpty(t, record["digest"])

	t.Run("within distance", func(t *testing.T) {
		out, err := executeCommand(t, "prove", "dark-forest", "--circuit", darkForestPath, "1", "2", "3", "4")
		require.NoError(t, err)
		record := decodeRecord(t, out)
		require.Equal(t, "true", record["verified"])
		require.Equal(t, 0, exitCode(err))
	})

	t.Run("too far", func(t *testing.T) {
		out, err := executeCommand(t, "prove", "dark-forest", "--circuit", darkForestPath, "0", "0", "8", "8")
		require.ErrorIs(t, err, errProofRejected)
		require.Equal(t, 2, exitCode(err))
		record := decodeRecord(t, out)
		require.Equal(t, "false", record["verified"])
	})

	t.Run("circuit hash differs from config", func(t *testing.T) {
		preimagePath := filepath.Join(dir, "preimage-mimc.zkc")
		_, err := executeCommand(t, "circuit", "export", "--kind", "preimage", "--hash", "mimc", "--out", preimagePath)
		require.NoError(t, err)

		out, err := executeCommand(t, "prove", "preimage", "--circuit", preimagePath, "1", "2")
		require.NoError(t, err)
		record := decodeRecord(t, out)
		require.Equal(t, "mimc", record["hash"])
		require.Equal(t, "true", record["verified"])
	})

	t.Run("missing circuit", func(t *testing.T) {
		_, err := executeCommand(t, "prove", "preimage", "--circuit", filepath.Join(dir, "missing.zkc"), "1", "2")
		require.Error(t, err)
		require.Equal(t, 1, exitCode(err))
	})
}

// TestConfigTemplateCommand 测试配置模板可被解析
func TestConfigTemplateCommand(t *testing.T) {
	out, err := executeCommand(t, "config", "template")
	require.NoError(t, err)

	appConfig, err := config.ParseAppConfig([]byte(out))
	require.NoError(t, err)
	require.NotNil(t, appConfig.ZKProof)
	require.Equal(t, "groth16", *appConfig.ZKProof.ProvingScheme)
}

// TestExitCode 测试退出码映射
func TestExitCode(t *testing.T) {
	require.Equal(t, 0, exitCode(nil))
	require.Equal(t, 2, exitCode(errProofRejected))
	require.Equal(t, 2, exitCode(errors.Join(errors.New("wrapped"), errProofRejected)))
	require.Equal(t, 1, exitCode(errors.New("boom")))
}
