package zkproof

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	zkproofconfig "github.com/weisyn/zkgeo/internal/config/zkproof"
	"github.com/weisyn/zkgeo/internal/core/zkproof/circuits"
	"github.com/weisyn/zkgeo/internal/core/zkproof/testutil"
)

// proofFixture 测试共享的管理器和已编译电路
//
// 电路编译和可信设置开销较大，所有端到端测试共用一份，
// 可信设置通过 CircuitManager 的缓存复用。
type proofFixture struct {
	manager *Manager
	dir     string

	preimage       *CircuitHandle
	preimagePath   string
	darkForest     *CircuitHandle
	darkForestPath string
}

var (
	fixtureOnce sync.Once
	fixture     *proofFixture
	fixtureErr  error
)

func getFixture(t *testing.T) *proofFixture {
	t.Helper()
	fixtureOnce.Do(func() {
		fixture, fixtureErr = newProofFixture()
	})
	require.NoError(t, fixtureErr)
	return fixture
}

func newProofFixture() (*proofFixture, error) {
	m, err := NewManager(testutil.NewTestLogger(), zkproofconfig.Default(), prometheus.NewRegistry(), nil)
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "zkgeo-circuits-")
	if err != nil {
		return nil, err
	}

	f := &proofFixture{manager: m, dir: dir}

	if f.preimage, err = m.Loader().CompileCircuit(m.DefaultManifest(circuits.KindPreimage)); err != nil {
		return nil, err
	}
	f.preimagePath = filepath.Join(dir, "preimage.zkc")
	if err = m.Loader().WriteCircuitFile(f.preimage, f.preimagePath); err != nil {
		return nil, err
	}

	if f.darkForest, err = m.Loader().CompileCircuit(m.DefaultManifest(circuits.KindDarkForest)); err != nil {
		return nil, err
	}
	f.darkForestPath = filepath.Join(dir, "dark_forest.zkc")
	if err = m.Loader().WriteCircuitFile(f.darkForest, f.darkForestPath); err != nil {
		return nil, err
	}
	return f, nil
}

// readySession 创建并完成 setup 的会话
func (f *proofFixture) readySession(t *testing.T, h *CircuitHandle) (*Session, *ProverKey, *VerifierKey) {
	t.Helper()
	s := f.manager.NewSession()
	t.Cleanup(func() { _ = s.Close() })

	pk, vk, err := s.Setup(h)
	require.NoError(t, err)
	return s, pk, vk
}
