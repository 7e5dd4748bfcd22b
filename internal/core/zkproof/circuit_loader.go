package zkproof

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/consensys/gnark/frontend"

	"github.com/weisyn/zkgeo/internal/core/zkproof/circuits"
	"github.com/weisyn/zkgeo/internal/core/zkproof/commitment"
	"github.com/weisyn/zkgeo/pkg/interfaces/infrastructure/log"
)

// CircuitLoader 电路加载器
//
// 负责把电路清单编译为约束系统，以及电路文件的读写。
type CircuitLoader struct {
	logger  log.Logger
	schemes *ProvingSchemeRegistry
}

// NewCircuitLoader 创建电路加载器
func NewCircuitLoader(logger log.Logger, schemes *ProvingSchemeRegistry) *CircuitLoader {
	return &CircuitLoader{
		logger:  logger,
		schemes: schemes,
	}
}

// CompileCircuit 按清单编译电路
func (l *CircuitLoader) CompileCircuit(m Manifest) (*CircuitHandle, error) {
	m, err := normalizeManifest(m)
	if err != nil {
		return nil, err
	}

	scheme, err := l.schemes.GetScheme(m.Scheme)
	if err != nil {
		return nil, err
	}
	curveID, err := ParseCurve(m.Curve)
	if err != nil {
		return nil, err
	}

	circuit, err := circuits.Template(m.Kind, circuits.Params{Hash: m.Hash, MaxDistance: m.MaxDistance})
	if err != nil {
		return nil, WrapMalformedCircuitError(m.String(), err)
	}

	cs, err := frontend.Compile(curveID.ScalarField(), scheme.GetBuilder(), circuit)
	if err != nil {
		return nil, WrapMalformedCircuitError(m.String(), fmt.Errorf("编译电路失败: %w", err))
	}

	var buf bytes.Buffer
	if _, err := cs.WriteTo(&buf); err != nil {
		return nil, WrapMalformedCircuitError(m.String(), fmt.Errorf("序列化约束系统失败: %w", err))
	}
	raw := buf.Bytes()

	h := &CircuitHandle{
		Manifest: m,
		CurveID:  curveID,
		CS:       cs,
		Digest:   digestOf(raw),
		raw:      raw,
	}
	if l.logger != nil {
		l.logger.Infof("电路编译完成: manifest=%s, constraints=%d, digest=%s", m, h.NbConstraints(), h.Digest)
	}
	return h, nil
}

// ExportCircuit 导出电路文件内容
func (l *CircuitLoader) ExportCircuit(h *CircuitHandle) ([]byte, error) {
	if h == nil || len(h.raw) == 0 {
		return nil, WrapMalformedCircuitError("export", fmt.Errorf("电路句柄为空"))
	}
	return encodeCircuitFile(h), nil
}

// WriteCircuitFile 将电路写入文件，目录不存在时创建
func (l *CircuitLoader) WriteCircuitFile(h *CircuitHandle, path string) error {
	data, err := l.ExportCircuit(h)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建电路目录失败: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入电路文件失败: %w", err)
	}
	if l.logger != nil {
		l.logger.Infof("电路文件已写入: path=%s, size=%d", path, len(data))
	}
	return nil
}

// LoadCircuit 从电路文件内容加载电路
func (l *CircuitLoader) LoadCircuit(data []byte) (*CircuitHandle, error) {
	return l.loadCircuit("memory", data)
}

// LoadCircuitFile 从路径加载电路
func (l *CircuitLoader) LoadCircuitFile(path string) (*CircuitHandle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapMalformedCircuitError(path, err)
	}
	return l.loadCircuit(path, data)
}

func (l *CircuitLoader) loadCircuit(source string, data []byte) (h *CircuitHandle, err error) {
	m, raw, err := decodeCircuitFile(data)
	if err != nil {
		return nil, WrapMalformedCircuitError(source, err)
	}
	if m, err = normalizeManifest(m); err != nil {
		return nil, err
	}

	scheme, err := l.schemes.GetScheme(m.Scheme)
	if err != nil {
		return nil, WrapMalformedCircuitError(source, err)
	}
	curveID, err := ParseCurve(m.Curve)
	if err != nil {
		return nil, WrapMalformedCircuitError(source, err)
	}

	// 约束系统反序列化遇到损坏数据可能 panic
	defer func() {
		if r := recover(); r != nil {
			h, err = nil, WrapMalformedCircuitError(source, fmt.Errorf("panic: %v", r))
		}
	}()

	cs := scheme.NewConstraintSystem(curveID)
	if _, err := cs.ReadFrom(bytes.NewReader(raw)); err != nil {
		return nil, WrapMalformedCircuitError(source, fmt.Errorf("反序列化约束系统失败: %w", err))
	}

	h = &CircuitHandle{
		Manifest: m,
		CurveID:  curveID,
		CS:       cs,
		Digest:   digestOf(raw),
		raw:      raw,
	}
	if l.logger != nil {
		l.logger.Debugf("电路已加载: source=%s, manifest=%s, digest=%s", source, m, h.Digest)
	}
	return h, nil
}

// normalizeManifest 补全默认值并校验清单
func normalizeManifest(m Manifest) (Manifest, error) {
	if m.Scheme == "" {
		m.Scheme = SchemeGroth16
	}
	if m.Curve == "" {
		m.Curve = "bn254"
	}
	if m.Hash == "" {
		m.Hash = commitment.PrimitivePedersen
	}
	if _, err := commitment.NewPrimitive(m.Hash); err != nil {
		return m, WrapMalformedCircuitError(m.String(), err)
	}

	switch m.Kind {
	case circuits.KindPreimage:
		m.MaxDistance = 0
	case circuits.KindDarkForest:
		if m.MaxDistance == 0 {
			m.MaxDistance = circuits.DefaultMaxDistance
		}
		if m.MaxDistance > math.MaxUint32 {
			return m, WrapMalformedCircuitError(m.String(), fmt.Errorf("max distance too large: %d", m.MaxDistance))
		}
	default:
		return m, WrapMalformedCircuitError(m.String(), fmt.Errorf("%w: %s", circuits.ErrUnknownKind, m.Kind))
	}
	return m, nil
}
