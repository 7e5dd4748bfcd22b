package zkproof

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/frontend"
	"github.com/google/uuid"

	"github.com/weisyn/zkgeo/internal/core/zkproof/input"
	"github.com/weisyn/zkgeo/pkg/interfaces/infrastructure/log"
)

// ============================================================================
//                              会话状态机
// ============================================================================

// SessionState 会话状态
type SessionState int

const (
	StateUninitialized SessionState = iota
	StateReady
	StateProving
	StateClosed
)

// String 实现 fmt.Stringer
func (s SessionState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateProving:
		return "proving"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ProverKey 证明密钥句柄
//
// 同一个 ProverKey 同时只允许一次证明生成；共享同一可信设置的句柄
// 共用一把锁。
type ProverKey struct {
	ID            string
	CircuitDigest string
	Scheme        string
	Curve         ecc.ID

	mu     *sync.Mutex
	pk     ProvingKey
	vkID   string
	vkHash []byte
}

// VerifierKey 验证密钥句柄，只读，可并发使用
type VerifierKey struct {
	ID            string
	CircuitDigest string
	Scheme        string
	Kind          string
	Curve         ecc.ID

	vk   VerifyingKey
	hash []byte
}

// Session 一次证明会话
//
// Setup 只能调用一次；之后 Prove 与 Verify 可以并发调用，
// 同一 ProverKey 上的 Prove 互斥。
type Session struct {
	id       string
	logger   log.Logger
	schemes  *ProvingSchemeRegistry
	circuits *CircuitManager
	registry *KeyRegistry
	metrics  *Metrics

	mu       sync.RWMutex
	state    SessionState
	inflight int
	handle   *CircuitHandle
}

// NewSession 创建会话
func NewSession(
	logger log.Logger,
	schemes *ProvingSchemeRegistry,
	circuits *CircuitManager,
	registry *KeyRegistry,
	metrics *Metrics,
) *Session {
	id := uuid.NewString()
	return &Session{
		id:       id,
		logger:   logger.With("session", id),
		schemes:  schemes,
		circuits: circuits,
		registry: registry,
		metrics:  metrics,
		state:    StateUninitialized,
	}
}

// ID 会话ID
func (s *Session) ID() string {
	return s.id
}

// State 当前状态
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Setup 为电路生成密钥对并进入 Ready 状态
func (s *Session) Setup(h *CircuitHandle) (*ProverKey, *VerifierKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateUninitialized:
	case StateClosed:
		return nil, nil, ErrSessionClosed
	default:
		return nil, nil, ErrAlreadyInitialized
	}
	if h == nil || h.CS == nil {
		return nil, nil, WrapMalformedCircuitError("setup", errors.New("电路句柄为空"))
	}

	setup, err := s.circuits.GetTrustedSetup(h)
	if err != nil {
		return nil, nil, err
	}

	if s.registry != nil {
		if err := s.registry.Put(h.Manifest.Scheme, h.Digest, setup.vkBytes); err != nil {
			return nil, nil, WrapSetupFailedError(h.Digest, err)
		}
	}

	vkHash := sha256.Sum256(setup.vkBytes)
	vk := &VerifierKey{
		ID:            uuid.NewString(),
		CircuitDigest: h.Digest,
		Scheme:        h.Manifest.Scheme,
		Kind:          h.Manifest.Kind,
		Curve:         h.CurveID,
		vk:            setup.verifyingKey,
		hash:          vkHash[:],
	}
	pk := &ProverKey{
		ID:            uuid.NewString(),
		CircuitDigest: h.Digest,
		Scheme:        h.Manifest.Scheme,
		Curve:         h.CurveID,
		mu:            &setup.proveMu,
		pk:            setup.provingKey,
		vkID:          vk.ID,
		vkHash:        vk.hash,
	}

	s.handle = h
	s.state = StateReady
	s.logger.Infof("会话就绪: manifest=%s, circuit=%s, pk=%s, vk=%s", h.Manifest, h.Digest, pk.ID, vk.ID)
	return pk, vk, nil
}

// Prove 生成证明产物
//
// 见证不满足电路约束时不会报错，而是返回一个无法通过验证的产物。
func (s *Session) Prove(ctx context.Context, pk *ProverKey, h *CircuitHandle, in input.ProofInput) ([]byte, error) {
	if err := s.checkActive(); err != nil {
		return nil, err
	}
	if pk == nil || h == nil || in == nil {
		return nil, fmt.Errorf("%w: prover key, circuit and input are required", ErrSchemaMismatch)
	}
	if pk.mu == nil {
		return nil, fmt.Errorf("%w: prover key was not issued by setup", ErrSchemaMismatch)
	}
	if in.Kind() != h.Manifest.Kind {
		return nil, WrapSchemaMismatchError("kind", h.Manifest.Kind, in.Kind())
	}
	if in.Primitive() != h.Manifest.Hash {
		return nil, WrapSchemaMismatchError("hash", h.Manifest.Hash, in.Primitive())
	}
	if pk.CircuitDigest != h.Digest {
		return nil, WrapSchemaMismatchError("circuit_digest", h.Digest, pk.CircuitDigest)
	}
	if pk.Scheme != h.Manifest.Scheme {
		return nil, WrapSchemaMismatchError("scheme", h.Manifest.Scheme, pk.Scheme)
	}

	scheme, err := s.schemes.GetScheme(h.Manifest.Scheme)
	if err != nil {
		return nil, err
	}

	assignment, err := in.Assignment()
	if err != nil {
		return nil, WrapProofGenerationFailedError(h.Digest, err)
	}
	fullWitness, err := frontend.NewWitness(assignment, h.CurveID.ScalarField())
	if err != nil {
		return nil, WrapSchemaMismatchError("witness", h.Manifest.Kind, err)
	}
	publicWitness, err := fullWitness.Public()
	if err != nil {
		return nil, WrapProofGenerationFailedError(h.Digest, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pk.mu.Lock()
	defer pk.mu.Unlock()

	// 等锁期间可能已超时
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.beginProve(); err != nil {
		return nil, err
	}
	defer s.endProve()

	start := time.Now()
	result := "error"
	s.metrics.proveStarted()
	defer func() {
		s.metrics.proveFinished(h.Manifest, result, time.Since(start))
	}()

	var proof Proof
	if solveErr := h.CS.IsSolved(fullWitness); solveErr != nil {
		s.logger.Warnf("见证不满足电路约束，产物将无法通过验证: circuit=%s, cause=%v", h.Digest, solveErr)
		proof = scheme.NewProof(h.CurveID)
		result = "unsatisfied"
	} else {
		proof, err = scheme.Prove(h.CS, pk.pk, fullWitness)
		if err != nil {
			return nil, WrapProofGenerationFailedError(h.Digest, err)
		}
		result = "ok"
	}

	proofBytes, err := scheme.SerializeProof(proof)
	if err != nil {
		result = "error"
		return nil, WrapProofGenerationFailedError(h.Digest, err)
	}
	publicBytes, err := publicWitness.MarshalBinary()
	if err != nil {
		result = "error"
		return nil, WrapProofGenerationFailedError(h.Digest, err)
	}

	artifact := &ProofArtifact{
		ID:            uuid.NewString(),
		Scheme:        h.Manifest.Scheme,
		Curve:         CurveName(h.CurveID),
		Kind:          h.Manifest.Kind,
		CircuitDigest: h.Digest,
		VKID:          pk.vkID,
		VKHash:        pk.vkHash,
		Proof:         proofBytes,
		PublicWitness: publicBytes,
		GeneratedAt:   time.Now(),
	}
	s.logger.Debugf("证明产物已生成: artifact=%s, kind=%s, result=%s, 耗时=%v",
		artifact.ID, artifact.Kind, result, time.Since(start))
	return artifact.Marshal(), nil
}

// Verify 使用给定验证密钥验证证明产物
//
// 证明不成立返回 false, nil；产物无法解析或不属于该电路时返回错误。
func (s *Session) Verify(vk *VerifierKey, artifact []byte) (bool, error) {
	if err := s.checkActive(); err != nil {
		return false, err
	}
	if vk == nil {
		return false, fmt.Errorf("%w: verifier key is required", ErrSchemaMismatch)
	}

	art, err := UnmarshalArtifact(artifact)
	if err != nil {
		return false, err
	}
	if art.CircuitDigest != vk.CircuitDigest {
		return false, WrapSchemaMismatchError("circuit_digest", vk.CircuitDigest, art.CircuitDigest)
	}
	if art.Scheme != vk.Scheme {
		return false, WrapSchemaMismatchError("scheme", vk.Scheme, art.Scheme)
	}
	if len(art.VKHash) > 0 && !bytes.Equal(art.VKHash, vk.hash) {
		return false, WrapSchemaMismatchError("vk_hash", fmt.Sprintf("%x", vk.hash), fmt.Sprintf("%x", art.VKHash))
	}

	return s.verifyArtifact(art, vk.vk)
}

// VerifyDetached 只凭证明产物验证，验证密钥从注册表查找
func (s *Session) VerifyDetached(artifact []byte) (bool, error) {
	if err := s.checkOpen(); err != nil {
		return false, err
	}
	if s.registry == nil {
		return false, fmt.Errorf("%w: verifier key registry disabled", ErrNotReady)
	}

	art, err := UnmarshalArtifact(artifact)
	if err != nil {
		return false, err
	}

	vkBytes, found, err := s.registry.Get(art.Scheme, art.CircuitDigest)
	if err != nil {
		return false, err
	}
	if !found {
		return false, WrapSchemaMismatchError("circuit_digest", "registered circuit", art.CircuitDigest)
	}

	hash := sha256.Sum256(vkBytes)
	if len(art.VKHash) > 0 && !bytes.Equal(art.VKHash, hash[:]) {
		return false, WrapSchemaMismatchError("vk_hash", fmt.Sprintf("%x", hash), fmt.Sprintf("%x", art.VKHash))
	}

	scheme, err := s.schemes.GetScheme(art.Scheme)
	if err != nil {
		return false, WrapMalformedArtifactError("scheme", err)
	}
	curveID, err := ParseCurve(art.Curve)
	if err != nil {
		return false, WrapMalformedArtifactError("curve", err)
	}
	vk, err := scheme.DeserializeVerifyingKey(vkBytes, curveID)
	if err != nil {
		return false, fmt.Errorf("读取注册的验证密钥失败: %w", err)
	}

	return s.verifyArtifact(art, vk)
}

// verifyArtifact 执行后端验证，后端错误视为证明不成立
func (s *Session) verifyArtifact(art *ProofArtifact, vk VerifyingKey) (bool, error) {
	start := time.Now()
	result := "error"
	defer func() {
		s.metrics.observeVerify(art.Kind, art.Scheme, result, time.Since(start))
	}()

	scheme, err := s.schemes.GetScheme(art.Scheme)
	if err != nil {
		return false, WrapMalformedArtifactError("scheme", err)
	}
	curveID, err := ParseCurve(art.Curve)
	if err != nil {
		return false, WrapMalformedArtifactError("curve", err)
	}

	proof, err := scheme.DeserializeProof(art.Proof, curveID)
	if err != nil {
		return false, WrapMalformedArtifactError("proof", err)
	}
	publicWitness, err := witness.New(curveID.ScalarField())
	if err != nil {
		return false, WrapMalformedArtifactError("public_witness", err)
	}
	if err := publicWitness.UnmarshalBinary(art.PublicWitness); err != nil {
		return false, WrapMalformedArtifactError("public_witness", err)
	}

	if verr := safeVerify(scheme, proof, vk, publicWitness); verr != nil {
		s.logger.Debugf("ZK证明验证失败: artifact=%s, cause=%v", art.ID, verr)
		result = "invalid"
		return false, nil
	}

	result = "valid"
	s.logger.Debugf("ZK证明验证成功: artifact=%s, 耗时=%v", art.ID, time.Since(start))
	return true, nil
}

// safeVerify 后端在畸形证明上可能 panic，统一转换为验证失败
func safeVerify(scheme ProvingScheme, proof Proof, vk VerifyingKey, publicWitness witness.Witness) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("verifier panic: %v", r)
		}
	}()
	return scheme.Verify(proof, vk, publicWitness)
}

// Close 关闭会话，之后所有操作返回 ErrSessionClosed
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return nil
	}
	if s.inflight > 0 {
		s.logger.Warnf("关闭会话时仍有 %d 个证明在生成", s.inflight)
	}
	s.state = StateClosed
	s.handle = nil
	return nil
}

// Circuit 已完成 setup 的电路，未就绪时返回 nil
func (s *Session) Circuit() *CircuitHandle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handle
}

func (s *Session) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == StateClosed {
		return ErrSessionClosed
	}
	return nil
}

func (s *Session) checkActive() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch s.state {
	case StateReady, StateProving:
		return nil
	case StateClosed:
		return ErrSessionClosed
	default:
		return ErrNotReady
	}
}

func (s *Session) beginProve() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateReady, StateProving:
	case StateClosed:
		return ErrSessionClosed
	default:
		return ErrNotReady
	}
	s.inflight++
	s.state = StateProving
	return nil
}

func (s *Session) endProve() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if s.inflight == 0 && s.state == StateProving {
		s.state = StateReady
	}
}
