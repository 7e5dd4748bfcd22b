package zkproof

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/weisyn/zkgeo/pkg/interfaces/infrastructure/log"
)

// CircuitManager 可信设置管理器
//
// 按电路摘要缓存 proving/verifying key，同一进程内的多个会话复用同一组密钥。
// 同一电路的并发 setup 只执行一次，其余调用等待其结果。
type CircuitManager struct {
	logger  log.Logger
	schemes *ProvingSchemeRegistry
	metrics *Metrics

	enableCache bool

	// Trusted setup 缓存
	setupCache map[string]*TrustedSetup
	setupMutex sync.RWMutex
	inflight   singleflight.Group
}

// TrustedSetup 一次可信设置的结果
//
// 启用缓存时多个会话共享同一组密钥，proveMu 保证同一后端 proving key
// 上同时只有一次证明生成。
type TrustedSetup struct {
	provingKey   ProvingKey
	verifyingKey VerifyingKey
	vkBytes      []byte
	proveMu      sync.Mutex

	CreatedAt time.Time
}

// NewCircuitManager 创建可信设置管理器
func NewCircuitManager(
	logger log.Logger,
	schemes *ProvingSchemeRegistry,
	metrics *Metrics,
	enableCache bool,
) *CircuitManager {
	return &CircuitManager{
		logger:      logger,
		schemes:     schemes,
		metrics:     metrics,
		enableCache: enableCache,
		setupCache:  make(map[string]*TrustedSetup),
	}
}

func setupCacheKey(h *CircuitHandle) string {
	return fmt.Sprintf("%s:%s", h.Manifest.Scheme, h.Digest)
}

// GetTrustedSetup 返回电路的可信设置，必要时生成
func (cm *CircuitManager) GetTrustedSetup(h *CircuitHandle) (*TrustedSetup, error) {
	cacheKey := setupCacheKey(h)

	if entry, ok := cm.cached(cacheKey); ok {
		cm.logger.Debugf("复用可信设置: circuit=%s", h.Digest)
		return entry, nil
	}

	v, err, shared := cm.inflight.Do(cacheKey, func() (interface{}, error) {
		// 上一轮 Do 可能刚写入缓存
		if entry, ok := cm.cached(cacheKey); ok {
			return entry, nil
		}
		entry, err := cm.runSetup(h)
		if err != nil {
			return nil, err
		}
		if cm.enableCache {
			cm.setupMutex.Lock()
			cm.setupCache[cacheKey] = entry
			cm.setupMutex.Unlock()
		}
		return entry, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		cm.logger.Debugf("等待并复用并发可信设置: circuit=%s", h.Digest)
	}
	return v.(*TrustedSetup), nil
}

func (cm *CircuitManager) cached(cacheKey string) (*TrustedSetup, bool) {
	if !cm.enableCache {
		return nil, false
	}
	cm.setupMutex.RLock()
	defer cm.setupMutex.RUnlock()
	entry, ok := cm.setupCache[cacheKey]
	return entry, ok
}

func (cm *CircuitManager) runSetup(h *CircuitHandle) (*TrustedSetup, error) {
	scheme, err := cm.schemes.GetScheme(h.Manifest.Scheme)
	if err != nil {
		return nil, WrapSetupFailedError(h.Digest, err)
	}

	start := time.Now()
	pk, vk, err := scheme.Setup(h.CS)
	if err != nil {
		cm.metrics.observeSetup(h.Manifest, "error", time.Since(start))
		return nil, WrapSetupFailedError(h.Digest, err)
	}

	vkBytes, err := scheme.SerializeVerifyingKey(vk)
	if err != nil {
		cm.metrics.observeSetup(h.Manifest, "error", time.Since(start))
		return nil, WrapSetupFailedError(h.Digest, err)
	}

	elapsed := time.Since(start)
	cm.metrics.observeSetup(h.Manifest, "ok", elapsed)
	cm.logger.Infof("可信设置完成: manifest=%s, circuit=%s, 耗时=%v", h.Manifest, h.Digest, elapsed)

	return &TrustedSetup{
		provingKey:   pk,
		verifyingKey: vk,
		vkBytes:      vkBytes,
		CreatedAt:    time.Now(),
	}, nil
}

// CachedSetups 缓存中的可信设置数量
func (cm *CircuitManager) CachedSetups() int {
	cm.setupMutex.RLock()
	defer cm.setupMutex.RUnlock()
	return len(cm.setupCache)
}
