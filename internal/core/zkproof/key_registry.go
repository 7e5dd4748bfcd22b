package zkproof

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"

	"github.com/weisyn/zkgeo/pkg/interfaces/infrastructure/log"
)

// KeyRegistry 验证密钥注册表
//
// 以 "scheme:电路摘要" 为键保存序列化的验证密钥，
// 供只持有证明产物的一方（VerifyDetached）查找验证密钥。
type KeyRegistry struct {
	cache  *bigcache.BigCache
	logger log.Logger
	mutex  sync.RWMutex
	closed bool
}

// NewKeyRegistry 创建验证密钥注册表
func NewKeyRegistry(maxSizeMB int, lifeWindow time.Duration, logger log.Logger) (*KeyRegistry, error) {
	if lifeWindow <= 0 {
		lifeWindow = 24 * time.Hour
	}

	cfg := bigcache.DefaultConfig(lifeWindow)
	cfg.Shards = 16
	cfg.MaxEntriesInWindow = 1024
	cfg.MaxEntrySize = 4096
	cfg.HardMaxCacheSize = maxSizeMB
	cfg.Verbose = false

	cache, err := bigcache.New(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("创建验证密钥缓存失败: %w", err)
	}

	return &KeyRegistry{
		cache:  cache,
		logger: logger,
	}, nil
}

func registryKey(scheme, digest string) string {
	return scheme + ":" + digest
}

// Put 注册验证密钥
func (r *KeyRegistry) Put(scheme, digest string, vk []byte) error {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if r.closed {
		return ErrSessionClosed
	}
	if err := r.cache.Set(registryKey(scheme, digest), vk); err != nil {
		return fmt.Errorf("注册验证密钥失败: %w", err)
	}
	r.logger.Debugf("验证密钥已注册: scheme=%s, circuit=%s, size=%d", scheme, digest, len(vk))
	return nil
}

// Get 查找验证密钥，不存在时返回 false
func (r *KeyRegistry) Get(scheme, digest string) ([]byte, bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if r.closed {
		return nil, false, ErrSessionClosed
	}
	vk, err := r.cache.Get(registryKey(scheme, digest))
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("读取验证密钥失败: %w", err)
	}
	return vk, true, nil
}

// Len 注册的验证密钥数量
func (r *KeyRegistry) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if r.closed {
		return 0
	}
	return r.cache.Len()
}

// Close 释放缓存
func (r *KeyRegistry) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	return r.cache.Close()
}
