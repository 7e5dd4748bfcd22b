package input

import (
	"errors"
	"fmt"

	"github.com/weisyn/zkgeo/internal/core/zkproof/commitment"
	"github.com/weisyn/zkgeo/internal/core/zkproof/field"
	"github.com/weisyn/zkgeo/pkg/interfaces/infrastructure/log"
)

// Builder 证明输入构建器
//
// Builder 本身无状态，可以被多个 goroutine 共享；
// 并发安全性取决于注入的 RandomSource（CryptoSource 是安全的）。
type Builder struct {
	engine *commitment.Engine
	random RandomSource
	logger log.Logger
}

// NewBuilder 创建输入构建器，random 为 nil 时使用 CryptoSource
func NewBuilder(engine *commitment.Engine, random RandomSource, logger log.Logger) *Builder {
	if random == nil {
		random = NewCryptoSource()
	}
	return &Builder{
		engine: engine,
		random: random,
		logger: logger,
	}
}

// Primitive 构建器使用的承诺原语名称
func (b *Builder) Primitive() string {
	return b.engine.Primitive().Name()
}

// BuildPreimageInput 构建原像证明输入
func (b *Builder) BuildPreimageInput(x, y uint64) (*PreimageProof, error) {
	elems, err := encodeAll(x, y)
	if err != nil {
		return nil, err
	}

	out, err := b.engine.Commit(elems)
	if err != nil {
		return nil, fmt.Errorf("计算原像承诺失败: %w", err)
	}

	if b.logger != nil {
		b.logger.Debugf("原像输入已构建: primitive=%s, out_x=%s", b.engine.Primitive().Name(), out)
	}
	return &PreimageProof{
		X:             elems[0],
		Y:             elems[1],
		OutX:          out,
		HashPrimitive: b.engine.Primitive().Name(),
	}, nil
}

// BuildDarkForestInput 构建 dark forest 证明输入
//
// 每次调用都抽取新的盐值，两个承诺共用该盐值。
func (b *Builder) BuildDarkForestInput(x1, y1, x2, y2 uint64) (*DarkForestProof, error) {
	coords, err := encodeAll(x1, y1, x2, y2)
	if err != nil {
		return nil, err
	}

	rawSalt, err := b.random.Intn(field.MaxField)
	if err != nil {
		if b.logger != nil {
			b.logger.Errorf("抽取盐值失败: %v", err)
		}
		if !errors.Is(err, ErrRandomnessUnavailable) {
			err = fmt.Errorf("%w: %v", ErrRandomnessUnavailable, err)
		}
		return nil, err
	}
	salt, err := field.Encode(rawSalt)
	if err != nil {
		return nil, err
	}

	h1, err := b.engine.Commit([]field.Element{coords[0], coords[1], salt})
	if err != nil {
		return nil, fmt.Errorf("计算起点承诺失败: %w", err)
	}
	h2, err := b.engine.Commit([]field.Element{coords[2], coords[3], salt})
	if err != nil {
		return nil, fmt.Errorf("计算终点承诺失败: %w", err)
	}

	if b.logger != nil {
		b.logger.Debugf("dark forest 输入已构建: primitive=%s, hash_x1_y1=%s, hash_x2_y2=%s",
			b.engine.Primitive().Name(), h1, h2)
	}
	return &DarkForestProof{
		X1:       coords[0],
		Y1:       coords[1],
		X2:       coords[2],
		Y2:       coords[3],
		Salt:     salt,
		HashX1Y1: h1,
		HashX2Y2: h2,

		HashPrimitive: b.engine.Primitive().Name(),
	}, nil
}

func encodeAll(values ...uint64) ([]field.Element, error) {
	out := make([]field.Element, len(values))
	for i, v := range values {
		e, err := field.Encode(v)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}
