// Package input 构建证明输入
//
// 输入构建器把原始坐标编码为域元素、计算承诺，
// 生成可以直接交给证明编排器的 ProofInput。
package input

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/weisyn/zkgeo/internal/core/zkproof/circuits"
	"github.com/weisyn/zkgeo/internal/core/zkproof/field"
)

// ProofInput 证明输入，构建后不可变
type ProofInput interface {
	// Kind 对应的电路类型
	Kind() string

	// Primitive 计算承诺使用的原语名称
	Primitive() string

	// Assignment 渲染为电路的完整赋值
	Assignment() (frontend.Circuit, error)

	// PublicValues 按电路声明顺序返回公开输入
	PublicValues() []field.Element
}

// PreimageProof 原像证明输入
type PreimageProof struct {
	X    field.Element `json:"x"`
	Y    field.Element `json:"y"`
	OutX field.Element `json:"out_x"`

	HashPrimitive string `json:"hash_primitive"`
}

// Kind 实现 ProofInput
func (p *PreimageProof) Kind() string {
	return circuits.KindPreimage
}

// Primitive 实现 ProofInput
func (p *PreimageProof) Primitive() string {
	return p.HashPrimitive
}

// Assignment 实现 ProofInput
func (p *PreimageProof) Assignment() (frontend.Circuit, error) {
	vals, err := bigInts(p.X, p.Y, p.OutX)
	if err != nil {
		return nil, err
	}
	return &circuits.PreimageCircuit{X: vals[0], Y: vals[1], OutX: vals[2]}, nil
}

// PublicValues 实现 ProofInput
func (p *PreimageProof) PublicValues() []field.Element {
	return []field.Element{p.OutX}
}

// DarkForestProof dark forest 证明输入
type DarkForestProof struct {
	X1       field.Element `json:"x1"`
	Y1       field.Element `json:"y1"`
	X2       field.Element `json:"x2"`
	Y2       field.Element `json:"y2"`
	Salt     field.Element `json:"salt"`
	HashX1Y1 field.Element `json:"hash_x1_y1"`
	HashX2Y2 field.Element `json:"hash_x2_y2"`

	HashPrimitive string `json:"hash_primitive"`
}

// Kind 实现 ProofInput
func (p *DarkForestProof) Kind() string {
	return circuits.KindDarkForest
}

// Primitive 实现 ProofInput
func (p *DarkForestProof) Primitive() string {
	return p.HashPrimitive
}

// Assignment 实现 ProofInput
func (p *DarkForestProof) Assignment() (frontend.Circuit, error) {
	vals, err := bigInts(p.X1, p.Y1, p.X2, p.Y2, p.Salt, p.HashX1Y1, p.HashX2Y2)
	if err != nil {
		return nil, err
	}
	return &circuits.DarkForestCircuit{
		X1:       vals[0],
		Y1:       vals[1],
		X2:       vals[2],
		Y2:       vals[3],
		Salt:     vals[4],
		HashX1Y1: vals[5],
		HashX2Y2: vals[6],
	}, nil
}

// PublicValues 实现 ProofInput
func (p *DarkForestProof) PublicValues() []field.Element {
	return []field.Element{p.HashX1Y1, p.HashX2Y2}
}

func bigInts(elems ...field.Element) ([]frontend.Variable, error) {
	out := make([]frontend.Variable, len(elems))
	for i, e := range elems {
		v, err := e.BigInt()
		if err != nil {
			return nil, fmt.Errorf("assignment[%d]: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
