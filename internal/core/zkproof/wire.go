package zkproof

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// wireMessage 解析后的 protobuf 线格式记录
//
// 只保留本包用到的两种线类型：varint 和 length-delimited。
// 其他线类型的字段会被跳过，同号字段以最后一次出现为准。
type wireMessage struct {
	varints map[protowire.Number]uint64
	bytes   map[protowire.Number][]byte
}

func parseWire(b []byte) (*wireMessage, error) {
	msg := &wireMessage{
		varints: make(map[protowire.Number]uint64),
		bytes:   make(map[protowire.Number][]byte),
	}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		switch typ {
		case protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return nil, fmt.Errorf("field %d: %w", num, protowire.ParseError(m))
			}
			msg.varints[num] = v
			n = m
		case protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, fmt.Errorf("field %d: %w", num, protowire.ParseError(m))
			}
			msg.bytes[num] = v
			n = m
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
			}
		}
		b = b[n:]
	}
	return msg, nil
}

func (m *wireMessage) str(num protowire.Number) string {
	return string(m.bytes[num])
}

func (m *wireMessage) has(num protowire.Number) bool {
	if _, ok := m.bytes[num]; ok {
		return true
	}
	_, ok := m.varints[num]
	return ok
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}
