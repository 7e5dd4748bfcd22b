package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/weisyn/zkgeo/internal/core/zkproof/commitment"
	"github.com/weisyn/zkgeo/internal/core/zkproof/field"
)

var commitHash string // 承诺原语

// encodeCmd 域元素编码
var encodeCmd = &cobra.Command{
	Use:   "encode <n>...",
	Short: "将整数编码为域元素",
	Long:  fmt.Sprintf("将 [0, %d) 内的整数编码为 0x 前缀、偶数长度的小写十六进制域元素", field.MaxField),
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseUints(args)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(values))
		for i, v := range values {
			e, err := field.Encode(v)
			if err != nil {
				return err
			}
			rows = append(rows, []string{args[i], e.String()})
		}
		return printer.Rows([]string{"value", "element"}, rows)
	},
}

// commitCmd 计算承诺
var commitCmd = &cobra.Command{
	Use:   "commit <n>...",
	Short: "计算有序整数序列的承诺",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseUints(args)
		if err != nil {
			return err
		}

		elems := make([]field.Element, 0, len(values))
		for _, v := range values {
			e, err := field.Encode(v)
			if err != nil {
				return err
			}
			elems = append(elems, e)
		}

		primitive, err := commitment.NewPrimitive(commitHash)
		if err != nil {
			return err
		}
		out, err := commitment.NewEngine(primitive).Commit(elems)
		if err != nil {
			return err
		}

		return printer.Record("承诺", [][2]string{
			{"hash", primitive.Name()},
			{"inputs", fmt.Sprint(elems)},
			{"commitment", out.String()},
		})
	},
}

func init() {
	commitCmd.Flags().StringVar(&commitHash, "hash", commitment.PrimitivePedersen, "承诺原语: pedersen|mimc")
}

func parseUints(args []string) ([]uint64, error) {
	out := make([]uint64, len(args))
	for i, a := range args {
		v, err := strconv.ParseUint(a, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("无效的整数 %q: %w", a, err)
		}
		out[i] = v
	}
	return out, nil
}
