package main

import (
	"github.com/spf13/cobra"

	"github.com/weisyn/zkgeo/internal/core/zkproof"
	"github.com/weisyn/zkgeo/internal/core/zkproof/input"
)

var (
	preimageCircuit   string // preimage 电路文件
	darkForestCircuit string // dark forest 电路文件
)

// proveCmd 证明相关命令
var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "构建输入、生成证明并验证",
	Long: `构建证明输入，完成可信设置、证明生成与验证

证明未通过验证时退出码为 2`,
}

// provePreimageCmd 原像证明
var provePreimageCmd = &cobra.Command{
	Use:   "preimage X Y",
	Short: "证明知道 (X, Y) 的承诺原像",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseUints(args)
		if err != nil {
			return err
		}

		rt, err := startRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.stop(cmd.Context())

		h, builder, err := loadCircuit(rt, preimageCircuit)
		if err != nil {
			return err
		}
		in, err := builder.BuildPreimageInput(values[0], values[1])
		if err != nil {
			return err
		}
		return runProof(cmd, rt, h, in, [][2]string{
			{"kind", in.Kind()},
			{"hash", in.HashPrimitive},
			{"out_x", in.OutX.String()},
		})
	},
}

// proveDarkForestCmd dark forest 移动证明
var proveDarkForestCmd = &cobra.Command{
	Use:   "dark-forest X1 Y1 X2 Y2",
	Short: "证明从 (X1, Y1) 到 (X2, Y2) 的移动不超过最大距离",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseUints(args)
		if err != nil {
			return err
		}

		rt, err := startRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.stop(cmd.Context())

		h, builder, err := loadCircuit(rt, darkForestCircuit)
		if err != nil {
			return err
		}
		in, err := builder.BuildDarkForestInput(values[0], values[1], values[2], values[3])
		if err != nil {
			return err
		}
		return runProof(cmd, rt, h, in, [][2]string{
			{"kind", in.Kind()},
			{"hash", in.HashPrimitive},
			{"hash_x1_y1", in.HashX1Y1.String()},
			{"hash_x2_y2", in.HashX2Y2.String()},
		})
	},
}

// loadCircuit 加载电路文件，返回与其承诺原语一致的输入构建器
func loadCircuit(rt *cliRuntime, path string) (*zkproof.CircuitHandle, *input.Builder, error) {
	h, err := rt.manager.LoadCircuit(path)
	if err != nil {
		return nil, nil, err
	}
	builder, err := rt.manager.BuilderFor(h.Manifest.Hash)
	if err != nil {
		return nil, nil, err
	}
	return h, builder, nil
}

func runProof(cmd *cobra.Command, rt *cliRuntime, h *zkproof.CircuitHandle, in input.ProofInput, fields [][2]string) error {
	ok, err := rt.manager.RunCircuit(cmd.Context(), h, in)
	if err != nil {
		return err
	}

	fields = append(fields, [2]string{"verified", boolString(ok)})
	if err := printer.Record("证明结果", fields); err != nil {
		return err
	}
	printer.Verdict(ok)

	if !ok {
		return errProofRejected
	}
	return nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func init() {
	proveCmd.AddCommand(provePreimageCmd)
	proveCmd.AddCommand(proveDarkForestCmd)

	provePreimageCmd.Flags().StringVar(&preimageCircuit, "circuit", "preimage.zkc", "电路文件")
	proveDarkForestCmd.Flags().StringVar(&darkForestCircuit, "circuit", "dark_forest.zkc", "电路文件")
}
