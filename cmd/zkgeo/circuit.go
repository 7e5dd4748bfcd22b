package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weisyn/zkgeo/internal/core/zkproof/circuits"
)

var (
	circuitKind        string // 电路类型
	circuitOut         string // 输出路径
	circuitScheme      string // 证明方案
	circuitHash        string // 承诺原语
	circuitMaxDistance uint64 // dark forest 最大距离
)

// circuitCmd 电路相关命令
var circuitCmd = &cobra.Command{
	Use:   "circuit",
	Short: "电路管理",
}

// circuitExportCmd 编译并导出电路文件
var circuitExportCmd = &cobra.Command{
	Use:   "export",
	Short: "编译电路并写入电路文件",
	Long: fmt.Sprintf(`按清单编译电路并写入电路文件，电路文件可用于 prove 命令

支持的电路类型: %s`, strings.Join(circuits.Kinds(), ", ")),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := startRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.stop(cmd.Context())

		manifest := rt.manager.DefaultManifest(circuitKind)
		if cmd.Flags().Changed("scheme") {
			manifest.Scheme = circuitScheme
		}
		if cmd.Flags().Changed("hash") {
			manifest.Hash = circuitHash
		}
		if cmd.Flags().Changed("max-distance") {
			manifest.MaxDistance = circuitMaxDistance
		}

		printer.Info(fmt.Sprintf("编译电路 %s ...", manifest))
		h, err := rt.manager.Loader().CompileCircuit(manifest)
		if err != nil {
			return err
		}

		out := circuitOut
		if out == "" {
			out = rt.manager.ResolveCircuitPath(h.Manifest.Kind + ".zkc")
		}
		if err := rt.manager.Loader().WriteCircuitFile(h, out); err != nil {
			return err
		}

		fields := [][2]string{
			{"path", out},
			{"kind", h.Manifest.Kind},
			{"scheme", h.Manifest.Scheme},
			{"curve", h.Manifest.Curve},
			{"hash", h.Manifest.Hash},
			{"constraints", fmt.Sprint(h.NbConstraints())},
			{"digest", h.Digest},
		}
		if h.Manifest.Kind == circuits.KindDarkForest {
			fields = append(fields, [2]string{"max_distance", fmt.Sprint(h.Manifest.MaxDistance)})
		}
		return printer.Record("电路已导出", fields)
	},
}

func init() {
	circuitCmd.AddCommand(circuitExportCmd)

	circuitExportCmd.Flags().StringVar(&circuitKind, "kind", circuits.KindPreimage, "电路类型: preimage|dark_forest")
	circuitExportCmd.Flags().StringVar(&circuitOut, "out", "", "输出文件 (默认: <circuit_dir>/<kind>.zkc)")
	circuitExportCmd.Flags().StringVar(&circuitScheme, "scheme", "groth16", "证明方案: groth16|plonk")
	circuitExportCmd.Flags().StringVar(&circuitHash, "hash", "pedersen", "承诺原语: pedersen|mimc")
	circuitExportCmd.Flags().Uint64Var(&circuitMaxDistance, "max-distance", circuits.DefaultMaxDistance, "dark forest 最大移动距离")
}
