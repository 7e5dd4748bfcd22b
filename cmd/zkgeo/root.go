package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	ConfigFile   string // JSON 配置文件
	LogLevel     string // 日志级别
	LogFile      string // 日志文件
	Metrics      bool   // 结束时打印指标
	OutputFormat string // 输出格式
}

var (
	globalFlags GlobalFlags
	printer     *Printer
)

// errProofRejected 证明未通过验证，以退出码 2 结束
var errProofRejected = errors.New("proof rejected")

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "zkgeo",
	Short: "坐标承诺与零知识证明工具",
	Long: `zkgeo - 基于加盐承诺的坐标零知识证明

流程:
  原始坐标 -> 域元素编码 -> 承诺 -> 证明输入 -> 证明生成 -> 验证结果

电路:
  preimage     证明知道 (x, y) 使 H(x, y) = out_x
  dark_forest  证明两个加盐承诺坐标之间的距离不超过上限`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		format, err := ParseFormat(globalFlags.OutputFormat)
		if err != nil {
			return err
		}
		printer = NewPrinter(format, cmd.OutOrStdout())
		return nil
	},
}

// Execute 执行根命令
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	code := exitCode(err)
	if code == 1 {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
	}
	if code != 0 {
		stop()
		os.Exit(code)
	}
}

// exitCode 0 成功，2 证明未通过验证，1 其他错误
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errProofRejected):
		return 2
	default:
		return 1
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalFlags.ConfigFile, "config", "", "JSON 配置文件")
	rootCmd.PersistentFlags().StringVar(&globalFlags.LogLevel, "log-level", "", "日志级别: debug|info|warn|error (默认 warn)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.LogFile, "log-file", "", "日志文件路径")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Metrics, "metrics", false, "命令结束时打印证明指标")
	rootCmd.PersistentFlags().StringVarP(&globalFlags.OutputFormat, "output", "o", "pretty", "输出格式: json|pretty")

	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(circuitCmd)
	rootCmd.AddCommand(proveCmd)
	rootCmd.AddCommand(configCmd)
}
