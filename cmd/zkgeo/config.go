package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weisyn/zkgeo/configs"
	"github.com/weisyn/zkgeo/internal/config"
)

// configCmd 配置相关命令
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "配置管理",
}

// configTemplateCmd 输出配置模板
var configTemplateCmd = &cobra.Command{
	Use:   "template",
	Short: "输出默认配置模板",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cmd.OutOrStdout().Write(configs.GetTemplateConfig())
		return err
	},
}

// configShowCmd 显示生效的配置
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "显示合并默认值和命令行标志后的配置",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appConfig, err := loadAppConfig()
		if err != nil {
			return err
		}

		provider := config.NewProvider(appConfig)
		logOpts := provider.GetLog()
		proof := provider.GetZKProof()

		return printer.Record("当前配置", [][2]string{
			{"log.level", logOpts.Level},
			{"log.file_path", logOpts.FilePath},
			{"log.to_console", fmt.Sprint(logOpts.ToConsole)},
			{"zkproof.proving_scheme", proof.GetProvingScheme()},
			{"zkproof.curve", proof.GetCurve()},
			{"zkproof.hash_primitive", proof.GetHashPrimitive()},
			{"zkproof.max_distance", fmt.Sprint(proof.GetMaxDistance())},
			{"zkproof.circuit_dir", proof.GetCircuitDir()},
			{"zkproof.prove_timeout", proof.GetProveTimeout().String()},
			{"zkproof.verifier_key_cache_mb", fmt.Sprint(proof.GetVerifierKeyCacheMB())},
			{"zkproof.verifier_key_life_window", proof.GetVerifierKeyLifeWindow().String()},
			{"zkproof.metrics_namespace", proof.GetMetricsNamespace()},
			{"zkproof.enable_setup_cache", fmt.Sprint(proof.IsSetupCacheEnabled())},
			{"zkproof.silence_backend_logs", fmt.Sprint(proof.IsBackendLogSilenced())},
		})
	},
}

func init() {
	configCmd.AddCommand(configTemplateCmd)
	configCmd.AddCommand(configShowCmd)
}
