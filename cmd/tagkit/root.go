package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rushteam/tagkit/config"
)

// rootOpts 是所有子命令共享的全局选项。
type rootOpts struct {
	configPath  string
	presetsPath string
	verbose     bool

	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	opts := &rootOpts{v: viper.New()}

	cmd := &cobra.Command{
		Use:           "tagkit",
		Short:         "用预训练分类模型给图片打标签",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "tagkit.yaml", "run-spec 配置文件路径")
	cmd.PersistentFlags().StringVar(&opts.presetsPath, "presets-path", "presets", "预设目录路径")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "输出调试日志")

	// 环境变量覆盖：TAGKIT_CONFIG、TAGKIT_PRESETS_PATH
	opts.v.SetEnvPrefix("TAGKIT")
	opts.v.AutomaticEnv()
	_ = opts.v.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))
	_ = opts.v.BindPFlag("presets_path", cmd.PersistentFlags().Lookup("presets-path"))

	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newInterrogateCmd(opts))
	cmd.AddCommand(newBatchCmd(opts))
	cmd.AddCommand(newPresetCmd(opts))

	return cmd
}

// loadSpec 加载 run-spec。配置文件不存在时返回空 spec（全部走默认/flag）。
func (o *rootOpts) loadSpec() (*config.RunSpec, error) {
	path := o.v.GetString("config")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &config.RunSpec{}, nil
	}
	return config.Load(path)
}

func (o *rootOpts) presetsDir() string {
	return o.v.GetString("presets_path")
}
