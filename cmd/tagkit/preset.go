package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rushteam/tagkit/core"
	"github.com/rushteam/tagkit/preset"
)

func newPresetCmd(opts *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "管理具名预设",
	}
	cmd.AddCommand(newPresetListCmd(opts))
	cmd.AddCommand(newPresetSaveCmd(opts))
	return cmd
}

func newPresetListCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "列出可用预设",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := preset.NewDir(opts.presetsDir()).List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println(color.YellowString("no presets found"))
				return nil
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func newPresetSaveCmd(opts *rootOpts) *cobra.Command {
	var (
		ppFlags    postprocessFlags
		inputGlob  string
		recursive  bool
		outputDir  string
		template   string
		onConflict string
		saveJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "把当前 flag 组合保存为预设",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := core.ParseConflictPolicy(onConflict)
			if err != nil {
				return err
			}
			job := core.BatchJob{
				InputGlob:        inputGlob,
				Recursive:        recursive,
				OutputDir:        outputDir,
				FilenameTemplate: template,
				OnConflict:       policy,
				SaveJSON:         saveJSON,
			}
			cfg := ppFlags.overlay(cmd, core.PostprocessConfig{Threshold: ppFlags.threshold})

			store := preset.NewDir(opts.presetsDir())
			if err := store.Save(args[0], preset.FieldsFrom(job, cfg)); err != nil {
				return err
			}
			fmt.Println(color.GreenString("saved preset %s", args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&inputGlob, "input", "", "输入 glob（或裸目录路径）")
	cmd.Flags().BoolVar(&recursive, "recursive", false, "允许 ** 递归匹配")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "输出根目录")
	cmd.Flags().StringVar(&template, "filename-template", "", "输出文件名模板")
	cmd.Flags().StringVar(&onConflict, "on-conflict", "ignore", "冲突策略: ignore/copy/append/prepend")
	cmd.Flags().BoolVar(&saveJSON, "save-json", false, "写 JSON 边车")
	addPostprocessFlags(cmd, &ppFlags)

	return cmd
}
