package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rushteam/tagkit/batch"
	"github.com/rushteam/tagkit/codec"
	"github.com/rushteam/tagkit/core"
	"github.com/rushteam/tagkit/preset"
)

func newBatchCmd(opts *rootOpts) *cobra.Command {
	var (
		name       string
		presetName string
		ppFlags    postprocessFlags

		inputGlob  string
		recursive  bool
		outputDir  string
		template   string
		onConflict string
		saveJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "按 glob 批量推理并把结果写到磁盘",
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := opts.loadSpec()
			if err != nil {
				return err
			}

			job, err := spec.Batch.Job()
			if err != nil {
				return err
			}
			cfg := spec.Postprocess.Config()

			if presetName != "" {
				fields, err := preset.NewDir(opts.presetsDir()).Apply(presetName)
				if err != nil {
					return err
				}
				if job, err = preset.JobFromFields(fields); err != nil {
					return err
				}
				cfg = preset.PostprocessFromFields(fields)
			}
			cfg = ppFlags.overlay(cmd, cfg)

			if cmd.Flags().Changed("input") {
				job.InputGlob = inputGlob
			}
			if cmd.Flags().Changed("recursive") {
				job.Recursive = recursive
			}
			if cmd.Flags().Changed("output-dir") {
				job.OutputDir = outputDir
			}
			if cmd.Flags().Changed("filename-template") {
				job.FilenameTemplate = template
			}
			if cmd.Flags().Changed("on-conflict") {
				if job.OnConflict, err = core.ParseConflictPolicy(onConflict); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("save-json") {
				job.SaveJSON = saveJSON
			}

			if name == "" {
				name = spec.Interrogator
			}

			registry := spec.BuildRegistry()
			defer registry.Close()
			if _, err := registry.Refresh(); err != nil {
				return err
			}
			in, err := registry.Get(name)
			if err != nil {
				if core.IsNotFound(err) {
					fmt.Println(color.RedString(err.Error()))
					return nil
				}
				return err
			}

			pipelineOpts := []batch.Option{}
			if cache, err := spec.BuildCache(); err != nil {
				return err
			} else if cache != nil {
				defer cache.Close()
				pipelineOpts = append(pipelineOpts, batch.WithCache(cache, spec.Cache.TTL))
			}

			summary, err := batch.New(in, codec.New(), pipelineOpts...).Run(cmd.Context(), job, cfg)
			if err != nil {
				return err
			}

			fmt.Printf("%s found=%d processed=%d skipped=%d failed=%d\n",
				color.GreenString("all done :)"),
				summary.Found, summary.Processed, summary.Skipped, summary.Failed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "interrogator", "i", "", "interrogator 名字（默认取 run-spec）")
	cmd.Flags().StringVar(&presetName, "preset", "", "套用的预设名")
	cmd.Flags().StringVar(&inputGlob, "input", "", "输入 glob（或裸目录路径）")
	cmd.Flags().BoolVar(&recursive, "recursive", false, "允许 ** 递归匹配")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "输出根目录（留空写在源文件旁）")
	cmd.Flags().StringVar(&template, "filename-template", "", "输出文件名模板")
	cmd.Flags().StringVar(&onConflict, "on-conflict", "ignore", "冲突策略: ignore/copy/append/prepend")
	cmd.Flags().BoolVar(&saveJSON, "save-json", false, "写 JSON 边车")
	addPostprocessFlags(cmd, &ppFlags)

	return cmd
}
