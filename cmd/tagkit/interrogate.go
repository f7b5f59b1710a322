package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rushteam/tagkit/batch"
	"github.com/rushteam/tagkit/codec"
	"github.com/rushteam/tagkit/core"
	"github.com/rushteam/tagkit/pkg/utils"
	"github.com/rushteam/tagkit/preset"
)

func newInterrogateCmd(opts *rootOpts) *cobra.Command {
	var (
		name       string
		presetName string
		showRaw    bool
		ppFlags    postprocessFlags
	)

	cmd := &cobra.Command{
		Use:   "interrogate <image>",
		Short: "对单张图片推理并输出标签",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := opts.loadSpec()
			if err != nil {
				return err
			}

			cfg := spec.Postprocess.Config()
			if presetName != "" {
				fields, err := preset.NewDir(opts.presetsDir()).Apply(presetName)
				if err != nil {
					return err
				}
				cfg = preset.PostprocessFromFields(fields)
			}
			cfg = ppFlags.overlay(cmd, cfg)

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
				// 未知 interrogator 用错误消息代替标签结果，不向上抛
				if core.IsNotFound(err) {
					fmt.Println(color.RedString(err.Error()))
					return nil
				}
				return err
			}

			pipeline := batch.New(in, codec.New())
			ratings, _, processed, err := pipeline.One(cmd.Context(), args[0], cfg)
			if err != nil {
				return err
			}

			fmt.Println(utils.JoinTags(processed))
			if showRaw {
				printRatings(ratings)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "interrogator", "i", "", "interrogator 名字（默认取 run-spec）")
	cmd.Flags().StringVar(&presetName, "preset", "", "套用的预设名")
	cmd.Flags().BoolVar(&showRaw, "ratings", false, "附带输出 rating 置信度")
	addPostprocessFlags(cmd, &ppFlags)

	return cmd
}

func printRatings(ratings map[string]float64) {
	names := make([]string, 0, len(ratings))
	for n := range ratings {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return ratings[names[i]] > ratings[names[j]] })
	for _, n := range names {
		fmt.Printf("%s %.3f\n", color.CyanString(n), ratings[n])
	}
}
