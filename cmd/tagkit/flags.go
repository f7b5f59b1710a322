package main

import (
	"github.com/spf13/cobra"

	"github.com/rushteam/tagkit/core"
	"github.com/rushteam/tagkit/pkg/utils"
)

// postprocessFlags 镜像 PostprocessConfig 的字段集。
// 列表字段在命令行上是逗号分隔的字符串（和原始 UI 的文本框语义一致）。
type postprocessFlags struct {
	threshold          float64
	additional         string
	exclude            string
	sortAlpha          bool
	weighted           bool
	replaceUnderscore  bool
	underscoreExcludes string
	escape             bool
	selector           string
}

func addPostprocessFlags(cmd *cobra.Command, f *postprocessFlags) {
	cmd.Flags().Float64Var(&f.threshold, "threshold", 0.35, "置信度阈值（等于阈值的标签保留）")
	cmd.Flags().StringVar(&f.additional, "additional-tags", "", "额外注入的标签（逗号分隔）")
	cmd.Flags().StringVar(&f.exclude, "exclude-tags", "", "排除的标签（逗号分隔）")
	cmd.Flags().BoolVar(&f.sortAlpha, "sort", false, "按字典序输出")
	cmd.Flags().BoolVar(&f.weighted, "weighted", false, "输出 name:confidence 形式")
	cmd.Flags().BoolVar(&f.replaceUnderscore, "replace-underscore", false, "下划线替换为空格")
	cmd.Flags().StringVar(&f.underscoreExcludes, "underscore-excludes", "", "不做下划线替换的标签（逗号分隔）")
	cmd.Flags().BoolVar(&f.escape, "escape-brackets", false, "转义标签中的括号")
	cmd.Flags().StringVar(&f.selector, "selector", "", "CEL 筛选表达式（变量：tag、confidence）")
}

// overlay 把显式给出的 flag 覆盖到 base 上；没动过的 flag 保持 base 的值。
func (f *postprocessFlags) overlay(cmd *cobra.Command, base core.PostprocessConfig) core.PostprocessConfig {
	cfg := base
	if cmd.Flags().Changed("threshold") {
		cfg.Threshold = f.threshold
	}
	if cmd.Flags().Changed("additional-tags") {
		cfg.AdditionalTags = utils.SplitList(f.additional)
	}
	if cmd.Flags().Changed("exclude-tags") {
		cfg.ExcludeTags = utils.SplitList(f.exclude)
	}
	if cmd.Flags().Changed("sort") {
		cfg.SortAlphabetically = f.sortAlpha
	}
	if cmd.Flags().Changed("weighted") {
		cfg.Weighted = f.weighted
	}
	if cmd.Flags().Changed("replace-underscore") {
		cfg.ReplaceUnderscore = f.replaceUnderscore
	}
	if cmd.Flags().Changed("underscore-excludes") {
		cfg.ReplaceUnderscoreExcludes = utils.SplitList(f.underscoreExcludes)
	}
	if cmd.Flags().Changed("escape-brackets") {
		cfg.EscapeBrackets = f.escape
	}
	if cmd.Flags().Changed("selector") {
		cfg.SelectorExpr = f.selector
	}
	return cfg
}
