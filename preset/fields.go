package preset

import (
	"github.com/rushteam/tagkit/core"
	"github.com/rushteam/tagkit/pkg/conv"
)

// 预设快照的字段名：PostprocessConfig + BatchJob 的字段集，snake_case。
// 与 config 包的 YAML 字段保持一致。
const (
	FieldThreshold          = "threshold"
	FieldAdditionalTags     = "additional_tags"
	FieldExcludeTags        = "exclude_tags"
	FieldSortAlphabetically = "sort_alphabetically"
	FieldWeighted           = "weighted"
	FieldReplaceUnderscore  = "replace_underscore"
	FieldUnderscoreExcludes = "replace_underscore_excludes"
	FieldEscapeBrackets     = "escape_brackets"
	FieldSelectorExpr       = "selector_expr"

	FieldInputGlob        = "input_glob"
	FieldRecursive        = "recursive"
	FieldOutputDir        = "output_dir"
	FieldFilenameTemplate = "filename_template"
	FieldOnConflict       = "on_conflict"
	FieldSaveJSON         = "save_json"
)

// PostprocessFromFields 把字段快照还原成后处理配置。缺失字段取零值。
func PostprocessFromFields(fields map[string]any) core.PostprocessConfig {
	return core.PostprocessConfig{
		Threshold:                 conv.ConfigGetFloat64(fields, FieldThreshold, 0),
		AdditionalTags:            conv.ConfigGetStrings(fields, FieldAdditionalTags),
		ExcludeTags:               conv.ConfigGetStrings(fields, FieldExcludeTags),
		SortAlphabetically:        conv.ConfigGetBool(fields, FieldSortAlphabetically, false),
		Weighted:                  conv.ConfigGetBool(fields, FieldWeighted, false),
		ReplaceUnderscore:         conv.ConfigGetBool(fields, FieldReplaceUnderscore, false),
		ReplaceUnderscoreExcludes: conv.ConfigGetStrings(fields, FieldUnderscoreExcludes),
		EscapeBrackets:            conv.ConfigGetBool(fields, FieldEscapeBrackets, false),
		SelectorExpr:              conv.ConfigGet[string](fields, FieldSelectorExpr, ""),
	}
}

// JobFromFields 把字段快照还原成批处理任务。未知冲突策略是配置错误。
func JobFromFields(fields map[string]any) (core.BatchJob, error) {
	policy, err := core.ParseConflictPolicy(conv.ConfigGet[string](fields, FieldOnConflict, ""))
	if err != nil {
		return core.BatchJob{}, err
	}
	return core.BatchJob{
		InputGlob:        conv.ConfigGet[string](fields, FieldInputGlob, ""),
		Recursive:        conv.ConfigGetBool(fields, FieldRecursive, false),
		OutputDir:        conv.ConfigGet[string](fields, FieldOutputDir, ""),
		FilenameTemplate: conv.ConfigGet[string](fields, FieldFilenameTemplate, ""),
		OnConflict:       policy,
		SaveJSON:         conv.ConfigGetBool(fields, FieldSaveJSON, false),
	}, nil
}

// FieldsFrom 把一份批处理任务与后处理配置打成可保存的字段快照。
func FieldsFrom(job core.BatchJob, cfg core.PostprocessConfig) map[string]any {
	return map[string]any{
		FieldThreshold:          cfg.Threshold,
		FieldAdditionalTags:     cfg.AdditionalTags,
		FieldExcludeTags:        cfg.ExcludeTags,
		FieldSortAlphabetically: cfg.SortAlphabetically,
		FieldWeighted:           cfg.Weighted,
		FieldReplaceUnderscore:  cfg.ReplaceUnderscore,
		FieldUnderscoreExcludes: cfg.ReplaceUnderscoreExcludes,
		FieldEscapeBrackets:     cfg.EscapeBrackets,
		FieldSelectorExpr:       cfg.SelectorExpr,

		FieldInputGlob:        job.InputGlob,
		FieldRecursive:        job.Recursive,
		FieldOutputDir:        job.OutputDir,
		FieldFilenameTemplate: job.FilenameTemplate,
		FieldOnConflict:       string(job.OnConflict),
		FieldSaveJSON:         job.SaveJSON,
	}
}
