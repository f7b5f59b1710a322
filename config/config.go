// Package config 提供 run-spec 配置文件的加载与按配置构建组件。
//
// 一个 run-spec 是一份 YAML 文档，绑定一次运行需要的全部东西：
// interrogator 名字与模型登记、批处理任务、后处理配置、可选的结果缓存后端。
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/tagkit/core"
)

// RunSpec 是 run-spec 文件的根结构。
type RunSpec struct {
	// Interrogator 是本次运行使用的 interrogator 名字
	Interrogator string `yaml:"interrogator"`

	// ProjectsPath 是项目分类器的根目录（空串表示不扫描项目）
	ProjectsPath string `yaml:"projects_path"`

	// Models 是内建向量分类器登记表
	Models []VectorModel `yaml:"models"`

	Batch       BatchSpec       `yaml:"batch"`
	Postprocess PostprocessSpec `yaml:"postprocess"`

	// Cache 可选：配置后批处理会缓存原始推理结果
	Cache *CacheSpec `yaml:"cache"`
}

// VectorModel 登记一个内建向量分类器。
type VectorModel struct {
	Name   string `yaml:"name"`
	Model  string `yaml:"model"`  // ONNX 模型路径
	Labels string `yaml:"labels"` // 伴随标签 CSV 路径
}

// BatchSpec 是 BatchJob 的 YAML 形态。
type BatchSpec struct {
	InputGlob        string `yaml:"input_glob"`
	Recursive        bool   `yaml:"recursive"`
	OutputDir        string `yaml:"output_dir"`
	FilenameTemplate string `yaml:"filename_template"`
	OnConflict       string `yaml:"on_conflict"`
	SaveJSON         bool   `yaml:"save_json"`
}

// Job 把 BatchSpec 转成领域值。未知冲突策略是配置错误。
func (b BatchSpec) Job() (core.BatchJob, error) {
	policy, err := core.ParseConflictPolicy(b.OnConflict)
	if err != nil {
		return core.BatchJob{}, err
	}
	return core.BatchJob{
		InputGlob:        b.InputGlob,
		Recursive:        b.Recursive,
		OutputDir:        b.OutputDir,
		FilenameTemplate: b.FilenameTemplate,
		OnConflict:       policy,
		SaveJSON:         b.SaveJSON,
	}, nil
}

// PostprocessSpec 是 PostprocessConfig 的 YAML 形态。
type PostprocessSpec struct {
	Threshold                 float64  `yaml:"threshold"`
	AdditionalTags            []string `yaml:"additional_tags"`
	ExcludeTags               []string `yaml:"exclude_tags"`
	SortAlphabetically        bool     `yaml:"sort_alphabetically"`
	Weighted                  bool     `yaml:"weighted"`
	ReplaceUnderscore         bool     `yaml:"replace_underscore"`
	ReplaceUnderscoreExcludes []string `yaml:"replace_underscore_excludes"`
	EscapeBrackets            bool     `yaml:"escape_brackets"`
	SelectorExpr              string   `yaml:"selector_expr"`
}

// Config 把 PostprocessSpec 转成领域值。
func (p PostprocessSpec) Config() core.PostprocessConfig {
	return core.PostprocessConfig{
		Threshold:                 p.Threshold,
		AdditionalTags:            p.AdditionalTags,
		ExcludeTags:               p.ExcludeTags,
		SortAlphabetically:        p.SortAlphabetically,
		Weighted:                  p.Weighted,
		ReplaceUnderscore:         p.ReplaceUnderscore,
		ReplaceUnderscoreExcludes: p.ReplaceUnderscoreExcludes,
		EscapeBrackets:            p.EscapeBrackets,
		SelectorExpr:              p.SelectorExpr,
	}
}

// CacheSpec 配置结果缓存后端。
type CacheSpec struct {
	Type string `yaml:"type"` // memory / redis / badger
	Addr string `yaml:"addr"` // redis 地址
	DB   int    `yaml:"db"`   // redis 库号
	Path string `yaml:"path"` // badger 数据目录
	TTL  int    `yaml:"ttl"`  // 缓存过期秒数，0 表示不过期
}

// Load 从 YAML 文件加载 run-spec。
func Load(path string) (*RunSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var spec RunSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &spec, nil
}
