// Package preset 实现 core.PresetStore：目录下每个 YAML 文件是一个具名预设，
// 文件名（去扩展名）即预设名。
package preset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/tagkit/core"
)

const presetExt = ".yaml"

// Dir 是文件目录实现的预设存储。
type Dir struct {
	root string
}

var _ core.PresetStore = (*Dir)(nil)

// NewDir 创建一个指向 root 的预设存储。目录可以尚不存在，首次 Save 时创建。
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// List 返回可用的预设名称（排序后）。目录不存在时返回空列表，不报错。
func (d *Dir) List() ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), presetExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), presetExt))
	}
	sort.Strings(names)
	return names, nil
}

// Apply 读取一个预设的字段快照。
func (d *Dir) Apply(name string) (map[string]any, error) {
	data, err := os.ReadFile(d.path(name))
	if os.IsNotExist(err) {
		return nil, core.NewDomainError(core.ModulePreset, core.ErrorCodeNotFound,
			fmt.Sprintf("preset: %q not found", name))
	}
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}

	fields := make(map[string]any)
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parse preset %s: %w", name, err)
	}
	return fields, nil
}

// Save 写入（新建或覆盖）一个预设。
func (d *Dir) Save(name string, fields map[string]any) error {
	if strings.TrimSpace(name) == "" {
		return core.NewDomainError(core.ModulePreset, core.ErrorCodeInvalidInput,
			"preset: name must not be empty")
	}
	if err := os.MkdirAll(d.root, 0o777); err != nil {
		return fmt.Errorf("create preset dir: %w", err)
	}

	data, err := yaml.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode preset %s: %w", name, err)
	}
	return os.WriteFile(d.path(name), data, 0o644)
}

func (d *Dir) path(name string) string {
	return filepath.Join(d.root, name+presetExt)
}
