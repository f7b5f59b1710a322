package core

// PresetStore 是具名预设存储的领域接口。
//
// 一个预设是 PostprocessConfig + BatchJob 字段集的一份快照
// （snake_case 字段名 -> 值）；核心只定义接口，不实现持久化。
//
// 实现：preset.Dir（目录下每个 YAML 文件一个预设）。
type PresetStore interface {
	// List 返回可用的预设名称（排序后）
	List() ([]string, error)

	// Apply 读取一个预设的字段快照，不存在时返回 NOT_FOUND
	Apply(name string) (map[string]any, error)

	// Save 写入（新建或覆盖）一个预设
	Save(name string, fields map[string]any) error
}
