package core

// PostprocessConfig 是标签后处理的不可变配置值。
// 每次调用前从 UI/CLI/预设字段构造一份，按值传入纯函数；核心不负责持久化
// （持久化是 PresetStore 协作者的职责）。
type PostprocessConfig struct {
	// Threshold 置信度阈值，等于阈值的标签保留（闭区间下界）
	Threshold float64

	// AdditionalTags 额外注入的标签（无置信度；weighted 输出时不带数值后缀）
	AdditionalTags []string

	// ExcludeTags 排除的标签名（区分大小写的精确匹配）
	ExcludeTags []string

	// SortAlphabetically 为 true 时按字典序输出，否则按置信度降序
	SortAlphabetically bool

	// Weighted 为 true 时输出 name:confidence 形式
	Weighted bool

	// ReplaceUnderscore 为 true 时把标签名中的 `_` 替换为空格
	ReplaceUnderscore bool

	// ReplaceUnderscoreExcludes 不做下划线替换的标签名（按替换前的原始形式匹配，
	// 典型用途：颜文字 0_0、^_^ 等）
	ReplaceUnderscoreExcludes []string

	// EscapeBrackets 为 true 时转义标签名中的 `(` 和 `)`
	EscapeBrackets bool

	// SelectorExpr 可选的 CEL 过滤表达式（变量：tag、confidence）。
	// 空串表示关闭；只能删减标签，不能新增。
	SelectorExpr string
}

// ConflictPolicy 是批处理输出文本已存在时的冲突策略。
type ConflictPolicy string

const (
	ConflictIgnore  ConflictPolicy = "ignore"  // 跳过整个文件（不做推理，原内容不动）
	ConflictCopy    ConflictPolicy = "copy"    // 用新结果覆盖原内容
	ConflictAppend  ConflictPolicy = "append"  // 原内容在前，新结果在后，单个空格连接
	ConflictPrepend ConflictPolicy = "prepend" // 新结果在前，原内容在后，单个空格连接
)

// ParseConflictPolicy 解析冲突策略字符串。空串回退为 ignore；未知值是配置错误。
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch ConflictPolicy(s) {
	case "":
		return ConflictIgnore, nil
	case ConflictIgnore, ConflictCopy, ConflictAppend, ConflictPrepend:
		return ConflictPolicy(s), nil
	default:
		return "", NewDomainError(ModuleBatch, ErrorCodeInvalidInput,
			"batch: unknown conflict policy: "+s)
	}
}

// DefaultFilenameTemplate 是输出文件名模板的默认值。
const DefaultFilenameTemplate = "[name].[output_extension]"

// BatchJob 描述一次批处理调用，瞬态值，每次调用构造一份。
type BatchJob struct {
	// InputGlob 输入 glob 模式；不以通配符结尾时自动补一级 `/*`
	InputGlob string

	// Recursive 为 true 时允许 `**` 递归匹配
	Recursive bool

	// OutputDir 输出根目录，空串表示写在源文件旁边（即 glob 根目录下镜像位置）
	OutputDir string

	// FilenameTemplate 输出文件名模板，空串回退为 DefaultFilenameTemplate
	FilenameTemplate string

	// OnConflict 输出文本已存在时的策略
	OnConflict ConflictPolicy

	// SaveJSON 为 true 时额外写 `.json` 边车（原始 [ratings, tags]，过滤前置信度）
	SaveJSON bool
}
