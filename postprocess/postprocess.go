// Package postprocess 实现标签后处理管线：把模型输出的原始
// 标签->置信度 映射过滤/变换成最终的有序标签列表。
//
// 纯函数：不做任何 I/O，不修改输入映射，相同输入产生逐字节相同的输出。
// 步骤顺序固定（阈值 -> 排除 -> 表达式筛选 -> 注入 -> 下划线 -> 转义 -> 排序 -> 加权），
// 任何一步都不会把前面步骤删掉的标签重新引入。
package postprocess

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rushteam/tagkit/core"
	"github.com/rushteam/tagkit/pkg/dsl"
)

// entry 是管线内部的中间表示。injected 标记 additional_tags 注入的标签：
// 它们没有置信度，weighted 输出时不带数值后缀。
type entry struct {
	name       string
	confidence float64
	injected   bool
}

// Validate 只做配置校验（目前即 selector 表达式编译），不触碰标签数据。
// 批处理在进入文件循环前调用它实现 fail-fast。
func Validate(cfg core.PostprocessConfig) error {
	if cfg.SelectorExpr == "" {
		return nil
	}
	_, err := dsl.Compile(cfg.SelectorExpr)
	return err
}

// Apply 对原始标签映射执行后处理管线，返回最终的有序标签列表。
// ratings 不经过此函数：评级映射原样透传给调用方展示。
func Apply(raw map[string]float64, cfg core.PostprocessConfig) ([]string, error) {
	var selector *dsl.Selector
	if cfg.SelectorExpr != "" {
		var err error
		selector, err = dsl.Compile(cfg.SelectorExpr)
		if err != nil {
			return nil, err
		}
	}

	exclude := toSet(cfg.ExcludeTags)

	// 阈值（>= 保留）、排除、表达式筛选。
	// dropped 记录被删的名字：后面的注入步骤不允许把它们带回来。
	kept := make([]entry, 0, len(raw))
	dropped := make(map[string]bool)
	for name, confidence := range raw {
		if confidence < cfg.Threshold || exclude[name] {
			dropped[name] = true
			continue
		}
		if selector != nil {
			ok, err := selector.Keep(name, confidence)
			if err != nil {
				return nil, err
			}
			if !ok {
				dropped[name] = true
				continue
			}
		}
		kept = append(kept, entry{name: name, confidence: confidence})
	}

	// 模型标签按置信度降序，同分按名字升序，保证确定性。
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].confidence != kept[j].confidence {
			return kept[i].confidence > kept[j].confidence
		}
		return kept[i].name < kept[j].name
	})

	// additional_tags 注入：按书写顺序放在最前；排除与前面的删除优先于注入。
	seen := make(map[string]bool, len(kept))
	for _, e := range kept {
		seen[e.name] = true
	}
	final := make([]entry, 0, len(kept)+len(cfg.AdditionalTags))
	for _, name := range cfg.AdditionalTags {
		if name == "" || exclude[name] || dropped[name] || seen[name] {
			continue
		}
		seen[name] = true
		final = append(final, entry{name: name, injected: true})
	}
	final = append(final, kept...)

	// 名字变换：下划线替换（按替换前的原始形式查排除表）、括号转义。
	underscoreKeep := toSet(cfg.ReplaceUnderscoreExcludes)
	for i := range final {
		name := final[i].name
		if cfg.ReplaceUnderscore && !underscoreKeep[name] {
			name = strings.ReplaceAll(name, "_", " ")
		}
		if cfg.EscapeBrackets {
			name = escapeBrackets(name)
		}
		final[i].name = name
	}

	// 变换可能产生碰撞（如 a_b 与 a b），去重保留先出现的。
	deduped := final[:0]
	out := make(map[string]bool, len(final))
	for _, e := range final {
		if out[e.name] {
			continue
		}
		out[e.name] = true
		deduped = append(deduped, e)
	}
	final = deduped

	if cfg.SortAlphabetically {
		sort.SliceStable(final, func(i, j int) bool {
			return final[i].name < final[j].name
		})
	}

	result := make([]string, 0, len(final))
	for _, e := range final {
		if cfg.Weighted && !e.injected {
			result = append(result, fmt.Sprintf("%s:%.3f", e.name, e.confidence))
		} else {
			result = append(result, e.name)
		}
	}
	return result, nil
}

// escapeBrackets 把 `(`、`)` 转义为 `\(`、`\)`。
// 已被反斜杠转义的括号不再二次转义，保证转义幂等
// （additional_tags 里用户可能已经写了 `\(`）。
func escapeBrackets(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	escaped := false
	for _, r := range s {
		if (r == '(' || r == ')') && !escaped {
			b.WriteByte('\\')
		}
		escaped = r == '\\' && !escaped
		b.WriteRune(r)
	}
	return b.String()
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
