// Package utils 提供标签字符串处理等小工具。
package utils

import "strings"

// SplitList 把逗号分隔的标签字符串切成列表：去掉每项首尾空白，丢弃空项。
// UI/CLI 的 additional_tags、exclude_tags、replace_underscore_excludes
// 字段都是这种形式。
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// JoinTags 按输出件固定格式拼接最终标签列表（`tag1, tag2, tag3`）。
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
