// Package tagkit 是一个图片打标工具包（Tagger Kit）。
//
// 设计要点：
// - Interrogator-first: 分类模型统一抽象为 interrogate(image) -> (ratings, tags)，
//   向量分类器与项目分类器两种后端按发现名注册、整体刷新
// - 纯函数后处理: 阈值/排除/注入/归一化/排序/加权是固定顺序的确定性管线
// - 批处理落盘: glob 发现 + 文件名模板 + 冲突策略 + 文本与 JSON 边车输出
package tagkit

import (
	"github.com/rushteam/tagkit/batch"
	"github.com/rushteam/tagkit/core"
)

// 轻量 facade：便于用户直接 import "tagkit" 使用核心抽象。
type Interrogator = core.Interrogator
type PostprocessConfig = core.PostprocessConfig
type BatchJob = core.BatchJob
type ConflictPolicy = core.ConflictPolicy
type Pipeline = batch.Pipeline
type Summary = batch.Summary

const (
	ConflictIgnore  = core.ConflictIgnore
	ConflictCopy    = core.ConflictCopy
	ConflictAppend  = core.ConflictAppend
	ConflictPrepend = core.ConflictPrepend
)
