package core

import (
	"context"
	"image"
)

// Interrogator 是分类模型的领域接口：输入一张已解码的图片，
// 输出 rating 置信度与 tag 置信度两个互不相交的映射。
//
// 设计原则：
//   - 定义在领域层（core），由 interrogator 包的两种后端实现
//     （概率向量分类器 / 基于项目目录的分类器）
//   - 同一输入（模型权重 + 图片字节）输出确定，前向推理只读不写
//   - 实例由发现（refresh）整体构建、整体替换，持有的模型独占且加载后不可变
//
// 实现：
//   - interrogator.VectorInterrogator 实现此接口
//   - interrogator.ProjectInterrogator 实现此接口
type Interrogator interface {
	// Name 返回 interrogator 的唯一标识（即发现时的 key）
	Name() string

	// Interrogate 对单张图片做一次前向推理。
	// ratings 与 tags 均为 名称 -> 置信度（[0,1]）的映射，二者词表互斥、永不合并。
	Interrogate(ctx context.Context, img image.Image) (ratings map[string]float64, tags map[string]float64, err error)

	// Close 释放模型资源（会话、张量等）。refresh 整体替换实例集时调用。
	Close() error
}
