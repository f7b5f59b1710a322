package core

import "image"

// Codec 是图片编解码注册表的领域接口。
//
// 批处理用 Extensions 做 glob 结果的扩展名预过滤，用 Decode 解码单个文件；
// Decode 对无法识别/损坏的文件返回 UNSUPPORTED_IMAGE 领域错误，
// 批处理对这类错误按 skip-and-continue 处理。
//
// 实现：codec.Registry。
type Codec interface {
	// Extensions 返回支持的文件扩展名（小写、不带点）
	Extensions() []string

	// Decode 读取并解码 path 指向的图片（含 EXIF 方向归一化）
	Decode(path string) (image.Image, error)
}
