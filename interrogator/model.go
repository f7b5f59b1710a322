// Package interrogator 实现 core.Interrogator 的两种后端与发现注册表。
//
// 两种后端：
//   - VectorInterrogator：概率向量分类器，ONNX 模型 + 伴随标签 CSV，
//     输出按标签文件行序对齐，前若干行约定为 rating
//   - ProjectInterrogator：基于项目目录的分类器，目录内自带
//     manifest（project.json）、模型（model.onnx）与词表（tags.txt）
//
// 前向推理统一走 Model 抽象（默认 ONNX Runtime），模型加载是惰性的：
// 发现阶段只建实例不碰权重，首次 Interrogate 时才加载。
package interrogator

// Model 是一次前向推理的最小抽象：输入 NHWC float32 张量，输出概率向量。
// 默认实现是 ONNX Runtime 会话；测试注入假实现。
type Model interface {
	// InputSize 返回模型输入边长（正方形输入）
	InputSize() int

	// Run 执行一次前向推理。input 长度必须是 InputSize*InputSize*3。
	Run(input []float32) ([]float32, error)

	// Close 释放会话资源
	Close() error
}

// modelLoader 按路径加载 Model。fallbackSize 在模型元数据没有静态输入尺寸时使用。
type modelLoader func(path string, fallbackSize int) (Model, error)
