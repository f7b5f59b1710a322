package interrogator

import (
	"context"
	"encoding/csv"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/rushteam/tagkit/core"
)

// vectorRatingCount 是标签 CSV 的约定：前 4 行是 rating，其余是 tag。
const vectorRatingCount = 4

// VectorInterrogator 是概率向量分类器后端（wd 系列模型的形态）：
// ONNX 模型对每个词表条目输出一个置信度，顺序与伴随 CSV 的行序对齐。
//
// CSV 格式：tag_id,name,category，带表头行；只取 name 列。
// 模型与词表都是惰性加载：Refresh 只建实例，首次 Interrogate 才读盘。
type VectorInterrogator struct {
	name      string
	modelPath string
	labelPath string

	loadModel modelLoader

	once    sync.Once
	loadErr error
	model   Model
	labels  []string
}

var _ core.Interrogator = (*VectorInterrogator)(nil)

// NewVectorInterrogator 创建一个向量分类器实例。
func NewVectorInterrogator(name, modelPath, labelPath string) *VectorInterrogator {
	return &VectorInterrogator{
		name:      name,
		modelPath: modelPath,
		labelPath: labelPath,
		loadModel: loadONNXModel,
	}
}

func (w *VectorInterrogator) Name() string { return w.name }

// ensure 惰性加载词表与模型，只执行一次，失败结果同样缓存。
func (w *VectorInterrogator) ensure() error {
	w.once.Do(func() {
		labels, err := loadLabelCSV(w.labelPath)
		if err != nil {
			w.loadErr = err
			return
		}
		model, err := w.loadModel(w.modelPath, defaultInputSize)
		if err != nil {
			w.loadErr = err
			return
		}
		w.labels = labels
		w.model = model
	})
	return w.loadErr
}

// Interrogate 对单张图片做一次前向推理，输出按词表行序分区：
// 前 vectorRatingCount 行进 ratings，其余进 tags。
func (w *VectorInterrogator) Interrogate(ctx context.Context, img image.Image) (map[string]float64, map[string]float64, error) {
	if err := w.ensure(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	input := tensorFromImage(img, w.model.InputSize(), orderBGR, false)
	probs, err := w.model.Run(input)
	if err != nil {
		return nil, nil, fmt.Errorf("interrogate %s: %w", w.name, err)
	}

	ratings := make(map[string]float64, vectorRatingCount)
	tags := make(map[string]float64, len(w.labels))
	for i, label := range w.labels {
		if i >= len(probs) {
			break
		}
		confidence := float64(probs[i])
		if i < vectorRatingCount {
			ratings[label] = confidence
		} else {
			tags[label] = confidence
		}
	}
	return ratings, tags, nil
}

func (w *VectorInterrogator) Close() error {
	if w.model == nil {
		return nil
	}
	return w.model.Close()
}

// loadLabelCSV 读取伴随标签文件：跳过表头，取每行第二列（name）。
func loadLabelCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open label file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse label file %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("label file %s has no entries", path)
	}

	labels := make([]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 2 {
			return nil, fmt.Errorf("label file %s has a malformed row", path)
		}
		labels = append(labels, rec[1])
	}
	return labels, nil
}
