package interrogator

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rushteam/tagkit/core"
)

const (
	// ManifestName 是项目目录的保留 manifest 文件名。
	// 发现时只接受含有此文件的子目录。
	ManifestName = "project.json"

	projectModelName = "model.onnx"
	projectTagsName  = "tags.txt"

	// ratingPrefix 标记词表里的 rating 行，入 ratings 映射时去掉前缀。
	ratingPrefix = "rating:"
)

// projectManifest 是 project.json 的有效字段。输入尺寸三选一：
// image_size 或 width/height（方形模型二者相等，取 width）。
type projectManifest struct {
	Name      string `json:"name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ImageSize int    `json:"image_size"`
}

func (m *projectManifest) inputSize() int {
	if m.ImageSize > 0 {
		return m.ImageSize
	}
	if m.Width > 0 {
		return m.Width
	}
	return defaultInputSize
}

// projectLabel 是项目词表的一个条目，保持文件行序（与模型输出对齐）。
type projectLabel struct {
	name   string
	rating bool
}

// ProjectInterrogator 是基于项目目录的分类器后端（deepdanbooru 项目的形态）：
// 一个自包含目录内有 manifest、模型与词表，目录名即公开标识。
type ProjectInterrogator struct {
	name string
	dir  string

	loadModel modelLoader

	once    sync.Once
	loadErr error
	model   Model
	labels  []projectLabel
}

var _ core.Interrogator = (*ProjectInterrogator)(nil)

// NewProjectInterrogator 创建一个项目分类器实例，name 取目录名。
// 此处不读任何文件：manifest 是否存在由发现阶段负责检查。
func NewProjectInterrogator(dir string) *ProjectInterrogator {
	return &ProjectInterrogator{
		name:      filepath.Base(dir),
		dir:       dir,
		loadModel: loadONNXModel,
	}
}

func (p *ProjectInterrogator) Name() string { return p.name }

func (p *ProjectInterrogator) ensure() error {
	p.once.Do(func() {
		manifest, err := loadManifest(filepath.Join(p.dir, ManifestName))
		if err != nil {
			p.loadErr = err
			return
		}
		labels, err := loadProjectTags(filepath.Join(p.dir, projectTagsName))
		if err != nil {
			p.loadErr = err
			return
		}
		model, err := p.loadModel(filepath.Join(p.dir, projectModelName), manifest.inputSize())
		if err != nil {
			p.loadErr = err
			return
		}
		p.labels = labels
		p.model = model
	})
	return p.loadErr
}

// Interrogate 对单张图片做一次前向推理，按词表的 rating: 前缀分区输出。
func (p *ProjectInterrogator) Interrogate(ctx context.Context, img image.Image) (map[string]float64, map[string]float64, error) {
	if err := p.ensure(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	input := tensorFromImage(img, p.model.InputSize(), orderRGB, true)
	probs, err := p.model.Run(input)
	if err != nil {
		return nil, nil, fmt.Errorf("interrogate %s: %w", p.name, err)
	}

	ratings := make(map[string]float64)
	tags := make(map[string]float64, len(p.labels))
	for i, label := range p.labels {
		if i >= len(probs) {
			break
		}
		confidence := float64(probs[i])
		if label.rating {
			ratings[label.name] = confidence
		} else {
			tags[label.name] = confidence
		}
	}
	return ratings, tags, nil
}

func (p *ProjectInterrogator) Close() error {
	if p.model == nil {
		return nil
	}
	return p.model.Close()
}

func loadManifest(path string) (*projectManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m projectManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// loadProjectTags 读取词表：每行一个标签，rating: 前缀的行进 rating 词表。
func loadProjectTags(path string) ([]projectLabel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tag file: %w", err)
	}
	defer f.Close()

	var labels []projectLabel
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if name, ok := strings.CutPrefix(line, ratingPrefix); ok {
			labels = append(labels, projectLabel{name: name, rating: true})
		} else {
			labels = append(labels, projectLabel{name: line})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read tag file %s: %w", path, err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("tag file %s has no entries", path)
	}
	return labels, nil
}
