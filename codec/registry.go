// Package codec 实现 core.Codec：图片解码注册表。
//
// 解码前先做 magic 嗅探（h2non/filetype），把“不是图片”与“图片损坏”
// 区分到错误消息里；解码后按 EXIF Orientation 归一化方向，
// 保证相机 JPEG 进入推理前的像素方向正确。
package codec

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"

	"github.com/rushteam/tagkit/core"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// extensions 是支持解码的文件扩展名（小写、不带点），与上面的 codec 注册一一对应。
var extensions = []string{"jpg", "jpeg", "png", "gif", "webp", "bmp", "tif", "tiff"}

// Registry 实现 core.Codec。无状态，零值即可用。
type Registry struct{}

// New 创建一个图片编解码注册表。
func New() *Registry {
	return &Registry{}
}

var _ core.Codec = (*Registry)(nil)

// Extensions 返回支持的文件扩展名。返回副本，调用方可自由修改。
func (r *Registry) Extensions() []string {
	out := make([]string, len(extensions))
	copy(out, extensions)
	return out
}

// Supported 判断路径的扩展名是否在支持列表内（批处理的 glob 预过滤用）。
func (r *Registry) Supported(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Decode 读取并解码 path 指向的图片。
// 无法识别或损坏的文件返回 UNSUPPORTED_IMAGE 领域错误（调用方按 skip 处理）；
// 读文件本身失败（权限、不存在）原样返回。
func (r *Registry) Decode(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	kind, _ := filetype.Match(data)
	if !filetype.IsImage(data) {
		return nil, core.NewDomainError(core.ModuleCodec, core.ErrorCodeUnsupportedImage,
			fmt.Sprintf("codec: %s is not a supported image type", path))
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, core.NewDomainError(core.ModuleCodec, core.ErrorCodeUnsupportedImage,
			fmt.Sprintf("codec: %s looks like %s but failed to decode: %v", path, kind.Extension, err))
	}

	if o := readOrientation(data); o > 1 {
		img = applyOrientation(img, o)
	}
	return img, nil
}
