package codec

import (
	"bytes"
	"image"

	"github.com/bep/imagemeta"
)

// readOrientation 从图片字节里取 EXIF Orientation（1-8），取不到时返回 1（正向）。
// 元数据解析失败不视为错误：没有 EXIF 的 PNG/GIF 等直接按正向处理。
func readOrientation(data []byte) int {
	orientation := 1

	_, err := imagemeta.Decode(imagemeta.Options{
		R:       bytes.NewReader(data),
		Sources: imagemeta.EXIF,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			return ti.Tag == "Orientation"
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			switch v := ti.Value.(type) {
			case uint16:
				orientation = int(v)
			case uint32:
				orientation = int(v)
			case int:
				orientation = v
			case int64:
				orientation = int(v)
			}
			return nil
		},
	})
	if err != nil || orientation < 1 || orientation > 8 {
		return 1
	}
	return orientation
}

// applyOrientation 按 EXIF Orientation 把图片转回正向。
// 约定值（EXIF 2.3）：
//	2 水平镜像  3 旋转 180°  4 垂直镜像
//	5 转置      6 顺时针 90° 7 反转置     8 逆时针 90°
func applyOrientation(img image.Image, orientation int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var dst *image.NRGBA
	if orientation >= 5 {
		dst = image.NewNRGBA(image.Rect(0, 0, h, w))
	} else {
		dst = image.NewNRGBA(image.Rect(0, 0, w, h))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.At(b.Min.X+x, b.Min.Y+y)
			switch orientation {
			case 2:
				dst.Set(w-1-x, y, c)
			case 3:
				dst.Set(w-1-x, h-1-y, c)
			case 4:
				dst.Set(x, h-1-y, c)
			case 5:
				dst.Set(y, x, c)
			case 6:
				dst.Set(h-1-y, x, c)
			case 7:
				dst.Set(h-1-y, w-1-x, c)
			case 8:
				dst.Set(y, w-1-x, c)
			default:
				dst.Set(x, y, c)
			}
		}
	}
	return dst
}
