package interrogator

import (
	"image"
	"image/color"
	stddraw "image/draw"

	xdraw "golang.org/x/image/draw"
)

// colorOrder 标记张量的通道顺序。向量分类器按 wd 惯例吃 BGR，
// 项目分类器吃 RGB。
type colorOrder int

const (
	orderRGB colorOrder = iota
	orderBGR
)

// tensorFromImage 把解码后的图片变成 NHWC float32 张量。
// 流程：按长边补成白底正方形 -> 双线性缩放到 size×size -> 按通道序展开。
// scale01 为 true 时像素取 0-1，否则取 0-255。
func tensorFromImage(img image.Image, size int, order colorOrder, scale01 bool) []float32 {
	b := img.Bounds()
	side := b.Dx()
	if b.Dy() > side {
		side = b.Dy()
	}

	// 白底方形画布，原图居中。透明 PNG 也因此落在白底上。
	canvas := image.NewRGBA(image.Rect(0, 0, side, side))
	stddraw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.White}, image.Point{}, stddraw.Src)
	offset := image.Pt((side-b.Dx())/2, (side-b.Dy())/2)
	stddraw.Draw(canvas, b.Sub(b.Min).Add(offset), img, b.Min, stddraw.Over)

	scaled := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.BiLinear.Scale(scaled, scaled.Bounds(), canvas, canvas.Bounds(), xdraw.Src, nil)

	tensor := make([]float32, size*size*3)
	i := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			p := scaled.PixOffset(x, y)
			r := float32(scaled.Pix[p])
			g := float32(scaled.Pix[p+1])
			bl := float32(scaled.Pix[p+2])
			if scale01 {
				r, g, bl = r/255, g/255, bl/255
			}
			if order == orderBGR {
				tensor[i], tensor[i+1], tensor[i+2] = bl, g, r
			} else {
				tensor[i], tensor[i+1], tensor[i+2] = r, g, bl
			}
			i += 3
		}
	}
	return tensor
}
