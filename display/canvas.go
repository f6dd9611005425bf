package display

import (
	"bytes"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gomono"

	"livingtemple/client"
)

// Canvas 用 ebiten 实现 client.Canvas；每帧先 Bind 到目标图像
type Canvas struct {
	dst      *ebiten.Image
	font     *text.GoTextFaceSource
	faces    map[float64]*text.GoTextFace
	textures map[*client.Texture]*ebiten.Image
	white    *ebiten.Image
}

func NewCanvas() (*Canvas, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return nil, err
	}
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &Canvas{
		font:     src,
		faces:    make(map[float64]*text.GoTextFace),
		textures: make(map[*client.Texture]*ebiten.Image),
		white:    white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
	}, nil
}

// Bind 设置本帧的绘制目标
func (c *Canvas) Bind(dst *ebiten.Image) { c.dst = dst }

func (c *Canvas) Size() (int, int) {
	b := c.dst.Bounds()
	return b.Dx(), b.Dy()
}

func (c *Canvas) FillRect(x, y, w, h float64, clr color.Color) {
	vector.DrawFilledRect(c.dst, float32(x), float32(y), float32(w), float32(h), clr, true)
}

func (c *Canvas) StrokeRect(x, y, w, h, width float64, clr color.Color) {
	vector.StrokeRect(c.dst, float32(x), float32(y), float32(w), float32(h), float32(width), clr, true)
}

func (c *Canvas) FillCircle(cx, cy, r float64, clr color.Color) {
	if r <= 0 {
		return
	}
	vector.DrawFilledCircle(c.dst, float32(cx), float32(cy), float32(r), clr, true)
}

func (c *Canvas) StrokeCircle(cx, cy, r, width float64, clr color.Color) {
	if r <= 0 {
		return
	}
	vector.StrokeCircle(c.dst, float32(cx), float32(cy), float32(r), float32(width), clr, true)
}

func (c *Canvas) Line(x0, y0, x1, y1, width float64, clr color.Color) {
	vector.StrokeLine(c.dst, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), clr, true)
}

// FillPolygon 通过路径三角化填充；顶点色为非预乘
func (c *Canvas) FillPolygon(pts []client.Vec2, clr color.Color) {
	if len(pts) < 3 {
		return
	}
	var path vector.Path
	path.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		path.LineTo(float32(p.X), float32(p.Y))
	}
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	n := color.NRGBAModel.Convert(clr).(color.NRGBA)
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR = float32(n.R) / 0xff
		vs[i].ColorG = float32(n.G) / 0xff
		vs[i].ColorB = float32(n.B) / 0xff
		vs[i].ColorA = float32(n.A) / 0xff
	}
	c.dst.DrawTriangles(vs, is, c.white, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func (c *Canvas) face(size float64) *text.GoTextFace {
	f, ok := c.faces[size]
	if !ok {
		f = &text.GoTextFace{Source: c.font, Size: size}
		c.faces[size] = f
	}
	return f
}

func (c *Canvas) Text(s string, x, y, size float64, align client.Align, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = size * 1.2
	if align == client.AlignCenter {
		op.PrimaryAlign = text.AlignCenter
	}
	text.Draw(c.dst, s, c.face(size), op)
}

func (c *Canvas) MeasureText(s string, size float64) float64 {
	w, _ := text.Measure(s, c.face(size), size*1.2)
	return w
}

// TileTexture 平铺纹理；边缘处截取子图避免越界
func (c *Canvas) TileTexture(tex *client.Texture, x, y, w, h float64) {
	if tex == nil || tex.Img == nil || w <= 0 || h <= 0 {
		return
	}
	img, ok := c.textures[tex]
	if !ok {
		img = ebiten.NewImageFromImage(tex.Img)
		c.textures[tex] = img
	}
	tw, th := float64(tex.Img.Bounds().Dx()), float64(tex.Img.Bounds().Dy())
	for ty := 0.0; ty < h; ty += th {
		for tx := 0.0; tx < w; tx += tw {
			cw, ch := math.Min(tw, w-tx), math.Min(th, h-ty)
			sub := img.SubImage(image.Rect(0, 0, int(math.Ceil(cw)), int(math.Ceil(ch)))).(*ebiten.Image)
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(x+tx, y+ty)
			c.dst.DrawImage(sub, op)
		}
	}
}

var _ client.Canvas = (*Canvas)(nil)
