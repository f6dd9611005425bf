package client

import (
	"image/color"
	"strconv"
)

// Align 文本水平对齐
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// Canvas 渲染管线依赖的最小绘图接口；窗口层用 ebiten 实现，测试用记录器实现
type Canvas interface {
	Size() (w, h int)
	FillRect(x, y, w, h float64, clr color.Color)
	StrokeRect(x, y, w, h, width float64, clr color.Color)
	FillCircle(cx, cy, r float64, clr color.Color)
	StrokeCircle(cx, cy, r, width float64, clr color.Color)
	Line(x0, y0, x1, y1, width float64, clr color.Color)
	FillPolygon(pts []Vec2, clr color.Color)
	// Text 在 (x, y) 处绘制一行文本，y 为文本顶部
	Text(s string, x, y, size float64, align Align, clr color.Color)
	MeasureText(s string, size float64) float64
	// TileTexture 用纹理平铺填充矩形
	TileTexture(tex *Texture, x, y, w, h float64)
}

// ParseColor 解析 "#RRGGBB"，失败时返回 fallback
func ParseColor(s string, fallback color.NRGBA) color.NRGBA {
	if len(s) == 7 && s[0] == '#' {
		if v, err := strconv.ParseUint(s[1:], 16, 32); err == nil {
			return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
		}
	}
	return fallback
}

// hexColor 内置调色板用；格式不对时返回品红便于发现
func hexColor(s string) color.NRGBA {
	return ParseColor(s, color.NRGBA{R: 0xff, G: 0, B: 0xff, A: 0xff})
}

// withAlpha 将颜色的不透明度乘以 a（0..1）
func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(clamp01(a*float64(c.A)/255) * 255)
	return c
}

func rgba(r, g, b uint8, a float64) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: uint8(clamp01(a) * 255)}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
