package client

import (
	"image"
	"image/color"
	"image/draw"
)

const (
	textureSize = 64
	baseSeed    = 1337
	seedPrime   = 7919
)

// Texture 程序化生成的平铺纹理；相同 Seed 必然得到相同像素
type Texture struct {
	Seed uint32
	Img  *image.RGBA
}

// RoomTextures 单个房间的地板与墙面纹理
type RoomTextures struct {
	Floor *Texture
	Wall  *Texture
}

// RoomVisualCache 按 room index 懒加载纹理，整个会话内保留，不随游戏状态失效。
// 只在渲染循环中访问。
type RoomVisualCache struct {
	rooms map[int]*RoomTextures
}

func NewRoomVisualCache() *RoomVisualCache {
	return &RoomVisualCache{rooms: make(map[int]*RoomTextures)}
}

// RoomSeed 房间纹理种子：baseSeed + roomIndex * 7919
func RoomSeed(roomIndex int) uint32 {
	return uint32(int32(baseSeed + roomIndex*seedPrime))
}

// Get 获取或生成房间纹理
func (c *RoomVisualCache) Get(roomIndex int) *RoomTextures {
	rt, ok := c.rooms[roomIndex]
	if !ok {
		seed := RoomSeed(roomIndex)
		rt = &RoomTextures{
			Floor: StoneFloorTexture(seed),
			Wall:  WallTexture(seed + 17),
		}
		c.rooms[roomIndex] = rt
		Log.Debugf("generated room textures: room=%d seed=%d", roomIndex, seed)
	}
	return rt
}

// Len 已缓存的房间数
func (c *RoomVisualCache) Len() int { return len(c.rooms) }

// hash01 整数哈希映射到 [0,1)
func hash01(seed uint32, x, y int) float64 {
	n := seed ^ (uint32(int32(x)) * 374761393) ^ (uint32(int32(y)) * 668265263)
	n = n ^ (n >> 13)
	n = n * 1274126177
	return float64(n^(n>>16)) / 4294967296.0
}

// StoneFloorTexture 石砖地板：16px 砖块、随机斑点与勾缝线
func StoneFloorTexture(seed uint32) *Texture {
	img := image.NewRGBA(image.Rect(0, 0, textureSize, textureSize))
	fill(img, image.Rect(0, 0, textureSize, textureSize), hexColor("#9b845c"))

	const tile = 16
	speck := hexColor("#6b5b3c")
	for y := 0; y < textureSize; y += tile {
		for x := 0; x < textureSize; x += tile {
			base := hexColor("#a7895f")
			if hash01(seed, x, y) > 0.5 {
				base = hexColor("#b79a6a")
			}
			fill(img, image.Rect(x, y, x+tile, y+tile), base)

			sx := x + 2 + int(hash01(seed+3, x, y)*10)
			sy := y + 2 + int(hash01(seed+5, x, y)*10)
			blend(img, image.Rect(sx, sy, sx+2, sy+1), speck, 0.22)
		}
	}

	grout := color.NRGBA{R: 30, G: 24, B: 16, A: 0xff}
	for i := 0; i < textureSize; i += tile {
		blend(img, image.Rect(i, 0, i+1, textureSize), grout, 0.35)
		blend(img, image.Rect(0, i, textureSize, i+1), grout, 0.35)
	}
	return &Texture{Seed: seed, Img: img}
}

// WallTexture 错缝砖墙
func WallTexture(seed uint32) *Texture {
	img := image.NewRGBA(image.Rect(0, 0, textureSize, textureSize))
	fill(img, img.Bounds(), hexColor("#5b4a2f"))

	const bh = 10
	for y := 0; y < textureSize; y += bh {
		offset := 0
		if (y/bh)%2 != 0 {
			offset = 10
		}
		for x := -offset; x < textureSize; x += 20 {
			clr := hexColor("#4f4028")
			if hash01(seed, x, y) > 0.5 {
				clr = hexColor("#6a5736")
			}
			fill(img, image.Rect(x, y, x+18, y+bh-1), clr)
		}
	}

	edge := color.NRGBA{A: 0xff}
	b := img.Bounds()
	blend(img, image.Rect(0, 0, b.Dx(), 1), edge, 0.35)
	blend(img, image.Rect(0, b.Dy()-1, b.Dx(), b.Dy()), edge, 0.35)
	blend(img, image.Rect(0, 1, 1, b.Dy()-1), edge, 0.35)
	blend(img, image.Rect(b.Dx()-1, 1, b.Dx(), b.Dy()-1), edge, 0.35)
	return &Texture{Seed: seed, Img: img}
}

func fill(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

func blend(img *image.RGBA, r image.Rectangle, c color.NRGBA, alpha float64) {
	draw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(withAlpha(c, alpha)), image.Point{}, draw.Over)
}
