package client

import (
	"math"
	"time"
)

const (
	fontSmall  = 10
	fontLabel  = 11
	fontBubble = 12
	fontBanner = 14
	fontPrompt = 16

	idlePrompt = "Connect + Ready with 2 players."
)

// SceneSource 渲染管线读取的状态来源
type SceneSource interface {
	Store() *SnapshotStore
	Identity() (Identity, bool)
}

// frame 单次绘制周期的上下文；只读
type frame struct {
	snap    *Snapshot
	me      Identity
	hasMe   bool
	elapsed float64 // 秒，仅用于装饰动画
	tex     *RoomTextures
}

type layer struct {
	name string
	draw func(c Canvas, f *frame)
}

// Scene 自由运行的渲染管线：每个周期重新读取最新快照并从头绘制
type Scene struct {
	src     SceneSource
	cache   *RoomVisualCache
	metrics *NetMetrics
	layers  []layer
}

func NewScene(src SceneSource, metrics *NetMetrics) *Scene {
	if metrics == nil {
		metrics = &NetMetrics{}
	}
	s := &Scene{src: src, cache: NewRoomVisualCache(), metrics: metrics}
	// 由后到前；后画的遮挡先画的
	s.layers = []layer{
		{"background", drawBackground},
		{"walls", drawWallsAndTrim},
		{"torches", drawTorches},
		{"decals", drawDecals},
		{"entities", drawEntities},
		{"hints", drawInteractionHints},
		{"pings", drawPings},
		{"players", drawPlayers},
		{"banner", drawRoomBanner},
		{"bubbles", drawSpeechBubbles},
		{"vignette", drawVignette},
	}
	return s
}

// LayerNames 绘制顺序
func (s *Scene) LayerNames() []string {
	names := make([]string, len(s.layers))
	for i, l := range s.layers {
		names[i] = l.name
	}
	return names
}

// Cache 房间纹理缓存
func (s *Scene) Cache() *RoomVisualCache { return s.cache }

// Draw 绘制一帧；从未收到快照时绘制待机画面
func (s *Scene) Draw(c Canvas, elapsed time.Duration) {
	s.metrics.IncRendered()
	snap, ok := s.src.Store().Latest()
	if !ok {
		drawIdle(c)
		return
	}
	f := &frame{
		snap:    snap,
		elapsed: elapsed.Seconds(),
		tex:     s.cache.Get(snap.RoomIndex),
	}
	f.me, f.hasMe = s.src.Identity()
	for _, l := range s.layers {
		l.draw(c, f)
	}
}

func drawIdle(c Canvas) {
	w, h := c.Size()
	c.FillRect(0, 0, float64(w), float64(h), hexColor("#121a23"))
	c.Text(idlePrompt, 24, 40-fontPrompt, fontPrompt, AlignLeft, hexColor("#e6edf3"))
}

func drawBackground(c Canvas, f *frame) {
	w, h := c.Size()
	c.TileTexture(f.tex.Floor, 0, 0, float64(w), float64(h))
}

func drawWallsAndTrim(c Canvas, f *frame) {
	for _, r := range outerWalls() {
		c.TileTexture(f.tex.Wall, r.X, r.Y, r.W, r.H)
	}
	for _, r := range layoutFor(f.snap.RoomIndex).walls {
		c.TileTexture(f.tex.Wall, r.X, r.Y, r.W, r.H)
	}

	shadow := rgba(0, 0, 0, 0.35)
	const in, t = wallThickness, 6
	c.FillRect(in, in, WorldWidth-2*in, t, shadow)
	c.FillRect(in, WorldHeight-in-t, WorldWidth-2*in, t, shadow)
	c.FillRect(in, in, t, WorldHeight-2*in, shadow)
	c.FillRect(WorldWidth-in-t, in, t, WorldHeight-2*in, shadow)
}

// drawTorches 火光闪烁只取决于墙钟时间，纯装饰
func drawTorches(c Canvas, f *frame) {
	t := math.Mod(f.elapsed, 1000)
	for _, p := range torchPositions(f.snap.RoomIndex) {
		drawTorch(c, p.X, p.Y, t, f.snap.RoomIndex)
	}
}

func drawTorch(c Canvas, x, y, t float64, roomIndex int) {
	flick := 0.8 + 0.2*math.Sin(t*9+x*0.01+float64(roomIndex))
	r := 120 * flick

	// 暖光：由外向内叠加的同心圆近似径向渐变
	const rings = 5
	for i := 0; i < rings; i++ {
		k := 1 - float64(i)/rings
		c.FillCircle(x, y, r*k, rgba(255, 170, 90, 0.06+0.05*float64(i)/rings))
	}

	c.FillRect(x-4, y+6, 8, 18, hexColor("#2b2116"))
	c.FillRect(x-6, y+2, 12, 6, hexColor("#3b2b1b"))

	flameH := 10 + 4*math.Sin(t*12+x*0.02)
	c.FillPolygon([]Vec2{{X: x, Y: y - flameH}, {X: x + 6, Y: y - 2}, {X: x, Y: y + 2}, {X: x - 6, Y: y - 2}}, hexColor("#ffb86b"))
	inner := flameH * 0.7
	c.FillPolygon([]Vec2{{X: x, Y: y - inner}, {X: x + 4, Y: y - 1}, {X: x, Y: y + 1}, {X: x - 4, Y: y - 1}}, withAlpha(hexColor("#ff6a2b"), 0.7))
}

func drawDecals(c Canvas, f *frame) {
	if d := layoutFor(f.snap.RoomIndex).decal; d != nil {
		d(c)
	}
}

func drawRoomBanner(c Canvas, f *frame) {
	title := RoomTitle(f.snap.RoomIndex)
	w := math.Min(520, 24+float64(len(title))*10)
	x := (WorldWidth - w) / 2
	const y, h = 10, 30
	c.FillRect(x, y, w, h, withAlpha(hexColor("#2b2116"), 0.95))
	c.StrokeRect(x, y, w, h, 2, rgba(0, 0, 0, 0.45))
	c.Text(title, WorldWidth/2, y+h/2-fontBanner/2, fontBanner, AlignCenter, hexColor("#e6edf3"))
}

func drawPings(c Canvas, f *frame) {
	for _, p := range VisiblePings(f.snap) {
		c.StrokeCircle(p.Pos.X, p.Pos.Y, 14+p.Age*10, 2, withAlpha(hexColor("#f0f6fc"), 0.55*p.Alpha))
		c.Text(p.Text, p.Pos.X+10, p.Pos.Y-10-fontSmall, fontSmall, AlignLeft, withAlpha(hexColor("#f0f6fc"), 0.9*p.Alpha))
	}
}

func drawInteractionHints(c Canvas, f *frame) {
	if !f.hasMe {
		return
	}
	me, ok := f.snap.PlayerByID(f.me.PlayerID)
	if !ok {
		return
	}
	for _, e := range Affordances(me.Pos, f.me.Role, me.Down, f.snap.Entities) {
		ctr := e.Bounds.Center()
		drawHintBubble(c, ctr.X, ctr.Y-22, "E")
	}
}

func drawHintBubble(c Canvas, x, y float64, text string) {
	const w, h = 20, 18
	c.FillRect(x-w/2, y-h/2, w, h, withAlpha(hexColor("#0b0f14"), 0.95))
	c.StrokeRect(x-w/2, y-h/2, w, h, 2, rgba(240, 246, 252, 0.35))
	c.Text(text, x, y+1-fontLabel/2, fontLabel, AlignCenter, hexColor("#e6edf3"))
}

func drawSpeechBubbles(c Canvas, f *frame) {
	for _, b := range VisibleBubbles(f.snap) {
		drawSpeechBubble(c, b)
	}
}

func drawSpeechBubble(c Canvas, b SpeechBubble) {
	lines := splitLines(b.Text)
	maxW := 0.0
	for _, ln := range lines {
		maxW = math.Max(maxW, c.MeasureText(ln, fontBubble))
	}
	const padX, padY, lineH = 10, 8, 14
	w := math.Min(260, maxW+padX*2)
	h := float64(len(lines))*lineH + padY*2
	bx := b.Anchor.X
	if b.Left {
		bx -= w
	}
	by := b.Anchor.Y - h

	fill := withAlpha(rgba(255, 244, 220, 0.95), b.Alpha)
	edge := withAlpha(rgba(0, 0, 0, 0.35), b.Alpha)
	c.FillRect(bx, by, w, h, fill)
	c.StrokeRect(bx, by, w, h, 2, edge)

	var tail []Vec2
	if b.Left {
		tail = []Vec2{{X: bx + w - 18, Y: by + h}, {X: bx + w - 6, Y: by + h + 10}, {X: bx + w - 2, Y: by + h - 2}}
	} else {
		tail = []Vec2{{X: bx + 18, Y: by + h}, {X: bx + 6, Y: by + h + 10}, {X: bx + 2, Y: by + h - 2}}
	}
	c.FillPolygon(tail, fill)

	ink := withAlpha(hexColor("#1f2a37"), b.Alpha)
	ty := by + padY
	for _, ln := range lines {
		c.Text(ln, bx+w/2, ty, fontBubble, AlignCenter, ink)
		ty += lineH
	}
}

// drawVignette 由外向内逐层变淡的暗角
func drawVignette(c Canvas, _ *frame) {
	w, h := c.Size()
	const bands, step = 6, 20.0
	for i := 0; i < bands; i++ {
		inset := float64(i) * step
		a := 0.45 * (1 - float64(i)/bands) / 2
		c.StrokeRect(inset, inset, float64(w)-2*inset, float64(h)-2*inset, step, rgba(0, 0, 0, a))
	}
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}
