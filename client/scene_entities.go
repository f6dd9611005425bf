package client

import "math"

type entityPainter func(c Canvas, e Entity, f *frame)

// entityPainters 每种实体一个绘制例程；未登记的种类不绘制
var entityPainters = map[EntityKind]entityPainter{
	KindDoor:   paintDoor,
	KindPlate:  paintPlate,
	KindSpikes: paintSpikes,
	KindMural:  paintTablet,
	KindSign:   paintTablet,
	KindLever:  paintLever,
	KindBlock:  paintBlock,
	KindSwitch: paintSwitch,
	KindValve:  paintValve,
	KindWater:  paintWater,
	KindPanel:  paintPanel,
}

var leverColors = []string{"#58a6ff", "#d29922", "#2ea043"}

func drawEntities(c Canvas, f *frame) {
	for _, e := range f.snap.Entities {
		if paint, ok := entityPainters[e.Kind]; ok {
			paint(c, e, f)
		}
	}
}

// platePressed 任一玩家站在压板上即视为按下（仅用于显示）
func platePressed(e Entity, players []Player) bool {
	for _, p := range players {
		if e.Bounds.Contains(p.Pos) {
			return true
		}
	}
	return false
}

func paintDoor(c Canvas, e Entity, _ *frame) {
	b := e.Bounds
	c.FillRect(b.X-6, b.Y-10, b.W+12, b.H+20, hexColor("#30363d"))
	c.FillRect(b.X, b.Y, b.W, b.H, hexColor("#0b0f14"))
	if e.Open {
		// 中间亮两侧暗
		const strips = 8
		sw := b.W / strips
		for i := 0; i < strips; i++ {
			mid := (float64(i) + 0.5) / strips
			a := 0.35 * (1 - math.Abs(mid-0.5)*2)
			c.FillRect(b.X+float64(i)*sw, b.Y, sw, b.H, rgba(46, 160, 67, a))
		}
		return
	}
	c.StrokeRect(b.X, b.Y, b.W, b.H, 2, hexColor("#8b949e"))
}

func paintPlate(c Canvas, e Entity, f *frame) {
	b := e.Bounds
	pressed := platePressed(e, f.snap.Players)
	base, ring := hexColor("#30363d"), 0.25
	if pressed {
		base, ring = hexColor("#1f2a37"), 0.6
	}
	c.FillRect(b.X, b.Y, b.W, b.H, base)
	c.StrokeRect(b.X+2, b.Y+2, b.W-4, b.H-4, 2, hexColor("#8b949e"))
	ctr := b.Center()
	c.StrokeCircle(ctr.X, ctr.Y, math.Min(b.W, b.H)*0.32, 2, withAlpha(hexColor("#d29922"), ring))
}

func paintSpikes(c Canvas, e Entity, _ *frame) {
	b := e.Bounds
	bed, tooth := hexColor("#131b24"), hexColor("#30363d")
	if e.Active {
		bed, tooth = hexColor("#3a1b1b"), hexColor("#f85149")
	}
	c.FillRect(b.X, b.Y, b.W, b.H, bed)
	teeth := int(math.Max(3, math.Floor(b.W/18)))
	tw := b.W / float64(teeth)
	for i := 0; i < teeth; i++ {
		tx := b.X + float64(i)*tw
		c.FillPolygon([]Vec2{
			{X: tx + 2, Y: b.Y + b.H},
			{X: tx + tw/2, Y: b.Y + 6},
			{X: tx + tw - 2, Y: b.Y + b.H},
		}, tooth)
	}
}

// paintTablet 壁画和告示牌共用；已读的刻痕更亮
func paintTablet(c Canvas, e Entity, _ *frame) {
	b := e.Bounds
	c.FillRect(b.X-4, b.Y-4, b.W+8, b.H+8, hexColor("#30363d"))
	c.FillRect(b.X, b.Y, b.W, b.H, hexColor("#1f2a37"))
	a := 0.25
	if e.Read {
		a = 0.55
	}
	ink := withAlpha(hexColor("#a371f7"), a)
	for i := 0; i < 6; i++ {
		c.FillRect(b.X+8, b.Y+10+float64(i)*10, b.W-16, 2, ink)
	}
}

func paintLever(c Canvas, e Entity, _ *frame) {
	b := e.Bounds
	c.FillRect(b.X, b.Y+b.H-10, b.W, 10, hexColor("#30363d"))
	angle := (-0.9 + float64(e.State)*0.9) * 0.7
	tipX, tipY := b.X+b.W/2+math.Cos(angle)*18, b.Y+12
	c.Line(b.X+b.W/2, b.Y+b.H-10, tipX, tipY, 2, hexColor("#8b949e"))
	knob := leverColors[0]
	if e.State >= 0 && e.State < len(leverColors) {
		knob = leverColors[e.State]
	}
	c.FillCircle(tipX, tipY, 5, hexColor(knob))
}

func paintBlock(c Canvas, e Entity, _ *frame) {
	b := e.Bounds
	c.FillRect(b.X, b.Y, b.W, b.H, hexColor("#8b949e"))
	c.StrokeRect(b.X, b.Y, b.W, b.H, 2, hexColor("#30363d"))
	c.Line(b.X+8, b.Y+10, b.X+b.W-10, b.Y+b.H-12, 2, withAlpha(hexColor("#0b0f14"), 0.25))
	if e.Grabbed {
		c.StrokeRect(b.X-2, b.Y-2, b.W+4, b.H+4, 2, withAlpha(hexColor("#d29922"), 0.45))
	}
}

func paintSwitch(c Canvas, e Entity, _ *frame) {
	b := e.Bounds
	c.FillRect(b.X, b.Y, b.W, b.H, hexColor("#30363d"))
	lamp := hexColor("#8b949e")
	if e.On {
		lamp = hexColor("#2ea043")
	}
	c.FillRect(b.X+10, b.Y+10, b.W-20, b.H-20, lamp)
}

func paintValve(c Canvas, e Entity, _ *frame) {
	b := e.Bounds
	ctr := b.Center()
	c.FillCircle(ctr.X, ctr.Y, b.W/2, hexColor("#58a6ff"))
	spoke := hexColor("#0b0f14")
	c.Line(ctr.X, b.Y+6, ctr.X, b.Y+b.H-6, 2, spoke)
	c.Line(b.X+6, ctr.Y, b.X+b.W-6, ctr.Y, 2, spoke)
}

func paintWater(c Canvas, e Entity, _ *frame) {
	b := e.Bounds
	c.FillRect(b.X, b.Y, b.W, b.H, rgba(56, 139, 253, 0.25))
}

func paintPanel(c Canvas, e Entity, _ *frame) {
	b := e.Bounds
	c.FillRect(b.X-4, b.Y-4, b.W+8, b.H+8, hexColor("#30363d"))
	face := hexColor("#8b949e")
	if e.Active {
		face = hexColor("#d29922")
	}
	c.FillRect(b.X, b.Y, b.W, b.H, face)
	key := withAlpha(hexColor("#0b0f14"), 0.25)
	for r := 0; r < 3; r++ {
		for col := 0; col < 3; col++ {
			c.FillRect(b.X+10+float64(col)*14, b.Y+10+float64(r)*14, 8, 8, key)
		}
	}
}
