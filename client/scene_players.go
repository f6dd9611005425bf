package client

import (
	"fmt"
	"math"
)

const reviveSeconds = 3.5

type avatarPalette struct {
	body, cloak, head string
}

var avatarPalettes = map[Role]avatarPalette{
	RoleGuardian: {body: "#2f5ea8", cloak: "#1f2a37", head: "#c9d1d9"},
	RoleScholar:  {body: "#2a7a42", cloak: "#5b1f1f", head: "#d29922"},
}

var downedPalette = avatarPalette{body: "#3b4046", cloak: "#30363d", head: "#4b4f55"}

func drawPlayers(c Canvas, f *frame) {
	for _, p := range f.snap.Players {
		isMe := f.hasMe && p.ID == f.me.PlayerID
		drawAvatar(c, p, isMe)
		drawPlayerLabel(c, p)
		if p.Down && p.ReviveProgress > 0 {
			drawReviveBar(c, p)
		}
	}
}

// PlayerLabel 头顶标签
func PlayerLabel(p Player) string {
	meta, _ := MetaFor(p.Role)
	return fmt.Sprintf("P%d %s  HP:%d", p.ID, meta.Name, p.HP)
}

func drawAvatar(c Canvas, p Player, isMe bool) {
	x, y := p.Pos.X, p.Pos.Y
	pal, ok := avatarPalettes[p.Role]
	if !ok {
		pal = avatarPalettes[RoleScholar]
	}
	if p.Down {
		pal = downedPalette
	}

	shadow := 0.55
	if p.Down {
		shadow = 0.3
	}
	c.FillCircle(x, y+12, 9, rgba(0, 0, 0, 0.55*shadow))

	robe := []Vec2{{X: x - 10, Y: y + 10}, {X: x + 10, Y: y + 10}, {X: x + 6, Y: y - 2}, {X: x - 6, Y: y - 2}}
	c.FillPolygon(robe, hexColor(pal.cloak))
	c.FillRect(x-6, y-2, 12, 12, hexColor(pal.body))

	c.FillCircle(x, y-10, 8, hexColor(pal.head))
	if p.Role == RoleGuardian {
		// 面甲缝
		c.FillRect(x-6, y-11, 12, 3, rgba(0, 0, 0, 0.35))
	} else {
		c.FillCircle(x+2, y-10, 6, rgba(0, 0, 0, 0.3))
	}

	ring := rgba(240, 246, 252, 0.25)
	if isMe {
		ring = hexColor("#f0f6fc")
	}
	c.StrokeCircle(x, y, 14, 2, ring)
}

func drawPlayerLabel(c Canvas, p Player) {
	label := PlayerLabel(p)
	tw := math.Min(220, c.MeasureText(label, fontLabel)+16)
	x, y := p.Pos.X-tw/2, p.Pos.Y-34
	c.FillRect(x, y, tw, 18, rgba(0, 0, 0, 0.55))
	c.StrokeRect(x, y, tw, 18, 1.5, rgba(255, 255, 255, 0.15))
	c.Text(label, p.Pos.X, y+9-fontLabel/2, fontLabel, AlignCenter, hexColor("#e6edf3"))
}

func drawReviveBar(c Canvas, p Player) {
	const w, h = 30, 4
	t := clamp01(p.ReviveProgress / reviveSeconds)
	c.FillRect(p.Pos.X-w/2, p.Pos.Y+16, w, h, hexColor("#30363d"))
	c.FillRect(p.Pos.X-w/2, p.Pos.Y+16, w*t, h, hexColor("#2ea043"))
}
