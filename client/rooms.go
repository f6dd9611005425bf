package client

import "fmt"

// 画布尺寸与服务端世界坐标一致
const (
	WorldWidth  = 960
	WorldHeight = 540

	wallThickness = 36
)

// roomTitles 按 room index 排列的房间标题
var roomTitles = []string{
	"Double Pressure Plates",
	"Hidden Code Puzzle",
	"Pillar Pushing Challenge",
	"Flood Valve Sequence",
	"Final Code Panel",
}

// RoomCount 房间总数
func RoomCount() int { return len(roomTitles) }

// RoomTitle 房间标题；越界时回退为 "Room N"
func RoomTitle(roomIndex int) string {
	if roomIndex >= 0 && roomIndex < len(roomTitles) {
		return roomTitles[roomIndex]
	}
	return fmt.Sprintf("Room %d", roomIndex+1)
}

// roomLayout 每个房间固定的纯视觉布局
type roomLayout struct {
	walls   []Rect
	torches []Vec2
	decal   func(c Canvas)
}

var roomLayouts = map[int]roomLayout{
	0: {
		walls: []Rect{
			{X: 420, Y: 36, W: 36, H: 120},
			{X: 420, Y: 240, W: 36, H: 264},
		},
		torches: []Vec2{{X: 480, Y: 72}, {X: 720, Y: 72}},
	},
	1: {
		walls:   []Rect{{X: 360, Y: 220, W: 220, H: 36}},
		torches: []Vec2{{X: 620, Y: 72}, {X: 820, Y: 72}},
		decal:   drawRuneStrip,
	},
	2: {
		walls: []Rect{{X: 720, Y: 36, W: 36, H: 170}},
	},
	3: {
		walls: []Rect{{X: 260, Y: 360, W: 420, H: 36}},
	},
	4: {
		walls: []Rect{
			{X: 36, Y: 160, W: 220, H: 36},
			{X: 704, Y: 160, W: 220, H: 36},
		},
		torches: []Vec2{{X: 480, Y: 72}, {X: 860, Y: 260}},
		decal:   drawRuneCircle,
	},
}

// layoutFor 未登记的房间没有内墙、额外火把与贴花
func layoutFor(roomIndex int) roomLayout {
	return roomLayouts[roomIndex]
}

// outerWalls 四周外墙
func outerWalls() []Rect {
	return []Rect{
		{X: 0, Y: 0, W: WorldWidth, H: wallThickness},
		{X: 0, Y: WorldHeight - wallThickness, W: WorldWidth, H: wallThickness},
		{X: 0, Y: 0, W: wallThickness, H: WorldHeight},
		{X: WorldWidth - wallThickness, Y: 0, W: wallThickness, H: WorldHeight},
	}
}

// torchPositions 四角火把加上房间专属火把
func torchPositions(roomIndex int) []Vec2 {
	pos := []Vec2{
		{X: 64, Y: 64},
		{X: WorldWidth - 64, Y: 64},
		{X: 64, Y: WorldHeight - 64},
		{X: WorldWidth - 64, Y: WorldHeight - 64},
	}
	return append(pos, layoutFor(roomIndex).torches...)
}

func drawRuneStrip(c Canvas) {
	clr := withAlpha(hexColor("#ffd479"), 0.2)
	for i := 0; i < 7; i++ {
		c.FillRect(320+float64(i)*22, 90, 10, 3, clr)
	}
}

func drawRuneCircle(c Canvas) {
	c.StrokeCircle(480, 270, 90, 3, withAlpha(hexColor("#ffd479"), 0.2))
}
