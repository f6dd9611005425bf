package client

import (
	"fmt"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drawOp struct {
	kind string
	text string
	tex  *Texture
	args string
}

// recordingCanvas 记录所有绘制调用，便于比较顺序与内容
type recordingCanvas struct {
	ops []drawOp
}

func (r *recordingCanvas) add(kind string, args ...any) {
	r.ops = append(r.ops, drawOp{kind: kind, args: fmt.Sprint(args...)})
}

func (r *recordingCanvas) Size() (int, int) { return WorldWidth, WorldHeight }
func (r *recordingCanvas) FillRect(x, y, w, h float64, c color.Color) {
	r.add("FillRect", x, y, w, h, c)
}
func (r *recordingCanvas) StrokeRect(x, y, w, h, width float64, c color.Color) {
	r.add("StrokeRect", x, y, w, h, width, c)
}
func (r *recordingCanvas) FillCircle(cx, cy, rad float64, c color.Color) {
	r.add("FillCircle", cx, cy, rad, c)
}
func (r *recordingCanvas) StrokeCircle(cx, cy, rad, width float64, c color.Color) {
	r.add("StrokeCircle", cx, cy, rad, width, c)
}
func (r *recordingCanvas) Line(x0, y0, x1, y1, width float64, c color.Color) {
	r.add("Line", x0, y0, x1, y1, width, c)
}
func (r *recordingCanvas) FillPolygon(pts []Vec2, c color.Color) {
	r.add("FillPolygon", pts, c)
}
func (r *recordingCanvas) Text(s string, x, y, size float64, align Align, c color.Color) {
	r.ops = append(r.ops, drawOp{kind: "Text", text: s, args: fmt.Sprint(x, y, size, align, c)})
}
func (r *recordingCanvas) MeasureText(s string, size float64) float64 {
	return float64(len(s)) * size * 0.6
}
func (r *recordingCanvas) TileTexture(tex *Texture, x, y, w, h float64) {
	r.ops = append(r.ops, drawOp{kind: "TileTexture", tex: tex, args: fmt.Sprint(x, y, w, h)})
}

func (r *recordingCanvas) texts() []string {
	var out []string
	for _, op := range r.ops {
		if op.kind == "Text" {
			out = append(out, op.text)
		}
	}
	return out
}

type stubSceneSource struct {
	store SnapshotStore
	id    *Identity
}

func (s *stubSceneSource) Store() *SnapshotStore { return &s.store }
func (s *stubSceneSource) Identity() (Identity, bool) {
	if s.id == nil {
		return Identity{}, false
	}
	return *s.id, true
}

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		ServerTick: 200,
		RoomIndex:  0,
		Players: []Player{
			{ID: 1, Role: RoleGuardian, Pos: Vec2{X: 200, Y: 300}, HP: 3},
			{ID: 2, Role: RoleScholar, Pos: Vec2{X: 400, Y: 300}, HP: 2, Down: true, ReviveProgress: 1.75},
		},
		Entities: []Entity{
			{Kind: KindPlate, Bounds: Rect{X: 180, Y: 280, W: 40, H: 40}},
			{Kind: KindSwitch, Bounds: Rect{X: 600, Y: 300, W: 40, H: 40}, On: true},
			{Kind: KindDoor, Bounds: Rect{X: 880, Y: 220, W: 40, H: 100}},
		},
		Messages: []Message{
			{T: 190, Kind: MsgPing, Pos: Vec2{X: 50, Y: 60}, Text: "PING"},
			{T: 195, Kind: MsgChat, PlayerID: 1, Text: "GO"},
		},
	}
}

func TestSceneLayerOrder(t *testing.T) {
	s := NewScene(&stubSceneSource{}, nil)
	assert.Equal(t, []string{
		"background", "walls", "torches", "decals", "entities", "hints",
		"pings", "players", "banner", "bubbles", "vignette",
	}, s.LayerNames())
}

func TestSceneIdlePromptWithoutSnapshot(t *testing.T) {
	metrics := &NetMetrics{}
	s := NewScene(&stubSceneSource{}, metrics)
	rc := &recordingCanvas{}
	s.Draw(rc, 0)

	assert.Equal(t, []string{"Connect + Ready with 2 players."}, rc.texts())
	for _, op := range rc.ops {
		assert.NotEqual(t, "TileTexture", op.kind)
	}
	assert.EqualValues(t, 1, metrics.FramesRendered)
	assert.Zero(t, s.Cache().Len())
}

func TestSceneDrawsFromLatestSnapshot(t *testing.T) {
	src := &stubSceneSource{}
	src.store.Apply(sampleSnapshot())
	s := NewScene(src, nil)
	rc := &recordingCanvas{}
	s.Draw(rc, time.Second)

	require.NotEmpty(t, rc.ops)
	first := rc.ops[0]
	assert.Equal(t, "TileTexture", first.kind)
	assert.Same(t, s.Cache().Get(0).Floor, first.tex)

	texts := rc.texts()
	assert.Contains(t, texts, "P1 Guardian  HP:3")
	assert.Contains(t, texts, "P2 Scholar  HP:2")
	assert.Contains(t, texts, "Double Pressure Plates")
	assert.Contains(t, texts, "PING")
	assert.Contains(t, texts, "GO!")

	// 横幅在玩家标签之后，气泡在横幅之后
	idx := func(s string) int {
		for i, v := range texts {
			if v == s {
				return i
			}
		}
		return -1
	}
	assert.Less(t, idx("P2 Scholar  HP:2"), idx("Double Pressure Plates"))
	assert.Less(t, idx("Double Pressure Plates"), idx("GO!"))
}

func TestSceneSkipsUnknownEntityKinds(t *testing.T) {
	withUnknown := sampleSnapshot()
	withUnknown.Entities = append([]Entity{
		{Kind: "mystery", Bounds: Rect{X: 1, Y: 1, W: 10, H: 10}},
	}, withUnknown.Entities...)
	withUnknown.Entities = append(withUnknown.Entities[:2], append([]Entity{{Kind: "portal"}}, withUnknown.Entities[2:]...)...)

	render := func(snap *Snapshot) []drawOp {
		src := &stubSceneSource{}
		src.store.Apply(snap)
		rc := &recordingCanvas{}
		NewScene(src, nil).Draw(rc, 1500*time.Millisecond)
		return rc.ops
	}
	want := render(sampleSnapshot())
	got := render(withUnknown)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].kind, got[i].kind, "op %d", i)
		assert.Equal(t, want[i].text, got[i].text, "op %d", i)
		assert.Equal(t, want[i].args, got[i].args, "op %d", i)
	}
}

func TestSceneInteractionHints(t *testing.T) {
	snap := &Snapshot{
		Players:  []Player{{ID: 2, Role: RoleScholar, Pos: Vec2{X: 100, Y: 100}}},
		Entities: []Entity{{Kind: KindSwitch, Bounds: Rect{X: 120, Y: 80, W: 40, H: 40}}},
	}
	count := func(id *Identity, snap *Snapshot) int {
		src := &stubSceneSource{id: id}
		src.store.Apply(snap)
		rc := &recordingCanvas{}
		NewScene(src, nil).Draw(rc, 0)
		n := 0
		for _, s := range rc.texts() {
			if s == "E" {
				n++
			}
		}
		return n
	}

	assert.Equal(t, 1, count(&Identity{PlayerID: 2, Role: RoleScholar}, snap))
	assert.Equal(t, 0, count(nil, snap), "no hints before joining")
	assert.Equal(t, 0, count(&Identity{PlayerID: 2, Role: RoleGuardian}, snap))

	downed := *snap
	downed.Players = []Player{{ID: 2, Role: RoleScholar, Pos: Vec2{X: 100, Y: 100}, Down: true}}
	assert.Equal(t, 0, count(&Identity{PlayerID: 2, Role: RoleScholar}, &downed))
}

func TestPlatePressedWhenOccupied(t *testing.T) {
	plate := Entity{Kind: KindPlate, Bounds: Rect{X: 0, Y: 0, W: 40, H: 40}}
	assert.True(t, platePressed(plate, []Player{{Pos: Vec2{X: 20, Y: 20}}}))
	assert.False(t, platePressed(plate, []Player{{Pos: Vec2{X: 60, Y: 20}}}))
	assert.False(t, platePressed(plate, nil))
}

func TestSceneReusesRoomTextures(t *testing.T) {
	src := &stubSceneSource{}
	src.store.Apply(sampleSnapshot())
	s := NewScene(src, nil)
	s.Draw(&recordingCanvas{}, 0)
	s.Draw(&recordingCanvas{}, time.Second)
	assert.Equal(t, 1, s.Cache().Len())

	next := sampleSnapshot()
	next.RoomIndex = 1
	src.store.Apply(next)
	s.Draw(&recordingCanvas{}, 2*time.Second)
	assert.Equal(t, 2, s.Cache().Len())
}
