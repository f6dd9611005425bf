package display

import (
	"context"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"livingtemple/client"
)

const (
	panelWidth   = 300
	screenWidth  = client.WorldWidth + panelWidth
	screenHeight = client.WorldHeight
)

// 移动与交互键到核心键位的映射
var keyMap = map[ebiten.Key]client.Key{
	ebiten.KeyW:          client.KeyW,
	ebiten.KeyA:          client.KeyA,
	ebiten.KeyS:          client.KeyS,
	ebiten.KeyD:          client.KeyD,
	ebiten.KeyE:          client.KeyE,
	ebiten.KeyArrowUp:    client.KeyArrowUp,
	ebiten.KeyArrowDown:  client.KeyArrowDown,
	ebiten.KeyArrowLeft:  client.KeyArrowLeft,
	ebiten.KeyArrowRight: client.KeyArrowRight,
}

var quickChatKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5, ebiten.Key6}

// Game ebiten 窗口：每帧先消费会话收件箱，再处理输入，最后绘制
type Game struct {
	ctx    context.Context
	sess   *client.Session
	keys   *client.InputState
	scene  *client.Scene
	canvas *Canvas
	start  time.Time

	entry   entryMode
	code    *client.TextField
	room    *client.TextField
	name    *client.TextField
	field   int // 加入表单中正在编辑的字段：0 房间码，1 名字
	focused bool
}

type entryMode int

const (
	entryNone entryMode = iota
	entryCode
	entryJoin
)

// NewGame ctx 取消时窗口退出
func NewGame(ctx context.Context, sess *client.Session, keys *client.InputState) (*Game, error) {
	cv, err := NewCanvas()
	if err != nil {
		return nil, err
	}
	return &Game{
		ctx:     ctx,
		sess:    sess,
		keys:    keys,
		scene:   client.NewScene(sess, sess.Metrics()),
		canvas:  cv,
		start:   time.Now(),
		focused: true,
	}, nil
}

// Run 打开窗口并阻塞到窗口关闭
func Run(g *Game) error {
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("The Living Temple")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}

func (g *Game) Layout(_, _ int) (int, int) { return screenWidth, screenHeight }

func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	g.sess.Pump()

	if focused := ebiten.IsFocused(); focused != g.focused {
		g.focused = focused
		if !focused {
			g.keys.ReleaseAll()
		}
	}

	switch g.entry {
	case entryCode:
		g.updateCodeEntry()
		return nil
	case entryJoin:
		g.updateJoinEntry()
		return nil
	}

	for ek, k := range keyMap {
		if inpututil.IsKeyJustPressed(ek) {
			g.keys.Press(k)
		}
		if inpututil.IsKeyJustReleased(ek) {
			g.keys.Release(k)
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF1):
		g.sess.Connect()
	case inpututil.IsKeyJustPressed(ebiten.KeyF2):
		g.sess.Disconnect()
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter), inpututil.IsKeyJustPressed(ebiten.KeyJ):
		f := g.sess.Form()
		g.keys.ReleaseAll()
		g.room, g.name = client.NewRoomCodeField(f.RoomCode), client.NewNameField(f.PlayerName)
		g.field, g.entry = 0, entryJoin
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.sess.ToggleReady()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		if g.sess.Actions().SubmitCode {
			g.keys.ReleaseAll()
			g.code, g.entry = client.NewCodeField(), entryCode
		}
	}

	for i, k := range quickChatKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.sess.QuickChat(client.QuickChatPresets[i])
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		if mx < client.WorldWidth && my < client.WorldHeight {
			g.sess.Ping(float64(mx), float64(my))
		}
	}
	return nil
}

// typeInto 把本帧输入的字符追加到 f，处理退格
func typeInto(f *client.TextField) {
	for _, r := range ebiten.AppendInputChars(nil) {
		f.Append(r)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		f.Backspace()
	}
}

// updateCodeEntry 密码输入模式：回车提交，Esc 取消
func (g *Game) updateCodeEntry() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.entry = entryNone
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		g.sess.SubmitCode(g.code.Value())
		g.entry = entryNone
	default:
		typeInto(g.code)
	}
}

// updateJoinEntry 加入表单：Tab 切换字段，回车提交 join，Esc 取消
func (g *Game) updateJoinEntry() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.entry = entryNone
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		g.sess.SubmitJoin(g.room.Value(), g.name.Value())
		g.entry = entryNone
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		g.field = 1 - g.field
	default:
		typeInto(g.joinField())
	}
}

func (g *Game) joinField() *client.TextField {
	if g.field == 0 {
		return g.room
	}
	return g.name
}

func (g *Game) Draw(screen *ebiten.Image) {
	world := screen.SubImage(image.Rect(0, 0, client.WorldWidth, client.WorldHeight)).(*ebiten.Image)
	g.canvas.Bind(world)
	g.scene.Draw(g.canvas, time.Since(g.start))

	g.canvas.Bind(screen)
	g.drawPanel()
}

var (
	panelBG    = color.NRGBA{R: 0x0d, G: 0x11, B: 0x17, A: 0xff}
	panelEdge  = color.NRGBA{R: 0x30, G: 0x36, B: 0x3d, A: 0xff}
	panelInk   = color.NRGBA{R: 0xe6, G: 0xed, B: 0xf3, A: 0xff}
	panelMuted = color.NRGBA{R: 0x8b, G: 0x94, B: 0x9e, A: 0xff}
	panelGood  = color.NRGBA{R: 0x2e, G: 0xa0, B: 0x43, A: 0xff}
)

// drawPanel 右侧 HUD：状态、职业卡、名单、碎片、消息与快捷键说明
func (g *Game) drawPanel() {
	c := g.canvas
	const x0 = client.WorldWidth
	c.FillRect(x0, 0, panelWidth, screenHeight, panelBG)
	c.Line(x0, 0, x0, screenHeight, 1, panelEdge)

	hud := g.sess.HUD()
	x, y := float64(x0+12), 10.0
	line := func(s string, size float64, clr color.Color) {
		c.Text(s, x, y, size, client.AlignLeft, clr)
		y += size + 6
	}

	line(g.sess.Status(), 12, panelInk)
	room := "Room: -"
	if id, ok := g.sess.Identity(); ok {
		room = "Room: " + id.RoomCode
	}
	line(room+"   "+hud.RoomProgress, 12, panelMuted)
	line(hud.RoomTitle, 12, panelMuted)
	y += 4

	line(hud.RoleCard, 13, client.ParseColor(hud.RoleColor, panelInk))
	if hud.RoleDesc != "" {
		line(hud.RoleDesc, 10, panelMuted)
	}
	y += 4

	for _, r := range hud.Roster {
		clr := panelMuted
		if r.Ready {
			clr = panelGood
		}
		line(r.Label+"  "+r.State(), 11, clr)
	}
	y += 4

	for _, f := range hud.Fragments {
		clr := panelMuted
		if f.Awarded {
			clr = panelInk
		}
		line(f.Text, 11, clr)
	}
	y += 4

	for _, m := range lastN(hud.Messages, 8) {
		line(m, 10, panelMuted)
	}

	y = screenHeight - 126
	switch g.entry {
	case entryJoin:
		line("Room code: "+g.room.String()+cursor(g.field == 0), 12, panelInk)
		line("Name: "+g.name.String()+cursor(g.field == 1), 12, panelInk)
		line("Tab switch  Enter join  Esc cancel", 10, panelMuted)
	case entryCode:
		line("Code: "+g.code.String()+"_", 13, panelInk)
		line("Enter submit  Esc cancel", 10, panelMuted)
	default:
		f := g.sess.Form()
		line("Join: "+orDash(f.RoomCode)+" as "+orDash(f.PlayerName), 11, panelMuted)
		if hud.CanSubmit {
			line("C: enter final code", 10, panelInk)
		}
	}
	y = screenHeight - 66
	line("F1 connect  F2 disconnect  J/Enter join form", 10, panelMuted)
	line("R "+strings.ToLower(client.ReadyLabel(g.sess.Ready()))+"  E interact  click ping", 10, panelMuted)
	line("1-6 quick chat", 10, panelMuted)
}

func cursor(active bool) string {
	if active {
		return "_"
	}
	return ""
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func lastN(s []string, n int) []string {
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}
