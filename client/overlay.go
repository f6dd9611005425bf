package client

// 瞬时叠加层的可见性只取决于服务端逻辑时刻，与本地帧率、到达顺序无关
const (
	TicksPerVisibleUnit = 20
	PingWindow          = 2.0
	ChatWindow          = 3.0

	defaultPingLabel = "PING"
)

// OverlayAge 返回消息年龄（单位：秒级可见单位）以及是否仍在窗口内
func OverlayAge(currentTick, t int64, window float64) (age float64, visible bool) {
	age = float64(currentTick-t) / TicksPerVisibleUnit
	return age, age >= 0 && age <= window
}

// overlayAlpha 在窗口内从 1 线性衰减到 0
func overlayAlpha(age, window float64) float64 {
	return clamp01(1 - age/window)
}

// PingOverlay 一个可见的 ping 标记
type PingOverlay struct {
	Pos   Vec2
	Text  string
	Age   float64
	Alpha float64
}

// VisiblePings 当前 tick 下可见的 ping
func VisiblePings(snap *Snapshot) []PingOverlay {
	var out []PingOverlay
	for _, m := range snap.Messages {
		if m.Kind != MsgPing {
			continue
		}
		age, ok := OverlayAge(snap.ServerTick, m.T, PingWindow)
		if !ok {
			continue
		}
		text := m.Text
		if text == "" {
			text = defaultPingLabel
		}
		out = append(out, PingOverlay{Pos: m.Pos, Text: text, Age: age, Alpha: overlayAlpha(age, PingWindow)})
	}
	return out
}

// SpeechBubble 某玩家最近一条仍可见的快捷聊天
type SpeechBubble struct {
	PlayerID PlayerID
	Anchor   Vec2
	Text     string
	Left     bool
	Alpha    float64
}

// VisibleBubbles 每个玩家只显示窗口内最新的一条（旧的被取代而非堆叠）。
// 结果按玩家在快照中的顺序排列；说话者不在快照中时不显示。
func VisibleBubbles(snap *Snapshot) []SpeechBubble {
	latest := make(map[PlayerID]Message)
	for _, m := range snap.Messages {
		if m.Kind != MsgChat {
			continue
		}
		if _, ok := OverlayAge(snap.ServerTick, m.T, ChatWindow); !ok {
			continue
		}
		if prev, ok := latest[m.PlayerID]; ok && prev.T > m.T {
			continue
		}
		latest[m.PlayerID] = m
	}

	var out []SpeechBubble
	for _, p := range snap.Players {
		m, ok := latest[p.ID]
		if !ok {
			continue
		}
		age, _ := OverlayAge(snap.ServerTick, m.T, ChatWindow)
		left := p.ID == 1
		dx := 26.0
		if left {
			dx = -26
		}
		out = append(out, SpeechBubble{
			PlayerID: p.ID,
			Anchor:   Vec2{X: p.Pos.X + dx, Y: p.Pos.Y - 58},
			Text:     BubbleText(m.Text),
			Left:     left,
			Alpha:    overlayAlpha(age, ChatWindow),
		})
	}
	return out
}
