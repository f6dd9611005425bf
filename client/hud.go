package client

import (
	"fmt"
	"strings"
)

// 快捷聊天预设：日志短标签与气泡长文本
var quickChatLabels = map[string]string{
	"WAIT":       "Wait!",
	"ON_PLATE":   "On plate",
	"PULL_LEVER": "Pull lever",
	"GO":         "Go!",
	"OK":         "OK",
	"HELP":       "Help!",
}

var quickChatBubbles = map[string]string{
	"WAIT":       "WAIT!",
	"ON_PLATE":   "STEP ON\nTHE PLATE!",
	"PULL_LEVER": "PULL THE\nLEVER!",
	"GO":         "GO!",
	"OK":         "I'M READY!",
	"HELP":       "HELP!",
}

// QuickChatPresets 按快捷键顺序排列的预设 id
var QuickChatPresets = []string{"WAIT", "ON_PLATE", "PULL_LEVER", "GO", "OK", "HELP"}

const maxBubbleRunes = 28

// ChatLabel 日志中显示的文本；未知预设回退为原始 id
func ChatLabel(preset string) string {
	if l, ok := quickChatLabels[preset]; ok {
		return l
	}
	return preset
}

// BubbleText 气泡中显示的文本；未知预设截断为 28 个字符
func BubbleText(preset string) string {
	if b, ok := quickChatBubbles[preset]; ok {
		return b
	}
	r := []rune(preset)
	if len(r) > maxBubbleRunes {
		r = r[:maxBubbleRunes]
	}
	return string(r)
}

// RosterRow 名单一行
type RosterRow struct {
	Label string
	Ready bool
	You   bool
}

// State 名单中的准备状态文本
func (r RosterRow) State() string {
	if r.Ready {
		return "READY"
	}
	return "NOT READY"
}

// FragmentRow 碎片一行
type FragmentRow struct {
	Text    string
	Awarded bool
}

// HUD 从快照派生的 UI 视图模型，与渲染无关
type HUD struct {
	RoomProgress string
	RoomTitle    string
	RoleCard     string
	RoleDesc     string
	RoleColor    string
	Roster       []RosterRow
	Fragments    []FragmentRow
	Messages     []string
	CanSubmit    bool
}

// ProjectHUD 由快照与本地身份计算 HUD；缺失字段按空值处理
func ProjectHUD(snap *Snapshot, me *Identity) HUD {
	var hud HUD
	if snap == nil {
		// 尚无快照：不显示房间进度与标题
		snap = &Snapshot{}
	} else {
		roomCount := snap.UI.RoomCount
		if roomCount <= 0 {
			roomCount = RoomCount()
		}
		hud.RoomProgress = fmt.Sprintf("Room %d/%d", snap.RoomIndex+1, roomCount)
		hud.RoomTitle = RoomTitle(snap.RoomIndex)
	}

	var myID PlayerID = -1
	if me != nil {
		myID = me.PlayerID
		if meta, ok := MetaFor(me.Role); ok {
			hud.RoleCard = "You are " + meta.Name
			hud.RoleDesc = meta.Desc
			hud.RoleColor = meta.Color
		}
	}
	if hud.RoleCard == "" {
		hud.RoleCard = "You: -"
	}

	for _, p := range snap.Players {
		meta, _ := MetaFor(p.Role)
		label := fmt.Sprintf("P%d - %s", p.ID, meta.Name)
		you := p.ID == myID
		if you {
			label += " (you)"
		}
		hud.Roster = append(hud.Roster, RosterRow{Label: label, Ready: p.Ready, You: you})
	}

	for _, f := range snap.UI.Fragments {
		text := "??"
		if f.Awarded && f.Frag != "" {
			text = f.Frag
		}
		hud.Fragments = append(hud.Fragments, FragmentRow{
			Text:    fmt.Sprintf("[%d] %s", f.Hint, text),
			Awarded: f.Awarded,
		})
	}

	if snap.UI.PrivateHint != "" {
		hud.Messages = append(hud.Messages, "(Hint) "+snap.UI.PrivateHint)
	}
	for _, m := range snap.Messages {
		hud.Messages = append(hud.Messages, messageLine(m, myID))
	}

	hud.CanSubmit = snap.UI.CanSubmit
	return hud
}

func messageLine(m Message, myID PlayerID) string {
	switch m.Kind {
	case MsgChat:
		who := fmt.Sprintf("P%d", m.PlayerID)
		if m.PlayerID == myID {
			who = "You"
		}
		return who + ": " + ChatLabel(m.Text)
	case MsgPing:
		text := m.Text
		if text == "" {
			text = defaultPingLabel
		}
		return "Ping: " + text
	default:
		return m.Text
	}
}

// ReadyLabel 准备按钮文本
func ReadyLabel(ready bool) string {
	if ready {
		return "Unready"
	}
	return "Ready"
}

// NormalizeRoomCode 房间码去空白并转大写
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
