package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ProtocolVersion 客户端宣告的协议版本
const ProtocolVersion = 1

// 出站消息类型
const (
	TypeHello      = "hello"
	TypeJoin       = "join"
	TypeReady      = "ready"
	TypeInput      = "input"
	TypeQuickChat  = "quick_chat"
	TypePing       = "ping"
	TypeCodeSubmit = "code_submit"
)

// 入站消息类型
const (
	TypeWelcome = "welcome"
	TypeError   = "error"
	TypeJoined  = "joined"
	TypeState   = "state"
	TypeEvent   = "event"
)

var (
	ErrMalformed   = errors.New("malformed payload")
	ErrUnknownType = errors.New("unknown message type")
)

// Outgoing 出站命令（封闭集合）
type Outgoing interface {
	MsgType() string
}

type HelloMsg struct {
	Version int `json:"version"`
}

type JoinMsg struct {
	RoomCode   string `json:"room_code"`
	PlayerName string `json:"player_name"`
}

type ReadyMsg struct {
	Ready bool `json:"ready"`
}

// InputMsg 即 Command：每个采样周期一条
type InputMsg struct {
	Seq      int64   `json:"seq"`
	MoveX    float64 `json:"move_x"`
	MoveY    float64 `json:"move_y"`
	Interact bool    `json:"interact"`
}

type QuickChatMsg struct {
	PresetID string `json:"preset_id"`
}

type PingMsg struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}

type CodeSubmitMsg struct {
	Code string `json:"code"`
}

func (HelloMsg) MsgType() string      { return TypeHello }
func (JoinMsg) MsgType() string       { return TypeJoin }
func (ReadyMsg) MsgType() string      { return TypeReady }
func (InputMsg) MsgType() string      { return TypeInput }
func (QuickChatMsg) MsgType() string  { return TypeQuickChat }
func (PingMsg) MsgType() string       { return TypePing }
func (CodeSubmitMsg) MsgType() string { return TypeCodeSubmit }

// EncodeCommand 编码为 {"type": ..., 其余字段平铺} 的 JSON
func EncodeCommand(m Outgoing) ([]byte, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", m.MsgType(), err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("encode %s: %w", m.MsgType(), err)
	}
	typ, _ := json.Marshal(m.MsgType())
	fields["type"] = typ
	return json.Marshal(fields)
}

// DecodeCommand 将出站 JSON 还原为命令（调试日志与测试使用）
func DecodeCommand(data []byte) (Outgoing, error) {
	typ, err := peekType(data)
	if err != nil {
		return nil, err
	}
	var out Outgoing
	switch typ {
	case TypeHello:
		var m HelloMsg
		err = json.Unmarshal(data, &m)
		out = m
	case TypeJoin:
		var m JoinMsg
		err = json.Unmarshal(data, &m)
		out = m
	case TypeReady:
		var m ReadyMsg
		err = json.Unmarshal(data, &m)
		out = m
	case TypeInput:
		var m InputMsg
		err = json.Unmarshal(data, &m)
		out = m
	case TypeQuickChat:
		var m QuickChatMsg
		err = json.Unmarshal(data, &m)
		out = m
	case TypePing:
		var m PingMsg
		err = json.Unmarshal(data, &m)
		out = m
	case TypeCodeSubmit:
		var m CodeSubmitMsg
		err = json.Unmarshal(data, &m)
		out = m
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, typ, err)
	}
	return out, nil
}

// Event 入站事件（封闭集合，按类型分派）
type Event interface{ isEvent() }

// WelcomeEvent 服务端对 hello 的确认
type WelcomeEvent struct {
	Version int
}

// ServerErrorEvent 服务端报告的应用层错误，不代表断线
type ServerErrorEvent struct {
	Code    string
	Message string
}

// JoinedEvent 加入确认
type JoinedEvent struct {
	RoomCode string
	PlayerID PlayerID
	Role     Role
}

// StateEvent 一次完整快照
type StateEvent struct {
	Snapshot *Snapshot
}

// RosterEvent 服务端广播的名单变化（核心逻辑只记录）
type RosterEvent struct {
	Name    string
	Players []Player
}

func (WelcomeEvent) isEvent()     {}
func (ServerErrorEvent) isEvent() {}
func (JoinedEvent) isEvent()      {}
func (StateEvent) isEvent()       {}
func (RosterEvent) isEvent()      {}

// 入站线上格式（snake_case，字段缺失时取零值）
type wirePlayer struct {
	PlayerID       PlayerID `json:"player_id"`
	Role           Role     `json:"role"`
	X              float64  `json:"x"`
	Y              float64  `json:"y"`
	HP             int      `json:"hp"`
	Down           bool     `json:"down"`
	ReviveProgress float64  `json:"revive_progress"`
	Ready          bool     `json:"ready"`
}

type wireEntity struct {
	ID      string     `json:"id,omitempty"`
	Type    EntityKind `json:"type"`
	X       float64    `json:"x"`
	Y       float64    `json:"y"`
	W       float64    `json:"w"`
	H       float64    `json:"h"`
	Open    bool       `json:"open,omitempty"`
	Active  bool       `json:"active,omitempty"`
	Read    bool       `json:"read,omitempty"`
	State   int        `json:"state,omitempty"`
	On      bool       `json:"on,omitempty"`
	Grabbed bool       `json:"grabbed,omitempty"`
}

type wireMessage struct {
	T        *int64      `json:"t,omitempty"`
	Kind     MessageKind `json:"kind"`
	PlayerID PlayerID    `json:"player_id,omitempty"`
	Text     *string     `json:"text,omitempty"`
	X        float64     `json:"x,omitempty"`
	Y        float64     `json:"y,omitempty"`
}

type wireFragment struct {
	Hint    int     `json:"hint"`
	Awarded bool    `json:"awarded"`
	Frag    *string `json:"frag,omitempty"`
}

type wireUI struct {
	RoomCount     int            `json:"room_count,omitempty"`
	Fragments     []wireFragment `json:"fragments"`
	PrivateHint   string         `json:"private_hint,omitempty"`
	CanSubmit     bool           `json:"can_submit"`
	FinalUnlocked bool           `json:"final_unlocked,omitempty"`
}

type wireState struct {
	Tick      int64         `json:"tick"`
	RoomIndex int           `json:"room_index"`
	Players   []wirePlayer  `json:"players"`
	Entities  []wireEntity  `json:"entities"`
	Messages  []wireMessage `json:"messages"`
	UI        *wireUI       `json:"ui,omitempty"`
}

type wireJoined struct {
	RoomCode string       `json:"room_code"`
	PlayerID PlayerID     `json:"player_id"`
	Role     Role         `json:"role"`
	Players  []wirePlayer `json:"players,omitempty"`
}

type wireError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type wireWelcome struct {
	Version int `json:"version"`
}

type wireEvent struct {
	Name string `json:"name"`
	Data struct {
		Players []wirePlayer `json:"players"`
	} `json:"data"`
}

// DecodeEvent 解码入站消息；畸形或未知类型返回错误（调用方丢弃即可）
func DecodeEvent(data []byte) (Event, error) {
	typ, err := peekType(data)
	if err != nil {
		return nil, err
	}
	switch typ {
	case TypeWelcome:
		var w wireWelcome
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, malformed(typ, err)
		}
		return WelcomeEvent{Version: w.Version}, nil
	case TypeError:
		var w wireError
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, malformed(typ, err)
		}
		return ServerErrorEvent{Code: w.Code, Message: w.Message}, nil
	case TypeJoined:
		var w wireJoined
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, malformed(typ, err)
		}
		return JoinedEvent{RoomCode: w.RoomCode, PlayerID: w.PlayerID, Role: w.Role}, nil
	case TypeState:
		var w wireState
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, malformed(typ, err)
		}
		return StateEvent{Snapshot: w.toSnapshot()}, nil
	case TypeEvent:
		var w wireEvent
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, malformed(typ, err)
		}
		return RosterEvent{Name: w.Name, Players: toPlayers(w.Data.Players)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
}

func peekType(data []byte) (string, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Type == "" {
		return "", fmt.Errorf("%w: missing type", ErrMalformed)
	}
	return env.Type, nil
}

func malformed(typ string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformed, typ, err)
}

func toPlayers(in []wirePlayer) []Player {
	out := make([]Player, 0, len(in))
	for _, p := range in {
		out = append(out, Player{
			ID:             p.PlayerID,
			Role:           p.Role,
			Pos:            Vec2{X: p.X, Y: p.Y},
			HP:             p.HP,
			Down:           p.Down,
			ReviveProgress: p.ReviveProgress,
			Ready:          p.Ready,
		})
	}
	return out
}

func (w wireState) toSnapshot() *Snapshot {
	snap := &Snapshot{
		ServerTick: w.Tick,
		RoomIndex:  w.RoomIndex,
		Players:    toPlayers(w.Players),
		Entities:   make([]Entity, 0, len(w.Entities)),
		Messages:   make([]Message, 0, len(w.Messages)),
	}
	for _, e := range w.Entities {
		snap.Entities = append(snap.Entities, Entity{
			ID:      e.ID,
			Kind:    e.Type,
			Bounds:  Rect{X: e.X, Y: e.Y, W: e.W, H: e.H},
			Open:    e.Open,
			Active:  e.Active,
			Read:    e.Read,
			State:   e.State,
			On:      e.On,
			Grabbed: e.Grabbed,
		})
	}
	for _, m := range w.Messages {
		msg := Message{Kind: m.Kind, PlayerID: m.PlayerID, Pos: Vec2{X: m.X, Y: m.Y}, T: w.Tick}
		if m.T != nil {
			msg.T = *m.T
		}
		if m.Text != nil {
			msg.Text = *m.Text
		} else if m.Kind == MsgPing {
			msg.Text = defaultPingLabel
		}
		snap.Messages = append(snap.Messages, msg)
	}
	if w.UI != nil {
		snap.UI = UIState{
			RoomCount:     w.UI.RoomCount,
			PrivateHint:   w.UI.PrivateHint,
			CanSubmit:     w.UI.CanSubmit,
			FinalUnlocked: w.UI.FinalUnlocked,
			Fragments:     make([]Fragment, 0, len(w.UI.Fragments)),
		}
		for _, f := range w.UI.Fragments {
			frag := Fragment{Hint: f.Hint, Awarded: f.Awarded}
			if f.Frag != nil {
				frag.Frag = *f.Frag
			}
			snap.UI.Fragments = append(snap.UI.Fragments, frag)
		}
	}
	return snap
}
