package client

import "sync/atomic"

// EntityKind 实体种类（封闭集合）
type EntityKind string

const (
	KindDoor   EntityKind = "door"
	KindPlate  EntityKind = "plate"
	KindSpikes EntityKind = "spikes"
	KindMural  EntityKind = "mural"
	KindSign   EntityKind = "sign"
	KindLever  EntityKind = "lever"
	KindBlock  EntityKind = "block"
	KindSwitch EntityKind = "switch"
	KindValve  EntityKind = "valve"
	KindWater  EntityKind = "water"
	KindPanel  EntityKind = "panel"
)

// Rect 轴对齐矩形
type Rect struct {
	X, Y, W, H float64
}

// Center 矩形中心
func (r Rect) Center() Vec2 { return Vec2{X: r.X + r.W/2, Y: r.Y + r.H/2} }

// Contains 点是否落在矩形内（含边界）
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Entity 房间内的机关；各种类只读取与自己相关的状态字段
type Entity struct {
	ID      string
	Kind    EntityKind
	Bounds  Rect
	Open    bool // door
	Active  bool // spikes, panel
	Read    bool // mural, sign
	State   int  // lever: 0..2
	On      bool // switch
	Grabbed bool // block
}

// MessageKind 消息种类
type MessageKind string

const (
	MsgChat   MessageKind = "chat"
	MsgPing   MessageKind = "ping"
	MsgSystem MessageKind = "system"
)

// Message 带服务端逻辑时刻 T 的瞬时事件
type Message struct {
	T        int64
	Kind     MessageKind
	PlayerID PlayerID // chat
	Text     string   // chat: preset id；ping: 标签；system: 文本
	Pos      Vec2     // ping
}

// Fragment 密码碎片槽位
type Fragment struct {
	Hint    int
	Awarded bool
	Frag    string
}

// UIState 服务端按职业定制的 UI 数据
type UIState struct {
	RoomCount     int
	Fragments     []Fragment
	PrivateHint   string
	CanSubmit     bool
	FinalUnlocked bool
}

// Snapshot 一次完整的权威世界视图，收到后不可变
type Snapshot struct {
	ServerTick int64
	RoomIndex  int
	Players    []Player
	Entities   []Entity
	Messages   []Message
	UI         UIState
}

// PlayerByID 按编号查找玩家
func (s *Snapshot) PlayerByID(id PlayerID) (Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// SnapshotStore 只保存最近一次快照；整体替换，读者不会看到半更新状态
type SnapshotStore struct {
	cur atomic.Pointer[Snapshot]
}

// Latest 返回当前快照；从未收到时 ok=false
func (s *SnapshotStore) Latest() (*Snapshot, bool) {
	snap := s.cur.Load()
	return snap, snap != nil
}

// Apply 无条件替换当前快照（不做 tick 新旧检查，顺序由传输层保证）
func (s *SnapshotStore) Apply(snap *Snapshot) {
	if snap == nil {
		return
	}
	s.cur.Store(snap)
}
