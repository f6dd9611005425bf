package client

import "math"

// PlayerID 服务端分配的玩家编号（1 或 2）
type PlayerID int

// Role 玩家职业，决定可交互的实体种类
type Role string

const (
	RoleGuardian Role = "guardian"
	RoleScholar  Role = "scholar"
)

// RoleMeta 职业展示信息
type RoleMeta struct {
	Name  string
	Color string
	Desc  string
}

var roleMeta = map[Role]RoleMeta{
	RoleGuardian: {Name: "Guardian", Color: "#58a6ff", Desc: "Strong: pushes block, resists traps."},
	RoleScholar:  {Name: "Scholar", Color: "#2ea043", Desc: "Agile: reads clues, activates switches."},
}

// MetaFor 返回职业信息；未知职业以原始字符串为名
func MetaFor(r Role) (RoleMeta, bool) {
	m, ok := roleMeta[r]
	if !ok {
		name := string(r)
		if name == "" {
			name = "?"
		}
		return RoleMeta{Name: name, Color: "#8b949e"}, false
	}
	return m, true
}

// Vec2 二维向量（世界坐标，单位与服务端一致）
type Vec2 struct {
	X float64
	Y float64
}

// Len 向量长度
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dist 两点欧氏距离
func (v Vec2) Dist(o Vec2) float64 { return math.Hypot(v.X-o.X, v.Y-o.Y) }

// Player 快照中的玩家状态（服务端权威，客户端只读）
type Player struct {
	ID             PlayerID
	Role           Role
	Pos            Vec2
	HP             int
	Down           bool
	ReviveProgress float64
	Ready          bool
}

// Identity 加入房间时由服务端确认的身份，会话内不可变
type Identity struct {
	PlayerID PlayerID `json:"player_id"`
	Role     Role     `json:"role"`
	RoomCode string   `json:"room_code"`
}
