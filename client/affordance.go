package client

// InteractRadius 交互提示的最大距离（到实体包围盒中心）
const InteractRadius = 56.0

// interactRoles 实体种类 -> 可交互职业；anyRole 表示任何职业
var interactRoles = map[EntityKind]Role{
	KindLever:  RoleGuardian,
	KindValve:  RoleGuardian,
	KindBlock:  RoleGuardian,
	KindSwitch: RoleScholar,
	KindMural:  RoleScholar,
	KindSign:   RoleScholar,
	KindPanel:  anyRole,
}

const anyRole Role = "*"

// CanInteract 按职业表判断实体是否可交互；表外种类一律不可
func CanInteract(kind EntityKind, role Role) bool {
	need, ok := interactRoles[kind]
	if !ok {
		return false
	}
	return need == anyRole || need == role
}

// Affordances 返回本地玩家当前可交互的实体。纯函数：无状态、不修改入参，每帧重算。
func Affordances(pos Vec2, role Role, down bool, entities []Entity) []Entity {
	if down {
		return nil
	}
	var out []Entity
	for _, e := range entities {
		if !CanInteract(e.Kind, role) {
			continue
		}
		if pos.Dist(e.Bounds.Center()) > InteractRadius {
			continue
		}
		out = append(out, e)
	}
	return out
}
