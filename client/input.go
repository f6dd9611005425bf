package client

import (
	"math"
	"sync/atomic"
	"time"
)

// Key 键位编码（与浏览器 KeyboardEvent.code 命名一致）
type Key string

const (
	KeyW          Key = "KeyW"
	KeyA          Key = "KeyA"
	KeyS          Key = "KeyS"
	KeyD          Key = "KeyD"
	KeyE          Key = "KeyE"
	KeyArrowUp    Key = "ArrowUp"
	KeyArrowDown  Key = "ArrowDown"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
)

// InteractKey 交互键
const InteractKey = KeyE

// DefaultInputInterval 采样周期
const DefaultInputInterval = 50 * time.Millisecond

const moveEpsilon = 1e-6

// axisBinding 一个方向的全部绑定键及其单位贡献
type axisBinding struct {
	keys   []Key
	dx, dy float64
}

var moveBindings = []axisBinding{
	{keys: []Key{KeyA, KeyArrowLeft}, dx: -1},
	{keys: []Key{KeyD, KeyArrowRight}, dx: 1},
	{keys: []Key{KeyW, KeyArrowUp}, dy: -1},
	{keys: []Key{KeyS, KeyArrowDown}, dy: 1},
}

// KeyState 某一时刻的按键集合；不可变，整体替换
type KeyState struct {
	held     map[Key]bool
	interact bool
}

// Held 键是否按下
func (k *KeyState) Held(key Key) bool { return k != nil && k.held[key] }

// Interact 交互键是否处于按下锁存
func (k *KeyState) Interact() bool { return k != nil && k.interact }

// ComputeMove 各方向单位贡献求和，模长大于 epsilon 时归一化；无按键时保持零向量
func ComputeMove(k *KeyState) Vec2 {
	var v Vec2
	for _, b := range moveBindings {
		for _, key := range b.keys {
			if k.Held(key) {
				v.X += b.dx
				v.Y += b.dy
				break
			}
		}
	}
	if mag := math.Hypot(v.X, v.Y); mag > moveEpsilon {
		v.X /= mag
		v.Y /= mag
	}
	return v
}

// InputState 窗口循环写入、采样协程读取的按键状态
type InputState struct {
	cur atomic.Pointer[KeyState]
}

// Current 当前按键快照
func (s *InputState) Current() *KeyState {
	if k := s.cur.Load(); k != nil {
		return k
	}
	return &KeyState{}
}

// Press 按下：交互键按下时锁存
func (s *InputState) Press(key Key) {
	s.update(func(next *KeyState) {
		next.held[key] = true
		if key == InteractKey {
			next.interact = true
		}
	})
}

// Release 松开：交互键松开时清除锁存
func (s *InputState) Release(key Key) {
	s.update(func(next *KeyState) {
		delete(next.held, key)
		if key == InteractKey {
			next.interact = false
		}
	})
}

// ReleaseAll 窗口失焦等情况下清空
func (s *InputState) ReleaseAll() {
	s.cur.Store(&KeyState{held: map[Key]bool{}})
}

func (s *InputState) update(fn func(next *KeyState)) {
	prev := s.Current()
	next := &KeyState{held: make(map[Key]bool, len(prev.held)+1), interact: prev.interact}
	for k, v := range prev.held {
		next.held[k] = v
	}
	fn(next)
	s.cur.Store(next)
}

// UplinkSource 提供已加入时的出站通道
type UplinkSource interface {
	Uplink() *Uplink
}

// Sampler 固定周期采样输入并发送 input 命令；与渲染循环、会话阶段相互独立
type Sampler struct {
	src      UplinkSource
	keys     *InputState
	interval atomic.Int64

	// 以下字段只由采样协程访问
	epoch uint64
	seq   int64
}

func NewSampler(src UplinkSource, keys *InputState, interval time.Duration) *Sampler {
	s := &Sampler{src: src, keys: keys}
	s.SetInterval(interval)
	return s
}

// Interval 当前采样周期
func (s *Sampler) Interval() time.Duration { return time.Duration(s.interval.Load()) }

// SetInterval 热更新采样周期；非正值回退到默认值
func (s *Sampler) SetInterval(d time.Duration) {
	if d <= 0 {
		d = DefaultInputInterval
	}
	s.interval.Store(int64(d))
}

// Tick 执行一次采样；未加入时跳过（但不停止采样）。返回发出的命令。
func (s *Sampler) Tick() (InputMsg, bool) {
	ks := s.keys.Current()
	mv := ComputeMove(ks)
	interact := ks.Interact()

	up := s.src.Uplink()
	if up == nil {
		return InputMsg{}, false
	}
	if up.Epoch != s.epoch {
		// 新的 connect：序列号从 0 重新开始
		s.epoch = up.Epoch
		s.seq = 0
	}
	cmd := InputMsg{Seq: s.seq, MoveX: mv.X, MoveY: mv.Y, Interact: interact}
	s.seq++
	up.Send(cmd)
	return cmd, true
}
