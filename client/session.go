package client

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Phase 会话阶段；只由协议事件或本地 connect/disconnect 驱动，从不由计时器推断
type Phase int32

const (
	PhaseDisconnected Phase = iota
	PhaseConnecting
	PhaseConnected
	PhaseJoined
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseDisconnected:
		return "disconnected"
	case PhaseConnecting:
		return "connecting"
	case PhaseConnected:
		return "connected"
	case PhaseJoined:
		return "joined"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int32(p))
	}
}

const (
	inboxDepth  = 256
	dialTimeout = 10 * time.Second
)

// 传输层事件；epoch 标识产生它的连接，旧连接的事件直接丢弃
type linkEvent interface{ epochOf() uint64 }

type linkOpened struct {
	epoch uint64
	conn  Conn
}

type linkFailed struct {
	epoch uint64
	err   error
}

type linkClosed struct {
	epoch uint64
	err   error
}

type frameArrived struct {
	epoch uint64
	data  []byte
}

func (e linkOpened) epochOf() uint64   { return e.epoch }
func (e linkFailed) epochOf() uint64   { return e.epoch }
func (e linkClosed) epochOf() uint64   { return e.epoch }
func (e frameArrived) epochOf() uint64 { return e.epoch }

// Uplink 已加入房间的出站通道；每次 connect 都是新的 epoch
type Uplink struct {
	Epoch   uint64
	conn    Conn
	metrics *NetMetrics
}

// Send 编码并入队；不阻塞
func (u *Uplink) Send(m Outgoing) bool {
	return sendOn(u.conn, u.metrics, m)
}

func sendOn(conn Conn, metrics *NetMetrics, m Outgoing) bool {
	if conn == nil {
		metrics.IncSendDropped()
		return false
	}
	b, err := EncodeCommand(m)
	if err != nil {
		Log.Errorf("encode %s: %v", m.MsgType(), err)
		metrics.IncSendDropped()
		return false
	}
	if !conn.Enqueue(b) {
		metrics.IncSendDropped()
		return false
	}
	metrics.IncSent()
	return true
}

// JoinForm 加入房间的表单输入
type JoinForm struct {
	RoomCode   string
	PlayerName string
}

// Actions 依赖会话阶段的 UI 动作是否可用
type Actions struct {
	Connect    bool
	Ready      bool
	Ping       bool
	QuickChat  bool
	SubmitCode bool
}

// SessionInfo 供调试接口读取的会话概要
type SessionInfo struct {
	Phase    string    `json:"phase"`
	Status   string    `json:"status"`
	Identity *Identity `json:"identity,omitempty"`
	Tick     int64     `json:"tick"`
	Room     int       `json:"room"`
}

// SessionOptions 构造参数
type SessionOptions struct {
	URL     string
	Dialer  Dialer
	Store   *SnapshotStore
	Metrics *NetMetrics
	Form    JoinForm
}

// Session 应用状态的唯一控制者：连接生命周期、身份、快照与 HUD。
// 写操作只发生在主循环（Pump 与 UI 动作）；其他协程通过原子整值读取。
type Session struct {
	ctx     context.Context
	cancel  context.CancelFunc
	url     string
	dialer  Dialer
	store   *SnapshotStore
	metrics *NetMetrics
	inbox   chan linkEvent

	epoch      uint64
	conn       Conn
	form       JoinForm
	ready      bool
	cancelDial context.CancelFunc
	log        *zap.SugaredLogger

	phase    atomic.Int32
	identity atomic.Pointer[Identity]
	status   atomic.Pointer[string]
	hud      atomic.Pointer[HUD]
	uplink   atomic.Pointer[Uplink]
}

// NewSession 创建处于 Disconnected 的会话
func NewSession(parent context.Context, opts SessionOptions) *Session {
	ctx, cancel := context.WithCancel(parent)
	if opts.Store == nil {
		opts.Store = &SnapshotStore{}
	}
	if opts.Metrics == nil {
		opts.Metrics = &NetMetrics{}
	}
	if opts.Dialer == nil {
		opts.Dialer = WSDialer{HandshakeTimeout: dialTimeout}
	}
	s := &Session{
		ctx:     ctx,
		cancel:  cancel,
		url:     opts.URL,
		dialer:  opts.Dialer,
		store:   opts.Store,
		metrics: opts.Metrics,
		inbox:   make(chan linkEvent, inboxDepth),
		form:    normalizeForm(opts.Form),
		log:     Log,
	}
	s.setStatus("Disconnected")
	hud := ProjectHUD(nil, nil)
	s.hud.Store(&hud)
	return s
}

func normalizeForm(f JoinForm) JoinForm {
	return JoinForm{RoomCode: NormalizeRoomCode(f.RoomCode), PlayerName: strings.TrimSpace(f.PlayerName)}
}

// Phase 当前阶段（任意协程可读）
func (s *Session) Phase() Phase { return Phase(s.phase.Load()) }

// Identity 已确认的身份；未加入时 ok=false
func (s *Session) Identity() (Identity, bool) {
	id := s.identity.Load()
	if id == nil {
		return Identity{}, false
	}
	return *id, true
}

// Status 面向用户的状态文本
func (s *Session) Status() string { return *s.status.Load() }

// HUD 最近一次投影的视图模型
func (s *Session) HUD() HUD { return *s.hud.Load() }

// Store 快照存储
func (s *Session) Store() *SnapshotStore { return s.store }

// Metrics 网络指标
func (s *Session) Metrics() *NetMetrics { return s.metrics }

// Uplink 已加入时返回出站通道，否则为 nil；断开后立即失效
func (s *Session) Uplink() *Uplink { return s.uplink.Load() }

// Ready 本地准备状态
func (s *Session) Ready() bool { return s.ready }

// Form 当前表单
func (s *Session) Form() JoinForm { return s.form }

// Info 调试概要
func (s *Session) Info() SessionInfo {
	info := SessionInfo{Phase: s.Phase().String(), Status: s.Status()}
	if id, ok := s.Identity(); ok {
		info.Identity = &id
	}
	if snap, ok := s.store.Latest(); ok {
		info.Tick = snap.ServerTick
		info.Room = snap.RoomIndex
	}
	return info
}

func (s *Session) setPhase(p Phase) {
	old := Phase(s.phase.Swap(int32(p)))
	if old != p {
		s.log.Infof("phase %s -> %s", old, p)
	}
}

func (s *Session) setStatus(text string) { s.status.Store(&text) }

// Connect 已在连接中或已连接时为空操作；否则开始新的 epoch 并异步拨号
func (s *Session) Connect() {
	switch s.Phase() {
	case PhaseConnecting, PhaseConnected, PhaseJoined:
		return
	}
	s.epoch++
	epoch := s.epoch
	s.resetLink()
	s.log = Log.With("conn", uuid.NewString(), "epoch", epoch)
	s.setPhase(PhaseConnecting)
	s.setStatus("Connecting...")

	ctx, cancel := context.WithTimeout(s.ctx, dialTimeout)
	s.cancelDial = cancel
	sink := &epochSink{s: s, epoch: epoch}
	go func() {
		defer cancel()
		conn, err := s.dialer.Dial(ctx, s.url, sink)
		if err != nil {
			s.post(linkFailed{epoch: epoch, err: err})
			return
		}
		s.post(linkOpened{epoch: epoch, conn: conn})
	}()
}

// SubmitJoin 更新表单；已连接则立即发送 join，未连接则发起连接（打开后自动 join）
func (s *Session) SubmitJoin(roomCode, playerName string) {
	s.form = normalizeForm(JoinForm{RoomCode: roomCode, PlayerName: playerName})
	switch s.Phase() {
	case PhaseConnected:
		s.send(s.joinMsg())
	case PhaseDisconnected, PhaseFailed:
		s.Connect()
	}
}

// Disconnect 关闭连接；幂等，立即停止命令发送
func (s *Session) Disconnect() {
	if s.cancelDial != nil {
		s.cancelDial()
		s.cancelDial = nil
	}
	if s.Phase() == PhaseDisconnected {
		return
	}
	s.epoch++
	if s.conn != nil {
		s.conn.Close()
	}
	s.dropLink("Disconnected")
}

// Close 结束会话并释放连接
func (s *Session) Close() {
	s.Disconnect()
	s.cancel()
}

// resetLink 清空连接相关状态（身份、上行通道、准备状态）
func (s *Session) resetLink() {
	s.conn = nil
	s.ready = false
	s.uplink.Store(nil)
	s.identity.Store(nil)
	s.refreshHUD()
}

func (s *Session) dropLink(status string) {
	s.resetLink()
	s.setPhase(PhaseDisconnected)
	s.setStatus(status)
}

// post 投递生命周期事件（阻塞直到入队或会话关闭）
func (s *Session) post(ev linkEvent) {
	select {
	case s.inbox <- ev:
	case <-s.ctx.Done():
		if o, ok := ev.(linkOpened); ok {
			o.conn.Close()
		}
	}
}

// Pump 非阻塞地处理收件箱中的全部事件；每个渲染帧调用一次
func (s *Session) Pump() int {
	n := 0
	for {
		select {
		case ev := <-s.inbox:
			s.handleLink(ev)
			n++
		default:
			return n
		}
	}
}

func (s *Session) handleLink(ev linkEvent) {
	if ev.epochOf() != s.epoch {
		s.metrics.IncStale()
		if o, ok := ev.(linkOpened); ok {
			o.conn.Close()
		}
		return
	}
	switch e := ev.(type) {
	case linkOpened:
		if s.Phase() != PhaseConnecting {
			e.conn.Close()
			return
		}
		s.cancelDial = nil
		s.conn = e.conn
		s.setPhase(PhaseConnected)
		s.setStatus("Connected")
		s.send(HelloMsg{Version: ProtocolVersion})
		s.send(s.joinMsg())
	case linkFailed:
		s.cancelDial = nil
		s.log.Warnf("connect failed: %v", e.err)
		s.resetLink()
		s.setPhase(PhaseFailed)
		s.setStatus("Connection failed: " + e.err.Error())
	case linkClosed:
		if e.err != nil {
			s.log.Infof("connection closed: %v", e.err)
		}
		s.dropLink("Disconnected")
	case frameArrived:
		s.metrics.IncFrames()
		msg, err := DecodeEvent(e.data)
		if err != nil {
			s.metrics.IncMalformed()
			s.log.Warnf("dropping inbound payload: %v", err)
			return
		}
		s.OnEvent(msg)
	}
}

// OnEvent 按入站事件类型分派
func (s *Session) OnEvent(ev Event) {
	switch e := ev.(type) {
	case WelcomeEvent:
		s.log.Debugf("welcome: server protocol v%d", e.Version)
	case ServerErrorEvent:
		s.log.Infof("server error: code=%s message=%s", e.Code, e.Message)
		s.setStatus("Error: " + e.Message)
	case JoinedEvent:
		s.onJoined(e)
	case StateEvent:
		s.onState(e.Snapshot)
	case RosterEvent:
		s.log.Debugf("roster event %q: %d players", e.Name, len(e.Players))
	default:
		s.log.Warnf("unhandled event %T", ev)
	}
}

func (s *Session) onJoined(e JoinedEvent) {
	if s.Phase() != PhaseConnected || s.identity.Load() != nil {
		s.log.Warnf("ignoring joined in phase %s", s.Phase())
		return
	}
	id := &Identity{PlayerID: e.PlayerID, Role: e.Role, RoomCode: e.RoomCode}
	s.identity.Store(id)
	s.uplink.Store(&Uplink{Epoch: s.epoch, conn: s.conn, metrics: s.metrics})
	s.setPhase(PhaseJoined)
	s.setStatus("Joined")
	s.log.Infof("joined room=%s player=%d role=%s", e.RoomCode, e.PlayerID, e.Role)
	s.refreshHUD()
}

func (s *Session) onState(snap *Snapshot) {
	if snap == nil {
		return
	}
	s.store.Apply(snap)
	s.metrics.IncSnapshots()
	s.refreshHUD()
}

func (s *Session) refreshHUD() {
	snap, _ := s.store.Latest()
	hud := ProjectHUD(snap, s.identity.Load())
	s.hud.Store(&hud)
}

func (s *Session) joinMsg() JoinMsg {
	return JoinMsg{RoomCode: s.form.RoomCode, PlayerName: s.form.PlayerName}
}

// send 通过当前连接发送（不要求已加入）
func (s *Session) send(m Outgoing) bool {
	return sendOn(s.conn, s.metrics, m)
}

// Actions 当前可用的 UI 动作
func (s *Session) Actions() Actions {
	ph := s.Phase()
	joined := ph == PhaseJoined
	return Actions{
		Connect:    ph == PhaseDisconnected || ph == PhaseFailed,
		Ready:      joined,
		Ping:       joined,
		QuickChat:  ph == PhaseConnected || joined,
		SubmitCode: joined && s.HUD().CanSubmit,
	}
}

// ToggleReady 切换准备状态
func (s *Session) ToggleReady() bool {
	if !s.Actions().Ready {
		return false
	}
	if !s.send(ReadyMsg{Ready: !s.ready}) {
		return false
	}
	s.ready = !s.ready
	return true
}

// Ping 在世界坐标处放置标记
func (s *Session) Ping(x, y float64) bool {
	if !s.Actions().Ping {
		return false
	}
	return s.send(PingMsg{X: x, Y: y, Label: defaultPingLabel})
}

// QuickChat 发送快捷聊天预设
func (s *Session) QuickChat(preset string) bool {
	if !s.Actions().QuickChat || preset == "" {
		return false
	}
	return s.send(QuickChatMsg{PresetID: preset})
}

// SubmitCode 提交最终密码；只在服务端允许提交时可用，客户端不校验密码本身
func (s *Session) SubmitCode(code string) bool {
	if !s.Actions().SubmitCode {
		return false
	}
	code = NormalizeRoomCode(code)
	if r := []rune(code); len(r) > MaxCodeLen {
		code = string(r[:MaxCodeLen])
	}
	return s.send(CodeSubmitMsg{Code: code})
}

// epochSink 把某个连接的帧与关闭事件投递到会话收件箱
type epochSink struct {
	s     *Session
	epoch uint64
}

// OnFrame 收件箱满时只丢弃 state 帧（下一帧快照会整体覆盖）；
// joined、error 等一次性帧阻塞读协程直到入队
func (k *epochSink) OnFrame(b []byte) {
	ev := frameArrived{epoch: k.epoch, data: b}
	select {
	case k.s.inbox <- ev:
		return
	default:
	}
	if typ, err := peekType(b); err == nil && typ == TypeState {
		k.s.metrics.IncInboxFull()
		return
	}
	k.s.post(ev)
}

func (k *epochSink) OnClose(err error) {
	k.s.post(linkClosed{epoch: k.epoch, err: err})
}
