package client

import (
	"sync/atomic"
)

// NetMetrics 记录客户端运行期的关键指标（用于监控与调试）
type NetMetrics struct {
	FramesReceived    int64 // 收到的入站帧
	MalformedDropped  int64 // 因格式错误被丢弃的帧
	InboxFullDropped  int64 // 因收件箱满被丢弃的帧
	CommandsSent      int64 // 成功入队的出站命令
	CommandsDropped   int64 // 因发送队列满或未连接被丢弃的命令
	SnapshotsApplied  int64 // 应用到 Store 的快照数
	FramesRendered    int64 // 渲染帧数
	StaleEventsIgnore int64 // 旧连接遗留事件
}

func (m *NetMetrics) IncFrames() { atomic.AddInt64(&m.FramesReceived, 1) }
func (m *NetMetrics) IncMalformed() { atomic.AddInt64(&m.MalformedDropped, 1) }
func (m *NetMetrics) IncInboxFull() { atomic.AddInt64(&m.InboxFullDropped, 1) }
func (m *NetMetrics) IncSent() { atomic.AddInt64(&m.CommandsSent, 1) }
func (m *NetMetrics) IncSendDropped() { atomic.AddInt64(&m.CommandsDropped, 1) }
func (m *NetMetrics) IncSnapshots() { atomic.AddInt64(&m.SnapshotsApplied, 1) }
func (m *NetMetrics) IncRendered() { atomic.AddInt64(&m.FramesRendered, 1) }
func (m *NetMetrics) IncStale() { atomic.AddInt64(&m.StaleEventsIgnore, 1) }

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *NetMetrics) Snapshot() map[string]any {
	return map[string]any{
		"frames_received":   atomic.LoadInt64(&m.FramesReceived),
		"malformed_dropped": atomic.LoadInt64(&m.MalformedDropped),
		"inbox_full":        atomic.LoadInt64(&m.InboxFullDropped),
		"commands_sent":     atomic.LoadInt64(&m.CommandsSent),
		"commands_dropped":  atomic.LoadInt64(&m.CommandsDropped),
		"snapshots_applied": atomic.LoadInt64(&m.SnapshotsApplied),
		"frames_rendered":   atomic.LoadInt64(&m.FramesRendered),
		"stale_ignored":     atomic.LoadInt64(&m.StaleEventsIgnore),
	}
}
