package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameBytes  = 1 << 20 // 1MB
	sendQueueDepth = 64
)

// FrameSink 接收入站帧与连接关闭通知；OnClose 每个连接恰好调用一次
type FrameSink interface {
	OnFrame(b []byte)
	OnClose(err error)
}

// Conn 出站一侧的连接句柄
type Conn interface {
	// Enqueue 非阻塞入队，队列满或已关闭时返回 false
	Enqueue(b []byte) bool
	Close()
}

// Dialer 建立到服务端的连接（字节帧以下的握手细节由实现负责）
type Dialer interface {
	Dial(ctx context.Context, url string, sink FrameSink) (Conn, error)
}

// WSDialer 基于 gorilla/websocket 的 Dialer
type WSDialer struct {
	HandshakeTimeout time.Duration
}

// Dial 建立 WebSocket 连接并启动读写协程
func (d WSDialer) Dial(ctx context.Context, url string, sink FrameSink) (Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: d.HandshakeTimeout,
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
	}
	ws, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	c := NewClientConn(ws)
	go c.writePump()
	go c.readPump(sink)
	return c, nil
}

// ClientConn 负责发送（写）数据到服务端的轻量包装
type ClientConn struct {
	ws   *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func NewClientConn(ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		ws:   ws,
		send: make(chan []byte, sendQueueDepth),
		done: make(chan struct{}),
	}
}

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃）
func (c *ClientConn) Enqueue(b []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- b:
		return true
	default:
		// 为了实时性，丢弃而不是阻塞采样与渲染
		return false
	}
}

// Close 关闭底层连接；可重复调用
func (c *ClientConn) Close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
			time.Now().Add(time.Second))
		_ = c.ws.Close()
	})
}

// writePump 独立协程，负责从 send 队列写出到 WS，并定期发送 ping
func (c *ClientConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				Log.Debugf("write failed: %v", err)
				c.Close()
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}

// readPump 读取服务端消息交给 sink；退出时通知关闭
func (c *ClientConn) readPump(sink FrameSink) {
	var readErr error
	defer func() {
		c.Close()
		sink.OnClose(readErr)
	}()
	c.ws.SetReadLimit(maxFrameBytes)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error { c.ws.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				readErr = err
			}
			return
		}
		sink.OnFrame(payload)
	}
}
