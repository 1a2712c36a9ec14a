// internal/service/order/interfaces/ws_hub.go
package interfaces

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"storefront/internal/pkg/logger"
	"storefront/internal/service/order/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool { // 管理端走内网，允许所有来源
		return true
	},
}

// Hub 维护所有活跃的管理端连接，并把状态变更事件广播给它们。
// 实现 port.StatusStreamPublisher：Publish 非阻塞，发送不过去的连接被踢掉。
type Hub struct {
	clients    map[*wsClient]bool
	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan []byte
	lock       sync.RWMutex
}

// NewHub 创建一个新的广播 Hub。Run 必须在独立 goroutine 中启动。
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*wsClient]bool),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		broadcast:  make(chan []byte, 64),
	}
}

// Run 处理注册、注销与广播，直到进程退出。
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.lock.Lock()
			h.clients[client] = true
			h.lock.Unlock()
			log.Info().Str("user_id", client.userID).Msg("admin client connected to order status feed")
		case client := <-h.unregister:
			h.lock.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.lock.Unlock()
			log.Info().Str("user_id", client.userID).Msg("admin client disconnected")
		case message := <-h.broadcast:
			h.lock.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// 写缓冲满说明客户端已经跟不上了，断开它
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.lock.Unlock()
		}
	}
}

// Publish 把状态变更事件广播给所有在线的管理端；没有人在线时直接丢弃。
func (h *Hub) Publish(event *domain.OrderStatusChanged) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		// 广播队列满时丢弃事件，推送只是尽力而为的辅助通道
	}
}

// wsClient 是一个 WebSocket 连接的代表。
type wsClient struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

// writePump 把 send channel 中的消息写入连接，并定期发送 ping 保活。
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 只消费 pong 与关闭帧；管理端不向服务端发业务消息。
func (c *wsClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// ServeWS 把 HTTP 连接升级为 WebSocket 并注册到 Hub。
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &wsClient{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: UserFromContext(r.Context()),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}
