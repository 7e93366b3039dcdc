// Package events difunde avisos en vivo a los tableros conectados por
// WebSocket: cuando entra un reporte de asistencia los tableros abiertos
// refrescan sin recargar la página.
package events

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Event es el aviso que se difunde a todos los clientes conectados.
type Event struct {
	Type    string `json:"type"` // "attendance_saved" | "personnel_saved"
	Date    string `json:"date"`
	BlockID uint   `json:"blockId,omitempty"`
	UserID  uint   `json:"userId,omitempty"`
}

// Hub mantiene el conjunto de clientes activos y les reenvía los eventos.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan Event
	register   chan *client
	unregister chan *client
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan Event, 16),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run atiende el hub; debe correr en su propia goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case ev := <-h.broadcast:
			data, err := json.Marshal(ev)
			if err != nil {
				slog.Error("No se pudo serializar el evento", "error", err)
				continue
			}
			for c := range h.clients {
				select {
				case c.send <- data:
				default:
					// Cliente atascado: se descarta en lugar de bloquear al resto.
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Publish encola un evento sin bloquear; si el hub está saturado el aviso se
// pierde (los tableros igualmente refrescan al recargar).
func (h *Hub) Publish(ev Event) {
	select {
	case h.broadcast <- ev:
	default:
		slog.Warn("Hub de eventos saturado, aviso descartado", "type", ev.Type)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS conecta un tablero al hub. El cliente solo recibe; lo que envíe se
// lee y descarta para mantener viva la conexión.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("No se pudo abrir el WebSocket", "error", err)
		return
	}

	cl := &client{hub: h, conn: conn, send: make(chan []byte, 8)}
	h.register <- cl

	go cl.writeLoop()
	go cl.readLoop()
}

func (c *client) writeLoop() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (c *client) readLoop() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
