// Package realtime difunde los cambios de stock a los clientes conectados por websocket.
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/fiecl/barcode-inventory-management/internal/domain/entity"
	"github.com/fiecl/barcode-inventory-management/pkg/logger"
)

// Conn lo que el hub necesita de una conexión (*websocket.Conn lo cumple).
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// StockEvent mensaje enviado a los clientes.
type StockEvent struct {
	Type      string    `json:"type"` // "stock"
	Barcode   string    `json:"barcode"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Threshold int       `json:"threshold"`
	Status    string    `json:"status"`
	Crossed   bool      `json:"threshold_crossed"`
	At        time.Time `json:"at"`
}

// Hub registro de clientes + difusión. Publicar nunca bloquea al llamador.
type Hub struct {
	clients    map[Conn]bool
	register   chan Conn
	unregister chan Conn
	broadcast  chan []byte
	done       chan struct{} // se cierra cuando Run termina
	mutex      sync.Mutex
	log        *logger.Logger
}

// NewHub crea el hub; Run procesa registros y difusiones.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[Conn]bool),
		register:   make(chan Conn),
		unregister: make(chan Conn),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		log:        log.Named("ws"),
	}
}

// Run hasta que ctx termine; al salir cierra todas las conexiones.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.register:
			h.mutex.Lock()
			h.clients[conn] = true
			n := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug().Int("clients", n).Msg("cliente ws conectado")

		case conn := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Register agrega una conexión. Con el hub detenido la conexión se cierra.
func (h *Hub) Register(c Conn) {
	select {
	case h.register <- c:
	case <-h.done:
		c.Close()
	}
}

// Unregister quita y cierra una conexión. No bloquea si el hub ya terminó.
func (h *Hub) Unregister(c Conn) {
	select {
	case h.unregister <- c:
	case <-h.done:
		c.Close()
	}
}

// Clients número de conexiones activas.
func (h *Hub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// PublishStock implementa inventory.StockEventPublisher. Con el buffer lleno el evento se descarta.
func (h *Hub) PublishStock(item *entity.Item, crossed bool) {
	msg, err := json.Marshal(StockEvent{
		Type:      "stock",
		Barcode:   item.Barcode,
		Name:      item.Name,
		Quantity:  item.Quantity,
		Threshold: item.Threshold,
		Status:    item.Status(),
		Crossed:   crossed,
		At:        item.UpdatedAt,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("serializar evento de stock")
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn().Str("barcode", item.Barcode).Msg("buffer ws lleno, evento descartado")
	}
}

// Handler ciclo de vida de una conexión websocket; se monta con websocket.New.
func (h *Hub) Handler(c *websocket.Conn) {
	h.Register(c)
	defer h.Unregister(c)
	for {
		// solo se lee para detectar el cierre del cliente
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}
