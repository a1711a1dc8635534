package dispatch

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/bistrodev/bistro-pos/models"
	"github.com/bistrodev/bistro-pos/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Event types
const (
	EventTicketQueued      = "ticket_queued"
	EventTableUpdate       = "table_update"
	EventTableCreate       = "table_create"
	EventTableDelete       = "table_delete"
	EventReservationUpdate = "reservation_update"
	EventOrderUpdate       = "order_update"
	EventDashboardUpdate   = "dashboard_update"
)

// StationAll subscribes a listener to every station's traffic.
const StationAll = "ALL"

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected print/station listener (kitchen screen, bar
// printer bridge, floor dashboard) keyed by the station it watches.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> station
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades the connection and registers it for the station given
// in the `station` query param (defaults to ALL).
func Handler(c *gin.Context) {
	station := c.Query("station")
	if station == "" {
		station = StationAll
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Dispatch upgrade failed: %v", err)
		return
	}
	RegisterClient(conn, station)

	// Drain the connection; listeners only receive.
	go func() {
		defer UnregisterClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func RegisterClient(conn *websocket.Conn, station string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = station
}

func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastTicket pushes a routed ticket to listeners of its station.
func BroadcastTicket(ticket models.Ticket) {
	broadcast(string(ticket.Station), Message{
		Event: EventTicketQueued,
		Data:  ticket,
	})
}

// BroadcastTableUpdate fans table status changes out to dashboards.
func BroadcastTableUpdate(table models.Table) {
	broadcast(StationAll, Message{
		Event: EventTableUpdate,
		Data:  table,
	})
}

func BroadcastReservationUpdate(reservation models.Reservation) {
	broadcast(StationAll, Message{
		Event: EventReservationUpdate,
		Data:  reservation,
	})
}

func BroadcastOrderUpdate(order models.Order) {
	broadcast(StationAll, Message{
		Event: EventOrderUpdate,
		Data:  order,
	})
}

// BroadcastMessage sends an arbitrary message to every listener.
func BroadcastMessage(msg Message) {
	broadcast(StationAll, msg)
}

func broadcast(station string, msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling dispatch message: %v", err)
		return
	}

	for conn, subscribed := range hub.clients {
		if station != StationAll && subscribed != StationAll && subscribed != station {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending dispatch message: %v", err)
		}
	}
}
