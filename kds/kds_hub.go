package kds

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ordira-app/backend/models"
)

// Event types untuk kitchen display.
const (
	EventOrderCreated   = "order_created"
	EventOrderUpdate    = "order_update"
	EventPaymentUpdate  = "payment_update"
	EventKitchenMessage = "kitchen_message"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung semua client KDS (koki, kasir, admin) untuk broadcast event
// order dan pembayaran.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastOrderCreated -> order baru masuk antrian dapur
func BroadcastOrderCreated(order models.Order) {
	broadcast(Message{Event: EventOrderCreated, Data: order})
}

// BroadcastOrderUpdate -> perubahan status order
func BroadcastOrderUpdate(order models.Order) {
	broadcast(Message{Event: EventOrderUpdate, Data: order})
}

// BroadcastPaymentUpdate -> perubahan payment status
func BroadcastPaymentUpdate(order models.Order) {
	broadcast(Message{Event: EventPaymentUpdate, Data: order})
}

// BroadcastKitchenMessage -> notifikasi teks untuk dapur
func BroadcastKitchenMessage(message string) {
	broadcast(Message{Event: EventKitchenMessage, Data: message})
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn, role := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending message to %s client, evicting: %v", role, err)
			delete(hub.clients, conn)
			conn.Close()
		}
	}
}
