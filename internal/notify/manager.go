package notify

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// EventType represents the type of notification.
type EventType string

const (
	UploadComplete   EventType = "upload_complete"
	ProcessComplete  EventType = "process_complete"
	ProcessError     EventType = "process_error"
	ProcessingStatus EventType = "processing_status"
)

// Event is pushed to connected editors when uploads finish or processing
// collaborators write derived fields back.
type Event struct {
	Type    EventType              `json:"type"`
	UserID  uint                   `json:"user_id"`
	ItemID  string                 `json:"item_id,omitempty"`
	Kind    string                 `json:"kind,omitempty"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// Client represents a WebSocket client connection.
type Client struct {
	UserID uint
	Conn   *websocket.Conn
}

// Manager handles WebSocket connections and notification fan-out.
type Manager struct {
	clients    map[uint][]*Client
	mu         sync.RWMutex
	register   chan *Client
	unregister chan *Client
}

var (
	instance *Manager
	once     sync.Once
)

// GetManager returns the singleton notification manager.
func GetManager() *Manager {
	once.Do(func() {
		instance = &Manager{
			clients:    make(map[uint][]*Client),
			register:   make(chan *Client),
			unregister: make(chan *Client),
		}
		go instance.run()
	})
	return instance
}

func (m *Manager) run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			m.clients[client.UserID] = append(m.clients[client.UserID], client)
			m.mu.Unlock()
		case client := <-m.unregister:
			m.mu.Lock()
			conns := m.clients[client.UserID]
			for i, c := range conns {
				if c == client {
					m.clients[client.UserID] = append(conns[:i], conns[i+1:]...)
					break
				}
			}
			if len(m.clients[client.UserID]) == 0 {
				delete(m.clients, client.UserID)
			}
			m.mu.Unlock()
			client.Conn.Close()
		}
	}
}

// Notify sends an event to every connection of the target user.
func (m *Manager) Notify(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal notification: %v", err)
		return
	}

	m.mu.RLock()
	conns := m.clients[event.UserID]
	m.mu.RUnlock()

	for _, client := range conns {
		if err := client.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("Failed to push notification: %v", err)
			m.unregister <- client
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Serve upgrades the request to a WebSocket and registers the connection
// for the authenticated user.
func (m *Manager) Serve(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{UserID: userID.(uint), Conn: conn}
	m.register <- client

	// Drain reads so close frames are processed; unregister on error.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				m.unregister <- client
				return
			}
		}
	}()
}
