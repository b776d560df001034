// internal/handlers/hub.go
package handlers

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/connortbot/yappers.live/internal/protocol"
)

// Hub fans server frames out to the socket clients of each room. Frames pass
// through a per-room ordered queue so every client observes mutations in
// commit order; a HaltTimer frame additionally pauses the queue until its
// deadline so clients finish their countdown before the next event lands.
type Hub struct {
	log *logrus.Logger

	mu    sync.Mutex
	rooms map[string]*hubRoom
}

type hubRoom struct {
	queue chan protocol.ServerFrame
	done  chan struct{}

	mu      sync.Mutex
	clients map[*HubClient]struct{}
}

// HubClient is one socket connection's send side. OutChan is drained by the
// connection's write pump; sends never block the room queue.
type HubClient struct {
	PlayerID string
	OutChan  chan []byte
}

const (
	roomQueueSize = 64
	clientBuffer  = 16
)

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		log:   logger,
		rooms: make(map[string]*hubRoom),
	}
}

// room returns the live room for the id, creating it and starting its
// dispatch loop if needed.
func (h *Hub) room(gameID string) *hubRoom {
	h.mu.Lock()
	defer h.mu.Unlock()
	rm, ok := h.rooms[gameID]
	if !ok {
		rm = &hubRoom{
			queue:   make(chan protocol.ServerFrame, roomQueueSize),
			done:    make(chan struct{}),
			clients: make(map[*HubClient]struct{}),
		}
		h.rooms[gameID] = rm
		go h.dispatch(gameID, rm)
	}
	return rm
}

// Register attaches a connection to a room and returns its send handle.
func (h *Hub) Register(gameID, playerID string) *HubClient {
	cl := &HubClient{
		PlayerID: playerID,
		OutChan:  make(chan []byte, clientBuffer),
	}
	rm := h.room(gameID)
	rm.mu.Lock()
	rm.clients[cl] = struct{}{}
	rm.mu.Unlock()
	return cl
}

// Unregister detaches a connection. The last client out tears the room down.
func (h *Hub) Unregister(gameID string, cl *HubClient) {
	h.mu.Lock()
	rm, ok := h.rooms[gameID]
	if !ok {
		h.mu.Unlock()
		return
	}
	rm.mu.Lock()
	delete(rm.clients, cl)
	empty := len(rm.clients) == 0
	rm.mu.Unlock()
	if empty {
		delete(h.rooms, gameID)
		close(rm.done)
	}
	h.mu.Unlock()
	close(cl.OutChan)
}

// Broadcast queues a message for every client in the room. senderID tags the
// frame so clients can attribute the event; it is dropped if the room queue
// is full (the poll endpoint remains the source of truth). A room with no
// socket clients has no hub entry and the frame is dropped outright, so
// polling-only rooms never accrete queues or dispatch goroutines.
func (h *Hub) Broadcast(gameID, senderID string, msg protocol.Message) {
	h.mu.Lock()
	rm, ok := h.rooms[gameID]
	h.mu.Unlock()
	if !ok {
		return
	}

	frame := protocol.ServerFrame{
		GameID:   gameID,
		PlayerID: senderID,
		Message:  msg,
	}
	select {
	case rm.queue <- frame:
	default:
		h.log.WithFields(logrus.Fields{
			"game_id": gameID,
			"type":    msg.Kind(),
		}).Warn("room queue full, dropping broadcast")
	}
}

// dispatch drains the room queue in order. A slow client's full buffer drops
// the frame for that client only.
func (h *Hub) dispatch(gameID string, rm *hubRoom) {
	for {
		select {
		case <-rm.done:
			return
		case frame := <-rm.queue:
			data, err := frame.MarshalJSON()
			if err != nil {
				h.log.WithError(err).WithField("game_id", gameID).Error("failed to marshal server frame")
				continue
			}

			rm.mu.Lock()
			for cl := range rm.clients {
				select {
				case cl.OutChan <- data:
				default:
					h.log.WithFields(logrus.Fields{
						"game_id":   gameID,
						"player_id": cl.PlayerID,
					}).Warn("client buffer full, dropping frame")
				}
			}
			rm.mu.Unlock()

			if ht, ok := frame.Message.(protocol.HaltTimer); ok {
				if wait := time.Until(time.UnixMilli(ht.EndTimestampMillis)); wait > 0 {
					select {
					case <-rm.done:
						return
					case <-time.After(wait):
					}
				}
			}
		}
	}
}
