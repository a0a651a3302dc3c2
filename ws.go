package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const wsWriteWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ServeWS streams a topic's events over a websocket. Incoming messages are
// discarded; the read loop only notices the peer going away.
func (b *Broadcaster) ServeWS(w http.ResponseWriter, r *http.Request, topic, initial string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	c := b.Register(topic)
	defer b.Unregister(c)

	c.send(initial)

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				b.Unregister(c)
				return
			}
		}
	}()

	ticker := time.NewTicker(eventHeartbeat)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
