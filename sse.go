package main

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

const (
	eventBuffer    = 16
	eventHeartbeat = 30 * time.Second
)

// client is one live event subscriber, over SSE or a websocket.
type client struct {
	ch    chan string
	topic string
}

// send queues msg, dropping it when the client's channel is full.
func (c *client) send(msg string) {
	if msg == "" {
		return
	}
	select {
	case c.ch <- msg:
	default:
	}
}

// Broadcaster fans events out to the subscribers of a topic. A topic is
// the ID of a draft or a play session.
type Broadcaster struct {
	mu     sync.RWMutex
	topics map[string]map[*client]struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		topics: make(map[string]map[*client]struct{}),
	}
}

// Register adds a subscriber to a topic and returns it.
func (b *Broadcaster) Register(topic string) *client {
	c := &client{
		ch:    make(chan string, eventBuffer),
		topic: topic,
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.topics[topic]
	if subs == nil {
		subs = make(map[*client]struct{})
		b.topics[topic] = subs
	}
	subs[c] = struct{}{}
	return c
}

// Unregister removes a subscriber and closes its channel. A topic with no
// subscribers left is forgotten.
func (b *Broadcaster) Unregister(c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.topics[c.topic]
	if _, ok := subs[c]; !ok {
		return
	}
	delete(subs, c)
	close(c.ch)
	if len(subs) == 0 {
		delete(b.topics, c.topic)
	}
}

// Broadcast queues data for every subscriber of topic.
func (b *Broadcaster) Broadcast(topic, data string) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for c := range b.topics[topic] {
		c.send(data)
	}
}

// ClientCount returns the number of subscribers of a topic.
func (b *Broadcaster) ClientCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic])
}

// TopicCount returns the number of topics with at least one subscriber.
func (b *Broadcaster) TopicCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics)
}

// ServeSSE streams a topic's events until the request ends. initial, when
// not empty, is sent first.
func (b *Broadcaster) ServeSSE(w http.ResponseWriter, r *http.Request, topic, initial string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	c := b.Register(topic)
	defer b.Unregister(c)

	c.send(initial)

	ticker := time.NewTicker(eventHeartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-c.ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}
