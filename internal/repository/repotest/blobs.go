package repotest

import (
	"context"
	"sync"
)

// Blob is an object held by Blobs.
type Blob struct {
	ContentType string
	Body        []byte
}

// Blobs is an in-memory blob store counting the writes it receives.
type Blobs struct {
	mu      sync.Mutex
	objects map[string]Blob
	Puts    int
	Err     error
}

func NewBlobs() *Blobs {
	return &Blobs{objects: make(map[string]Blob)}
}

func (b *Blobs) Exists(_ context.Context, key string) (bool, error) {
	if b.Err != nil {
		return false, b.Err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[key]
	return ok, nil
}

func (b *Blobs) Put(_ context.Context, key, contentType string, body []byte) error {
	if b.Err != nil {
		return b.Err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Puts++
	b.objects[key] = Blob{ContentType: contentType, Body: append([]byte{}, body...)}
	return nil
}

// Get returns the object stored under key.
func (b *Blobs) Get(key string) (Blob, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	obj, ok := b.objects[key]
	return obj, ok
}

// Publisher records published messages.
type Publisher struct {
	mu       sync.Mutex
	Messages []Message
	Err      error
}

type Message struct {
	Topic   string
	Payload []byte
}

func (p *Publisher) Publish(_ context.Context, topic string, payload []byte) (string, error) {
	if p.Err != nil {
		return "", p.Err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Messages = append(p.Messages, Message{Topic: topic, Payload: payload})
	return "msg-1", nil
}
