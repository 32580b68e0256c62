// Package delivery implements the private message channel: text sent to a
// single external identity, visible only to that identity.
package delivery

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/datakeeper/internal/common"
)

// DefaultCapacity bounds the pending queue of an identity when none is configured.
const DefaultCapacity = 32

// Message is one private message.
type Message struct {
	Text   string
	SentAt time.Time
}

// Messenger sends private messages. Send returns common.ErrDeliveryRefused
// when the recipient cannot receive them.
type Messenger interface {
	Send(ctx context.Context, externalID int64, text string) error
}

type box struct {
	dmDisabled bool
	pending    []Message
	subs       map[chan Message]struct{}
}

// Mailbox is an in-memory Messenger. Messages sent while the recipient has
// no live subscriber are queued up to a fixed capacity and handed to the next
// subscriber.
type Mailbox struct {
	mu       sync.Mutex
	capacity int
	boxes    map[int64]*box
	now      func() time.Time
}

func NewMailbox(capacity int) *Mailbox {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Mailbox{
		capacity: capacity,
		boxes:    make(map[int64]*box),
		now:      time.Now,
	}
}

func (m *Mailbox) boxFor(externalID int64) *box {
	b, ok := m.boxes[externalID]
	if !ok {
		b = &box{subs: make(map[chan Message]struct{})}
		m.boxes[externalID] = b
	}
	return b
}

// Send delivers text to every live subscriber of externalID with room for
// it, or queues it when none has. Queued messages go out first, in order,
// as soon as a subscriber has room again.
func (m *Mailbox) Send(ctx context.Context, externalID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.boxFor(externalID)
	if b.dmDisabled {
		return common.ErrDeliveryRefused
	}

	msg := Message{Text: text, SentAt: m.now()}

	b.flush()
	if len(b.pending) == 0 && b.offer(msg) {
		return nil
	}

	if len(b.pending) >= m.capacity {
		return common.ErrDeliveryRefused
	}
	b.pending = append(b.pending, msg)
	return nil
}

// offer hands msg to every subscriber with buffer room and reports whether
// at least one took it.
func (b *box) offer(msg Message) bool {
	delivered := false
	for ch := range b.subs {
		select {
		case ch <- msg:
			delivered = true
		default:
		}
	}
	return delivered
}

// flush moves queued messages to live subscribers, stopping at the first
// message nobody has room for.
func (b *box) flush() {
	for len(b.pending) > 0 && b.offer(b.pending[0]) {
		b.pending = b.pending[1:]
	}
	if len(b.pending) == 0 {
		b.pending = nil
	}
}

// Subscribe returns a channel yielding the queued messages of externalID
// followed by live ones. The channel is closed once ctx is done.
func (m *Mailbox) Subscribe(ctx context.Context, externalID int64) <-chan Message {
	ch := make(chan Message, m.capacity)

	m.mu.Lock()
	b := m.boxFor(externalID)
	for _, msg := range b.pending {
		ch <- msg
	}
	b.pending = nil
	b.subs[ch] = struct{}{}
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		m.mu.Unlock()
	}()

	return ch
}

// SetDirectMessages toggles whether externalID accepts private messages.
func (m *Mailbox) SetDirectMessages(externalID int64, enabled bool) {
	m.mu.Lock()
	m.boxFor(externalID).dmDisabled = !enabled
	m.mu.Unlock()
}

func (m *Mailbox) DirectMessagesEnabled(externalID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boxes[externalID]
	return !ok || !b.dmDisabled
}

// Pending returns the number of queued messages for externalID.
func (m *Mailbox) Pending(externalID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.boxes[externalID]; ok {
		return len(b.pending)
	}
	return 0
}
