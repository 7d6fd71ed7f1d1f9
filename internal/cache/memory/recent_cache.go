package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/Gunvolt24/fmtbroker-consumer/internal/message"
	"github.com/Gunvolt24/fmtbroker-consumer/internal/ports"
	"github.com/Gunvolt24/fmtbroker-consumer/pkg/ctxmeta"
	"github.com/Gunvolt24/fmtbroker-consumer/pkg/metrics"
)

// Проверка, что кэш подходит как sink сессии и как источник для ops-эндпоинтов.
var (
	_ ports.MessageSink    = (*RecentCache)(nil)
	_ ports.RecentMessages = (*RecentCache)(nil)
)

type entry struct {
	key       string
	seen      *message.Seen
	expiresAt time.Time
}

// RecentCache — последнее сообщение по каждому ключу, LRU с TTL.
// Сообщения без ключа не хранятся.
type RecentCache struct {
	capacity int
	ttl      time.Duration
	now      func() time.Time

	ll    *list.List
	index map[string]*list.Element

	mu sync.Mutex
}

func NewRecentCache(capacity int, ttl time.Duration) *RecentCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &RecentCache{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		ll:       list.New(),
		index:    make(map[string]*list.Element),
	}
}

// Handle — запоминает сообщение; координаты записи берутся из контекста.
func (c *RecentCache) Handle(ctx context.Context, msg *message.Decoded) error {
	if msg == nil || msg.Key == "" {
		return nil
	}
	now := c.now()

	seen := &message.Seen{
		Key:    msg.Key,
		Fields: msg.Fields,
		Value:  msg.Value,
		SeenAt: now,
	}
	if rec, ok := ctxmeta.RecordFromContext(ctx); ok {
		seen.Topic = rec.Topic
		seen.Partition = rec.Partition
		seen.Offset = rec.Offset
	}
	seen = seen.Clone()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[msg.Key]; ok {
		ent := elem.Value.(*entry)
		ent.seen = seen
		ent.expiresAt = c.expiryFrom(now)
		c.ll.MoveToFront(elem)
		return nil
	}

	c.pruneExpiredFromBack(now)

	elem := c.ll.PushFront(&entry{
		key:       msg.Key,
		seen:      seen,
		expiresAt: c.expiryFrom(now),
	})
	c.index[msg.Key] = elem
	metrics.RecentCacheSize.Set(float64(len(c.index)))

	if c.ll.Len() > c.capacity {
		c.evictLRU()
	}
	return nil
}

// Get — последнее сообщение по ключу (копия).
func (c *RecentCache) Get(_ context.Context, key string) (*message.Seen, bool) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[key]
	if !ok {
		metrics.RecentCacheOps.WithLabelValues("miss").Inc()
		return nil, false
	}
	ent := elem.Value.(*entry)
	if c.isExpired(ent, now) {
		metrics.RecentCacheOps.WithLabelValues("expired").Inc()
		c.removeElement(elem)
		metrics.RecentCacheSize.Set(float64(len(c.index)))
		return nil, false
	}

	metrics.RecentCacheOps.WithLabelValues("hit").Inc()
	return ent.seen.Clone(), true
}

// List — актуальные сообщения от самых свежих; limit/offset — пагинация.
func (c *RecentCache) List(_ context.Context, limit, offset int) []message.Seen {
	if limit <= 0 {
		return nil
	}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]message.Seen, 0, min(limit, c.ll.Len()))
	skipped := 0
	for elem := c.ll.Front(); elem != nil && len(out) < limit; elem = elem.Next() {
		ent := elem.Value.(*entry)
		if c.isExpired(ent, now) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, *ent.seen.Clone())
	}
	return out
}

// Len — число хранимых ключей (включая ещё не вычищенные просроченные).
func (c *RecentCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
