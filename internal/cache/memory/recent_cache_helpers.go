package memory

import (
	"container/list"
	"time"

	"github.com/Gunvolt24/fmtbroker-consumer/pkg/metrics"
)

// evictLRU — удаляет наименее используемый элемент.
func (c *RecentCache) evictLRU() {
	if back := c.ll.Back(); back != nil {
		c.removeElement(back)
		metrics.RecentCacheOps.WithLabelValues("evicted").Inc()
		metrics.RecentCacheSize.Set(float64(c.ll.Len()))
	}
}

// removeElement — удаляет элемент из списка и индекса.
func (c *RecentCache) removeElement(elem *list.Element) {
	if elem == nil {
		return
	}
	if ent, ok := elem.Value.(*entry); ok {
		delete(c.index, ent.key)
	}
	c.ll.Remove(elem)
}

func (c *RecentCache) isExpired(ent *entry, now time.Time) bool {
	if c.ttl <= 0 {
		return false
	}
	return now.After(ent.expiresAt)
}

func (c *RecentCache) expiryFrom(now time.Time) time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(c.ttl)
}

// pruneExpiredFromBack — удаляет просроченные элементы из хвоста до первого актуального.
func (c *RecentCache) pruneExpiredFromBack(now time.Time) {
	if c.ttl <= 0 {
		return
	}
	for {
		back := c.ll.Back()
		if back == nil {
			return
		}
		ent := back.Value.(*entry)
		if !now.After(ent.expiresAt) {
			return
		}
		c.removeElement(back)
		metrics.RecentCacheOps.WithLabelValues("expired").Inc()
		metrics.RecentCacheSize.Set(float64(c.ll.Len()))
	}
}
