package message

import "time"

// Seen — снимок последнего обработанного сообщения по ключу (для ops-эндпоинтов).
type Seen struct {
	Key       string            `json:"key"`
	Topic     string            `json:"topic,omitempty"`
	Partition int32             `json:"partition"`
	Offset    int64             `json:"offset"`
	Fields    map[string]string `json:"fields,omitempty"`
	Value     string            `json:"value"`
	SeenAt    time.Time         `json:"seen_at"`
}

// Clone — копия с собственной картой полей.
func (s *Seen) Clone() *Seen {
	if s == nil {
		return nil
	}
	c := *s
	if s.Fields != nil {
		c.Fields = make(map[string]string, len(s.Fields))
		for k, v := range s.Fields {
			c.Fields[k] = v
		}
	}
	return &c
}
