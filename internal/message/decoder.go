// Пакет message — нормализация сырой записи Kafka и извлечение полей из JSON-значения
// для наблюдаемости. Бизнес-логики здесь нет.
package message

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotStructured — значение не является JSON-объектом.
var ErrNotStructured = errors.New("value is not a structured object")

// DefaultFields — поля, которые извлекаются из значения по умолчанию.
var DefaultFields = []string{"network", "mti", "response_code", "decision"}

// Decoded — нормализованное сообщение; живёт в пределах одного цикла обработки.
type Decoded struct {
	Key    string
	Value  string
	Fields map[string]string // nil, если извлечение не удалось
}

// Structured — удалось ли извлечь поля.
func (d *Decoded) Structured() bool { return d.Fields != nil }

// String — строка для логов: key=... network=... mti=...
func (d *Decoded) String() string {
	var b strings.Builder
	key := d.Key
	if key == "" {
		key = "<none>"
	}
	b.WriteString("key=")
	b.WriteString(key)
	for _, name := range sortedNames(d.Fields) {
		fmt.Fprintf(&b, " %s=%s", name, d.Fields[name])
	}
	return b.String()
}

// Decoder — извлекает фиксированный набор именованных полей.
type Decoder struct {
	fields []string
}

// Option — настройка Decoder.
type Option func(*Decoder)

// WithFields — заменить набор извлекаемых полей.
func WithFields(names ...string) Option {
	return func(d *Decoder) {
		d.fields = append([]string(nil), names...)
	}
}

// NewDecoder — конструктор; по умолчанию DefaultFields.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{fields: DefaultFields}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode — ключ (пустой, если отсутствует) и значение как текст плюс попытка извлечь поля.
// Ошибка извлечения не фатальна: сообщение возвращается всегда, Fields == nil.
func (d *Decoder) Decode(key, value []byte) (*Decoded, error) {
	msg := &Decoded{
		Key:   string(key),
		Value: string(value),
	}

	fields, err := d.extract(value)
	if err != nil {
		return msg, err
	}
	msg.Fields = fields
	return msg, nil
}

// extract — разбирает значение как JSON-объект и достаёт настроенные поля.
// Строки — как есть, прочие значения — компактный JSON; отсутствующие поля пропускаются.
func (d *Decoder) extract(value []byte) (map[string]string, error) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: expected JSON object", ErrNotStructured)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotStructured, err)
	}

	fields := make(map[string]string, len(d.fields))
	for _, name := range d.fields {
		raw, ok := obj[name]
		if !ok {
			continue
		}
		fields[name] = renderValue(raw)
	}
	return fields, nil
}

func renderValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func sortedNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
