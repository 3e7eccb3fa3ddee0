package cache

import (
	"container/list"
	"sync"
	"time"
)

// TTLCache 는 만료 시간과 최대 크기를 가진 LRU 캐시다.
// 가드 평가 결과나 레이트리밋 카운터처럼 작고 뜨거운 키 집합을 위한 것이다.
type TTLCache[K comparable, V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	order   *list.List
	items   map[K]*list.Element
}

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// NewTTLCache 는 만료 시간과 최대 크기를 갖는 TTLCache 를 생성한다.
func NewTTLCache[K comparable, V any](maxSize int, ttl time.Duration) *TTLCache[K, V] {
	if maxSize <= 0 {
		maxSize = 1
	}
	if ttl <= 0 {
		ttl = time.Second
	}
	return &TTLCache[K, V]{
		ttl:     ttl,
		maxSize: maxSize,
		order:   list.New(),
		items:   make(map[K]*list.Element, maxSize),
	}
}

// Get 은 살아있는 항목을 돌려주고 최근 사용으로 올린다.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent := c.liveLocked(key)
	if ent == nil {
		var zero V
		return zero, false
	}
	return ent.value, true
}

// Set 은 값을 넣고 만료 시각을 새로 잡는다.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent := c.liveLocked(key); ent != nil {
		ent.value = value
		ent.expiresAt = time.Now().Add(c.ttl)
		return
	}
	c.insertLocked(key, value)
}

// Modify 는 잠금 아래에서 현재 값을 갱신 함수로 바꾼다.
// 만료된 항목은 없는 것으로 취급하고, 갱신이 만료 시각을 늘리지는 않는다.
func (c *TTLCache[K, V]) Modify(key K, update func(current V, exists bool) V) (V, bool) {
	var zero V
	if update == nil {
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ent := c.liveLocked(key); ent != nil {
		ent.value = update(ent.value, true)
		return ent.value, true
	}

	value := update(zero, false)
	c.insertLocked(key, value)
	return value, true
}

func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// liveLocked 는 만료되지 않은 항목을 찾아 MRU 로 올린다. 만료된 항목은 그 자리에서 지운다.
func (c *TTLCache[K, V]) liveLocked(key K) *entry[K, V] {
	element, ok := c.items[key]
	if !ok {
		return nil
	}
	ent := element.Value.(*entry[K, V])
	if time.Now().After(ent.expiresAt) {
		c.dropLocked(element)
		return nil
	}
	c.order.MoveToFront(element)
	return ent
}

func (c *TTLCache[K, V]) insertLocked(key K, value V) {
	element := c.order.PushFront(&entry[K, V]{
		key:       key,
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	})
	c.items[key] = element

	for len(c.items) > c.maxSize {
		oldest := c.order.Back()
		if oldest == nil {
			return
		}
		c.dropLocked(oldest)
	}
}

func (c *TTLCache[K, V]) dropLocked(element *list.Element) {
	c.order.Remove(element)
	delete(c.items, element.Value.(*entry[K, V]).key)
}
