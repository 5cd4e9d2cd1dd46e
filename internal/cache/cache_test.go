package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tokotopup/internal/models"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

func newTestCache(ttl time.Duration, maxSize int) (*Cache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New(ttl, maxSize)
	c.now = clock.Now
	return c, clock
}

func TestCache_SetAndGet(t *testing.T) {
	c, _ := newTestCache(time.Minute, 4)
	items := []models.Item{{"code": "T5", "price": 5500.0}}

	c.Set("prabayar", items)
	result, found := c.Get("prabayar")

	assert.True(t, found)
	assert.Equal(t, items, result)
}

func TestCache_Get_NotFound(t *testing.T) {
	c, _ := newTestCache(time.Minute, 4)

	result, found := c.Get("pascabayar")

	assert.False(t, found)
	assert.Nil(t, result)
}

func TestCache_Expiration(t *testing.T) {
	c, clock := newTestCache(time.Minute, 4)

	c.Set("prabayar", []models.Item{{"code": "T5"}})
	clock.now = clock.now.Add(61 * time.Second)

	result, found := c.Get("prabayar")

	assert.False(t, found)
	assert.Nil(t, result)
}

func TestCache_Eviction(t *testing.T) {
	c, clock := newTestCache(time.Minute, 2)

	c.Set("a", []models.Item{{"code": "A"}})
	clock.now = clock.now.Add(time.Second)
	c.Set("b", []models.Item{{"code": "B"}})
	clock.now = clock.now.Add(time.Second)
	c.Set("c", []models.Item{{"code": "C"}})

	_, foundA := c.Get("a")
	_, foundB := c.Get("b")
	_, foundC := c.Get("c")

	assert.False(t, foundA, "a should have been evicted")
	assert.True(t, foundB)
	assert.True(t, foundC)
}

func TestCache_Invalidate(t *testing.T) {
	c, _ := newTestCache(time.Minute, 2)
	c.Set("prabayar", []models.Item{{"code": "T5"}})

	c.Invalidate()

	_, found := c.Get("prabayar")
	assert.False(t, found)
}
