package querycache

// Update is delivered to subscribers whenever their entry changes.
// Data is shared between subscribers and must not be modified.
type Update struct {
	Key    Key
	Status Status
	Data   []byte
	Err    error
	Stale  bool
}

type Subscription struct {
	id    int
	key   Key
	ch    chan Update
	cache *Cache
}

func (s *Subscription) Key() Key {
	return s.key
}

// Updates is closed when the subscription is closed or the cache is reset.
func (s *Subscription) Updates() <-chan Update {
	return s.ch
}

func (s *Subscription) Close() {
	s.cache.unsubscribe(s)
}

// Subscribe registers interest in the entry of spec without fetching it.
// Subscribed entries are refetched as soon as one of their tags is invalidated.
func (c *Cache) Subscribe(spec QuerySpec) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(spec)
	c.nextSubID++
	sub := &Subscription{
		id:    c.nextSubID,
		key:   e.key,
		ch:    make(chan Update, c.buffer),
		cache: c,
	}
	e.subs[sub.id] = sub.ch

	return sub
}

func (c *Cache) unsubscribe(s *Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[s.key]
	if !ok {
		return
	}
	ch, ok := e.subs[s.id]
	if !ok {
		return
	}
	delete(e.subs, s.id)
	close(ch)
}

// publishLocked never blocks; slow subscribers miss updates.
func (c *Cache) publishLocked(e *entry) {
	if len(e.subs) == 0 {
		return
	}

	update := Update{
		Key:    e.key,
		Status: e.status,
		Data:   cloneBytes(e.data),
		Err:    e.err,
		Stale:  e.stale,
	}
	for _, ch := range e.subs {
		select {
		case ch <- update:
		default:
		}
	}
}
