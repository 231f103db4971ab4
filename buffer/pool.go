// Package buffer implements a capacity-bounded page cache in front of the
// disk manager, with LRU eviction and unconditional write-back.
//
// Pages are cached by shared pointer: two callers that fetch the same
// page id observe the same *page.Page, so a mutation made through one
// handle is visible through the other without an explicit put-back.
// There is deliberately no dirty-bit tracking — every eviction and every
// FlushAll writes a page back to disk whether or not it actually
// changed, trading a few redundant writes for the simplicity of never
// having to reason about whether a bit was set correctly.
package buffer

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/mlopezgez/matidb/disk"
	"github.com/mlopezgez/matidb/page"
)

// Pool is a fixed-capacity cache of pages backed by a disk.Manager.
type Pool struct {
	mu       sync.Mutex
	dm       *disk.Manager
	capacity int
	frames   map[page.ID]*page.Page
	order    *list.List
	elems    map[page.ID]*list.Element
}

// New returns a Pool with room for capacity pages, backed by dm.
func New(dm *disk.Manager, capacity int) *Pool {
	return &Pool{
		dm:       dm,
		capacity: capacity,
		frames:   make(map[page.ID]*page.Page),
		order:    list.New(),
		elems:    make(map[page.ID]*list.Element),
	}
}

// touch marks id as most recently used.
func (p *Pool) touch(id page.ID) {
	if e, ok := p.elems[id]; ok {
		p.order.MoveToFront(e)
		return
	}
	p.elems[id] = p.order.PushFront(id)
}

// evictIfNeeded writes back and drops the least recently used page if
// the pool is at capacity. It is a no-op when there is room.
func (p *Pool) evictIfNeeded() error {
	if len(p.frames) < p.capacity {
		return nil
	}
	back := p.order.Back()
	if back == nil {
		return nil
	}
	victim := back.Value.(page.ID)
	if err := p.dm.WritePage(victim, p.frames[victim]); err != nil {
		return fmt.Errorf("buffer: evict page %d: %w", victim, err)
	}
	p.order.Remove(back)
	delete(p.elems, victim)
	delete(p.frames, victim)
	return nil
}

// FetchPage returns the cached page for id, loading it from disk on a
// cache miss and evicting the least recently used page if the pool is
// full.
func (p *Pool) FetchPage(id page.ID) (*page.Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if pg, ok := p.frames[id]; ok {
		p.touch(id)
		return pg, nil
	}

	if err := p.evictIfNeeded(); err != nil {
		return nil, err
	}

	pg, err := p.dm.ReadPage(id)
	if err != nil {
		return nil, fmt.Errorf("buffer: fetch page %d: %w", id, err)
	}
	p.frames[id] = pg
	p.touch(id)
	return pg, nil
}

// CreatePage allocates a new page via the disk manager, inserts a
// zeroed frame for it into the cache (evicting if necessary), and
// returns both the new id and the frame.
func (p *Pool) CreatePage() (page.ID, *page.Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.evictIfNeeded(); err != nil {
		return 0, nil, err
	}

	id := p.dm.AllocatePage()
	pg := page.New()
	p.frames[id] = pg
	p.touch(id)
	return id, pg, nil
}

// FlushAll writes every cached page back to disk, unconditionally.
func (p *Pool) FlushAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, pg := range p.frames {
		if err := p.dm.WritePage(id, pg); err != nil {
			return fmt.Errorf("buffer: flush page %d: %w", id, err)
		}
	}
	return nil
}
