// Package slotted implements the slotted-page layout used to pack
// variable-length tuples into a fixed-size page: a small header, a slot
// directory that grows toward higher offsets right after the header, and
// tuple bytes that grow toward lower offsets from the end of the page.
package slotted

import (
	"encoding/binary"
	"fmt"

	"github.com/mlopezgez/matidb/page"
)

// headerSize is numSlots(2) + freeSpacePtr(2) + nextPageID(4).
const headerSize = 8

// slotSize is offset(2) + length(2) for one slot directory entry.
const slotSize = 4

// Page is a view over a raw page.Page that interprets its bytes as a
// slotted page. It holds no state of its own; all reads and writes go
// straight through to the underlying page.
type Page struct {
	p *page.Page
}

// Wrap returns a slotted-page view over p. p is assumed to already be
// initialized (via Init) or loaded from disk.
func Wrap(p *page.Page) *Page {
	return &Page{p: p}
}

// Init resets p to an empty slotted page: zero slots, free space pointer
// at the end of the page, and no next page in the heap chain.
func (s *Page) Init() {
	s.setNumSlots(0)
	s.setFreeSpacePointer(page.Size)
	s.SetNextPageID(page.NoNextPage)
}

func (s *Page) NumSlots() uint16 {
	return binary.LittleEndian.Uint16(s.p.Data[0:2])
}

func (s *Page) setNumSlots(n uint16) {
	binary.LittleEndian.PutUint16(s.p.Data[0:2], n)
}

func (s *Page) freeSpacePointer() uint16 {
	return binary.LittleEndian.Uint16(s.p.Data[2:4])
}

func (s *Page) setFreeSpacePointer(v uint16) {
	binary.LittleEndian.PutUint16(s.p.Data[2:4], v)
}

// NextPageID returns the next page in this table's heap chain, or
// page.NoNextPage if this is the tail.
func (s *Page) NextPageID() page.ID {
	return page.ID(binary.LittleEndian.Uint32(s.p.Data[4:8]))
}

// SetNextPageID links this page to the next page in the heap chain.
func (s *Page) SetNextPageID(id page.ID) {
	binary.LittleEndian.PutUint32(s.p.Data[4:8], uint32(id))
}

// slotsEnd is the offset just past the last slot directory entry.
func (s *Page) slotsEnd() uint16 {
	return headerSize + s.NumSlots()*slotSize
}

// FreeSpace returns the number of bytes available for a new tuple,
// accounting for both the tuple bytes and the new slot entry it would
// need.
func (s *Page) FreeSpace() uint16 {
	fsp := s.freeSpacePointer()
	end := s.slotsEnd()
	if fsp < end {
		return 0
	}
	avail := fsp - end
	if avail < slotSize {
		return 0
	}
	return avail - slotSize
}

func (s *Page) slotOffset(i uint16) uint16 {
	return headerSize + i*slotSize
}

func (s *Page) readSlot(i uint16) (offset, length uint16) {
	o := s.slotOffset(i)
	offset = binary.LittleEndian.Uint16(s.p.Data[o : o+2])
	length = binary.LittleEndian.Uint16(s.p.Data[o+2 : o+4])
	return
}

func (s *Page) writeSlot(i uint16, offset, length uint16) {
	o := s.slotOffset(i)
	binary.LittleEndian.PutUint16(s.p.Data[o:o+2], offset)
	binary.LittleEndian.PutUint16(s.p.Data[o+2:o+4], length)
}

// AddTuple appends tuple bytes into the free space growing down from the
// top of the page and records a new slot pointing at it, returning the
// new slot's index. It fails if the page does not have enough free space
// for both the tuple and a new slot entry.
func (s *Page) AddTuple(data []byte) (uint16, error) {
	needed := uint16(len(data))
	if int(needed) > int(s.FreeSpace()) {
		return 0, fmt.Errorf("slotted: page full")
	}

	newFsp := s.freeSpacePointer() - needed
	copy(s.p.Data[newFsp:newFsp+needed], data)
	s.setFreeSpacePointer(newFsp)

	idx := s.NumSlots()
	s.writeSlot(idx, newFsp, needed)
	s.setNumSlots(idx + 1)
	return idx, nil
}

// GetTuple returns the bytes stored at slot idx. The second return value
// is false if idx is out of range.
func (s *Page) GetTuple(idx uint16) ([]byte, bool) {
	if idx >= s.NumSlots() {
		return nil, false
	}
	offset, length := s.readSlot(idx)
	out := make([]byte, length)
	copy(out, s.p.Data[offset:offset+length])
	return out, true
}
