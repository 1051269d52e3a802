package buffer

import "sync"

// Frame is a resident copy of one page. Its latch is a reader/writer lock:
// many readers may hold it shared, or one writer may hold it exclusive.
// Pin count is tracked separately from the latch so a page can be fixed
// (pinned, ineligible for eviction) without necessarily being latched by
// the caller the whole time it's pinned.
type Frame struct {
	id       PageID
	data     []byte
	dirty    bool
	pinCount int
	onFIFO   bool // true while resident in the FIFO queue, false once promoted to LRU

	latch sync.RWMutex

	loaded  chan struct{} // closed once data has been read from disk
	loadErr error
}

func (f *Frame) ID() PageID { return f.id }

// Data returns the frame's backing bytes. Callers must hold the latch in
// the mode they fixed the page with before reading or writing through it.
func (f *Frame) Data() []byte { return f.data }

func (f *Frame) IsDirty() bool { return f.dirty }

// Handle is the reference FixPage hands back. It remembers which latch
// mode this particular fix acquired so UnfixPage releases the right one.
type Handle struct {
	frame     *Frame
	exclusive bool
}

func (h *Handle) ID() PageID    { return h.frame.id }
func (h *Handle) Data() []byte  { return h.frame.data }
func (h *Handle) IsDirty() bool { return h.frame.dirty }
