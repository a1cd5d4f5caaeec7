package x86_64

import "github.com/vibelang/vibe/internal/util"

const (
	SLOT_SIZE = 8
	// SP must always be 16-byte aligned at call sites.
	STACK_ALIGNMENT = 16
)

// Frame is the symbol table of a single function: it maps local variable names to their
// offsets below rbp. Slots are never released, so every declaration in the function body,
// including declarations in branches that never run, takes up its own slot.
type Frame struct {
	slots map[string]int
	size  int
}

func NewFrame() *Frame {
	return &Frame{slots: make(map[string]int)}
}

// Allocate reserves the next slot for name and returns its offset from rbp.
// Declaring a name again rebinds it to a fresh slot.
func (f *Frame) Allocate(name string) int {
	f.size += SLOT_SIZE
	f.slots[name] = f.size
	return f.size
}

// Lookup returns the offset of the slot currently bound to name.
func (f *Frame) Lookup(name string) (int, bool) {
	offset, ok := f.slots[name]
	return offset, ok
}

// Size is the number of bytes used by all slots allocated so far.
func (f *Frame) Size() int {
	return f.size
}

// StackSize is the amount the prologue subtracts from rsp.
func (f *Frame) StackSize() int {
	return util.Align(f.size, STACK_ALIGNMENT)
}
