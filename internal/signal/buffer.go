package signal

import (
	"fmt"
)

// Buffer kind constants. These are the values accepted in config files.
const (
	KindSlice = "slice"
	KindStack = "stack"
	KindRing  = "ring"
)

// ValidKinds contains all valid buffer kind values.
var ValidKinds = []string{KindSlice, KindStack, KindRing}

var (
	// ErrEmpty is returned by Take when the buffer holds no samples.
	ErrEmpty = fmt.Errorf("buffer is empty")
	// ErrFull is returned by Put when a fixed-capacity buffer is full.
	ErrFull = fmt.Errorf("buffer is full")
	// ErrOutOfRange is returned by At for an index outside the buffer.
	ErrOutOfRange = fmt.Errorf("index out of range")
)

// Buffer holds the sample values of a signal. Implementations differ in how
// Take drains samples: SliceBuffer and RingBuffer are FIFO, StackBuffer is
// LIFO. RingBuffer additionally enforces a fixed capacity.
type Buffer interface {
	// Put appends a sample to the buffer.
	Put(v float64) error
	// Take removes and returns the next sample.
	Take() (float64, error)
	// At returns the sample at index i in acquisition order.
	At(i int) (float64, error)
	// Values returns the buffered samples in acquisition order.
	Values() []float64
	// Len returns the number of buffered samples.
	Len() int
	// Cap returns the buffer capacity hint.
	Cap() int
	// Empty reports whether the buffer holds no samples.
	Empty() bool
	// Kind returns the buffer kind constant.
	Kind() string
}

// NewBuffer creates a buffer of the given kind. The capacity is a sizing hint
// for slice and stack buffers and a hard limit for ring buffers.
func NewBuffer(kind string, capacity int) (Buffer, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	switch kind {
	case KindSlice:
		return NewSliceBuffer(capacity), nil
	case KindStack:
		return NewStackBuffer(capacity), nil
	case KindRing:
		return NewRingBuffer(capacity), nil
	default:
		return nil, fmt.Errorf("unknown buffer kind %q (valid: slice, stack, ring)", kind)
	}
}

// DefaultCapacity is used when a config omits the buffer size.
const DefaultCapacity = 10

// SliceBuffer is a growable buffer. Take drains from the front, so samples
// come back out in acquisition order.
type SliceBuffer struct {
	values []float64
}

// NewSliceBuffer creates an empty slice buffer with the given capacity hint.
func NewSliceBuffer(capacity int) *SliceBuffer {
	return &SliceBuffer{values: make([]float64, 0, capacity)}
}

func (b *SliceBuffer) Put(v float64) error {
	b.values = append(b.values, v)
	return nil
}

func (b *SliceBuffer) Take() (float64, error) {
	if len(b.values) == 0 {
		return 0, ErrEmpty
	}
	v := b.values[0]
	b.values = b.values[1:]
	return v, nil
}

func (b *SliceBuffer) At(i int) (float64, error) {
	if i < 0 || i >= len(b.values) {
		return 0, fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, len(b.values))
	}
	return b.values[i], nil
}

func (b *SliceBuffer) Values() []float64 {
	out := make([]float64, len(b.values))
	copy(out, b.values)
	return out
}

func (b *SliceBuffer) Len() int     { return len(b.values) }
func (b *SliceBuffer) Cap() int     { return cap(b.values) }
func (b *SliceBuffer) Empty() bool  { return len(b.values) == 0 }
func (b *SliceBuffer) Kind() string { return KindSlice }

// StackBuffer is a LIFO buffer: Take returns the most recently put sample.
type StackBuffer struct {
	values []float64
}

// NewStackBuffer creates an empty stack buffer with the given capacity hint.
func NewStackBuffer(capacity int) *StackBuffer {
	return &StackBuffer{values: make([]float64, 0, capacity)}
}

func (b *StackBuffer) Put(v float64) error {
	b.values = append(b.values, v)
	return nil
}

func (b *StackBuffer) Take() (float64, error) {
	if len(b.values) == 0 {
		return 0, ErrEmpty
	}
	v := b.values[len(b.values)-1]
	b.values = b.values[:len(b.values)-1]
	return v, nil
}

func (b *StackBuffer) At(i int) (float64, error) {
	if i < 0 || i >= len(b.values) {
		return 0, fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, len(b.values))
	}
	return b.values[i], nil
}

func (b *StackBuffer) Values() []float64 {
	out := make([]float64, len(b.values))
	copy(out, b.values)
	return out
}

func (b *StackBuffer) Len() int     { return len(b.values) }
func (b *StackBuffer) Cap() int     { return cap(b.values) }
func (b *StackBuffer) Empty() bool  { return len(b.values) == 0 }
func (b *StackBuffer) Kind() string { return KindStack }

// RingBuffer is a fixed-capacity circular FIFO queue. Put fails once the ring
// is full rather than overwriting the oldest sample.
type RingBuffer struct {
	values []float64
	head   int
	tail   int
	count  int
}

// NewRingBuffer creates an empty ring buffer holding at most capacity samples.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RingBuffer{values: make([]float64, capacity)}
}

func (b *RingBuffer) Put(v float64) error {
	if b.count == len(b.values) {
		return fmt.Errorf("%w: capacity %d", ErrFull, len(b.values))
	}
	b.values[b.tail] = v
	b.tail = (b.tail + 1) % len(b.values)
	b.count++
	return nil
}

func (b *RingBuffer) Take() (float64, error) {
	if b.count == 0 {
		return 0, ErrEmpty
	}
	v := b.values[b.head]
	b.values[b.head] = 0
	b.head = (b.head + 1) % len(b.values)
	b.count--
	return v, nil
}

func (b *RingBuffer) At(i int) (float64, error) {
	if i < 0 || i >= b.count {
		return 0, fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, b.count)
	}
	return b.values[(b.head+i)%len(b.values)], nil
}

func (b *RingBuffer) Values() []float64 {
	out := make([]float64, 0, b.count)
	for i := 0; i < b.count; i++ {
		out = append(out, b.values[(b.head+i)%len(b.values)])
	}
	return out
}

func (b *RingBuffer) Len() int     { return b.count }
func (b *RingBuffer) Cap() int     { return len(b.values) }
func (b *RingBuffer) Empty() bool  { return b.count == 0 }
func (b *RingBuffer) Kind() string { return KindRing }
