// Package gpu owns OpenGL objects: buffers, vertex arrays, textures and
// programs. Every handle type releases its object exactly once.
package gpu

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Releaser is anything holding a GL object.
type Releaser interface {
	Release()
}

// Tracker releases registered objects in reverse creation order.
type Tracker struct {
	items []Releaser
}

// Track registers r and returns it for chaining.
func Track[T Releaser](t *Tracker, r T) T {
	t.items = append(t.items, r)
	return r
}

// Len returns the number of live objects.
func (t *Tracker) Len() int {
	return len(t.items)
}

// ReleaseAll releases everything and empties the tracker.
func (t *Tracker) ReleaseAll() {
	for i := len(t.items) - 1; i >= 0; i-- {
		t.items[i].Release()
	}
	t.items = nil
}

// Buffer is a GL buffer object bound to one target.
type Buffer struct {
	id     uint32
	target uint32
	count  int
}

// NewVec3Buffer uploads positions to an ARRAY_BUFFER.
func NewVec3Buffer(data []mgl32.Vec3) *Buffer {
	b := newBuffer(gl.ARRAY_BUFFER)
	b.count = len(data)
	if len(data) > 0 {
		gl.BufferData(b.target, len(data)*3*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	}
	return b
}

// NewVec2Buffer uploads texture coordinates to an ARRAY_BUFFER.
func NewVec2Buffer(data []mgl32.Vec2) *Buffer {
	b := newBuffer(gl.ARRAY_BUFFER)
	b.count = len(data)
	if len(data) > 0 {
		gl.BufferData(b.target, len(data)*2*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	}
	return b
}

// NewIndexBuffer uploads uint32 indices to an ELEMENT_ARRAY_BUFFER. A vertex
// array must be bound so it records the binding.
func NewIndexBuffer(indices []uint32) *Buffer {
	b := newBuffer(gl.ELEMENT_ARRAY_BUFFER)
	b.count = len(indices)
	if len(indices) > 0 {
		gl.BufferData(b.target, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)
	}
	return b
}

func newBuffer(target uint32) *Buffer {
	b := &Buffer{target: target}
	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(target, b.id)
	return b
}

// ID returns the GL handle.
func (b *Buffer) ID() uint32 { return b.id }

// Count returns the number of elements uploaded.
func (b *Buffer) Count() int { return b.count }

// Bind binds the buffer to its target.
func (b *Buffer) Bind() {
	gl.BindBuffer(b.target, b.id)
}

// Release deletes the buffer.
func (b *Buffer) Release() {
	if b == nil || b.id == 0 {
		return
	}
	gl.DeleteBuffers(1, &b.id)
	b.id = 0
}

// VertexArray is a GL vertex array object.
type VertexArray struct {
	id uint32
}

// NewVertexArray creates and binds a vertex array.
func NewVertexArray() *VertexArray {
	va := &VertexArray{}
	gl.GenVertexArrays(1, &va.id)
	gl.BindVertexArray(va.id)
	return va
}

// Attribute points attribute location at a bound float buffer with the given
// component count.
func (va *VertexArray) Attribute(location uint32, buf *Buffer, components int32) {
	gl.BindVertexArray(va.id)
	buf.Bind()
	gl.VertexAttribPointerWithOffset(location, components, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(location)
}

// Bind binds the vertex array.
func (va *VertexArray) Bind() {
	gl.BindVertexArray(va.id)
}

// Unbind clears the vertex array binding.
func (va *VertexArray) Unbind() {
	gl.BindVertexArray(0)
}

// Release deletes the vertex array.
func (va *VertexArray) Release() {
	if va == nil || va.id == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &va.id)
	va.id = 0
}
