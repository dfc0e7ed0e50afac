package ir

import "encoding/json"

// Constants is the typed constant pool (§3): separate dense arrays per
// scalar kind plus an indirection table for structured (JSON) literals a
// transform's params carried at compile time. Interning deduplicates
// identical literals so two blocks that both declare factor=2.0 share one
// pool entry rather than two.
type Constants struct {
	F64  []float64
	F32  []float32
	I32  []int32
	JSON []json.RawMessage

	f64Index map[float64]int
	f32Index map[float32]int
	i32Index map[int32]int
}

// NewConstants returns an empty, ready-to-intern pool.
func NewConstants() Constants {
	return Constants{
		f64Index: make(map[float64]int),
		f32Index: make(map[float32]int),
		i32Index: make(map[int32]int),
	}
}

// InternF64 returns v's index in F64, adding it if not already present.
func (c *Constants) InternF64(v float64) int {
	if i, ok := c.f64Index[v]; ok {
		return i
	}
	i := len(c.F64)
	c.F64 = append(c.F64, v)
	c.f64Index[v] = i
	return i
}

// InternF32 returns v's index in F32, adding it if not already present.
func (c *Constants) InternF32(v float32) int {
	if i, ok := c.f32Index[v]; ok {
		return i
	}
	i := len(c.F32)
	c.F32 = append(c.F32, v)
	c.f32Index[v] = i
	return i
}

// InternI32 returns v's index in I32, adding it if not already present.
func (c *Constants) InternI32(v int32) int {
	if i, ok := c.i32Index[v]; ok {
		return i
	}
	i := len(c.I32)
	c.I32 = append(c.I32, v)
	c.i32Index[v] = i
	return i
}

// InternJSON appends a structured literal and returns its index. JSON
// blobs are not deduplicated: registry.ParamSpec.RangeHint-style structured
// defaults are rare enough that the indirection table existing at all
// matters more than collapsing duplicates.
func (c *Constants) InternJSON(raw json.RawMessage) int {
	i := len(c.JSON)
	c.JSON = append(c.JSON, raw)
	return i
}
