// Package mesh lowers the extrude-recipe vocabulary (§6) — a 2D profile
// swept into a 3D shell — into flat vertex/normal/index buffers external
// renderers can upload directly. Buffers stay arena-shaped (parallel flat
// slices), matching the arena-not-pointer-graph discipline the rest of the
// compiled program follows.
package mesh

import (
	"fmt"
	"math"

	"github.com/katalvlaran/patchcore/artifact"
)

// Vec3 is a 3-component vector, the position/normal element type of a
// built Mesh's flat buffers.
type Vec3 struct{ X, Y, Z float64 }

// ProfileKind selects which closed or open 2D curve an extrude sweeps.
type ProfileKind string

const (
	ProfileCircle   ProfileKind = "circle"
	ProfileNgon     ProfileKind = "ngon"
	ProfilePolyline ProfileKind = "polyline"
)

// Profile describes the cross-section an extrude recipe sweeps along its
// depth axis. Exactly the fields matching Kind are meaningful.
type Profile struct {
	Kind ProfileKind

	Radius   float64 // circle, ngon
	Segments int     // circle: point count; ngon: side count

	Points []artifact.Vec2 // polyline
	Closed bool            // polyline: whether the last point wraps to the first
}

// ring returns the profile's 2D boundary points in a consistent winding
// order, regardless of which ProfileKind produced them.
func (p Profile) ring() ([]artifact.Vec2, error) {
	switch p.Kind {
	case ProfileCircle, ProfileNgon:
		if p.Segments < 3 {
			return nil, fmt.Errorf("mesh: profile %q needs at least 3 segments, got %d", p.Kind, p.Segments)
		}
		pts := make([]artifact.Vec2, p.Segments)
		for i := 0; i < p.Segments; i++ {
			theta := 2 * math.Pi * float64(i) / float64(p.Segments)
			pts[i] = artifact.Vec2{X: p.Radius * math.Cos(theta), Y: p.Radius * math.Sin(theta)}
		}
		return pts, nil

	case ProfilePolyline:
		if len(p.Points) < 3 {
			return nil, fmt.Errorf("mesh: polyline profile needs at least 3 points, got %d", len(p.Points))
		}
		return p.Points, nil

	default:
		return nil, fmt.Errorf("mesh: unknown profile kind %q", p.Kind)
	}
}

// CapMode selects which ends of a linear extrude get flat closing faces.
type CapMode string

const (
	CapNone CapMode = "none"
	CapTop  CapMode = "top"
	CapBoth CapMode = "both"
)

// LinearExtrude sweeps a profile straight along the depth axis, optionally
// closing one or both ends with a flat fan of triangles.
type LinearExtrude struct {
	Depth float64
	Cap   CapMode
}

// RoundedExtrude sweeps a profile along a quarter-circle of RoundSegs
// sub-rings, so the extrude's vertical edge is a genuine curve of radius
// Radius rather than a linear wall (open question (c): a degenerate
// RoundSegs=0 must still be rejected, not silently treated as linear).
type RoundedExtrude struct {
	Depth     float64
	RoundSegs int
	Radius    float64
}

// IndexWidth selects the integer width a Mesh's index buffer is packed as.
type IndexWidth string

const (
	IndexU16 IndexWidth = "u16"
	IndexU32 IndexWidth = "u32"
)

// Mesh is the flat buffer triple a built extrude produces.
type Mesh struct {
	Positions  []Vec3 // x, y, z per vertex
	Normals    []Vec3
	IndicesU16 []uint16
	IndicesU32 []uint32
	Width      IndexWidth
}

// VertexCount reports len(Positions), the quantity the worked examples in
// §6 are stated against.
func (m Mesh) VertexCount() int { return len(m.Positions) }

const maxU16Index = 65535

// BuildLinear lowers profile swept by spec into a Mesh. declaredWidth, if
// non-empty, pins the index buffer width; IndexU16 declared but exceeded is
// a fatal error rather than a silent promotion to u32 (the recipe's
// contract to its consumer is the width it declared).
func BuildLinear(profile Profile, spec LinearExtrude, declaredWidth IndexWidth) (*Mesh, error) {
	ring, err := profile.ring()
	if err != nil {
		return nil, err
	}
	n := len(ring)

	var positions, normals []Vec3
	var tris [][3]int

	bottomStart := len(positions)
	for _, p := range ring {
		positions = append(positions, Vec3{X: p.X, Y: p.Y, Z: 0})
		normals = append(normals, sideNormal(p))
	}
	topStart := len(positions)
	for _, p := range ring {
		positions = append(positions, Vec3{X: p.X, Y: p.Y, Z: spec.Depth})
		normals = append(normals, sideNormal(p))
	}
	tris = append(tris, sideWallTris(bottomStart, topStart, n)...)

	switch spec.Cap {
	case CapNone:
		// no closing faces
	case CapTop:
		capStart := len(positions)
		positions = append(positions, capVertices(ring, spec.Depth)...)
		normals = append(normals, constantNormals(n, Vec3{X: 0, Y: 0, Z: 1})...)
		tris = append(tris, fanTris(capStart, n, false)...)
	case CapBoth:
		bottomCapStart := len(positions)
		positions = append(positions, capVertices(ring, 0)...)
		normals = append(normals, constantNormals(n, Vec3{X: 0, Y: 0, Z: -1})...)
		tris = append(tris, fanTris(bottomCapStart, n, true)...)

		topCapStart := len(positions)
		positions = append(positions, capVertices(ring, spec.Depth)...)
		normals = append(normals, constantNormals(n, Vec3{X: 0, Y: 0, Z: 1})...)
		tris = append(tris, fanTris(topCapStart, n, false)...)
	default:
		return nil, fmt.Errorf("mesh: unknown cap mode %q", spec.Cap)
	}

	return pack(positions, normals, tris, declaredWidth)
}

// BuildRounded lowers a rounded extrude: RoundSegs+1 rings are stacked
// along a quarter-circle arc of the given Radius, then the top face is
// swept straight for the remaining Depth, producing a genuinely curved
// transition rather than a linear chamfer.
func BuildRounded(profile Profile, spec RoundedExtrude, declaredWidth IndexWidth) (*Mesh, error) {
	if spec.RoundSegs < 1 {
		return nil, fmt.Errorf("mesh: rounded extrude needs RoundSegs >= 1, got %d", spec.RoundSegs)
	}
	if spec.Radius <= 0 {
		return nil, fmt.Errorf("mesh: rounded extrude needs Radius > 0, got %g", spec.Radius)
	}

	ring, err := profile.ring()
	if err != nil {
		return nil, err
	}
	n := len(ring)

	var positions, normals []Vec3
	var tris [][3]int

	ringStarts := make([]int, 0, spec.RoundSegs+1)
	for i := 0; i <= spec.RoundSegs; i++ {
		frac := float64(i) / float64(spec.RoundSegs)
		theta := frac * math.Pi / 2 // 0 .. 90deg
		zOffset := spec.Radius * math.Sin(theta)
		scale := math.Cos(theta) // ring shrinks toward the arc's apex

		start := len(positions)
		ringStarts = append(ringStarts, start)
		for _, p := range ring {
			positions = append(positions, Vec3{X: p.X * scale, Y: p.Y * scale, Z: zOffset})
			normals = append(normals, sideNormal(p))
		}
	}
	for i := 0; i < spec.RoundSegs; i++ {
		tris = append(tris, sideWallTris(ringStarts[i], ringStarts[i+1], n)...)
	}

	topRingStart := ringStarts[len(ringStarts)-1]
	straightStart := len(positions)
	for _, p := range ring {
		positions = append(positions, Vec3{X: p.X, Y: p.Y, Z: spec.Radius + spec.Depth})
		normals = append(normals, sideNormal(p))
	}
	tris = append(tris, sideWallTris(topRingStart, straightStart, n)...)

	capStart := len(positions)
	positions = append(positions, capVertices(ring, spec.Radius+spec.Depth)...)
	normals = append(normals, constantNormals(n, Vec3{X: 0, Y: 0, Z: 1})...)
	tris = append(tris, fanTris(capStart, n, false)...)

	return pack(positions, normals, tris, declaredWidth)
}

func sideNormal(p artifact.Vec2) Vec3 {
	length := math.Hypot(p.X, p.Y)
	if length == 0 {
		return Vec3{X: 0, Y: 0, Z: 0}
	}
	return Vec3{X: p.X / length, Y: p.Y / length, Z: 0}
}

func constantNormals(n int, v Vec3) []Vec3 {
	out := make([]Vec3, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// capVertices duplicates ring at the given z so the flat cap can carry its
// own normal, independent of the side wall's per-vertex normals.
func capVertices(ring []artifact.Vec2, z float64) []Vec3 {
	out := make([]Vec3, len(ring))
	for i, p := range ring {
		out[i] = Vec3{X: p.X, Y: p.Y, Z: z}
	}
	return out
}

// sideWallTris quads the band between two co-indexed rings of size n into
// 2*n triangles.
func sideWallTris(bottomStart, topStart, n int) [][3]int {
	tris := make([][3]int, 0, 2*n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		b0, b1 := bottomStart+i, bottomStart+j
		t0, t1 := topStart+i, topStart+j
		tris = append(tris, [3]int{b0, t0, t1}, [3]int{b0, t1, b1})
	}
	return tris
}

// fanTris triangulates a single flat ring as a fan around its centroid's
// implicit first vertex, flipping winding when flip is set so bottom and
// top caps face outward.
func fanTris(ringStart, n int, flip bool) [][3]int {
	tris := make([][3]int, 0, n-2)
	for i := 1; i < n-1; i++ {
		a, b, c := ringStart, ringStart+i, ringStart+i+1
		if flip {
			tris = append(tris, [3]int{a, c, b})
		} else {
			tris = append(tris, [3]int{a, b, c})
		}
	}
	return tris
}

func pack(positions, normals []Vec3, tris [][3]int, declaredWidth IndexWidth) (*Mesh, error) {
	m := &Mesh{Positions: positions, Normals: normals}

	width := declaredWidth
	if width == "" {
		if len(positions) <= maxU16Index {
			width = IndexU16
		} else {
			width = IndexU32
		}
	}

	switch width {
	case IndexU16:
		if len(positions) > maxU16Index {
			return nil, fmt.Errorf("mesh: u16 index buffer declared but mesh has %d vertices (max %d)", len(positions), maxU16Index)
		}
		m.IndicesU16 = make([]uint16, 0, len(tris)*3)
		for _, tri := range tris {
			m.IndicesU16 = append(m.IndicesU16, uint16(tri[0]), uint16(tri[1]), uint16(tri[2]))
		}
	case IndexU32:
		m.IndicesU32 = make([]uint32, 0, len(tris)*3)
		for _, tri := range tris {
			m.IndicesU32 = append(m.IndicesU32, uint32(tri[0]), uint32(tri[1]), uint32(tri[2]))
		}
	default:
		return nil, fmt.Errorf("mesh: unknown index width %q", width)
	}
	m.Width = width

	return m, nil
}
