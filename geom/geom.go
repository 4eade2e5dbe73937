// Package geom is the intersection oracle the spatial trees build on: plain
// vector and bounds types plus the containment/intersection predicates used
// to descend and query quadtree.Tree and octree.Tree. It does not attempt to
// be a general-purpose computational geometry library.
package geom

// Vec2 is a 2D point or offset.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a 3D point or offset.
type Vec3 struct {
	X, Y, Z float64
}

// Rect is an axis-aligned rectangle described by its min corner and size.
type Rect struct {
	X, Y, Width, Height float64
}

// Min returns the rectangle's minimum corner.
func (r Rect) Min() Vec2 { return Vec2{r.X, r.Y} }

// Max returns the rectangle's maximum corner.
func (r Rect) Max() Vec2 { return Vec2{r.X + r.Width, r.Y + r.Height} }

// Contains reports whether the point (x, y) lies inside r. Points on the
// edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// ContainsRect reports whether r fully contains other.
func (r Rect) ContainsRect(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.X+other.Width <= r.X+r.Width &&
		other.Y+other.Height <= r.Y+r.Height
}

// Intersects reports whether r and other overlap. Adjacent rectangles
// (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Box is an axis-aligned box described by its min corner and size.
type Box struct {
	X, Y, Z              float64
	Width, Height, Depth float64
}

// Min returns the box's minimum corner.
func (b Box) Min() Vec3 { return Vec3{b.X, b.Y, b.Z} }

// Max returns the box's maximum corner.
func (b Box) Max() Vec3 { return Vec3{b.X + b.Width, b.Y + b.Height, b.Z + b.Depth} }

// Contains reports whether the point (x, y, z) lies inside b. Points on the
// edge are considered inside.
func (b Box) Contains(x, y, z float64) bool {
	return x >= b.X && x <= b.X+b.Width &&
		y >= b.Y && y <= b.Y+b.Height &&
		z >= b.Z && z <= b.Z+b.Depth
}

// ContainsBox reports whether b fully contains other.
func (b Box) ContainsBox(other Box) bool {
	return other.X >= b.X && other.Y >= b.Y && other.Z >= b.Z &&
		other.X+other.Width <= b.X+b.Width &&
		other.Y+other.Height <= b.Y+b.Height &&
		other.Z+other.Depth <= b.Z+b.Depth
}

// Intersects reports whether b and other overlap. Adjacent boxes (sharing
// only a face) are considered intersecting.
func (b Box) Intersects(other Box) bool {
	return b.X <= other.X+other.Width && b.X+b.Width >= other.X &&
		b.Y <= other.Y+other.Height && b.Y+b.Height >= other.Y &&
		b.Z <= other.Z+other.Depth && b.Z+b.Depth >= other.Z
}

// Plane is a half-space boundary in normal-form: points p satisfying
// Normal.Dot(p) + D >= 0 are considered "inside" the plane.
type Plane struct {
	Normal Vec3
	D      float64
}

func (v Vec3) dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Frustum is a convex volume described by an arbitrary number of bounding
// planes (typically six: near, far, left, right, top, bottom).
type Frustum struct {
	Planes []Plane
}

// IntersectsBox reports whether b has any point inside every plane of f
// (standard AABB-vs-frustum positive-vertex test). An empty frustum
// intersects everything.
func (f Frustum) IntersectsBox(b Box) bool {
	for _, p := range f.Planes {
		// The "positive vertex" is the box corner furthest along the
		// plane normal; if even that corner is outside this plane,
		// the whole box is outside the frustum.
		var px, py, pz float64
		if p.Normal.X >= 0 {
			px = b.X + b.Width
		} else {
			px = b.X
		}
		if p.Normal.Y >= 0 {
			py = b.Y + b.Height
		} else {
			py = b.Y
		}
		if p.Normal.Z >= 0 {
			pz = b.Z + b.Depth
		} else {
			pz = b.Z
		}
		if p.Normal.dot(Vec3{px, py, pz})+p.D < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether (x, y, z) is inside every plane of f.
func (f Frustum) ContainsPoint(x, y, z float64) bool {
	pt := Vec3{x, y, z}
	for _, p := range f.Planes {
		if p.Normal.dot(pt)+p.D < 0 {
			return false
		}
	}
	return true
}
