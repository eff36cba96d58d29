// Package spatial indexes vertex positions for epsilon-tolerant nearest-
// neighbor queries, the structure smooth-normal generation uses to find
// every vertex that should share a normal with a given one.
package spatial

import "github.com/asset-importer/scenekit/math"

// cellKey identifies one bucket of the uniform grid.
type cellKey struct{ x, y, z int32 }

// Index is a uniform-grid spatial index over a fixed set of positions.
// Build is O(n); Query is O(k) expected, where k is the number of points
// actually within range of the query cell's 3x3x3 neighborhood.
type Index struct {
	positions []math.Vec3
	cellSize  float32
	buckets   map[cellKey][]int
}

// Build indexes positions using a grid whose cell size is cellSize. Pick
// cellSize close to the epsilon future queries will use: cells much
// larger than the query radius put too many points in one bucket, cells
// much smaller fragment a single query across too many buckets.
func Build(positions []math.Vec3, cellSize float32) *Index {
	if cellSize <= 0 {
		cellSize = 1e-4
	}
	idx := &Index{
		positions: positions,
		cellSize:  cellSize,
		buckets:   make(map[cellKey][]int, len(positions)),
	}
	for i, p := range positions {
		k := idx.key(p)
		idx.buckets[k] = append(idx.buckets[k], i)
	}
	return idx
}

func (idx *Index) key(p math.Vec3) cellKey {
	return cellKey{
		x: int32(p.X / idx.cellSize),
		y: int32(p.Y / idx.cellSize),
		z: int32(p.Z / idx.cellSize),
	}
}

// FindPosition returns the indices of every point within epsilon of q
// (inclusive, by Euclidean distance), q itself included if present.
func (idx *Index) FindPosition(q math.Vec3, epsilon float32) []int {
	center := idx.key(q)
	span := int32(1)
	if epsilon > idx.cellSize {
		span = int32(epsilon/idx.cellSize) + 1
	}

	var out []int
	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			for dz := -span; dz <= span; dz++ {
				k := cellKey{center.x + dx, center.y + dy, center.z + dz}
				for _, i := range idx.buckets[k] {
					if idx.positions[i].Distance(q) <= epsilon {
						out = append(out, i)
					}
				}
			}
		}
	}
	return out
}
