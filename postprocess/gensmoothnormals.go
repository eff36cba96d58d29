package postprocess

import (
	"math"

	aimath "github.com/asset-importer/scenekit/math"
	"github.com/asset-importer/scenekit/scene"
	"github.com/asset-importer/scenekit/spatial"
)

// SmoothNormalPass generates angle-weighted smooth normals: vertices
// that are positionally coincident (within an epsilon) and whose face
// normals agree within the configured smooth angle are assigned an
// averaged, normalized normal.
type SmoothNormalPass struct{}

func (SmoothNormalPass) Prepare(opts Options) bool {
	return opts.Steps.has(StepGenSmoothNormals)
}

const collapseThreshold = 175.0 * math.Pi / 180.0

func (SmoothNormalPass) Process(s *scene.Scene, opts Options) error {
	for _, m := range s.Meshes {
		if m.PrimitiveTypes&(scene.PrimitiveTriangle|scene.PrimitivePolygon) == 0 {
			continue
		}
		generateSmoothNormals(m, opts)
	}
	return nil
}

func generateSmoothNormals(m *scene.Mesh, opts Options) {
	n := len(m.Positions)
	if n == 0 {
		return
	}

	faceNormals := make([]aimath.Vec3, n)
	for i := range faceNormals {
		faceNormals[i] = defaultNormal
	}
	// cornerSums accumulates, per vertex, every incident face normal
	// weighted by that face's corner angle at the vertex.
	cornerSums := make([]aimath.Vec3, n)
	flip := opts.Steps.has(StepFlipWindingOrder) != opts.Steps.has(StepMakeLeftHanded)
	for _, f := range m.Faces {
		if len(f) < 3 {
			continue
		}
		fn := faceWinding(m.Positions, f, flip)
		for k, idx := range f {
			faceNormals[idx] = fn
			p := m.Positions[idx]
			e1 := m.Positions[f[(k+1)%len(f)]].Sub(p).Normalize()
			e2 := m.Positions[f[(k+len(f)-1)%len(f)]].Sub(p).Normalize()
			angle := math.Acos(math.Max(-1, math.Min(1, float64(e1.Dot(e2)))))
			cornerSums[idx] = cornerSums[idx].Add(fn.Mul(float32(angle)))
		}
	}

	eps := opts.Epsilon
	if eps <= 0 {
		eps = 1e-5
	}
	idx := spatial.Build(m.Positions, eps)

	out := make([]aimath.Vec3, n)
	processed := make([]bool, n)

	collapse := opts.SmoothAngle >= float32(collapseThreshold)
	cosLimit := float32(math.Cos(float64(opts.SmoothAngle)))

	for v := 0; v < n; v++ {
		if processed[v] {
			continue
		}
		neighbors := idx.FindPosition(m.Positions[v], eps)

		if collapse {
			sum := aimath.Vec3{}
			for _, nb := range neighbors {
				sum = sum.Add(cornerSums[nb])
			}
			avg := sum.Normalize()
			if avg == (aimath.Vec3{}) {
				avg = defaultNormal
			}
			for _, nb := range neighbors {
				out[nb] = avg
				processed[nb] = true
			}
			continue
		}

		sum := aimath.Vec3{}
		for _, nb := range neighbors {
			if faceNormals[nb].Dot(faceNormals[v]) >= cosLimit {
				sum = sum.Add(faceNormals[nb])
			}
		}
		avg := sum.Normalize()
		if avg == (aimath.Vec3{}) {
			avg = faceNormals[v]
		}
		out[v] = avg
		processed[v] = true
	}

	m.Normals = out
}
