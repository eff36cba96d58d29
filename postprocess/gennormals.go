package postprocess

import (
	"github.com/asset-importer/scenekit/math"
	"github.com/asset-importer/scenekit/scene"
)

// FaceNormalPass generates a flat (unsmoothed) normal per vertex. A
// vertex already claimed by an earlier face is duplicated for every
// later face that uses it, whether or not the two face normals differ.
type FaceNormalPass struct{}

func (FaceNormalPass) Prepare(opts Options) bool {
	return opts.Steps.has(StepGenNormals)
}

var defaultNormal = math.NewVec3(0, 1, 0)

func (FaceNormalPass) Process(s *scene.Scene, opts Options) error {
	for _, m := range s.Meshes {
		if m.PrimitiveTypes&(scene.PrimitiveTriangle|scene.PrimitivePolygon) == 0 {
			continue
		}
		generateFaceNormals(m, opts)
	}
	return nil
}

func meshHasValidNormals(m *scene.Mesh) bool {
	if len(m.Normals) != len(m.Positions) || len(m.Positions) == 0 {
		return false
	}
	for _, n := range m.Normals {
		if n == (math.Vec3{}) {
			return false
		}
	}
	return true
}

func faceWinding(positions []math.Vec3, f scene.Face, flip bool) math.Vec3 {
	v1 := positions[f[0]]
	v2 := positions[f[1]]
	v3 := positions[f[len(f)-1]]
	n1 := v2.Sub(v1)
	n2 := v3.Sub(v1)
	if flip {
		return n1.Cross(n2).Normalize()
	}
	return n2.Cross(n1).Normalize()
}

// duplicateVertex appends a copy of every per-vertex array's entry at i
// to its own end, returning the new vertex's index. Every parallel array
// present on the mesh is extended so Mesh.Validate's length invariant
// keeps holding after the duplication.
func duplicateVertex(m *scene.Mesh, i uint32) uint32 {
	newIdx := uint32(len(m.Positions))
	m.Positions = append(m.Positions, m.Positions[i])
	if len(m.Normals) > 0 {
		m.Normals = append(m.Normals, m.Normals[i])
	}
	if len(m.Tangents) > 0 {
		m.Tangents = append(m.Tangents, m.Tangents[i])
	}
	if len(m.Bitangents) > 0 {
		m.Bitangents = append(m.Bitangents, m.Bitangents[i])
	}
	for c := 0; c < m.TextureCoordChannels; c++ {
		if len(m.TextureCoords[c]) > 0 {
			m.TextureCoords[c] = append(m.TextureCoords[c], m.TextureCoords[c][i])
		}
	}
	for c := 0; c < m.ColorChannels; c++ {
		if len(m.Colors[c]) > 0 {
			m.Colors[c] = append(m.Colors[c], m.Colors[c][i])
		}
	}
	return newIdx
}

func generateFaceNormals(m *scene.Mesh, opts Options) {
	if meshHasValidNormals(m) && !opts.Steps.has(StepForceGenNormals) {
		return
	}

	flip := opts.Steps.has(StepFlipWindingOrder) != opts.Steps.has(StepMakeLeftHanded)

	n := len(m.Positions)
	normals := make([]math.Vec3, n)
	for i := range normals {
		normals[i] = defaultNormal
	}
	alreadyReferenced := make([]bool, n)

	var spillNormals []math.Vec3

	for fi := range m.Faces {
		f := m.Faces[fi]
		if len(f) < 3 {
			continue // points and lines: default normal only, no duplication
		}

		faceNormal := faceWinding(m.Positions, f, flip)
		if flip {
			f[1], f[len(f)-1] = f[len(f)-1], f[1]
		}

		for k, idx := range f {
			if int(idx) < len(alreadyReferenced) && !alreadyReferenced[idx] {
				normals[idx] = faceNormal
				alreadyReferenced[idx] = true
				continue
			}
			// This slot was already claimed by an earlier face in this
			// same pass. Rather than compare normals to decide whether
			// to share the slot, always duplicate: a vertex is claimed
			// at most once, every further face incident on it gets its
			// own vertex.
			newIdx := duplicateVertex(m, idx)
			spillNormals = append(spillNormals, faceNormal)
			f[k] = newIdx
		}
		m.Faces[fi] = f
	}

	m.Normals = append(normals, spillNormals...)
}
