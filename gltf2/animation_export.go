package gltf2

import (
	"github.com/asset-importer/scenekit/gltfbuf"
	"github.com/asset-importer/scenekit/scene"
)

// exportAnimations mirrors importAnimations: every neutral NodeAnimChannel
// is split back into up to three glTF channels (translation/rotation/scale),
// and MeshMorphAnimChannel entries become weight channels targeting the
// node of the same name.
func (c *exportCtx) exportAnimations(nodeIdxOf map[string]int) {
	for _, anim := range c.scene.Animations {
		ga := Animation{Name: anim.Name}

		for _, ch := range anim.Channels {
			nodeIdx, ok := nodeIdxOf[ch.NodeName]
			if !ok {
				continue
			}
			if len(ch.PositionKeys) > 0 {
				times, vals := splitVectorKeys(ch.PositionKeys)
				c.appendTRSChannel(&ga, nodeIdx, "translation", times, vals, ch.Interpolation)
			}
			if len(ch.RotationKeys) > 0 {
				times, vals := splitQuaternionKeys(ch.RotationKeys)
				c.appendTRSChannel(&ga, nodeIdx, "rotation", times, vals, ch.Interpolation)
			}
			if len(ch.ScaleKeys) > 0 {
				times, vals := splitVectorKeys(ch.ScaleKeys)
				c.appendTRSChannel(&ga, nodeIdx, "scale", times, vals, ch.Interpolation)
			}
		}

		for _, mc := range anim.MorphChannels {
			nodeIdx, ok := nodeIdxOf[mc.MeshName]
			if !ok || len(mc.Keys) == 0 {
				continue
			}
			c.appendMorphChannel(&ga, nodeIdx, mc)
		}

		if len(ga.Channels) == 0 {
			continue
		}
		c.doc.Animations = append(c.doc.Animations, ga)
	}
}

func (c *exportCtx) appendTRSChannel(ga *Animation, nodeIdx int, path string, times [][]float64, vals [][]float64, interp scene.Interpolation) {
	timesAcc := c.w.WriteElements(times, gltfbuf.ComponentFloat, gltfbuf.TypeScalar, 0)
	elemType := gltfbuf.TypeVec3
	if path == "rotation" {
		elemType = gltfbuf.TypeVec4
	}
	valsAcc := c.w.WriteElements(vals, gltfbuf.ComponentFloat, elemType, 0)

	samplerIdx := len(ga.Samplers)
	ga.Samplers = append(ga.Samplers, AnimationSampler{
		Input:         c.addAccessor(timesAcc),
		Output:        c.addAccessor(valsAcc),
		Interpolation: ValidValue(interpolationToString(interp)),
	})
	ni := nodeIdx
	ga.Channels = append(ga.Channels, AnimationChannel{
		Sampler: samplerIdx,
		Target:  AnimationChannelTarget{Node: &ni, Path: ValidValue(path)},
	})
}

func (c *exportCtx) appendMorphChannel(ga *Animation, nodeIdx int, mc scene.MeshMorphAnimChannel) {
	numTargets := 0
	for _, k := range mc.Keys {
		if len(k.Weights) > numTargets {
			numTargets = len(k.Weights)
		}
	}
	times := make([][]float64, len(mc.Keys))
	vals := make([][]float64, 0, len(mc.Keys)*numTargets)
	for i, k := range mc.Keys {
		times[i] = []float64{k.Time / ticksPerSecond}
		row := make([]float64, numTargets)
		for wi, w := range k.Weights {
			if wi < numTargets {
				row[wi] = float64(w)
			}
		}
		for _, w := range row {
			vals = append(vals, []float64{w})
		}
	}
	timesAcc := c.w.WriteElements(times, gltfbuf.ComponentFloat, gltfbuf.TypeScalar, 0)
	valsAcc := c.w.WriteElements(vals, gltfbuf.ComponentFloat, gltfbuf.TypeScalar, 0)

	samplerIdx := len(ga.Samplers)
	ga.Samplers = append(ga.Samplers, AnimationSampler{
		Input:         c.addAccessor(timesAcc),
		Output:        c.addAccessor(valsAcc),
		Interpolation: ValidValue(string(InterpolationLinear)),
	})
	ni := nodeIdx
	ga.Channels = append(ga.Channels, AnimationChannel{
		Sampler: samplerIdx,
		Target:  AnimationChannelTarget{Node: &ni, Path: ValidValue("weights")},
	})
}

func splitVectorKeys(keys []scene.VectorKey) (times, vals [][]float64) {
	times = make([][]float64, len(keys))
	vals = make([][]float64, len(keys))
	for i, k := range keys {
		times[i] = []float64{k.Time / ticksPerSecond}
		vals[i] = []float64{float64(k.Value.X), float64(k.Value.Y), float64(k.Value.Z)}
	}
	return
}

func splitQuaternionKeys(keys []scene.QuaternionKey) (times, vals [][]float64) {
	times = make([][]float64, len(keys))
	vals = make([][]float64, len(keys))
	for i, k := range keys {
		times[i] = []float64{k.Time / ticksPerSecond}
		w := k.Value.ToWireXYZW()
		vals[i] = []float64{float64(w[0]), float64(w[1]), float64(w[2]), float64(w[3])}
	}
	return
}
