package gltf2

import (
	aimath "github.com/asset-importer/scenekit/math"
	"github.com/asset-importer/scenekit/scene"
)

// ticksPerSecond is the fixed seconds-to-ticks scale: glTF sampler
// inputs are seconds, the neutral animation model works in
// milliseconds and multiplies inputs by it.
const ticksPerSecond = 1000.0

// importAnimations converts every glTF animation into a neutral
// Animation, merging per-(node,path) channels into one NodeAnimChannel
// per node.
func importAnimations(ic *importCtx, tree *scene.NodeTree) ([]scene.Animation, error) {
	out := make([]scene.Animation, 0, len(ic.doc.Animations))
	for ai, ga := range ic.doc.Animations {
		anim := scene.Animation{Name: animNameOrDefault(ga.Name, ai), TicksPerSecond: ticksPerSecond}
		byNode := map[int]*scene.NodeAnimChannel{}
		nodeOrder := []int{}
		var maxTime float64

		for _, ch := range ga.Channels {
			if ch.Target.Node == nil {
				continue
			}
			sampler := ga.Samplers[ch.Sampler]
			times, err := ic.readAccessor(sampler.Input)
			if err != nil {
				return nil, err
			}
			interp := interpolationFromString(CheckedOr(sampler.Interpolation, string(InterpolationLinear)))

			nodeIdx := *ch.Target.Node
			nc, ok := byNode[nodeIdx]
			if !ok {
				nc = &scene.NodeAnimChannel{NodeName: tree.Nodes[nodeIdx].Name, Interpolation: interp}
				byNode[nodeIdx] = nc
				nodeOrder = append(nodeOrder, nodeIdx)
			}

			path := CheckedOr(ch.Target.Path, "")
			switch path {
			case "translation":
				vals, err := ic.readAccessor(sampler.Output)
				if err != nil {
					return nil, err
				}
				vals = stripCubicSplineTangents(vals, interp)
				for i, t := range times {
					tm := t[0] * ticksPerSecond
					maxTime = maxFloat(maxTime, tm)
					nc.PositionKeys = append(nc.PositionKeys, scene.VectorKey{Time: tm, Value: vec3FromElem(vals[i])})
				}
			case "scale":
				vals, err := ic.readAccessor(sampler.Output)
				if err != nil {
					return nil, err
				}
				vals = stripCubicSplineTangents(vals, interp)
				for i, t := range times {
					tm := t[0] * ticksPerSecond
					maxTime = maxFloat(maxTime, tm)
					nc.ScaleKeys = append(nc.ScaleKeys, scene.VectorKey{Time: tm, Value: vec3FromElem(vals[i])})
				}
			case "rotation":
				vals, err := ic.readAccessorNormalized(sampler.Output)
				if err != nil {
					return nil, err
				}
				vals = stripCubicSplineTangents(vals, interp)
				for i, t := range times {
					tm := t[0] * ticksPerSecond
					maxTime = maxFloat(maxTime, tm)
					e := vals[i]
					q := aimath.FromWireXYZW(float32(e[0]), float32(e[1]), float32(e[2]), float32(e[3]))
					nc.RotationKeys = append(nc.RotationKeys, scene.QuaternionKey{Time: tm, Value: q})
				}
			case "weights":
				vals, err := ic.readAccessor(sampler.Output)
				if err != nil {
					return nil, err
				}
				maxTime = maxFloat(maxTime, timesMax(times)*ticksPerSecond)
				mc := morphChannelForNode(&anim, tree.Nodes[nodeIdx].Name)
				appendMorphKeys(mc, times, vals, interp, tree, nodeIdx)
			}
		}

		for _, idx := range nodeOrder {
			anim.Channels = append(anim.Channels, *byNode[idx])
		}
		anim.DurationTicks = maxTime
		out = append(out, anim)
	}
	return out, nil
}

// stripCubicSplineTangents drops the in/out tangent elements a
// CUBICSPLINE sampler lays its output out as ([inTangent, value,
// outTangent] per keyframe), keeping only the middle value.
func stripCubicSplineTangents(vals [][]float64, interp scene.Interpolation) [][]float64 {
	if interp != scene.InterpolationCubicSpline {
		return vals
	}
	if len(vals)%3 != 0 {
		return vals
	}
	out := make([][]float64, len(vals)/3)
	for i := range out {
		out[i] = vals[i*3+1]
	}
	return out
}

func morphChannelForNode(anim *scene.Animation, nodeName string) *scene.MeshMorphAnimChannel {
	for i := range anim.MorphChannels {
		if anim.MorphChannels[i].MeshName == nodeName {
			return &anim.MorphChannels[i]
		}
	}
	anim.MorphChannels = append(anim.MorphChannels, scene.MeshMorphAnimChannel{MeshName: nodeName})
	return &anim.MorphChannels[len(anim.MorphChannels)-1]
}

func appendMorphKeys(mc *scene.MeshMorphAnimChannel, times [][]float64, vals [][]float64, interp scene.Interpolation, tree *scene.NodeTree, nodeIdx int) {
	stride := 1
	offset := 0
	if interp == scene.InterpolationCubicSpline {
		stride = 3
		offset = 1
	}
	numTargets := 0
	if len(times) > 0 && len(vals) > 0 {
		numTargets = len(vals) / (len(times) * stride)
	}
	for ti := range times {
		key := scene.MorphKey{Time: times[ti][0] * ticksPerSecond}
		for target := 0; target < numTargets; target++ {
			row := vals[ti*stride*numTargets+target*stride+offset]
			key.Values = append(key.Values, target)
			key.Weights = append(key.Weights, float32(row[0]))
		}
		mc.Keys = append(mc.Keys, key)
	}
}

func vec3FromElem(e []float64) aimath.Vec3 {
	v := aimath.Vec3{}
	if len(e) > 0 {
		v.X = float32(e[0])
	}
	if len(e) > 1 {
		v.Y = float32(e[1])
	}
	if len(e) > 2 {
		v.Z = float32(e[2])
	}
	return v
}

func timesMax(times [][]float64) float64 {
	var m float64
	for _, t := range times {
		if len(t) > 0 && t[0] > m {
			m = t[0]
		}
	}
	return m
}

func maxFloat(a, b float64) float64 {
	if b > a {
		return b
	}
	return a
}

func interpolationFromString(s string) scene.Interpolation {
	switch InterpolationMode(s) {
	case InterpolationStep:
		return scene.InterpolationStep
	case InterpolationCubicSpline:
		return scene.InterpolationCubicSpline
	default:
		return scene.InterpolationLinear
	}
}

func interpolationToString(i scene.Interpolation) string {
	switch i {
	case scene.InterpolationStep:
		return string(InterpolationStep)
	case scene.InterpolationCubicSpline:
		return string(InterpolationCubicSpline)
	default:
		return string(InterpolationLinear)
	}
}

func animNameOrDefault(name string, i int) string {
	if name != "" {
		return name
	}
	return "anim_" + itoa(i)
}
