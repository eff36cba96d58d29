package scene

import "github.com/asset-importer/scenekit/math"

// Interpolation tags how a keyframe interpolates with the one after it.
type Interpolation int

const (
	InterpolationLinear Interpolation = iota
	InterpolationStep
	InterpolationCubicSpline
)

type VectorKey struct {
	Time  float64 // in ticks
	Value math.Vec3
}

type QuaternionKey struct {
	Time  float64
	Value math.Quaternion
}

type MorphKey struct {
	Time    float64
	Values  []int     // AnimMesh indices this key targets
	Weights []float32 // parallel to Values
}

// NodeAnimChannel is one node's worth of transform animation: independent
// position/rotation/scale key tracks, each free to have its own sample
// times and its own interpolation mode.
type NodeAnimChannel struct {
	NodeName string

	PositionKeys []VectorKey
	RotationKeys []QuaternionKey
	ScaleKeys    []VectorKey

	PreState  BehaviorState
	PostState BehaviorState

	Interpolation Interpolation
}

// BehaviorState controls how a channel is sampled outside its keyed time
// range.
type BehaviorState int

const (
	BehaviorDefault BehaviorState = iota
	BehaviorConstant
	BehaviorLinear
	BehaviorRepeat
)

// MeshMorphAnimChannel is one mesh's worth of morph-target weight
// animation.
type MeshMorphAnimChannel struct {
	MeshName string
	Keys     []MorphKey
}

// Animation is a named, independently-timed clip: a set of node transform
// channels and mesh morph-weight channels that are sampled together at a
// common tick rate.
type Animation struct {
	Name string

	DurationTicks  float64
	TicksPerSecond float64 // 0 means "assume 25"

	Channels      []NodeAnimChannel
	MorphChannels []MeshMorphAnimChannel
}

// TicksPerSecondOrDefault returns TicksPerSecond, substituting the
// conventional default of 25 when unset, matching every importer's
// fallback in this pack.
func (a *Animation) TicksPerSecondOrDefault() float64 {
	if a.TicksPerSecond == 0 {
		return 25
	}
	return a.TicksPerSecond
}
