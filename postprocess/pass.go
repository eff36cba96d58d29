// Package postprocess implements optional geometry transforms applied to
// a scene between import and export: face-normal generation and
// angle-weighted smooth-normal generation.
package postprocess

import (
	"github.com/asset-importer/scenekit/errs"
	"github.com/asset-importer/scenekit/scene"
)

// Step is a bitset naming the post-process steps a caller requested.
type Step uint32

const (
	StepGenNormals Step = 1 << iota
	StepGenSmoothNormals
	StepForceGenNormals
	StepFlipWindingOrder
	StepMakeLeftHanded
)

func (s Step) has(bit Step) bool { return s&bit != 0 }

// Options carries the modifier flags a pass reads in addition to the
// step set itself.
type Options struct {
	Steps Step

	// SmoothAngle is in radians; only read by the smooth-normal pass.
	SmoothAngle float32
	// Epsilon is the spatial-index tolerance used to treat two vertex
	// positions as coincident; only read by the smooth-normal pass.
	Epsilon float32
}

// Pass is the uniform contract every post-process step implements:
// Prepare tells the host whether this pass answers to the requested step
// set, Process mutates the scene in place.
type Pass interface {
	Prepare(opts Options) bool
	Process(s *scene.Scene, opts Options) error
}

// Run executes every pass in passes whose Prepare returns true, in
// order, stopping at the first error.
func Run(s *scene.Scene, opts Options, passes ...Pass) error {
	for _, p := range passes {
		if !p.Prepare(opts) {
			continue
		}
		if s.Flags&scene.NonVerboseFormat != 0 {
			return &errs.PostProcessError{Pass: "postprocess", Msg: "scene has NonVerboseFormat set; run the importer's de-indexing step first"}
		}
		if err := p.Process(s, opts); err != nil {
			return err
		}
	}
	return nil
}
