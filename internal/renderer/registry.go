package renderer

import (
	"fmt"
	"sync"

	"github.com/gogpu/wgpu/hal"

	"github.com/tessera-ui/tessera/internal/command"
	"github.com/tessera-ui/tessera/internal/units"
)

// DrawContext is everything a DrawablePipeline needs to record into the
// render pass the Renderer already opened for it. SceneView is the ping-pong
// texture view holding the frame-so-far, for pipelines (like a blur) that
// sample back what has already been painted. Clip is the rect accumulated
// from every ancestor that enabled clipping (valid only when HasClip is
// true); a pipeline that draws or samples outside it must scissor or
// discard accordingly, and the rect's own edge is excluded from what's
// visible.
type DrawContext struct {
	Encoder   hal.CommandEncoder
	Pass      hal.RenderPassEncoder
	SceneView hal.TextureView
	Clip      units.PxRect
	HasClip   bool
}

// ComputeContext is everything a ComputablePipeline needs to dispatch into
// the compute pass the Renderer already opened for it.
type ComputeContext struct {
	Encoder  hal.CommandEncoder
	Pass     hal.ComputePassEncoder
	ReadView hal.TextureView
	// WriteView is the ping-pong slot this dispatch's output must land in;
	// the Renderer swaps compute_target_a/b between dispatches exactly as
	// app.rs::do_compute does.
	WriteView hal.TextureView
	Clip      units.PxRect
	HasClip   bool
}

// DrawablePipeline records one command.DrawCommand's payload into an
// already-open render pass. Implementations type-assert cmd.Payload to
// their own concrete shape.
type DrawablePipeline interface {
	Draw(ctx *DrawContext, cmd command.DrawCommand) error
}

// ComputablePipeline dispatches one command.ComputeCommand's payload into an
// already-open compute pass.
type ComputablePipeline interface {
	Dispatch(ctx *ComputeContext, cmd command.ComputeCommand) error
}

// FrameBeginner and FrameEnder are optional hooks a pipeline may implement
// to allocate/release once-per-frame resources, mirroring
// ComputePipelineRegistry::begin_all_frames/end_all_frames in app.rs.
type FrameBeginner interface {
	BeginFrame(device hal.Device, queue hal.Queue) error
}
type FrameEnder interface {
	EndFrame(device hal.Device, queue hal.Queue) error
}

// PipelineRegistry maps a command's PipelineTypeID to the concrete
// Drawable/ComputablePipeline instance that knows how to record it, the Go
// analogue of Drawer::pipelines and ComputePipelineRegistry::pipelines.
type PipelineRegistry struct {
	mu       sync.RWMutex
	drawable map[string]DrawablePipeline
	compute  map[string]ComputablePipeline
}

func NewPipelineRegistry() *PipelineRegistry {
	return &PipelineRegistry{
		drawable: make(map[string]DrawablePipeline),
		compute:  make(map[string]ComputablePipeline),
	}
}

// RegisterDrawable binds a DrawablePipeline to the PipelineTypeID of the
// payload type C, the analogue of Drawer::register_pipeline<C>.
func RegisterDrawable[C any](r *PipelineRegistry, pipeline DrawablePipeline) {
	var zero C
	id := command.TypeIDOf(zero).String()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drawable[id] = pipeline
}

// RegisterComputable binds a ComputablePipeline to the PipelineTypeID of the
// payload type C.
func RegisterComputable[C any](r *PipelineRegistry, pipeline ComputablePipeline) {
	var zero C
	id := command.TypeIDOf(zero).String()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compute[id] = pipeline
}

func (r *PipelineRegistry) lookupDrawable(id command.PipelineTypeID) (DrawablePipeline, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.drawable[id.String()]
	return p, ok
}

func (r *PipelineRegistry) lookupComputable(id command.PipelineTypeID) (ComputablePipeline, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.compute[id.String()]
	return p, ok
}

// beginAllFrames calls BeginFrame on every registered pipeline that
// implements FrameBeginner, in registration-independent (map) order; a
// pipeline without per-frame setup simply doesn't implement the interface.
func (r *PipelineRegistry) beginAllFrames(device hal.Device, queue hal.Queue) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, p := range r.drawable {
		if fb, ok := p.(FrameBeginner); ok {
			if err := fb.BeginFrame(device, queue); err != nil {
				return fmt.Errorf("begin frame for drawable %s: %w", id, err)
			}
		}
	}
	for id, p := range r.compute {
		if fb, ok := p.(FrameBeginner); ok {
			if err := fb.BeginFrame(device, queue); err != nil {
				return fmt.Errorf("begin frame for computable %s: %w", id, err)
			}
		}
	}
	return nil
}

func (r *PipelineRegistry) endAllFrames(device hal.Device, queue hal.Queue) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, p := range r.drawable {
		if fe, ok := p.(FrameEnder); ok {
			if err := fe.EndFrame(device, queue); err != nil {
				return fmt.Errorf("end frame for drawable %s: %w", id, err)
			}
		}
	}
	for id, p := range r.compute {
		if fe, ok := p.(FrameEnder); ok {
			if err := fe.EndFrame(device, queue); err != nil {
				return fmt.Errorf("end frame for computable %s: %w", id, err)
			}
		}
	}
	return nil
}
