// Package renderer turns a reordered command.Command stream into GPU work:
// a multi-pass ping-pong renderer that swaps color targets whenever a
// barrier forces a visibility boundary, draining any queued compute
// commands into the scene between passes the same way the upstream Rust
// renderer's app.rs::render does.
//
// The device/queue/texture plumbing is grounded on the real
// github.com/gogpu/wgpu hal package and github.com/gogpu/gputypes: a
// device/queue-owning session struct with a single command encoder and
// fence-gated submit per frame, and a RecordPath-style contract where a
// pipeline records into an externally-owned render pass — exactly the
// DrawablePipeline/ComputablePipeline contract below.
package renderer

import (
	"context"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/tessera-ui/tessera/internal/command"
	"github.com/tessera-ui/tessera/internal/reorder"
	"github.com/tessera-ui/tessera/internal/tlog"
	"github.com/tessera-ui/tessera/internal/units"
)

// SurfaceFrame is the swapchain texture the caller has already acquired for
// this frame (via its own WindowAdapter) and will present after RenderFrame
// returns successfully. The renderer never acquires or presents surfaces
// itself — window/surface lifecycle belongs to internal/frame, not here.
type SurfaceFrame struct {
	Texture hal.Texture
	View    hal.TextureView
}

// Renderer owns the ping-pong pass targets, the compute drain targets, the
// optional MSAA target, and the pipeline registry, and executes one frame's
// reordered command stream against them.
type Renderer struct {
	device hal.Device
	queue  hal.Queue

	registry *PipelineRegistry

	surfaceFormat gputypes.TextureFormat
	sampleCount   uint32

	width, height uint32

	passA, passB         *PassTarget
	computeA, computeB   *ComputeTarget
	msaaTexture          hal.Texture
	msaaView             hal.TextureView

	// pendingCompute holds compute commands queued since the last barrier
	// boundary drained them, the analogue of WgpuApp.compute_commands.
	// Anything still pending when RenderFrame returns is a pipeline bug
	// (a barrier never arrived to flush it) and is logged, not silently
	// dropped, on the next frame — matching app.rs's own warning.
	pendingCompute []command.ComputeCommand
}

// New constructs a Renderer against an already-created device/queue and
// pipeline registry. Pass targets are not allocated until the first
// RenderFrame/Resize call supplies concrete dimensions.
func New(device hal.Device, queue hal.Queue, registry *PipelineRegistry, surfaceFormat gputypes.TextureFormat, sampleCount uint32) *Renderer {
	return &Renderer{
		device:        device,
		queue:         queue,
		registry:      registry,
		surfaceFormat: surfaceFormat,
		sampleCount:   sampleCount,
	}
}

// Resize (re)allocates every ping-pong, compute, and MSAA target for the
// given dimensions. A no-op if the dimensions are unchanged, mirroring
// WgpuApp::resize_pass_targets_if_needed's size_changed guard.
func (r *Renderer) Resize(width, height uint32) error {
	if width == r.width && height == r.height && r.passA != nil {
		return nil
	}
	r.destroyTargets()

	var err error
	if r.passA, err = createPassTarget(r.device, width, height, r.surfaceFormat, "tessera_pass_a"); err != nil {
		return err
	}
	if r.passB, err = createPassTarget(r.device, width, height, r.surfaceFormat, "tessera_pass_b"); err != nil {
		return err
	}
	if r.computeA, err = createComputeTarget(r.device, width, height, "tessera_compute_a"); err != nil {
		return err
	}
	if r.computeB, err = createComputeTarget(r.device, width, height, "tessera_compute_b"); err != nil {
		return err
	}
	if r.sampleCount > 1 {
		if r.msaaTexture, r.msaaView, err = createMSAATarget(r.device, width, height, r.sampleCount, r.surfaceFormat); err != nil {
			return err
		}
	}
	r.width, r.height = width, height
	return nil
}

func (r *Renderer) destroyTargets() {
	destroyPassTarget(r.device, r.passA)
	destroyPassTarget(r.device, r.passB)
	destroyComputeTarget(r.device, r.computeA)
	destroyComputeTarget(r.device, r.computeB)
	if r.msaaTexture != nil {
		r.device.DestroyTexture(r.msaaTexture)
		r.msaaTexture, r.msaaView = nil, nil
	}
}

// Destroy releases every GPU resource the Renderer owns. The device, queue,
// and pipeline registry are caller-owned and untouched.
func (r *Renderer) Destroy() {
	r.destroyTargets()
}

// RenderFrame is the literal per-frame procedure from app.rs::render,
// generalized over the tagged command.Command interface instead of the
// concrete Command::Draw/Command::Compute enum: reorder, clear, drain
// continuation draws into batched render passes, swap-copy-compute at every
// barrier, and blit the final ping-pong target onto the caller's surface.
func (r *Renderer) RenderFrame(ctx context.Context, cmds []command.Command, dest SurfaceFrame) error {
	if r.passA == nil {
		return fmt.Errorf("renderer: RenderFrame called before Resize")
	}
	if len(r.pendingCompute) != 0 {
		tlog.Warn(tlog.TagRenderer, "%d compute commands were never drained by a barrier last frame", len(r.pendingCompute))
		r.pendingCompute = r.pendingCompute[:0]
	}

	surfaceRect := units.PxRect{Left: 0, Top: 0, Right: units.Px(r.width), Bottom: units.Px(r.height)}
	ordered := reorder.Reorder(cmds, surfaceRect)

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "tessera_frame"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}

	read, write := r.passA, r.passB

	if err := r.clearPass(encoder, write); err != nil {
		return err
	}
	if err := r.registry.beginAllFrames(r.device, r.queue); err != nil {
		return err
	}

	sceneView := read.View
	i := 0
	for i < len(ordered) {
		cmd := ordered[i]

		if cmd.Barrier().Kind != command.BarrierNone {
			read, write = write, read
			encoder.CopyTextureToTexture(
				hal.ImageCopyTexture{Texture: read.Texture},
				hal.ImageCopyTexture{Texture: write.Texture},
				hal.Extent3D{Width: r.width, Height: r.height, DepthOrArrayLayers: 1},
			)
			if len(r.pendingCompute) > 0 {
				drained := r.pendingCompute
				r.pendingCompute = nil
				finalView, err := r.drainCompute(ctx, encoder, read.View, drained)
				if err != nil {
					return err
				}
				sceneView = finalView
			} else {
				sceneView = read.View
			}
		}

		if cmd.IsCompute() {
			computeCmd, ok := cmd.(command.ComputeCommand)
			if !ok {
				return fmt.Errorf("renderer: command reports IsCompute but is not a command.ComputeCommand")
			}
			r.pendingCompute = append(r.pendingCompute, computeCmd)
			i++
			continue
		}

		drawCmd, ok := cmd.(command.DrawCommand)
		if !ok {
			return fmt.Errorf("renderer: command does not report compute but is not a command.DrawCommand")
		}
		batchEnd, err := r.runDrawBatch(ctx, encoder, write, sceneView, ordered, i)
		if err != nil {
			return err
		}
		_ = drawCmd
		i = batchEnd
	}

	if err := r.registry.endAllFrames(r.device, r.queue); err != nil {
		return err
	}

	encoder.CopyTextureToTexture(
		hal.ImageCopyTexture{Texture: write.Texture},
		hal.ImageCopyTexture{Texture: dest.Texture},
		hal.Extent3D{Width: r.width, Height: r.height, DepthOrArrayLayers: 1},
	)

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, nil, 0); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	return nil
}

// runDrawBatch opens one render pass against write's color attachment
// (resolving from the MSAA target when enabled), submits cmd plus every
// immediately-following ContinuationDraw-or-same-barrierless draw in
// ordered[from:], and returns the index just past the batch — the Go
// analogue of app.rs::render's `while let Some(Command::Draw(...)) = peek()`
// loop.
func (r *Renderer) runDrawBatch(ctx context.Context, encoder hal.CommandEncoder, write *PassTarget, sceneView hal.TextureView, ordered []command.Command, from int) (int, error) {
	view := write.View
	var resolveTarget hal.TextureView
	if r.msaaView != nil {
		view = r.msaaView
		resolveTarget = write.View
	}

	pass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "tessera_draw_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:          view,
			ResolveTarget: resolveTarget,
			LoadOp:        gputypes.LoadOpLoad,
			StoreOp:       gputypes.StoreOpStore,
		}},
	})
	dctx := &DrawContext{Encoder: encoder, Pass: pass, SceneView: sceneView}

	i := from
	for i < len(ordered) {
		cmd := ordered[i]
		if cmd.IsCompute() {
			break
		}
		drawCmd := cmd.(command.DrawCommand)
		if i != from && drawCmd.Barrier().Kind != command.BarrierNone {
			break
		}
		pipeline, ok := r.registry.lookupDrawable(drawCmd.TypeID)
		if !ok {
			pass.End()
			return i, fmt.Errorf("renderer: no DrawablePipeline registered for %s", drawCmd.TypeID)
		}
		dctx.Clip, dctx.HasClip = drawCmd.Clip, drawCmd.HasClip
		if err := pipeline.Draw(dctx, drawCmd); err != nil {
			pass.End()
			return i, fmt.Errorf("draw %s: %w", drawCmd.TypeID, err)
		}
		i++
	}
	pass.End()
	return i, nil
}

// drainCompute runs every queued compute command through its
// ComputablePipeline, ping-ponging between computeA/computeB exactly as
// app.rs::do_compute does, and returns the view holding the final result.
func (r *Renderer) drainCompute(ctx context.Context, encoder hal.CommandEncoder, sceneView hal.TextureView, cmds []command.ComputeCommand) (hal.TextureView, error) {
	if len(cmds) == 0 {
		return sceneView, nil
	}

	readView := sceneView
	write, read := r.computeA, r.computeB

	for _, cmd := range cmds {
		clearPass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
			Label: "tessera_compute_target_clear",
			ColorAttachments: []hal.RenderPassColorAttachment{{
				View:       write.View,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
			}},
		})
		clearPass.End()

		pipeline, ok := r.registry.lookupComputable(cmd.TypeID)
		if !ok {
			return nil, fmt.Errorf("renderer: no ComputablePipeline registered for %s", cmd.TypeID)
		}
		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "tessera_compute_pass"})
		cctx := &ComputeContext{Encoder: encoder, Pass: pass, ReadView: readView, WriteView: write.View, Clip: cmd.Clip, HasClip: cmd.HasClip}
		if err := pipeline.Dispatch(cctx, cmd); err != nil {
			pass.End()
			return nil, fmt.Errorf("dispatch %s: %w", cmd.TypeID, err)
		}
		pass.End()

		readView = write.View
		write, read = read, write
	}
	_ = read
	return readView, nil
}

func (r *Renderer) clearPass(encoder hal.CommandEncoder, write *PassTarget) error {
	view := write.View
	var resolveTarget hal.TextureView
	if r.msaaView != nil {
		view = r.msaaView
		resolveTarget = write.View
	}
	pass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "tessera_initial_clear",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:          view,
			ResolveTarget: resolveTarget,
			LoadOp:        gputypes.LoadOpClear,
			StoreOp:       gputypes.StoreOpStore,
			ClearValue:    gputypes.Color{R: 0, G: 0, B: 0, A: 0},
		}},
	})
	pass.End()
	return nil
}
