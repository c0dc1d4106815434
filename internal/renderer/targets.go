package renderer

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// PassTarget is one ping-pong color slot (passA/passB), the Go analogue of
// app.rs's PassTarget. Its format always matches the surface so the final
// frame can be copied straight onto the acquired swapchain texture.
type PassTarget struct {
	Texture hal.Texture
	View    hal.TextureView
}

// ComputeTarget is one ping-pong slot used while draining a batch of queued
// compute commands (compute_target_a/compute_target_b in app.rs). It carries
// STORAGE_BINDING so a ComputablePipeline can bind it as a storage texture
// as well as a render-attachment/copy source.
type ComputeTarget struct {
	Texture hal.Texture
	View    hal.TextureView
}

func createPassTarget(device hal.Device, width, height uint32, format gputypes.TextureFormat, label string) (*PassTarget, error) {
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage: gputypes.TextureUsageRenderAttachment |
			gputypes.TextureUsageTextureBinding |
			gputypes.TextureUsageCopyDst |
			gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create pass target %q: %w", label, err)
	}
	view, err := tex.CreateView(&hal.TextureViewDescriptor{Label: label + "_view"})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("create pass target view %q: %w", label, err)
	}
	return &PassTarget{Texture: tex, View: view}, nil
}

func createComputeTarget(device hal.Device, width, height uint32, label string) (*ComputeTarget, error) {
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage: gputypes.TextureUsageRenderAttachment |
			gputypes.TextureUsageTextureBinding |
			gputypes.TextureUsageStorageBinding |
			gputypes.TextureUsageCopyDst |
			gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create compute target %q: %w", label, err)
	}
	view, err := tex.CreateView(&hal.TextureViewDescriptor{Label: label + "_view"})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("create compute target view %q: %w", label, err)
	}
	return &ComputeTarget{Texture: tex, View: view}, nil
}

func createMSAATarget(device hal.Device, width, height uint32, sampleCount uint32, format gputypes.TextureFormat) (hal.Texture, hal.TextureView, error) {
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "tessera_msaa",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   sampleCount,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create msaa texture: %w", err)
	}
	view, err := tex.CreateView(&hal.TextureViewDescriptor{Label: "tessera_msaa_view"})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, nil, fmt.Errorf("create msaa view: %w", err)
	}
	return tex, view, nil
}

func destroyPassTarget(device hal.Device, t *PassTarget) {
	if t == nil || t.Texture == nil {
		return
	}
	device.DestroyTexture(t.Texture)
}

func destroyComputeTarget(device hal.Device, t *ComputeTarget) {
	if t == nil || t.Texture == nil {
		return
	}
	device.DestroyTexture(t.Texture)
}
