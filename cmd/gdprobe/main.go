// Command gdprobe checks a GPU transfer path end to end. It opens a HAL
// device, writes a test pattern into a texture and a buffer through gd,
// reads both back and reports mismatches and staging statistics.
//
// Usage:
//
//	gdprobe [-config probe.toml] [-backend vulkan|noop] [-width N] [-height N]
//	        [-format RGBAu8] [-dump out.bmp] [-v]
//
// The noop backend exercises the call path only; it does not keep data, so
// mismatches are reported but do not fail the run.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/NuttawutSanuk/gd"
	"github.com/NuttawutSanuk/gd/backend/webgpu"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML configuration file")
		backend    = flag.String("backend", "", "HAL backend: vulkan or noop")
		width      = flag.Int("width", 0, "texture width")
		height     = flag.Int("height", 0, "texture height")
		format     = flag.String("format", "", "texture format, e.g. RGBAu8 or RGBAf32")
		dump       = flag.String("dump", "", "write the read-back texture as BMP (8-bit RGBA formats only)")
		verbose    = flag.Bool("v", false, "log gd debug output to stderr")
	)
	flag.Parse()

	cfg := defaultConfig()
	if *configPath != "" {
		if err := loadConfig(*configPath, &cfg); err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Backend = *backend
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "format":
			cfg.Format = *format
		}
	})
	if err := cfg.validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	if *verbose {
		gd.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	ok, err := run(cfg, *dump)
	if err != nil {
		log.Fatal(err)
	}
	if !ok && cfg.Backend != "noop" {
		os.Exit(1)
	}
}

// halBackend is the part of a HAL backend the probe needs.
type halBackend interface {
	CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error)
}

// openHAL opens the first hardware adapter of the named backend, preferring
// discrete and integrated GPUs.
func openHAL(name string) (hal.Device, hal.Queue, func(), error) {
	var api halBackend
	switch name {
	case "noop":
		api = &noop.API{}
	default:
		b, ok := hal.GetBackend(gputypes.BackendVulkan)
		if !ok {
			return nil, nil, nil, fmt.Errorf("vulkan backend not available")
		}
		api = b
	}
	instance, err := api.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, nil, nil, fmt.Errorf("no GPU adapters found")
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, nil, nil, fmt.Errorf("open device: %w", err)
	}
	log.Printf("gdprobe: using %s (%s)", selected.Info.Name, name)
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup, nil
}

// run performs the round trips and reports whether both matched.
func run(cfg config, dumpPath string) (bool, error) {
	format, _ := cfg.textureFormat()
	tf, ok := webgpu.TranslateFormat(format)
	if !ok {
		return false, fmt.Errorf("format %v has no WebGPU equivalent", format)
	}
	opts, _ := cfg.options()

	device, queue, cleanup, err := openHAL(cfg.Backend)
	if err != nil {
		return false, err
	}
	defer cleanup()

	dev, err := gd.CreateDevice(gd.DeviceWebGPU, webgpu.HAL{Device: device, Queue: queue}, opts...)
	if err != nil {
		return false, fmt.Errorf("create gd device: %w", err)
	}
	defer gd.ReleaseDevice()
	a := dev.(*webgpu.Adapter)

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "gdprobe_texture",
		Size:          hal.Extent3D{Width: uint32(cfg.Width), Height: uint32(cfg.Height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        tf,
		Usage:         gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return false, fmt.Errorf("create texture: %w", err)
	}
	defer device.DestroyTexture(tex)
	th := a.ImportTexture(tex)
	defer a.ForgetTexture(th)

	src := testPattern(cfg.Width, cfg.Height, format)
	if err := dev.WriteTexture(th, cfg.Width, cfg.Height, format, src); err != nil {
		return false, fmt.Errorf("write texture: %w", err)
	}
	got := make([]byte, len(src))
	if err := dev.ReadTexture(got, th, cfg.Width, cfg.Height, format); err != nil {
		return false, fmt.Errorf("read texture (%v): %w", gd.CodeOf(err), err)
	}
	texOK := report("texture", src, got)

	bufOK, err := probeBuffer(device, a, len(src))
	if err != nil {
		return false, err
	}

	log.Printf("gdprobe: texture staging %+v, buffer staging %+v", a.TextureStats(), a.BufferStats())

	if dumpPath != "" {
		if err := dumpBMP(dumpPath, got, cfg.Width, cfg.Height, format); err != nil {
			return false, err
		}
		log.Printf("gdprobe: wrote %s", dumpPath)
	}
	return texOK && bufOK, nil
}

func probeBuffer(device hal.Device, a *webgpu.Adapter, size int) (bool, error) {
	size = (size + 3) &^ 3
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "gdprobe_buffer",
		Size:  uint64(size),
		Usage: gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst | gputypes.BufferUsageStorage,
	})
	if err != nil {
		return false, fmt.Errorf("create buffer: %w", err)
	}
	defer device.DestroyBuffer(buf)
	bh := a.ImportBuffer(buf, uint64(size))
	defer a.ForgetBuffer(bh)

	src := make([]byte, size)
	for i := range src {
		src[i] = byte(i * 31)
	}
	if err := a.WriteBuffer(bh, src, gd.BufferCompute); err != nil {
		return false, fmt.Errorf("write buffer: %w", err)
	}
	got := make([]byte, size)
	if err := a.ReadBuffer(got, bh, gd.BufferCompute); err != nil {
		return false, fmt.Errorf("read buffer (%v): %w", gd.CodeOf(err), err)
	}
	return report("buffer", src, got), nil
}

// report logs the first mismatching byte, if any.
func report(what string, want, got []byte) bool {
	if bytes.Equal(want, got) {
		log.Printf("gdprobe: %s round trip ok (%d bytes)", what, len(want))
		return true
	}
	bad, first := 0, -1
	for i := range want {
		if want[i] != got[i] {
			if first < 0 {
				first = i
			}
			bad++
		}
	}
	log.Printf("gdprobe: %s round trip: %d of %d bytes differ, first at %d (want %#x, got %#x)",
		what, bad, len(want), first, want[first], got[first])
	return false
}
