package cmd

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/go-drift/mobileads/pkg/ads"
	"github.com/go-drift/mobileads/pkg/config"
	adserrors "github.com/go-drift/mobileads/pkg/errors"
	"github.com/go-drift/mobileads/pkg/platform"
	"github.com/go-drift/mobileads/pkg/view"
)

const hostChannel = "adsview/platform_views"

func init() {
	RegisterCommand(&Command{
		Name:  "simulate",
		Short: "Create and resize an ad view against a simulated host",
		Long: `Simulate a host embedding one native ad.

The ad is rendered with the built-in template. simulate creates a platform
view for it, assigns each --slot size in turn, then grows the ad's content
and prints every call the host would receive.

Flags:
  --mode MODE       standard or autosizing (default: autosizing)
  --handle N        ad handle to load (default: 1)
  --request N       handle to request, to try unknown handles (default: --handle)
  --slot WxH        host slot size, repeatable (default: 320x50)`,
		Usage: "adsview simulate [--mode MODE] [--handle N] [--request N] [--slot WxH]...",
		Run:   runSimulate,
	})
}

type simulateOptions struct {
	mode    ads.Mode
	handle  int
	request int
	slots   []view.Size
}

func parseSimulateArgs(args []string) (simulateOptions, error) {
	opts := simulateOptions{mode: ads.ModeAutoSizing, handle: 1, request: -1}
	for i := 0; i < len(args); {
		consumed, err := parseSimulateFlag(&opts, args, i)
		if err != nil {
			return opts, err
		}
		if consumed == 0 {
			return opts, fmt.Errorf("unexpected argument %q", args[i])
		}
		i += consumed
	}
	if opts.request < 0 {
		opts.request = opts.handle
	}
	if len(opts.slots) == 0 {
		opts.slots = []view.Size{{Width: 320, Height: 50}}
	}
	return opts, nil
}

func parseSimulateFlag(opts *simulateOptions, args []string, i int) (int, error) {
	if v, n, ok, err := flagValue(args, i, "--mode"); ok || err != nil {
		if err != nil {
			return 0, err
		}
		switch m := ads.Mode(strings.ToLower(v)); m {
		case ads.ModeStandard, ads.ModeAutoSizing:
			opts.mode = m
		default:
			return 0, fmt.Errorf("unknown mode %q (use standard or autosizing)", v)
		}
		return n, nil
	}
	for _, name := range []string{"--handle", "--request"} {
		v, n, ok, err := flagValue(args, i, name)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		h, err := strconv.Atoi(v)
		if err != nil || h < 0 {
			return 0, fmt.Errorf("%s must be a non-negative integer", name)
		}
		if name == "--handle" {
			opts.handle = h
		} else {
			opts.request = h
		}
		return n, nil
	}
	if v, n, ok, err := flagValue(args, i, "--slot"); ok || err != nil {
		if err != nil {
			return 0, err
		}
		size, err := parseSize(v)
		if err != nil {
			return 0, err
		}
		opts.slots = append(opts.slots, size)
		return n, nil
	}
	return 0, nil
}

func runSimulate(args []string) error {
	opts, err := parseSimulateArgs(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	flush, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer flush()

	return simulate(os.Stdout, cfg, opts)
}

// consoleBridge stands in for the native side: it prints every outgoing
// channel call.
type consoleBridge struct {
	mu  sync.Mutex
	out io.Writer
}

func (b *consoleBridge) InvokeMethod(channel, method string, args []byte) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintf(b.out, "  %s %s %s\n",
		channelStyle.Render(channel),
		method,
		dimStyle.Render(string(args)))
	return platform.DefaultCodec.Encode(nil)
}

func simulate(out io.Writer, cfg *config.Resolved, opts simulateOptions) error {
	platform.SetNativeBridge(&consoleBridge{out: out})
	platform.RegisterDispatch(func(cb func()) { cb() })
	defer platform.SetNativeBridge(nil)

	manager := ads.NewManager(cfg.Channel)
	manager.SetRenderingContext(view.NewContext("adsview"))
	defer manager.Close()
	manager.AddSizeListener(ads.SizeChangedFunc(func(h ads.AdHandle, w, hgt int) {
		fmt.Fprintf(out, "%s handle=%d %s\n", sizeStyle.Render("size"), h, sizeStyle.Render(fmt.Sprintf("%dx%d", w, hgt)))
	}))

	factory := ads.NewViewFactory(manager, manager, ads.FactoryOptions{
		Debug:    cfg.Debug,
		ViewType: cfg.ViewType,
	})
	host := platform.NewPlatformViewRegistry(hostChannel)
	host.RegisterFactory(factory)
	defer host.Close()

	style := cfg.Template
	ad, err := ads.NewNativeAd(ads.NativeAdConfig{
		Handle:   ads.AdHandle(opts.handle),
		AdUnitID: "ca-app-pub-3940256099942544/2247696110",
		Template: &style,
		Request:  &ads.AdRequest{},
	})
	if err != nil {
		return err
	}
	if err := manager.TrackAd(ad); err != nil {
		return err
	}
	if err := ad.OnLoaded(ads.NativeAdAssets{
		Headline:     "Gophers wanted",
		Advertiser:   "Drift",
		CallToAction: "Install",
	}); err != nil {
		return err
	}

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("create handle=%d mode=%s", opts.request, opts.mode)))
	id, pv, err := host.Create(cfg.ViewType, map[string]any{"adId": opts.request, "mode": string(opts.mode)})
	if err != nil {
		return err
	}
	if ev, ok := pv.(*ads.ErrorView); ok {
		msg := ev.Text()
		if msg == "" {
			msg = "empty error view (enable --debug for details)"
		}
		fmt.Fprintln(out, errorStyle.Render(msg))
	}

	for _, slot := range opts.slots {
		fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("slot %dx%d", slot.Width, slot.Height)))
		if err := host.SetViewSize(id, slot); err != nil {
			return err
		}
		manager.Flush()
	}

	if surface, ok := ad.Surface().(*ads.TemplateSurface); ok {
		fmt.Fprintln(out, titleStyle.Render("content grows"))
		assets, _ := ad.Assets()
		assets.StarRating = 4.5
		assets.Body = "Build native ads in Go with adaptive sizing."
		surface.SetAssets(assets)
		manager.Flush()
	}

	fmt.Fprintln(out, titleStyle.Render("dispose"))
	host.Dispose(id)

	printErrorCounts(out)
	return nil
}

func printErrorCounts(out io.Writer) {
	counts := adserrors.Counts()
	if len(counts) == 0 {
		return
	}
	fmt.Fprintln(out, titleStyle.Render("errors reported"))
	for _, kind := range slices.Sorted(maps.Keys(counts)) {
		fmt.Fprintf(out, "  %s %d\n", errorStyle.Render(kind.String()), counts[kind])
	}
}
