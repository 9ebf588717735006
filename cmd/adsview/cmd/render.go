package cmd

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/go-drift/mobileads/pkg/ads"
	"github.com/go-drift/mobileads/pkg/view"
)

func init() {
	RegisterCommand(&Command{
		Name:  "render",
		Short: "Render the native ad template or an error view to PNG",
		Long: `Render the built-in native ad template, styled by the config file, to a
PNG image at its intrinsic size.

With --error, render the diagnostic error view shown for an unknown handle
instead. Without --debug the error view is empty and nothing is written.

Flags:
  --out FILE        output path (default: ad.png)
  --size SIZE       small or medium (default: from config)
  --headline TEXT   headline text
  --error N         render the error view for handle N`,
		Usage: "adsview render [--out FILE] [--size SIZE] [--headline TEXT] [--error N]",
		Run:   runRender,
	})
}

func runRender(args []string) error {
	out := "ad.png"
	headline := "Gophers wanted"
	size := ""
	errorHandle := -1

	for i := 0; i < len(args); {
		matched := false
		for _, name := range []string{"--out", "--size", "--headline", "--error"} {
			v, n, ok, err := flagValue(args, i, name)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			switch name {
			case "--out":
				out = v
			case "--size":
				size = v
			case "--headline":
				headline = v
			case "--error":
				if _, err := fmt.Sscan(v, &errorHandle); err != nil || errorHandle < 0 {
					return fmt.Errorf("--error must be a non-negative integer")
				}
			}
			i += n
			matched = true
			break
		}
		if !matched {
			return fmt.Errorf("unexpected argument %q", args[i])
		}
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

	var img *image.RGBA
	if errorHandle >= 0 {
		img, err = renderErrorView(cfg.Debug, errorHandle)
	} else {
		style := cfg.Template
		if size != "" {
			if style.Size, err = ads.ParseTemplateSize(size); err != nil {
				return err
			}
		}
		img = ads.NewTemplateSurface(style, ads.NativeAdAssets{
			Headline:     headline,
			Body:         "Build native ads in Go with adaptive sizing.",
			Advertiser:   "Drift",
			CallToAction: "Install",
			StarRating:   4.5,
		}).Render()
	}
	if err != nil {
		return err
	}
	if img.Bounds().Empty() {
		fmt.Println(dimStyle.Render("nothing to render (empty view)"))
		return nil
	}

	if err := writePNG(out, img); err != nil {
		return err
	}
	fmt.Printf("%s %s %dx%d\n", sizeStyle.Render("wrote"), out, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}

// renderErrorView renders what the factory returns for a handle nobody
// tracks.
func renderErrorView(debug bool, handle int) (*image.RGBA, error) {
	manager := ads.NewManager("adsview/render")
	manager.SetRenderingContext(view.NewContext("adsview"))
	factory := ads.NewViewFactory(manager, nil, ads.FactoryOptions{Debug: debug})
	pv := factory.CreateView(handle, handle)
	defer pv.Dispose()

	ev, ok := pv.(*ads.ErrorView)
	if !ok {
		return nil, fmt.Errorf("expected an error view, got %T", pv)
	}
	return ev.Render(), nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
