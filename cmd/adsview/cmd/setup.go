package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-drift/mobileads/pkg/ads"
	"github.com/go-drift/mobileads/pkg/config"
	adserrors "github.com/go-drift/mobileads/pkg/errors"
	"github.com/go-drift/mobileads/pkg/view"
)

// loadConfig resolves settings from --config or the working directory.
func loadConfig() (*config.Resolved, error) {
	var cfg *config.Config
	var source string
	if globals.configPath != "" {
		c, err := config.Load(globals.configPath)
		if err != nil {
			return nil, err
		}
		cfg, source = c, globals.configPath
	} else {
		dir, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		cfg, source, err = config.LoadOptional(dir)
		if err != nil {
			return nil, err
		}
	}
	if globals.debug {
		cfg.Debug = true
	}

	resolved, err := cfg.Resolve()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	resolved.Source = source
	return resolved, nil
}

// setupLogging installs the configured logger for errors and lifecycle
// output. The returned function flushes it.
func setupLogging(cfg *config.Resolved) (func(), error) {
	logger, err := adserrors.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	adserrors.SetLogger(logger)
	adserrors.SetHandler(&adserrors.LogHandler{Verbose: cfg.Debug})
	ads.SetLogger(logger)
	return func() { _ = logger.Sync() }, nil
}

// parseSize parses "WxH".
func parseSize(s string) (view.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return view.Size{}, fmt.Errorf("invalid size %q (want WIDTHxHEIGHT)", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil || width < 0 {
		return view.Size{}, fmt.Errorf("invalid width in %q", s)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height < 0 {
		return view.Size{}, fmt.Errorf("invalid height in %q", s)
	}
	return view.Size{Width: width, Height: height}, nil
}

// flagValue returns the value of "--name V" or "--name=V" at args[i] and
// how many arguments it consumed.
func flagValue(args []string, i int, name string) (string, int, bool, error) {
	arg := args[i]
	if arg == name {
		if i+1 >= len(args) {
			return "", 0, true, fmt.Errorf("%s requires a value", name)
		}
		return args[i+1], 2, true, nil
	}
	if v, ok := strings.CutPrefix(arg, name+"="); ok {
		return v, 1, true, nil
	}
	return "", 0, false, nil
}
