// Package ads attaches loaded native ads to the host view hierarchy.
//
// A [ViewFactory] turns creation requests from the host into platform views.
// Each ad handle has at most one live [Binding], which owns the attachment of
// the ad's [Surface]. In auto-sizing mode the surface is wrapped so it can lay
// out at its intrinsic content size, and every distinct measured size is
// forwarded once to a [SizeChangedListener].
//
// Typical wiring at startup:
//
//	manager := ads.NewManager("plugins.flutter.io/google_mobile_ads")
//	manager.SetRenderingContext(view.NewContext("main"))
//	factory := ads.NewViewFactory(manager, manager, ads.FactoryOptions{})
//	host := platform.NewPlatformViewRegistry("drift/platform_views")
//	host.RegisterFactory(factory)
//
// Creation never fails across the host boundary: problems are reported
// through pkg/errors and an [ErrorView] is returned instead.
package ads
