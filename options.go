package lines

// Option configures a SoftwareRenderer during creation.
//
// Example:
//
//	// Default: GOMAXPROCS workers, freshly allocated pixmap.
//	r := lines.NewSoftwareRenderer(800, 600)
//
//	// Single-threaded, rendering into an existing pixmap.
//	r := lines.NewSoftwareRenderer(800, 600,
//		lines.WithWorkers(1), lines.WithPixmap(pm))
type Option func(*rendererOptions)

// rendererOptions holds optional configuration for renderer creation.
type rendererOptions struct {
	workers int
	pixmap  *Pixmap
}

// defaultOptions returns the default renderer options.
func defaultOptions() rendererOptions {
	return rendererOptions{
		workers: 0,   // 0 means GOMAXPROCS
		pixmap:  nil, // allocated by the renderer if nil
	}
}

// WithWorkers sets the number of rasterization workers.
// Values <= 0 select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *rendererOptions) {
		o.workers = n
	}
}

// WithPixmap renders into an existing pixmap instead of allocating one.
// The pixmap dimensions must match the renderer dimensions.
func WithPixmap(pm *Pixmap) Option {
	return func(o *rendererOptions) {
		o.pixmap = pm
	}
}
