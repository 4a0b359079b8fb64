package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"cellquest/config"
	"cellquest/content"
	"cellquest/utils/images"
)

// maxPresent limits number of neighbour files reported in diagnostics.
const maxPresent = 20

// Asset is a successfully loaded chapter image.
type Asset struct {
	Key content.ImageKey
	// Path is the candidate that loaded, without cache-busting suffix.
	Path string
	// Format is detected content format, which may differ from extension.
	Format string
	Image  image.Image
}

// Resolver finds chapter images. It keeps no state between calls except
// cache-busting version counter and is safe for concurrent use.
type Resolver struct {
	bases   map[content.ImageKey]string
	exts    []string
	timeout time.Duration
	loader  Loader
	log     *zap.Logger

	svgW, svgH int
	now        func() time.Time

	mu          sync.Mutex
	lastVersion int64
}

type ResolverOption func(*Resolver)

// WithClock replaces time source used for cache-busting versions.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		r.now = now
	}
}

// WithSVGBox sets box SVG candidates are rasterized into.
func WithSVGBox(w, h int) ResolverOption {
	return func(r *Resolver) {
		r.svgW, r.svgH = w, h
	}
}

// NewResolver creates resolver for images configured in cfg.
func NewResolver(cfg *config.AssetsConfig, loader Loader, log *zap.Logger, options ...ResolverOption) *Resolver {
	r := &Resolver{
		bases:   make(map[content.ImageKey]string, len(cfg.Images)),
		exts:    append([]string(nil), cfg.Extensions...),
		timeout: cfg.LoadTimeout,
		loader:  loader,
		log:     log.Named("assets"),
		now:     time.Now,
	}
	for k, v := range cfg.Images {
		r.bases[content.ImageKey(k)] = v
	}
	if len(r.exts) == 0 {
		r.exts = DefaultExtensions
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Base returns base path configured for key.
func (r *Resolver) Base(key content.ImageKey) (string, bool) {
	base, ok := r.bases[key]
	return base, ok
}

// Loader returns loader candidates are fetched with.
func (r *Resolver) Loader() Loader {
	return r.loader
}

// Resolve probes candidates of key strictly one after another and returns the
// first one which loads. Returns *UnknownKeyError for keys absent from
// configuration, *NotFoundError when every candidate failed and context error
// if ctx is done before resolution finishes.
func (r *Resolver) Resolve(ctx context.Context, key content.ImageKey) (*Asset, error) {
	base, ok := r.bases[key]
	if !ok {
		return nil, &UnknownKeyError{Key: key}
	}

	candidates := Candidates(base, r.exts)

	var errs error
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		asset, err := r.attempt(ctx, key, candidate)
		if err == nil {
			r.log.Debug("Image resolved", zap.String("key", string(key)), zap.String("path", asset.Path), zap.String("format", asset.Format))
			return asset, nil
		}
		if ctx.Err() != nil {
			// abandoned, not a candidate failure
			return nil, ctx.Err()
		}
		r.log.Debug("Candidate failed", zap.String("key", string(key)), zap.String("path", candidate), zap.Error(err))
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", candidate, err))
	}

	nf := &NotFoundError{Key: key, Base: base, Attempts: candidates, Err: errs}
	if l, ok := r.loader.(Lister); ok {
		nf.Present = r.present(ctx, l, base)
	}
	r.log.Warn("Unable to load image", zap.String("key", string(key)), zap.Strings("tried", candidates), zap.Error(errs))
	return nil, nf
}

func (r *Resolver) attempt(ctx context.Context, key content.ImageKey, candidate string) (*Asset, error) {
	actx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	data, err := r.loader.Fetch(actx, candidate, r.version())
	if err != nil {
		if ctx.Err() == nil && errors.Is(actx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("no answer in %s: %w", r.timeout, ErrLoadTimeout)
		}
		return nil, err
	}

	img, format, err := images.Decode(data, r.svgW, r.svgH)
	if err != nil {
		return nil, err
	}
	if ext := path.Ext(candidate); !images.SameFormat(ext, format) {
		r.log.Warn("Image content does not match its extension", zap.String("path", candidate), zap.String("format", format))
	}
	return &Asset{Key: key, Path: candidate, Format: format, Image: img}, nil
}

// version returns cache-busting token, strictly increasing even when clock
// does not move between attempts.
func (r *Resolver) version() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := r.now().UnixNano()
	if v <= r.lastVersion {
		v = r.lastVersion + 1
	}
	r.lastVersion = v
	return strconv.FormatInt(v, 10)
}

func (r *Resolver) present(ctx context.Context, l Lister, base string) []string {
	dir := path.Dir(base)
	names, err := l.List(ctx, dir)
	if err != nil {
		r.log.Debug("Unable to list image directory", zap.String("dir", dir), zap.Error(err))
		return nil
	}
	sort.Sort(natural.StringSlice(names))
	if len(names) > maxPresent {
		names = names[:maxPresent]
	}
	return names
}
