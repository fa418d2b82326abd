package export

import (
	"fmt"

	"emberpipe/internal/services"
)

// Kind identifies an export preset. The tag form is the stable external
// name used on the command line and in job records.
type Kind int

const (
	KindFlat1080pLandscape Kind = iota
	KindFlat1080pPortrait
	KindFlat4KLandscape
	KindFlat4KPortrait
	Kind360Mono4K
	Kind360Mono6K
	Kind360Mono8K
	Kind360Stereo8K
)

type kindInfo struct {
	tag    string
	width  int
	height int
	is360  bool
	stereo bool
}

// For 360 kinds width/height describe the delivered frame: the 2:1
// equirectangular panorama for mono, the square top-bottom stack for stereo.
var kinds = map[Kind]kindInfo{
	KindFlat1080pLandscape: {"flat-1080p-landscape", 1920, 1080, false, false},
	KindFlat1080pPortrait:  {"flat-1080p-portrait", 1080, 1920, false, false},
	KindFlat4KLandscape:    {"flat-4k-landscape", 3840, 2160, false, false},
	KindFlat4KPortrait:     {"flat-4k-portrait", 2160, 3840, false, false},
	Kind360Mono4K:          {"360-mono-4k", 4096, 2048, true, false},
	Kind360Mono6K:          {"360-mono-6k", 6144, 3072, true, false},
	Kind360Mono8K:          {"360-mono-8k", 8192, 4096, true, false},
	Kind360Stereo8K:        {"360-stereo-8k", 8192, 8192, true, true},
}

// Kinds returns every export kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindFlat1080pLandscape,
		KindFlat1080pPortrait,
		KindFlat4KLandscape,
		KindFlat4KPortrait,
		Kind360Mono4K,
		Kind360Mono6K,
		Kind360Mono8K,
		Kind360Stereo8K,
	}
}

// ParseKind resolves an export tag.
func ParseKind(tag string) (Kind, error) {
	for k, info := range kinds {
		if info.tag == tag {
			return k, nil
		}
	}
	return 0, services.Wrap(services.ErrValidation, "export", "parse_kind",
		fmt.Sprintf("unknown export kind %q", tag), nil)
}

// String returns the kind's tag.
func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.tag
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Resolution returns the delivered frame dimensions.
func (k Kind) Resolution() (width, height int) {
	info := kinds[k]
	return info.width, info.height
}

// Is360 reports whether the kind goes through the cubemap capture chain.
func (k Kind) Is360() bool {
	return kinds[k].is360
}

// IsStereo reports whether the kind captures two eyes per frame.
func (k Kind) IsStereo() bool {
	return kinds[k].stereo
}

// PanoramaWidth returns the equirectangular width a 360 kind projects to.
// For stereo this is the per-eye width, not the stacked frame height.
func (k Kind) PanoramaWidth() int {
	info := kinds[k]
	if !info.is360 {
		return 0
	}
	return info.width
}

// NeedsGPU reports whether the kind is heavy enough that a host would route
// it to hardware rendering: every 360 kind and flat 4K.
func (k Kind) NeedsGPU() bool {
	info := kinds[k]
	return info.is360 || info.width >= 3840 || info.height >= 3840
}
