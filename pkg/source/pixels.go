package source

import (
	"image"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// DirSource resolves layer ids to pixel buffers exported as PNG files in a
// directory. A layer id maps to a filename by replacing path separators with
// "__": layer "hero/photo" is read from "hero__photo.png".
//
// Loaded images are cached for the lifetime of the source; a composite walks
// the same ids the preview walked moments earlier. Safe for concurrent use.
type DirSource struct {
	dir string

	mu     sync.Mutex
	loaded map[string]image.Image
}

// NewDirSource returns a pixel source reading from dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir, loaded: make(map[string]image.Image)}
}

// Pixels implements the compositor's pixel lookup. A missing or unreadable
// file reports (nil, false); the compositor surfaces the skip itself.
func (s *DirSource) Pixels(id string) (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if img, ok := s.loaded[id]; ok {
		return img, img != nil
	}

	img, err := imaging.Open(filepath.Join(s.dir, FileNameForLayer(id)))
	if err != nil {
		// Negative result cached too: one diagnostic per composite, not
		// one disk probe per retry.
		s.loaded[id] = nil
		return nil, false
	}
	s.loaded[id] = img
	return img, true
}

// FileNameForLayer returns the on-disk PNG name for a layer id.
func FileNameForLayer(id string) string {
	return strings.ReplaceAll(id, "/", "__") + ".png"
}
