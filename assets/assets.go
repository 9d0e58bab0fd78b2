// Package assets picks the background photograph and music track for a
// render from the configured asset directories.
package assets

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

var (
	imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}
	audioExts = map[string]bool{".mp3": true, ".wav": true, ".ogg": true, ".flac": true, ".m4a": true}
)

// Picker selects random assets per run. The rng is injected so runs can
// be reproduced from a seed.
type Picker struct {
	backgroundsDir string
	musicDir       string
	rng            *rand.Rand
}

// NewPicker creates a Picker over the configured asset directories.
func NewPicker(backgroundsDir, musicDir string, rng *rand.Rand) *Picker {
	return &Picker{backgroundsDir: backgroundsDir, musicDir: musicDir, rng: rng}
}

// Background returns a random photograph path. No usable background is
// a hard failure: no frame can be produced without one.
func (p *Picker) Background() (string, error) {
	files, err := listByExt(p.backgroundsDir, imageExts)
	if err != nil {
		return "", fmt.Errorf("background dir %s: %w", p.backgroundsDir, err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no background images in %s", p.backgroundsDir)
	}
	pick := files[p.rng.Intn(len(files))]
	log.Printf("[assets] Background: %s", filepath.Base(pick))
	return pick, nil
}

// Music returns a random track path, or ok=false when the music
// directory is missing or empty. Music is optional: the render
// continues without it.
func (p *Picker) Music() (string, bool) {
	files, err := listByExt(p.musicDir, audioExts)
	if err != nil || len(files) == 0 {
		log.Printf("[assets] Warning: no music tracks in %s — rendering without music", p.musicDir)
		return "", false
	}
	pick := files[p.rng.Intn(len(files))]
	log.Printf("[assets] Music: %s", filepath.Base(pick))
	return pick, true
}

func listByExt(dir string, exts map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if exts[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}
