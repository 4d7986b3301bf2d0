package slidedom

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// faceKey identifies a sized face.
type faceKey struct {
	name   string
	size   float64
	bold   bool
	italic bool
}

// FontCache loads TrueType/OpenType fonts from disk and caches unhinted
// faces for measurement. It is safe for concurrent use.
type FontCache struct {
	mu      sync.RWMutex
	dirs    []string
	fonts   map[string]*opentype.Font // lowercase name -> parsed font
	faces   map[faceKey]font.Face
	scanned bool
}

// NewFontCache creates a cache that searches extraDirs and the OS font
// directories. Directories are scanned on first lookup.
func NewFontCache(extraDirs ...string) *FontCache {
	return &FontCache{
		dirs:  append(systemFontDirs(), extraDirs...),
		fonts: make(map[string]*opentype.Font),
		faces: make(map[faceKey]font.Face),
	}
}

// Face returns an unhinted face for the named font, or false when no
// matching font file is known.
func (fc *FontCache) Face(name string, sizePt float64, bold, italic bool) (font.Face, bool) {
	fc.ensureScanned()

	key := faceKey{name: strings.ToLower(name), size: sizePt, bold: bold, italic: italic}
	fc.mu.RLock()
	face, ok := fc.faces[key]
	fc.mu.RUnlock()
	if ok {
		return face, true
	}

	f := fc.find(key.name, bold, italic)
	if f == nil {
		return nil, false
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    sizePt,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, false
	}

	fc.mu.Lock()
	fc.faces[key] = face
	fc.mu.Unlock()
	return face, true
}

// Style suffixes tried before the plain name. Windows ships "arialbd",
// "arialbi", "ariali"; other platforms use family-style names.
var (
	boldItalicSuffixes = []string{" bold italic", "bi", " bolditalic", "z"}
	boldSuffixes       = []string{" bold", "bd", "b"}
	italicSuffixes     = []string{" italic", "i", " it"}
)

func (fc *FontCache) find(lower string, bold, italic bool) *opentype.Font {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	if f := fc.findStyled(lower, bold, italic); f != nil {
		return f
	}
	if alias, ok := eastAsianFontAliases[lower]; ok {
		return fc.findStyled(alias, bold, italic)
	}
	return nil
}

func (fc *FontCache) findStyled(lower string, bold, italic bool) *opentype.Font {
	var tries [][]string
	if bold && italic {
		tries = append(tries, boldItalicSuffixes)
	}
	if bold {
		tries = append(tries, boldSuffixes)
	}
	if italic {
		tries = append(tries, italicSuffixes)
	}
	for _, suffixes := range tries {
		for _, s := range suffixes {
			if f, ok := fc.fonts[lower+s]; ok {
				return f
			}
		}
	}
	return fc.fonts[lower]
}

// LoadFont registers the font file at path under name.
func (fc *FontCache) LoadFont(name, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > maxFontFileSize {
		return fmt.Errorf("font file %s too large: %d bytes: %w", path, info.Size(), ErrFormat)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return fc.LoadFontData(name, data)
}

// LoadFontData registers a TrueType/OpenType font from raw bytes.
func (fc *FontCache) LoadFontData(name string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("font %q: %v: %w", name, err, ErrFormat)
	}
	fc.mu.Lock()
	fc.fonts[strings.ToLower(name)] = f
	fc.registerNames(f)
	fc.mu.Unlock()
	return nil
}

func (fc *FontCache) ensureScanned() {
	fc.mu.RLock()
	scanned := fc.scanned
	fc.mu.RUnlock()
	if scanned {
		return
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.scanned {
		return
	}
	fc.scanned = true
	for _, dir := range fc.dirs {
		fc.scanDir(dir, 0)
	}
}

const (
	maxFontScanDepth = 3
	maxFontFileSize  = 20 << 20
)

// scanDir loads every font file below dir. Called with mu held.
func (fc *FontCache) scanDir(dir string, depth int) {
	if depth > maxFontScanDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			fc.scanDir(path, depth+1)
			continue
		}
		lower := strings.ToLower(entry.Name())
		ext := filepath.Ext(lower)
		switch ext {
		case ".ttf", ".otf", ".ttc", ".otc":
		default:
			continue
		}
		info, err := entry.Info()
		if err != nil || info.Size() > maxFontFileSize {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		base := strings.TrimSuffix(lower, ext)
		if ext == ".ttc" || ext == ".otc" {
			fc.loadCollection(data, base)
		} else if f, err := opentype.Parse(data); err == nil {
			fc.fonts[base] = f
			fc.registerNames(f)
		}
	}
}

// loadCollection registers each font of a TTC/OTC by its family names and
// the first one also by file name.
func (fc *FontCache) loadCollection(data []byte, base string) {
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return
	}
	for i := range coll.NumFonts() {
		f, err := coll.Font(i)
		if err != nil {
			continue
		}
		if i == 0 {
			fc.fonts[base] = f
		}
		fc.registerNames(f)
	}
}

// eastAsianFontAliases maps localized font names used in slides to the
// family names the font files carry.
var eastAsianFontAliases = map[string]string{
	"宋体":      "simsun",
	"黑体":      "simhei",
	"微软雅黑":    "microsoft yahei",
	"微软雅黑 ui": "microsoft yahei ui",
	"楷体":      "kaiti",
	"仿宋":      "fangsong",
	"新宋体":     "nsimsun",
	"等线":      "dengxian",
	"游ゴシック":   "yu gothic",
	"ＭＳ ゴシック": "ms gothic",
	"ＭＳ 明朝":   "ms mincho",
	"맑은 고딕":   "malgun gothic",
}

// registerNames indexes f by its family and full names.
func (fc *FontCache) registerNames(f *opentype.Font) {
	for _, id := range []sfnt.NameID{sfnt.NameIDFamily, sfnt.NameIDFull} {
		if name, err := f.Name(nil, id); err == nil && name != "" {
			fc.fonts[strings.ToLower(name)] = f
		}
	}
}

func systemFontDirs() []string {
	home, _ := os.UserHomeDir()
	var dirs []string
	switch runtime.GOOS {
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		dirs = []string{filepath.Join(windir, "Fonts")}
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
	case "darwin":
		dirs = []string{"/System/Library/Fonts", "/Library/Fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
	default:
		dirs = []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".local", "share", "fonts"), filepath.Join(home, ".fonts"))
		}
	}
	return dirs
}
