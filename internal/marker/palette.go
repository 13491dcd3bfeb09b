// Package marker maps input-method state to the color of the cursor marker
// and keeps the host's decoration in sync with it.
package marker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tessro/caretip/internal/imestate"
)

// Color is a marker color: a CSS color name caretip knows or a #rgb/#rrggbb hex.
type Color string

// Kind is which palette entry the marker currently shows.
type Kind int

const (
	KindInitial Kind = iota
	KindCaps
	KindCJK
	KindLatin
)

func (k Kind) String() string {
	switch k {
	case KindCaps:
		return "caps"
	case KindCJK:
		return "cjk"
	case KindLatin:
		return "latin"
	default:
		return "initial"
	}
}

// Palette holds the color for each kind.
type Palette struct {
	Initial Color `toml:"initial" yaml:"initial"`
	Caps    Color `toml:"caps" yaml:"caps"`
	CJK     Color `toml:"cjk" yaml:"cjk"`
	Latin   Color `toml:"latin" yaml:"latin"`
}

// DefaultPalette returns the stock colors.
func DefaultPalette() Palette {
	return Palette{
		Initial: "red",
		Caps:    "blue",
		CJK:     "yellow",
		Latin:   "pink",
	}
}

// Color returns the palette color for k.
func (p Palette) Color(k Kind) Color {
	switch k {
	case KindCaps:
		return p.Caps
	case KindCJK:
		return p.CJK
	case KindLatin:
		return p.Latin
	default:
		return p.Initial
	}
}

// Validate checks that every entry is a known name or a hex color.
func (p Palette) Validate() error {
	for _, e := range []struct {
		key string
		c   Color
	}{
		{"initial", p.Initial},
		{"caps", p.Caps},
		{"cjk", p.CJK},
		{"latin", p.Latin},
	} {
		if _, ok := Hex(e.c); !ok {
			return fmt.Errorf("palette.%s: unknown color %q", e.key, e.c)
		}
	}
	return nil
}

// Resolve returns the kind the marker should show for st. Caps lock wins over
// the input mode; an unknown mode leaves the current kind unchanged.
func Resolve(st imestate.Status, current Kind) Kind {
	if st.CapsLock {
		return KindCaps
	}
	switch st.Mode {
	case imestate.ModeChinese:
		return KindCJK
	case imestate.ModeEnglish:
		return KindLatin
	default:
		return current
	}
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

var named = map[string]string{
	"black":   "#000000",
	"blue":    "#0000FF",
	"cyan":    "#00FFFF",
	"gray":    "#808080",
	"green":   "#008000",
	"magenta": "#FF00FF",
	"orange":  "#FFA500",
	"pink":    "#FFC0CB",
	"purple":  "#800080",
	"red":     "#FF0000",
	"white":   "#FFFFFF",
	"yellow":  "#FFFF00",
}

// Hex returns the hex form of c.
func Hex(c Color) (string, bool) {
	s := strings.TrimSpace(string(c))
	if hexColor.MatchString(s) {
		return s, true
	}
	h, ok := named[strings.ToLower(s)]
	return h, ok
}
