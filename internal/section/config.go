package section

import (
	"sort"

	"github.com/alexisbeaulieu97/sectionforge/internal/schema"
)

// Keys the engine owns inside a section's settings object. Setting ids may not use them.
const (
	KeyVisible       = "visible"
	KeyPadding       = "padding"
	KeyPaddingTop    = "paddingTop"
	KeyPaddingBottom = "paddingBottom"
	KeyPaddingLeft   = "paddingLeft"
	KeyPaddingRight  = "paddingRight"
	KeyPaddingBlock  = "paddingBlock"
	KeyBlocks        = "blocks"
	KeyBlockType     = "type"
	KeyBlockSettings = "settings"
)

var reservedKeys = map[string]struct{}{
	KeyVisible: {}, KeyPadding: {}, KeyPaddingTop: {}, KeyPaddingBottom: {},
	KeyPaddingLeft: {}, KeyPaddingRight: {}, KeyPaddingBlock: {}, KeyBlocks: {},
}

// IsReservedKey reports whether key is owned by the engine rather than a section schema.
func IsReservedKey(key string) bool {
	_, ok := reservedKeys[key]
	return ok
}

// Config is a fully-defaulted, validated section configuration.
// Extra holds keys the schema does not know about; they are carried through untouched.
type Config struct {
	Visible bool
	Padding Padding
	Values  map[string]any
	Blocks  []Block
	Extra   map[string]any
}

// Block is one validated instance of a repeatable block. Extra holds unknown
// keys next to "type"; SettingsExtra holds unknown keys inside "settings".
type Block struct {
	Type          string
	Values        map[string]any
	Extra         map[string]any
	SettingsExtra map[string]any
}

// ToMap serializes the config into its persisted settings object.
// Validating the result yields the same config.
func (c Config) ToMap() map[string]any {
	out := make(map[string]any, len(c.Values)+len(c.Extra)+3)
	for k, v := range c.Extra {
		out[k] = v
	}
	for k, v := range c.Values {
		out[k] = v
	}
	out[KeyVisible] = c.Visible
	out[KeyPadding] = c.Padding.ToMap()
	if c.Blocks != nil {
		blocks := make([]any, 0, len(c.Blocks))
		for _, b := range c.Blocks {
			blocks = append(blocks, b.ToMap())
		}
		out[KeyBlocks] = blocks
	}
	return out
}

// ToMap serializes a block instance.
func (b Block) ToMap() map[string]any {
	out := make(map[string]any, len(b.Extra)+2)
	for k, v := range b.Extra {
		out[k] = v
	}
	settings := make(map[string]any, len(b.Values)+len(b.SettingsExtra))
	for k, v := range b.SettingsExtra {
		settings[k] = v
	}
	for k, v := range b.Values {
		settings[k] = v
	}
	out[KeyBlockType] = b.Type
	out[KeyBlockSettings] = settings
	return out
}

// Clone returns a deep copy so callers can never mutate a shared config.
func (c Config) Clone() Config {
	out := Config{
		Visible: c.Visible,
		Padding: clonePadding(c.Padding),
		Values:  cloneMap(c.Values),
		Extra:   cloneMap(c.Extra),
	}
	if c.Blocks != nil {
		out.Blocks = make([]Block, len(c.Blocks))
		for i, b := range c.Blocks {
			out.Blocks[i] = b.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the block.
func (b Block) Clone() Block {
	return Block{
		Type:          b.Type,
		Values:        cloneMap(b.Values),
		Extra:         cloneMap(b.Extra),
		SettingsExtra: cloneMap(b.SettingsExtra),
	}
}

// String returns a string value or "".
func (c Config) String(key string) string {
	s, _ := c.Values[key].(string)
	return s
}

// Bool returns a boolean value or false.
func (c Config) Bool(key string) bool {
	b, _ := c.Values[key].(bool)
	return b
}

// Number returns a numeric value or 0.
func (c Config) Number(key string) float64 {
	n, _ := schema.ToFloat(c.Values[key])
	return n
}

// BlocksOfType returns the blocks of one type in order.
func (c Config) BlocksOfType(blockType string) []Block {
	var out []Block
	for _, b := range c.Blocks {
		if b.Type == blockType {
			out = append(out, b)
		}
	}
	return out
}

// SortedKeys lists the value keys deterministically; used for stable output.
func (c Config) SortedKeys() []string {
	keys := make([]string, 0, len(c.Values))
	for k := range c.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func clonePadding(p Padding) Padding {
	out := Padding{Top: p.Top, Bottom: p.Bottom}
	if p.Left != nil {
		out.Left = IntPtr(*p.Left)
	}
	if p.Right != nil {
		out.Right = IntPtr(*p.Right)
	}
	return out
}

// CloneValue deep-copies maps and slices produced by JSON or YAML decoding.
func CloneValue(v any) any {
	return cloneValue(v)
}

// CloneMap deep-copies a decoded object. Nil stays nil.
func CloneMap(in map[string]any) map[string]any {
	return cloneMap(in)
}

// cloneMap deep-copies nested maps and slices produced by JSON decoding.
func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
