// Package profile loads the user-editable parts of the chord engine: the
// decoder mapping, the keyboard-sourced keys and the layer tables. Profiles
// are JSON, YAML or TOML documents validated against an embedded JSON
// Schema.
package profile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gkospad/gkospad/chord"
	"github.com/gkospad/gkospad/device/dualshock4"
	"github.com/gkospad/gkospad/device/keyboard"
	"github.com/gkospad/gkospad/layout"

	toml "github.com/pelletier/go-toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
	yaml "gopkg.in/yaml.v3"
)

//go:embed profile.schema.json
var schemaJSON []byte

const schemaURL = "profile.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add profile schema: %w", err)
	}
	return c.Compile(schemaURL)
})

// Profile is a fully resolved configuration of the chord engine.
type Profile struct {
	Mapping      dualshock4.Mapping
	ExternalKeys []chord.Key
	Layout       *layout.Layout
}

// DefaultExternalKeys are the keys fed by the keyboard hook.
func DefaultExternalKeys() []chord.Key {
	return []chord.Key{chord.Key3, chord.Key6}
}

// Default returns the built-in profile.
func Default() *Profile {
	return &Profile{
		Mapping:      dualshock4.DefaultMapping(),
		ExternalKeys: DefaultExternalKeys(),
		Layout:       layout.Default(),
	}
}

// Decoder compiles the profile's mapping.
func (p *Profile) Decoder() (*dualshock4.Decoder, error) {
	return dualshock4.NewDecoder(p.Mapping)
}

type fileEntry struct {
	Text string `json:"text,omitempty"`
	Key  string `json:"key,omitempty"`
}

type fileTable map[string]fileEntry

type fileProfile struct {
	Mapping      dualshock4.Mapping   `json:"mapping,omitempty"`
	ExternalKeys []int                `json:"externalKeys"`
	Layers       map[string]fileTable `json:"layers,omitempty"`
}

// Format is a profile file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat normalizes a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported profile format %q", s)
	}
}

// Load reads the profile at path; the format follows the file extension.
func Load(path string) (*Profile, error) {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	p, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes, validates and resolves a profile document. Sections that
// are absent fall back to the built-in defaults.
func Parse(data []byte, format Format) (*Profile, error) {
	doc, err := decodeGeneric(data, format)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	var inst any
	if err := json.Unmarshal(raw, &inst); err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}

	var fp fileProfile
	if err := json.Unmarshal(raw, &fp); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return fp.resolve()
}

func (fp fileProfile) resolve() (*Profile, error) {
	p := Default()
	if fp.Mapping != nil {
		if err := fp.Mapping.Validate(); err != nil {
			return nil, fmt.Errorf("mapping: %w", err)
		}
		p.Mapping = fp.Mapping
	}
	if fp.ExternalKeys != nil {
		p.ExternalKeys = make([]chord.Key, 0, len(fp.ExternalKeys))
		for _, k := range fp.ExternalKeys {
			key := chord.Key(k)
			if k < 0 || !key.Valid() {
				return nil, fmt.Errorf("externalKeys: key %d outside 1-%d", k, chord.Bits)
			}
			p.ExternalKeys = append(p.ExternalKeys, key)
		}
	}

	tables := map[layout.Layer]*layout.Table{}
	for _, layer := range layout.Layers() {
		tables[layer] = p.Layout.Table(layer)
	}
	for name, ft := range fp.Layers {
		layer, err := layout.ParseLayer(name)
		if err != nil {
			return nil, err
		}
		tbl, err := ft.build()
		if err != nil {
			return nil, fmt.Errorf("layer %s: %w", layer, err)
		}
		tables[layer] = tbl
	}
	p.Layout = layout.New(tables)
	return p, nil
}

func (ft fileTable) build() (*layout.Table, error) {
	entries := make(map[chord.Code]layout.Entry, len(ft))
	for codeStr, fe := range ft {
		code, err := ParseCode(codeStr)
		if err != nil {
			return nil, err
		}
		e, err := layout.EntryFor(fe.Text, fe.Key)
		if err != nil {
			return nil, fmt.Errorf("chord %s: %w", code, err)
		}
		entries[code] = e
	}
	return layout.NewTable(entries)
}

// ParseCode parses a chord code written as hex (0x05), binary (0b000101) or
// decimal (5).
func ParseCode(s string) (chord.Code, error) {
	s = strings.TrimSpace(s)
	base := 10
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		base, s = 16, s[2:]
	case strings.HasPrefix(s, "0b"), strings.HasPrefix(s, "0B"):
		base, s = 2, s[2:]
	}
	v, err := strconv.ParseUint(s, base, 8)
	if err != nil || v == 0 || v > uint64(chord.Mask) {
		return 0, fmt.Errorf("invalid chord code %q", s)
	}
	return chord.Code(v), nil
}

func decodeGeneric(data []byte, format Format) (any, error) {
	var doc any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case FormatTOML:
		tree, err := toml.LoadBytes(data)
		if err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
		doc = tree.ToMap()
	default:
		return nil, fmt.Errorf("unsupported profile format %q", format)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return stringKeys(doc), nil
}

// stringKeys rewrites map[any]any nodes, which YAML produces for non-string
// keys such as an unquoted 0x05, into JSON-compatible maps.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case map[string]any:
		for k, val := range t {
			t[k] = stringKeys(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = stringKeys(val)
		}
		return t
	default:
		return v
	}
}

// Marshal encodes p in format. Codes are written in hex and keys by name.
func Marshal(p *Profile, format Format) ([]byte, error) {
	fp := fileProfile{
		Mapping: p.Mapping,
		Layers:  map[string]fileTable{},
	}
	fp.ExternalKeys = make([]int, len(p.ExternalKeys))
	for i, k := range p.ExternalKeys {
		fp.ExternalKeys[i] = int(k)
	}
	for _, layer := range layout.Layers() {
		tbl := p.Layout.Table(layer)
		if tbl == nil {
			continue
		}
		ft := fileTable{}
		for c := 1; c < chord.Space; c++ {
			e := tbl.Entry(chord.Code(c))
			switch {
			case e.Text != "":
				ft[fmt.Sprintf("0x%02X", c)] = fileEntry{Text: e.Text}
			case e.Key != 0:
				name, ok := keyboard.KeyName[e.Key]
				if !ok {
					return nil, fmt.Errorf("layer %s chord 0x%02X: key 0x%02X has no name", layer, c, e.Key)
				}
				ft[fmt.Sprintf("0x%02X", c)] = fileEntry{Key: name}
			}
		}
		fp.Layers[layer.String()] = ft
	}

	raw, err := json.MarshalIndent(fp, "", "  ")
	if err != nil {
		return nil, err
	}
	if format == FormatJSON {
		return append(raw, '\n'), nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	doc = integers(doc)

	switch format {
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatTOML:
		m, ok := doc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("toml: unexpected document %T", doc)
		}
		tree, err := toml.TreeFromMap(m)
		if err != nil {
			return nil, fmt.Errorf("toml: %w", err)
		}
		s, err := tree.ToTomlString()
		if err != nil {
			return nil, fmt.Errorf("toml: %w", err)
		}
		return []byte(s), nil
	default:
		return nil, fmt.Errorf("unsupported profile format %q", format)
	}
}

func integers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, val := range t {
			t[k] = integers(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = integers(val)
		}
		return t
	default:
		return v
	}
}

// Codes lists the bound chord codes of a layer in ascending order.
func Codes(l *layout.Layout, layer layout.Layer) []chord.Code {
	tbl := l.Table(layer)
	var codes []chord.Code
	for c := 1; c < chord.Space; c++ {
		if !tbl.Resolve(chord.Code(c)).IsUnbound() {
			codes = append(codes, chord.Code(c))
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
