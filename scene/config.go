package scene

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/affine/compose"
	"github.com/gogpu/affine/m4"
)

// Config is a YAML scene file.
//
//	scenes:
//	  - name: spinner
//	    mesh: rect
//	    size: [80, 40]
//	    color: "#3060e0"
//	    queue: [projection, translation, rotation, pivot]
//	    translation: [200, 150]
//	    rotation: {degrees: 0, speed: 90}
//	    pivot: [40, 20]
//	  - name: cube-ish
//	    mesh: letter-f
//	    projection: {type: perspective, fov: 60, near: 1, far: 2000}
//	    translation: [-50, -75, -400]
//	    rotation: {degrees: 20, axis: x}
//	    cull: true
type Config struct {
	Scenes []SceneConfig `yaml:"scenes"`
}

// SceneConfig is one scene entry.
type SceneConfig struct {
	Name  string    `yaml:"name"`
	Mesh  string    `yaml:"mesh"`
	Size  []float64 `yaml:"size,omitempty"`
	Color Color     `yaml:"color,omitempty"`

	Queue      []string          `yaml:"queue,omitempty"`
	Projection *ProjectionConfig `yaml:"projection,omitempty"`

	Scale       []float64       `yaml:"scale,omitempty"`
	Translation []float64       `yaml:"translation,omitempty"`
	Rotation    *RotationConfig `yaml:"rotation,omitempty"`
	Pivot       []float64       `yaml:"pivot,omitempty"`
	Velocity    []float64       `yaml:"velocity,omitempty"`
	Wrap        float64         `yaml:"wrap,omitempty"`

	Cull  bool  `yaml:"cull,omitempty"`
	Clear Color `yaml:"clear,omitempty"`
}

// ProjectionConfig mirrors Projection.
type ProjectionConfig struct {
	Type  ProjectionKind `yaml:"type"`
	Depth float64        `yaml:"depth,omitempty"`
	Near  float64        `yaml:"near,omitempty"`
	Far   float64        `yaml:"far,omitempty"`
	FOV   float64        `yaml:"fov,omitempty"`
}

// RotationConfig mirrors Rotation.
type RotationConfig struct {
	Degrees float64 `yaml:"degrees"`
	Speed   float64 `yaml:"speed,omitempty"`
	Axis    Axis    `yaml:"axis,omitempty"`
}

// Color is an RGBA colour written as "#rrggbb" or "#rrggbbaa".
type Color struct {
	RGBA color.RGBA
	set  bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: colour must be a string", node.Line)
	}
	rgba, err := parseHexColor(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	c.RGBA, c.set = rgba, true
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Color) MarshalYAML() (any, error) {
	if !c.set {
		return nil, nil
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.RGBA.R, c.RGBA.G, c.RGBA.B, c.RGBA.A), nil
}

func parseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Axis is a rotation axis written as x, y, z or a three-element list.
type Axis m4.Vec3

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Axis) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch strings.ToLower(node.Value) {
		case "x":
			*a = Axis{1, 0, 0}
		case "y":
			*a = Axis{0, 1, 0}
		case "z":
			*a = Axis{0, 0, 1}
		default:
			return fmt.Errorf("line %d: unknown axis %q", node.Line, node.Value)
		}
		return nil
	case yaml.SequenceNode:
		var v []float64
		if err := node.Decode(&v); err != nil {
			return err
		}
		if len(v) != 3 {
			return fmt.Errorf("line %d: axis needs 3 components, got %d", node.Line, len(v))
		}
		if v[0] == 0 && v[1] == 0 && v[2] == 0 {
			return fmt.Errorf("line %d: zero rotation axis", node.Line)
		}
		*a = Axis{v[0], v[1], v[2]}
		return nil
	default:
		return fmt.Errorf("line %d: axis must be a name or a list", node.Line)
	}
}

// ParseConfig decodes a YAML scene file. Unknown fields are rejected.
func ParseConfig(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("scene: parse config: %w", err)
	}
	return &cfg, nil
}

// LoadConfig reads a YAML scene file and builds its scenes.
func LoadConfig(path string) ([]*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	cfg, err := ParseConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defs, err := cfg.Definitions()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// Definitions builds and validates every scene in the file.
func (c *Config) Definitions() ([]*Definition, error) {
	defs := make([]*Definition, 0, len(c.Scenes))
	for i := range c.Scenes {
		d, err := c.Scenes[i].Definition()
		if err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return defs, nil
}

// Definition builds the scene described by sc.
func (sc *SceneConfig) Definition() (*Definition, error) {
	fill := sc.Color.RGBA
	if !sc.Color.set {
		fill = color.RGBA{R: 200, G: 70, B: 120, A: 255}
	}
	mesh, err := MeshByName(sc.Mesh, sc.Size, fill)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", sc.Name, err)
	}
	mesh.Cull = sc.Cull

	d := &Definition{
		SceneName:   sc.Name,
		Dim:         mesh.Dim,
		Geometry:    mesh,
		Scale:       sc.Scale,
		Translation: sc.Translation,
		Pivot:       sc.Pivot,
		Velocity:    sc.Velocity,
		Wrap:        sc.Wrap,
		Clear:       sc.Clear.RGBA,
	}
	if len(sc.Queue) > 0 {
		q, err := compose.ParseQueue(sc.Queue)
		if err != nil {
			return nil, fmt.Errorf("scene %q: %w", sc.Name, err)
		}
		d.Queue = q
	}
	if p := sc.Projection; p != nil {
		d.Projection = Projection{Kind: p.Type, Depth: p.Depth, Near: p.Near, Far: p.Far, FOV: p.FOV}
	}
	if r := sc.Rotation; r != nil {
		d.Rotation = &Rotation{Degrees: r.Degrees, Speed: r.Speed, Axis: m4.Vec3(r.Axis)}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// LoadRegistry returns the built-in scenes plus those in the YAML file at
// path. File scenes replace built-ins of the same name. An empty path
// yields the built-ins alone.
func LoadRegistry(path string) (*Registry, error) {
	reg := Builtins()
	if path == "" {
		return reg, nil
	}
	defs, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	for _, d := range defs {
		reg.Replace(d)
	}
	return reg, nil
}
