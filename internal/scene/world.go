package scene

import (
	"errors"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyWorld is returned when a world file declares no regions.
	ErrEmptyWorld = errors.New("world declares no regions")
	// ErrWorldVersion is returned for world files this build cannot read.
	ErrWorldVersion = errors.New("unsupported world file version")
)

// SupportedWorldVersions is the range of world file formats LoadWorld reads.
// A file without a version is treated as the current format.
const SupportedWorldVersions = "^1.0.0"

// World is the YAML description of a simulated viewer session.
type World struct {
	Version string       `yaml:"version,omitempty"`
	Agent   AgentSpec    `yaml:"agent"`
	Regions []RegionSpec `yaml:"regions"`
	People  []NameSpec   `yaml:"people"`
	Groups  []NameSpec   `yaml:"groups"`
	Objects []ObjectSpec `yaml:"objects"`
}

// AgentSpec places the user in a region.
type AgentSpec struct {
	Region uint64 `yaml:"region"`
}

// RegionSpec names one region.
type RegionSpec struct {
	Handle uint64 `yaml:"handle"`
	Name   string `yaml:"name"`
}

// NameSpec maps an agent or group key to its display name.
type NameSpec struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// ObjectSpec describes one scene object and the properties the simulated
// server returns for it.
type ObjectSpec struct {
	ID             string    `yaml:"id"`
	Region         uint64    `yaml:"region"`
	Name           string    `yaml:"name"`
	Description    string    `yaml:"description"`
	Owner          string    `yaml:"owner"`
	Group          string    `yaml:"group"`
	Position       []float64 `yaml:"position"`
	Root           *bool     `yaml:"root"`
	Avatar         bool      `yaml:"avatar"`
	Attachment     bool      `yaml:"attachment"`
	Temporary      bool      `yaml:"temporary"`
	TemporaryOnRez bool      `yaml:"temporary_on_rez"`
}

// LoadWorld reads and parses a world file.
func LoadWorld(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world file %s: %w", path, err)
	}
	return ParseWorld(data)
}

// ParseWorld parses world YAML and checks that every key is a valid UUID.
func ParseWorld(data []byte) (*World, error) {
	var w World
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parsing world YAML: %w", err)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

// Validate checks region references and key syntax.
func (w *World) Validate() error {
	if err := checkWorldVersion(w.Version); err != nil {
		return err
	}
	if len(w.Regions) == 0 {
		return ErrEmptyWorld
	}

	handles := make(map[uint64]bool, len(w.Regions))
	for _, r := range w.Regions {
		handles[r.Handle] = true
	}
	if !handles[w.Agent.Region] {
		return fmt.Errorf("agent region %d is not declared", w.Agent.Region)
	}

	for _, p := range w.People {
		if _, err := uuid.Parse(p.ID); err != nil {
			return fmt.Errorf("person %q: invalid id: %w", p.Name, err)
		}
	}
	for _, g := range w.Groups {
		if _, err := uuid.Parse(g.ID); err != nil {
			return fmt.Errorf("group %q: invalid id: %w", g.Name, err)
		}
	}

	for i, o := range w.Objects {
		if _, err := uuid.Parse(o.ID); err != nil {
			return fmt.Errorf("object %d (%q): invalid id: %w", i, o.Name, err)
		}
		if !handles[o.Region] {
			return fmt.Errorf("object %d (%q): region %d is not declared", i, o.Name, o.Region)
		}
		if err := checkOptionalID(o.Owner); err != nil {
			return fmt.Errorf("object %d (%q): invalid owner: %w", i, o.Name, err)
		}
		if err := checkOptionalID(o.Group); err != nil {
			return fmt.Errorf("object %d (%q): invalid group: %w", i, o.Name, err)
		}
		if len(o.Position) != 0 && len(o.Position) != len(Vector{}) {
			return fmt.Errorf("object %d (%q): position needs 3 coordinates, got %d", i, o.Name, len(o.Position))
		}
	}

	return nil
}

// RegionName returns the declared name of a region, or its handle.
func (w *World) RegionName(h RegionHandle) string {
	for _, r := range w.Regions {
		if RegionHandle(r.Handle) == h {
			return r.Name
		}
	}
	return h.String()
}

func checkOptionalID(s string) error {
	if s == "" {
		return nil
	}
	_, err := uuid.Parse(s)
	return err
}

// parseOptionalID returns uuid.Nil for an empty key. Keys are validated first.
func parseOptionalID(s string) uuid.UUID {
	if s == "" {
		return uuid.Nil
	}
	return uuid.MustParse(s)
}

func (o ObjectSpec) object() Object {
	obj := Object{
		ID:             uuid.MustParse(o.ID),
		Region:         RegionHandle(o.Region),
		Root:           o.Root == nil || *o.Root,
		Avatar:         o.Avatar,
		Attachment:     o.Attachment,
		Temporary:      o.Temporary,
		TemporaryOnRez: o.TemporaryOnRez,
	}
	copy(obj.Position[:], o.Position)
	return obj
}

func (o ObjectSpec) properties() PropertiesFamily {
	return PropertiesFamily{
		ObjectID:    uuid.MustParse(o.ID),
		OwnerID:     parseOptionalID(o.Owner),
		GroupID:     parseOptionalID(o.Group),
		Name:        o.Name,
		Description: o.Description,
	}
}

func checkWorldVersion(v string) error {
	if v == "" {
		return nil
	}
	got, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q is not a semantic version: %w", ErrWorldVersion, v, err)
	}
	constraint, err := semver.NewConstraint(SupportedWorldVersions)
	if err != nil {
		return fmt.Errorf("parsing supported versions: %w", err)
	}
	if !constraint.Check(got) {
		return fmt.Errorf("%w: %s (supported %s)", ErrWorldVersion, got, SupportedWorldVersions)
	}
	return nil
}
