// Package worldmeta reads and writes a world's top-level world.xml
// metadata record: its display name, generation seed, format version,
// last-played timestamp, and spawn point.
package worldmeta

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileName is the metadata file's name within a world's save directory.
const FileName = "world.xml"

// spawn mirrors the original engine's "<spawn x=\"\" y=\"\" z=\"\"/>" element.
type spawn struct {
	X int32 `xml:"x,attr"`
	Y int32 `xml:"y,attr"`
	Z int32 `xml:"z,attr"`
}

// document is the on-disk XML shape; Metadata is the value callers work
// with.
type document struct {
	XMLName    xml.Name `xml:"world"`
	Name       string   `xml:"name"`
	Seed       uint64   `xml:"seed"`
	Version    uint32   `xml:"version"`
	LastPlayed int64    `xml:"lastPlayed"`
	Spawn      spawn    `xml:"spawn"`
}

// Metadata is a world's persisted identity and spawn configuration.
type Metadata struct {
	Name       string
	Seed       uint64
	Version    uint32
	LastPlayed time.Time
	SpawnX     int32
	SpawnY     int32
	SpawnZ     int32
}

func (m Metadata) toDocument() document {
	return document{
		Name:       m.Name,
		Seed:       m.Seed,
		Version:    m.Version,
		LastPlayed: m.LastPlayed.Unix(),
		Spawn:      spawn{X: m.SpawnX, Y: m.SpawnY, Z: m.SpawnZ},
	}
}

func (d document) toMetadata() Metadata {
	return Metadata{
		Name:       d.Name,
		Seed:       d.Seed,
		Version:    d.Version,
		LastPlayed: time.Unix(d.LastPlayed, 0).UTC(),
		SpawnX:     d.Spawn.X,
		SpawnY:     d.Spawn.Y,
		SpawnZ:     d.Spawn.Z,
	}
}

// Save writes m to worldDir/world.xml, overwriting any existing file.
func Save(worldDir string, m Metadata) error {
	if err := os.MkdirAll(worldDir, 0o755); err != nil {
		return fmt.Errorf("worldmeta: %w", err)
	}
	out, err := xml.MarshalIndent(m.toDocument(), "", "  ")
	if err != nil {
		return fmt.Errorf("worldmeta: encode: %w", err)
	}
	out = append([]byte(xml.Header), out...)
	if err := os.WriteFile(filepath.Join(worldDir, FileName), out, 0o644); err != nil {
		return fmt.Errorf("worldmeta: %w", err)
	}
	return nil
}

// Load reads worldDir/world.xml.
func Load(worldDir string) (Metadata, error) {
	raw, err := os.ReadFile(filepath.Join(worldDir, FileName))
	if err != nil {
		return Metadata{}, fmt.Errorf("worldmeta: %w", err)
	}
	var doc document
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return Metadata{}, fmt.Errorf("worldmeta: decode: %w", err)
	}
	return doc.toMetadata(), nil
}

// Exists reports whether worldDir already has a world.xml.
func Exists(worldDir string) bool {
	_, err := os.Stat(filepath.Join(worldDir, FileName))
	return err == nil
}
