package world

import "github.com/dantero-ps/voxelworld/internal/blockstate"

// GeneratorSettings configures DefaultTerrainGenerator. Unlike the global
// mutable singleton this replaces, it is an ordinary value a caller
// constructs once and passes to NewDefaultTerrainGenerator: two worlds
// (or two tests) running in the same process never fight over shared
// state.
type GeneratorSettings struct {
	SeaLevel     int
	CavesEnabled bool
}

// DefaultSettings returns the historical defaults: sea level 63, caves on.
func DefaultSettings() GeneratorSettings {
	return GeneratorSettings{SeaLevel: 63, CavesEnabled: true}
}

// DefaultTerrainGenerator produces a simple layered terrain from 2D octave
// value noise: a rolling height field, stone below it, a dirt/grass cap,
// sand near sea level, and optional noise-carved caves.
type DefaultTerrainGenerator struct {
	settings GeneratorSettings
	registry blockstate.Registry
}

// NewDefaultTerrainGenerator builds a generator resolving block IDs
// through reg; it needs "stone", "dirt", "grass", "sand" and "bedrock"
// registered.
func NewDefaultTerrainGenerator(settings GeneratorSettings, reg blockstate.Registry) *DefaultTerrainGenerator {
	return &DefaultTerrainGenerator{settings: settings, registry: reg}
}

const (
	terrainBaseHeight   = 64.0
	terrainAmplitude    = 24.0
	terrainOctaves      = 4
	terrainPersistence  = 0.5
	terrainLacunarity   = 2.0
	terrainFrequency    = 1.0 / 96.0
	caveFrequency       = 1.0 / 24.0
	caveThreshold       = 0.78
	bedrockThicknessMax = 3
)

// Generate fills out's block buffer deterministically from seed and the
// chunk's world coordinates. It never touches out's state, activation
// bookkeeping or lighting; the orchestrator owns those.
func (g *DefaultTerrainGenerator) Generate(seed int64, chunkX, chunkY int32, out *Chunk) {
	stone := g.idOf("stone")
	dirt := g.idOf("dirt")
	grass := g.idOf("grass")
	sand := g.idOf("sand")
	bedrock := g.idOf("bedrock")

	for lx := 0; lx < ChunkSizeX; lx++ {
		for ly := 0; ly < ChunkSizeY; ly++ {
			worldX := float64(chunkX)*ChunkSizeX + float64(lx)
			worldY := float64(chunkY)*ChunkSizeY + float64(ly)

			n := octaveNoise2D(worldX*terrainFrequency, worldY*terrainFrequency, seed, terrainOctaves, terrainPersistence, terrainLacunarity)
			height := int(terrainBaseHeight + (n-0.5)*2*terrainAmplitude)
			if height < 1 {
				height = 1
			}
			if height >= ChunkSizeZ {
				height = ChunkSizeZ - 1
			}

			bedrockDepth := 1 + int(hash2(int64(worldX), int64(worldY), seed+7)%bedrockThicknessMax)

			for z := 0; z <= height; z++ {
				var id uint8
				switch {
				case z < bedrockDepth:
					id = bedrock
				case g.settings.CavesEnabled && z > bedrockDepth && g.isCave(worldX, worldY, float64(z), seed):
					id = 0 // air pocket
				case z == height:
					if height <= g.settings.SeaLevel+1 {
						id = sand
					} else {
						id = grass
					}
				case z > height-4:
					id = dirt
				default:
					id = stone
				}
				if id != 0 {
					out.SetBlockAt(lx, ly, z, id)
				}
			}
		}
	}
}

// isCave samples a second, higher-frequency noise channel (offset from
// the height field's seed so the two never correlate) and carves a cave
// wherever it crosses caveThreshold. This is 2D noise sampled per-layer
// rather than true 3D noise, which gives horizontally-coherent, vertically
// independent cave layers -- cheap, and plausible enough for a voxel demo
// world rather than a geologically accurate cave system.
func (g *DefaultTerrainGenerator) isCave(worldX, worldY, z float64, seed int64) bool {
	layerSeed := seed + 1000 + int64(z)
	v := octaveNoise2D(worldX*caveFrequency, worldY*caveFrequency, layerSeed, 3, 0.5, 2.0)
	return v > caveThreshold
}

func (g *DefaultTerrainGenerator) idOf(name string) uint8 {
	st, ok := g.registry.ByName(name)
	if !ok {
		return 0
	}
	return st.NumericID()
}
