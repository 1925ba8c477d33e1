// Package worldio implements the binary level file format: a fixed header
// followed by three flat tables (sectors, sub-sectors, walls), each sector
// pointing into the sub-sector and wall tables by offset and count. Grounded
// on the original format in lightware/fileio.c (LevelHeader/LevelSector/
// LevelSubsector/LevelWall), with the same layout; unlike the original,
// Save also fills in the subsector and wall table offsets in the header.
package worldio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/lostwing/lwedit/geom"
	"github.com/lostwing/lwedit/world"
)

var magic = [4]byte{'L', 'W', 'B', 'B'}

const (
	saveVersion          = 1
	loadMinSupportedVers = 1
	loadMaxSupportedVers = 1
)

const noIndex uint32 = 0xFFFFFFFF

type header struct {
	Magic               [4]byte
	Version             uint32
	NumSectors          uint32
	SectorTableStart    uint32
	SubsectorTableStart uint32
	WallTableStart      uint32
}

type levelSector struct {
	NumSubsectors        uint32
	NumWalls             uint32
	FirstSubsectorOffset uint32
	FirstWallOffset      uint32
}

type levelSubsector struct {
	FloorHeight   float32
	CeilingHeight float32
}

type levelWall struct {
	X, Y         float32
	Next         uint32
	PortalSector uint32
	PortalWall   uint32
}

// Save writes w to path in the LWBB format. Sectors are written in the
// world's insertion order; each sector's portal references are resolved to
// an index into that same order, or noIndex when the wall is solid or its
// far sector no longer exists.
func Save(w *world.World, path string) error {
	order := w.Order()
	index := make(map[world.SectorID]uint32, len(order))
	for i, id := range order {
		index[id] = uint32(i)
	}

	sectors := make([]levelSector, 0, len(order))
	var subsectors []levelSubsector
	var walls []levelWall

	for _, id := range order {
		sec, _ := w.Sector(id)

		startSub := uint32(len(subsectors))
		startWall := uint32(len(walls))

		for _, ss := range sec.SubSectors {
			subsectors = append(subsectors, levelSubsector{
				FloorHeight:   ss.Floor,
				CeilingHeight: ss.Ceiling,
			})
		}

		for _, wl := range sec.Walls {
			lw := levelWall{
				X:    wl.Start.X(),
				Y:    wl.Start.Y(),
				Next: uint32(wl.Next),
			}
			if !wl.HasPortal() {
				lw.PortalSector = noIndex
				lw.PortalWall = noIndex
			} else if pIdx, ok := index[wl.PortalSector]; ok {
				lw.PortalSector = pIdx
				lw.PortalWall = uint32(wl.PortalWall)
			} else {
				lw.PortalSector = noIndex
				lw.PortalWall = noIndex
			}
			walls = append(walls, lw)
		}

		sectors = append(sectors, levelSector{
			NumSubsectors:        uint32(len(sec.SubSectors)),
			NumWalls:             uint32(len(sec.Walls)),
			FirstSubsectorOffset: startSub,
			FirstWallOffset:      startWall,
		})
	}

	hdr := header{
		Magic:               magic,
		Version:             saveVersion,
		NumSectors:          uint32(len(sectors)),
		SectorTableStart:    uint32(binary.Size(header{})),
	}
	hdr.SubsectorTableStart = hdr.SectorTableStart + uint32(len(sectors))*uint32(binary.Size(levelSector{}))
	hdr.WallTableStart = hdr.SubsectorTableStart + uint32(len(subsectors))*uint32(binary.Size(levelSubsector{}))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("worldio: create %s: %w", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	for _, v := range []any{hdr, sectors, subsectors, walls} {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("worldio: write %s: %w", path, err)
		}
	}
	return bw.Flush()
}

// Load reads a world from path. On any error the returned world is nil and
// the error describes the failure (missing file, bad magic, unsupported
// version, truncated table) — callers must leave their current world
// unchanged on failure, per the editor's I/O error handling.
func Load(path string) (*world.World, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("worldio: open %s: %w", path, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)

	var hdr header
	if err := binary.Read(br, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("worldio: read header: %w", err)
	}
	if hdr.Magic != magic {
		return nil, fmt.Errorf("worldio: %s is not an LWBB level file", path)
	}
	if hdr.Version < loadMinSupportedVers || hdr.Version > loadMaxSupportedVers {
		return nil, fmt.Errorf("worldio: unsupported level version %d", hdr.Version)
	}

	sectors := make([]levelSector, hdr.NumSectors)
	if err := binary.Read(br, binary.LittleEndian, &sectors); err != nil {
		return nil, fmt.Errorf("worldio: read sector table: %w", err)
	}

	var totalSub, totalWall uint32
	for _, s := range sectors {
		if s.FirstSubsectorOffset+s.NumSubsectors > totalSub {
			totalSub = s.FirstSubsectorOffset + s.NumSubsectors
		}
		if s.FirstWallOffset+s.NumWalls > totalWall {
			totalWall = s.FirstWallOffset + s.NumWalls
		}
	}

	subsectors := make([]levelSubsector, totalSub)
	if err := binary.Read(br, binary.LittleEndian, &subsectors); err != nil {
		return nil, fmt.Errorf("worldio: read subsector table: %w", err)
	}

	walls := make([]levelWall, totalWall)
	if err := binary.Read(br, binary.LittleEndian, &walls); err != nil {
		return nil, fmt.Errorf("worldio: read wall table: %w", err)
	}

	w := world.New()
	ids := make([]world.SectorID, len(sectors))

	for i, s := range sectors {
		sec := world.Sector{
			Walls:      make([]world.Wall, s.NumWalls),
			SubSectors: make([]world.SubSector, s.NumSubsectors),
		}
		for j := uint32(0); j < s.NumSubsectors; j++ {
			ss := subsectors[s.FirstSubsectorOffset+j]
			sec.SubSectors[j] = world.SubSector{Floor: ss.FloorHeight, Ceiling: ss.CeilingHeight}
		}
		for j := uint32(0); j < s.NumWalls; j++ {
			lw := walls[s.FirstWallOffset+j]
			wall := world.Wall{
				Start: geom.Vec2{lw.X, lw.Y},
				Next:  world.WallID(lw.Next),
			}
			if lw.PortalSector == noIndex || lw.PortalWall == noIndex {
				wall.PortalSector = world.NoSector
				wall.PortalWall = world.NoWall
			} else {
				wall.PortalSector = world.SectorID(lw.PortalSector)
				wall.PortalWall = world.WallID(lw.PortalWall)
			}
			sec.Walls[j] = wall
		}
		// Derive Prev and Sector back-references, which the on-disk format
		// omits (Next alone is enough to reconstruct the cycle).
		for j := range sec.Walls {
			next := sec.Walls[j].Next
			if int(next) >= 0 && int(next) < len(sec.Walls) {
				sec.Walls[next].Prev = world.WallID(j)
			}
		}
		id := w.AddSector(sec)
		ids[i] = id
	}

	// Rewrite portal sector indices (which were positions in the on-disk
	// table) into the live SectorID values just assigned, and stamp each
	// wall's owning-sector back-reference.
	for _, id := range ids {
		sec, _ := w.Sector(id)
		for j := range sec.Walls {
			wl := &sec.Walls[j]
			wl.Sector = id
			if wl.PortalSector == world.NoSector {
				continue
			}
			pos := int(wl.PortalSector)
			if pos < 0 || pos >= len(ids) {
				wl.PortalSector = world.NoSector
				wl.PortalWall = world.NoWall
				continue
			}
			wl.PortalSector = ids[pos]
		}
		for j := range sec.Walls {
			world.RecalcWallPlane(sec, world.WallID(j))
		}
	}

	return w, nil
}
