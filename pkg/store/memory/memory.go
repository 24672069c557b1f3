// Package memory is an in-process campaign store. It implements every
// storage interface of the engine over a dataset held in memory and is
// used by the CLI and in tests.
package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/common"

	"github.com/kaptinlin/jsonrepair"
)

type vectorKey struct {
	table string
	id    int64
}

type vectorEntry struct {
	name string
	vec  []float32
}

// Store holds one campaign world. The world is read only after New;
// embeddings may be upserted concurrently.
type Store struct {
	world common.World

	mu      sync.RWMutex
	vectors map[vectorKey]vectorEntry
}

// New wraps an already assembled world.
func New(world common.World) *Store {
	return &Store{
		world:   world,
		vectors: make(map[vectorKey]vectorEntry),
	}
}

// Load reads a world from JSON. Hand edited files with trailing commas,
// single quotes or unquoted keys are repaired before decoding.
func Load(r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var world common.World
	if err := json.Unmarshal(data, &world); err != nil {
		repaired, rerr := jsonrepair.JSONRepair(string(bytes.TrimSpace(data)))
		if rerr != nil {
			return nil, fmt.Errorf("decode world: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &world); err != nil {
			return nil, fmt.Errorf("decode repaired world: %w", err)
		}
	}
	return New(world), nil
}

// LoadFile reads a world from a JSON file.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// World returns the underlying world.
func (s *Store) World() common.World {
	return s.world
}

func (s *Store) Factions(ctx context.Context) ([]common.Faction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(s.world.Factions), nil
}

func (s *Store) NPCs(ctx context.Context) ([]common.NPC, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(s.world.NPCs), nil
}

func (s *Store) Quests(ctx context.Context) ([]common.Quest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(s.world.Quests), nil
}

func (s *Store) Conflicts(ctx context.Context) ([]common.Conflict, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(s.world.Conflicts), nil
}

func (s *Store) Regions(ctx context.Context) ([]common.Region, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(s.world.Regions), nil
}
