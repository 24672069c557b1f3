package store

import (
	"context"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/common"
)

// WorldReader returns fully joined entity collections per domain. Every
// method is an independent read and safe to call concurrently.
type WorldReader interface {
	Factions(ctx context.Context) ([]common.Faction, error)
	NPCs(ctx context.Context) ([]common.NPC, error)
	Quests(ctx context.Context) ([]common.Quest, error)
	Conflicts(ctx context.Context) ([]common.Conflict, error)
	Regions(ctx context.Context) ([]common.Region, error)
}

// Hydrator expands a search hit into a projection. A hit whose row no
// longer exists yields an apperror.CodeNotFound error.
type Hydrator interface {
	Hydrate(ctx context.Context, hit common.SearchHit) (common.Projection, error)
}

// Neighbor is a nearest neighbour result, closest first.
type Neighbor struct {
	Hit      common.SearchHit `json:"hit"`
	Distance float64          `json:"distance"`
}

// VectorIndex stores entity embeddings and answers cosine nearest
// neighbour queries per table.
type VectorIndex interface {
	Nearest(ctx context.Context, table string, embedding []float32, limit int) ([]Neighbor, error)
	Upsert(ctx context.Context, doc Document, embedding []float32) error
}

// Document is the text representation of one searchable entity.
type Document struct {
	Table string `json:"table"`
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Text  string `json:"text"`
}

// DocumentSource lists every entity that should have an embedding.
type DocumentSource interface {
	Documents(ctx context.Context) ([]Document, error)
}
