package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/ai"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/common"

	"golang.org/x/sync/errgroup"
)

// ChunkRange calls fn for consecutive [start, end) windows of at most
// chunkSize elements.
func ChunkRange(total, chunkSize int, fn func(start, end int) error) error {
	if total <= 0 {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = total
	}
	for start := 0; start < total; start += chunkSize {
		end := min(start+chunkSize, total)
		if err := fn(start, end); err != nil {
			return err
		}
	}
	return nil
}

// GenerateEmbeddings embeds inputs in order, using a single batch request
// when the client supports it.
func GenerateEmbeddings(
	ctx context.Context,
	client ai.Embedder,
	inputs [][]byte,
) ([][]float32, error) {
	if client == nil {
		return nil, fmt.Errorf("ai client is nil")
	}
	if len(inputs) == 0 {
		return nil, nil
	}
	if b, ok := client.(ai.BatchEmbedder); ok {
		return b.GenerateEmbeddings(ctx, inputs)
	}

	out := make([][]float32, len(inputs))

	eg, ectx := errgroup.WithContext(ctx)
	for i := range inputs {
		idx := i
		in := inputs[i]
		eg.Go(func() error {
			emb, err := client.GenerateEmbedding(ectx, in)
			if err != nil {
				return err
			}
			out[idx] = emb
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// FactionDocument renders the embedding text of a faction.
func FactionDocument(f common.Faction) Document {
	parts := []string{f.Name, f.Type, f.Alignment}
	for _, a := range f.Agendas {
		parts = append(parts, a.Name, a.Type)
	}
	return Document{Table: common.TableFactions, ID: f.ID, Name: f.Name, Text: joinNonEmpty(parts)}
}

// NPCDocument renders the embedding text of an npc.
func NPCDocument(n common.NPC) Document {
	parts := []string{n.Name, n.Occupation, n.Alignment, n.ComplexityProfile}
	for _, m := range n.Factions {
		parts = append(parts, m.Role, m.Faction.Name)
	}
	for _, s := range n.Sites {
		parts = append(parts, s.Site.Name)
	}
	return Document{Table: common.TableNPCs, ID: n.ID, Name: n.Name, Text: joinNonEmpty(parts)}
}

// QuestDocument renders the embedding text of a quest.
func QuestDocument(q common.Quest) Document {
	parts := []string{q.Name, q.Type, q.Urgency}
	if q.Region != nil {
		parts = append(parts, q.Region.Name)
	}
	for _, p := range q.Participants {
		parts = append(parts, p.Ref().Name)
	}
	return Document{Table: common.TableQuests, ID: q.ID, Name: q.Name, Text: joinNonEmpty(parts)}
}

func joinNonEmpty(parts []string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " | ")
}
