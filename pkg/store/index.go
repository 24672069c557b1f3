package store

import (
	"context"
	"fmt"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/ai"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/logger"
)

// DefaultIndexBatch is the number of documents embedded per request.
const DefaultIndexBatch = 32

// IndexEmbeddings embeds every document of src and upserts it into idx,
// batchSize documents at a time. It returns the number of indexed
// documents.
func IndexEmbeddings(
	ctx context.Context,
	src DocumentSource,
	idx VectorIndex,
	client ai.Embedder,
	batchSize int,
	log *logger.Logger,
) (int, error) {
	docs, err := src.Documents(ctx)
	if err != nil {
		return 0, fmt.Errorf("list documents: %w", err)
	}
	if batchSize <= 0 {
		batchSize = DefaultIndexBatch
	}

	indexed := 0
	err = ChunkRange(len(docs), batchSize, func(start, end int) error {
		batch := docs[start:end]
		inputs := make([][]byte, len(batch))
		for i, d := range batch {
			inputs[i] = []byte(d.Text)
		}

		vectors, err := GenerateEmbeddings(ctx, client, inputs)
		if err != nil {
			return fmt.Errorf("embed documents %d-%d: %w", start, end, err)
		}
		for i, d := range batch {
			if err := idx.Upsert(ctx, d, vectors[i]); err != nil {
				return fmt.Errorf("upsert %s %d: %w", d.Table, d.ID, err)
			}
			indexed++
		}
		log.Debug("Indexed embedding batch", "start", start, "end", end)
		return nil
	})
	if err != nil {
		return indexed, err
	}

	log.Info("Indexed embeddings", "documents", indexed)
	return indexed, nil
}

// WorldDocuments renders factions, npcs and quests of a WorldReader as
// documents, in that order.
type WorldDocuments struct {
	Reader WorldReader
}

func (w WorldDocuments) Documents(ctx context.Context) ([]Document, error) {
	factions, err := w.Reader.Factions(ctx)
	if err != nil {
		return nil, err
	}
	npcs, err := w.Reader.NPCs(ctx)
	if err != nil {
		return nil, err
	}
	quests, err := w.Reader.Quests(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(factions)+len(npcs)+len(quests))
	for _, f := range factions {
		docs = append(docs, FactionDocument(f))
	}
	for _, n := range npcs {
		docs = append(docs, NPCDocument(n))
	}
	for _, q := range quests {
		docs = append(docs, QuestDocument(q))
	}
	return docs, nil
}
