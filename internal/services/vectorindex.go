package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

const (
	indexVectorSize = 768
	indexChunkSize  = 2000
)

// VectorIndexService keeps an embedding index of stored profiles as a side
// channel next to the relational store. Indexing is best-effort; match
// requests never fail because the index is down.
type VectorIndexService interface {
	InitCollection() error
	// IndexProfile replaces the chunks stored for a record with fresh
	// embeddings of its text.
	IndexProfile(ctx context.Context, recordID, kind, text string) error
}

type vectorIndexService struct {
	client         *qdrant.Client
	collectionName string
	embedder       Embedder
	logger         *zap.Logger
}

func NewVectorIndexService(urlStr, apiKey, collectionName string, embedder Embedder, logger *zap.Logger) (VectorIndexService, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port, not the REST one.
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &vectorIndexService{
		client:         client,
		collectionName: collectionName,
		embedder:       embedder,
		logger:         logger,
	}, nil
}

// InitCollection implements VectorIndexService.
func (v *vectorIndexService) InitCollection() error {
	ctx := context.Background()

	exists, err := v.client.CollectionExists(ctx, v.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = v.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: v.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     indexVectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	v.logger.Info("qdrant collection created", zap.String("collection", v.collectionName))
	return nil
}

// IndexProfile implements VectorIndexService.
func (v *vectorIndexService) IndexProfile(ctx context.Context, recordID, kind, text string) error {
	// Drop stale chunks first so re-extraction does not accumulate points.
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("record_id", recordID),
		},
	}
	_, err := v.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: v.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{Filter: filter},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete stale points: %w", err)
	}

	chunks := chunkText(text, indexChunkSize)
	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for i, chunk := range chunks {
		embedding, err := v.embedder.Embed(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(pointID(recordID, i)),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"record_id": recordID,
				"kind":      kind,
				"chunk":     i,
				"text":      chunk,
			}),
		})
	}
	if len(points) == 0 {
		return nil
	}

	_, err = v.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: v.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}
	return nil
}

// pointID derives a stable numeric id from the record id and chunk index so
// re-indexing overwrites instead of duplicating.
func pointID(recordID string, chunk int) uint64 {
	var h uint64 = 14695981039346656037
	for _, b := range []byte(recordID) {
		h ^= uint64(b)
		h *= 1099511628211
	}
	return h ^ uint64(chunk)
}

// chunkText splits on paragraph boundaries, packing paragraphs into chunks
// of at most maxLen bytes. A single oversized paragraph is split hard.
func chunkText(text string, maxLen int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		for len(para) > maxLen {
			chunks = append(chunks, para[:maxLen])
			para = para[maxLen:]
		}
		if current.Len() > 0 && current.Len()+len(para)+2 > maxLen {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
