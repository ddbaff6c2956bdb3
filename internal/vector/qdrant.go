package vector

import (
	"context"
	"fmt"
	"strings"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// Payload keys used for chunk records.
const (
	payloadText       = "text"
	payloadPageNumber = "page_number"
	payloadSourceDoc  = "source_document_id"
)

// QdrantStore implements Store using Qdrant over gRPC.
type QdrantStore struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
}

var _ Store = (*QdrantStore)(nil)

// NewQdrant creates a Qdrant-backed store.
func NewQdrant(ctx context.Context, host string, port int) (*QdrantStore, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant connect: %w", err)
	}
	return &QdrantStore{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
	}, nil
}

func (s *QdrantStore) EnsureCollection(ctx context.Context, name string, dimension int) error {
	exists, err := s.collections.CollectionExists(ctx, &pb.CollectionExistsRequest{
		CollectionName: name,
	})
	if err != nil {
		return fmt.Errorf("qdrant collection exists: %w", err)
	}
	if exists.GetResult().GetExists() {
		return nil
	}

	_, err = s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: name,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(dimension),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		// Lost a race with a concurrent creator; the collection is there.
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("qdrant create collection: %w", err)
	}
	return nil
}

func (s *QdrantStore) Upsert(ctx context.Context, name string, records []Record) error {
	points := make([]*pb.PointStruct, len(records))
	for i, rec := range records {
		payload := map[string]*pb.Value{
			payloadText:      {Kind: &pb.Value_StringValue{StringValue: rec.Text}},
			payloadSourceDoc: {Kind: &pb.Value_StringValue{StringValue: rec.SourceDocumentID}},
		}
		if rec.PageNumber != nil {
			payload[payloadPageNumber] = &pb.Value{Kind: &pb.Value_IntegerValue{IntegerValue: int64(*rec.PageNumber)}}
		}
		points[i] = &pb.PointStruct{
			Id:      &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: rec.ID}},
			Vectors: &pb.Vectors{VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: rec.Vector}}},
			Payload: payload,
		}
	}

	wait := true
	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: name,
		Points:         points,
		Wait:           &wait,
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert: %w", wrapCollectionError(err))
	}
	return nil
}

func (s *QdrantStore) Search(ctx context.Context, name string, query []float32, limit int) ([]ScoredChunk, error) {
	resp, err := s.points.Search(ctx, &pb.SearchPoints{
		CollectionName: name,
		Vector:         query,
		Limit:          uint64(limit),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, wrapCollectionError(err)
	}

	results := make([]ScoredChunk, len(resp.Result))
	for i, pt := range resp.Result {
		chunk := ScoredChunk{Score: pt.Score}
		for k, v := range pt.Payload {
			switch k {
			case payloadText:
				chunk.Text = v.GetStringValue()
			case payloadPageNumber:
				page := int(v.GetIntegerValue())
				chunk.PageNumber = &page
			}
		}
		results[i] = chunk
	}
	return results, nil
}

func (s *QdrantStore) Close() error {
	return s.conn.Close()
}

// wrapCollectionError maps Qdrant's "collection doesn't exist" responses to
// the ErrCollectionNotFound sentinel. Other errors pass through unchanged.
func wrapCollectionError(err error) error {
	if err == nil {
		return nil
	}
	if st, ok := status.FromError(err); ok {
		if st.Code() == codes.NotFound || strings.Contains(st.Message(), "doesn't exist") {
			return fmt.Errorf("%w: %s", ErrCollectionNotFound, st.Message())
		}
	}
	return err
}
