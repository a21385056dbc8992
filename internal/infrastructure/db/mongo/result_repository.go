package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oles/exam-system/internal/core/domain"
)

const resultsCollection = "results"

type ResultRepository struct {
	col *mongo.Collection
}

func NewResultRepository(db *mongo.Database) *ResultRepository {
	return &ResultRepository{col: db.Collection(resultsCollection)}
}

type resultDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	CandidateID       string             `bson:"candidate_id"`
	CandidateUsername string             `bson:"candidate_username"`
	ExamID            string             `bson:"exam_id"`
	ExamTitle         string             `bson:"exam_title"`
	Subject           string             `bson:"subject"`
	Score             int                `bson:"score"`
	Total             int                `bson:"total"`
	SubmittedAt       time.Time          `bson:"submitted_at"`
}

func (d *resultDoc) toDomain() domain.Result {
	return domain.Result{
		ID:                d.ID.Hex(),
		CandidateID:       d.CandidateID,
		CandidateUsername: d.CandidateUsername,
		ExamID:            d.ExamID,
		ExamTitle:         d.ExamTitle,
		Subject:           d.Subject,
		Score:             d.Score,
		Total:             d.Total,
		SubmittedAt:       d.SubmittedAt.UTC(),
	}
}

func (r *ResultRepository) Create(ctx context.Context, res *domain.Result) (*domain.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := resultDoc{
		CandidateID:       res.CandidateID,
		CandidateUsername: res.CandidateUsername,
		ExamID:            res.ExamID,
		ExamTitle:         res.ExamTitle,
		Subject:           res.Subject,
		Score:             res.Score,
		Total:             res.Total,
		SubmittedAt:       res.SubmittedAt,
	}
	ins, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert result: %w", err)
	}
	if oid, ok := ins.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	created := doc.toDomain()
	return &created, nil
}

func (r *ResultRepository) FindByID(ctx context.Context, id string) (*domain.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := objectID(id, domain.ErrResultNotFound)
	if err != nil {
		return nil, err
	}
	var doc resultDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrResultNotFound
		}
		return nil, fmt.Errorf("find result: %w", err)
	}
	res := doc.toDomain()
	return &res, nil
}

// ListByCandidate returns results newest first; an empty candidateID lists all.
func (r *ResultRepository) ListByCandidate(ctx context.Context, candidateID string) ([]domain.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if candidateID != "" {
		filter["candidate_id"] = candidateID
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find results: %w", err)
	}
	defer cur.Close(ctx)

	var docs []resultDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	out := make([]domain.Result, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *ResultRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "candidate_id", Value: 1}, {Key: "submitted_at", Value: -1}}},
		{Keys: bson.D{{Key: "exam_id", Value: 1}}},
	})
	return err
}
