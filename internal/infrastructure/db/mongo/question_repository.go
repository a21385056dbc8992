package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oles/exam-system/internal/core/domain"
)

const questionsCollection = "questions"

type QuestionRepository struct {
	col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{col: db.Collection(questionsCollection)}
}

type questionDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Subject      string             `bson:"subject"`
	Text         string             `bson:"text"`
	Choices      []string           `bson:"choices"`
	CorrectIndex int                `bson:"correct_index"`
}

func (d *questionDoc) toDomain() domain.Question {
	return domain.Question{
		ID:           d.ID.Hex(),
		Subject:      d.Subject,
		Text:         d.Text,
		Choices:      d.Choices,
		CorrectIndex: d.CorrectIndex,
	}
}

func (r *QuestionRepository) Create(ctx context.Context, q *domain.Question) (*domain.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := questionDoc{Subject: q.Subject, Text: q.Text, Choices: q.Choices, CorrectIndex: q.CorrectIndex}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert question: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	created := doc.toDomain()
	return &created, nil
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*domain.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := objectID(id, domain.ErrQuestionNotFound)
	if err != nil {
		return nil, err
	}

	var doc questionDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("find question: %w", err)
	}
	q := doc.toDomain()
	return &q, nil
}

// FindByIDs fetches the questions in one query and returns them in the order
// of ids. Unknown or malformed ids are skipped.
func (r *QuestionRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []domain.Question{}, nil
	}

	docs, err := r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Question, len(docs))
	for _, q := range docs {
		byID[q.ID] = q
	}
	out := make([]domain.Question, 0, len(docs))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *QuestionRepository) List(ctx context.Context) ([]domain.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.find(ctx, bson.M{})
}

func (r *QuestionRepository) Update(ctx context.Context, q *domain.Question) (*domain.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := objectID(q.ID, domain.ErrQuestionNotFound)
	if err != nil {
		return nil, err
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"subject":       q.Subject,
		"text":          q.Text,
		"choices":       q.Choices,
		"correct_index": q.CorrectIndex,
	}})
	if err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrQuestionNotFound
	}
	updated := *q
	return &updated, nil
}

func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := objectID(id, domain.ErrQuestionNotFound)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (r *QuestionRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *QuestionRepository) find(ctx context.Context, filter bson.M) ([]domain.Question, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find questions: %w", err)
	}
	defer cur.Close(ctx)

	var docs []questionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	out := make([]domain.Question, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}
