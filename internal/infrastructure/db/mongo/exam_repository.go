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

const examsCollection = "exams"

type ExamRepository struct {
	col *mongo.Collection
}

func NewExamRepository(db *mongo.Database) *ExamRepository {
	return &ExamRepository{col: db.Collection(examsCollection)}
}

type examDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Title           string             `bson:"title"`
	Subject         string             `bson:"subject"`
	DurationMinutes int                `bson:"duration_minutes"`
	StartTime       time.Time          `bson:"start_time,omitempty"`
	EndTime         time.Time          `bson:"end_time,omitempty"`
	QuestionIDs     []string           `bson:"question_ids"`
}

func (d *examDoc) toDomain() domain.Exam {
	ids := d.QuestionIDs
	if ids == nil {
		ids = []string{}
	}
	return domain.Exam{
		ID:              d.ID.Hex(),
		Title:           d.Title,
		Subject:         d.Subject,
		DurationMinutes: d.DurationMinutes,
		StartTime:       d.StartTime.UTC(),
		EndTime:         d.EndTime.UTC(),
		QuestionIDs:     ids,
	}
}

func (r *ExamRepository) Create(ctx context.Context, e *domain.Exam) (*domain.Exam, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := examDoc{
		Title:           e.Title,
		Subject:         e.Subject,
		DurationMinutes: e.DurationMinutes,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		QuestionIDs:     e.QuestionIDs,
	}
	if doc.QuestionIDs == nil {
		doc.QuestionIDs = []string{}
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert exam: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	created := doc.toDomain()
	return &created, nil
}

func (r *ExamRepository) FindByID(ctx context.Context, id string) (*domain.Exam, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := objectID(id, domain.ErrExamNotFound)
	if err != nil {
		return nil, err
	}

	var doc examDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrExamNotFound
		}
		return nil, fmt.Errorf("find exam: %w", err)
	}
	e := doc.toDomain()
	return &e, nil
}

func (r *ExamRepository) List(ctx context.Context) ([]domain.Exam, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find exams: %w", err)
	}
	defer cur.Close(ctx)

	var docs []examDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode exams: %w", err)
	}
	out := make([]domain.Exam, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// AddQuestion uses $addToSet so attaching the same question twice is a no-op.
func (r *ExamRepository) AddQuestion(ctx context.Context, examID, questionID string) (*domain.Exam, error) {
	oid, err := objectID(examID, domain.ErrExamNotFound)
	if err != nil {
		return nil, err
	}

	updateCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(updateCtx, bson.M{"_id": oid}, bson.M{
		"$addToSet": bson.M{"question_ids": questionID},
	})
	if err != nil {
		return nil, fmt.Errorf("add question: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrExamNotFound
	}
	return r.FindByID(ctx, examID)
}

func (r *ExamRepository) SetQuestions(ctx context.Context, examID string, questionIDs []string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := objectID(examID, domain.ErrExamNotFound)
	if err != nil {
		return err
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"question_ids": questionIDs},
	})
	if err != nil {
		return fmt.Errorf("set questions: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrExamNotFound
	}
	return nil
}

func (r *ExamRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := objectID(id, domain.ErrExamNotFound)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrExamNotFound
	}
	return nil
}

func (r *ExamRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
