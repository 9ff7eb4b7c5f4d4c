package repository

import (
	"context"

	"emtsim/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ExamQuestionRepo handles MongoDB operations for the focused-exam question
// bank. Seeded alongside scenarios; the exam manager loads it once at startup.
type ExamQuestionRepo interface {
	Create(ctx context.Context, question *model.ExamQuestion) error
	GetByID(ctx context.Context, id string) (*model.ExamQuestion, error)
	GetByCategory(ctx context.Context, category model.ExamCategory) ([]*model.ExamQuestion, error)
	GetAll(ctx context.Context) ([]*model.ExamQuestion, error)
	Delete(ctx context.Context, id string) error
}

type examQuestionRepo struct {
	collection *mongo.Collection
}

// NewExamQuestionRepo creates a new exam question repository
func NewExamQuestionRepo(db *mongo.Database) ExamQuestionRepo {
	return &examQuestionRepo{
		collection: db.Collection("exam_questions"),
	}
}

func (r *examQuestionRepo) Create(ctx context.Context, question *model.ExamQuestion) error {
	if question.ID == "" {
		question.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.collection.InsertOne(ctx, question)
	return err
}

func (r *examQuestionRepo) GetByID(ctx context.Context, id string) (*model.ExamQuestion, error) {
	var question model.ExamQuestion
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *examQuestionRepo) GetByCategory(ctx context.Context, category model.ExamCategory) ([]*model.ExamQuestion, error) {
	return r.find(ctx, bson.M{"category": category})
}

func (r *examQuestionRepo) GetAll(ctx context.Context) ([]*model.ExamQuestion, error) {
	return r.find(ctx, bson.M{})
}

func (r *examQuestionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *examQuestionRepo) find(ctx context.Context, filter bson.M) ([]*model.ExamQuestion, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []*model.ExamQuestion
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}
