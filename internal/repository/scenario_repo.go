package repository

import (
	"context"
	"time"

	"emtsim/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ScenarioRepo handles MongoDB operations for the scenario catalogue. The
// catalogue is written by the seed tool and read-only at runtime.
type ScenarioRepo interface {
	Create(ctx context.Context, scenario *model.Scenario) (string, error)
	GetByID(ctx context.Context, id string) (*model.Scenario, error)
	Find(ctx context.Context, category model.Category, difficulty model.Difficulty) ([]*model.Scenario, error)
	GetAll(ctx context.Context) ([]*model.Scenario, error)
	Update(ctx context.Context, scenario *model.Scenario) error
	Delete(ctx context.Context, id string) error
}

type scenarioRepo struct {
	collection *mongo.Collection
}

// NewScenarioRepo creates a new scenario repository
func NewScenarioRepo(db *mongo.Database) ScenarioRepo {
	return &scenarioRepo{
		collection: db.Collection("scenarios"),
	}
}

func (r *scenarioRepo) Create(ctx context.Context, scenario *model.Scenario) (string, error) {
	// Seeded scenarios carry readable slug IDs; generate one otherwise
	if scenario.ID == "" {
		scenario.ID = primitive.NewObjectID().Hex()
	}
	scenario.CreatedAt = time.Now()
	scenario.UpdatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, scenario); err != nil {
		return "", err
	}
	return scenario.ID, nil
}

func (r *scenarioRepo) GetByID(ctx context.Context, id string) (*model.Scenario, error) {
	var scenario model.Scenario
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&scenario)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &scenario, nil
}

// Find filters the catalogue; empty category or difficulty match anything
func (r *scenarioRepo) Find(ctx context.Context, category model.Category, difficulty model.Difficulty) ([]*model.Scenario, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	if difficulty != "" {
		filter["difficulty"] = difficulty
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var scenarios []*model.Scenario
	if err := cursor.All(ctx, &scenarios); err != nil {
		return nil, err
	}
	return scenarios, nil
}

func (r *scenarioRepo) GetAll(ctx context.Context) ([]*model.Scenario, error) {
	return r.Find(ctx, "", "")
}

func (r *scenarioRepo) Update(ctx context.Context, scenario *model.Scenario) error {
	scenario.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": scenario.ID}, scenario)
	return err
}

func (r *scenarioRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
