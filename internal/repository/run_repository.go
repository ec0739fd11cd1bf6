package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/dujoseaugusto/land-data-scraper/internal/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Candidate outcome statuses recorded for each scraped listing
const (
	OutcomeInserted         = "inserted"
	OutcomeSkipped          = "skipped"
	OutcomeCostFailed       = "cost_failed"
	OutcomeZoningFailed     = "zoning_failed"
	OutcomeZoningLinkFailed = "zoning_link_failed"
)

// CandidateOutcome is what happened to one candidate during an ingestion run
type CandidateOutcome struct {
	Index     int      `bson:"index" json:"index"`
	Status    string   `bson:"status" json:"status"`
	AddressID int64    `bson:"address_id,omitempty" json:"address_id,omitempty"`
	Street    string   `bson:"street" json:"street"`
	City      string   `bson:"city" json:"city"`
	UnitCost  *float64 `bson:"unit_cost,omitempty" json:"unit_cost,omitempty"`
	Error     string   `bson:"error,omitempty" json:"error,omitempty"`
}

// IngestionRun is the audit record of one ingest request
type IngestionRun struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Source     string             `bson:"source" json:"source"`
	Region     string             `bson:"region" json:"region"`
	StartedAt  time.Time          `bson:"started_at" json:"started_at"`
	FinishedAt time.Time          `bson:"finished_at" json:"finished_at"`
	Fetched    int                `bson:"fetched" json:"fetched"`
	Inserted   int                `bson:"inserted" json:"inserted"`
	Outcomes   []CandidateOutcome `bson:"outcomes" json:"outcomes"`
}

type RunRepository interface {
	SaveRun(ctx context.Context, run IngestionRun) error
	RecentRuns(ctx context.Context, limit int) ([]IngestionRun, error)
	Close() error
}

type MongoRunRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewMongoRunRepository(ctx context.Context, uri, dbName string) (*MongoRunRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	repo := &MongoRunRepository{
		client:     client,
		collection: client.Database(dbName).Collection("ingestion_runs"),
		logger:     logger.NewLogger("run_repository"),
	}

	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "started_at", Value: -1}},
	}
	if _, err := repo.collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		repo.logger.Warn("Failed to create index on started_at: " + err.Error())
	}

	return repo, nil
}

func (r *MongoRunRepository) SaveRun(ctx context.Context, run IngestionRun) error {
	if run.Outcomes == nil {
		run.Outcomes = []CandidateOutcome{}
	}
	if _, err := r.collection.InsertOne(ctx, run); err != nil {
		return fmt.Errorf("save ingestion run: %w", err)
	}
	return nil
}

func (r *MongoRunRepository) RecentRuns(ctx context.Context, limit int) ([]IngestionRun, error) {
	if limit <= 0 {
		limit = 20
	}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find ingestion runs: %w", err)
	}
	defer cursor.Close(ctx)

	runs := []IngestionRun{}
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("decode ingestion runs: %w", err)
	}
	return runs, nil
}

func (r *MongoRunRepository) Close() error {
	return r.client.Disconnect(context.Background())
}

// NopRunRepository discards runs; used when no MONGO_URI is configured.
type NopRunRepository struct{}

func (NopRunRepository) SaveRun(context.Context, IngestionRun) error { return nil }

func (NopRunRepository) RecentRuns(context.Context, int) ([]IngestionRun, error) {
	return []IngestionRun{}, nil
}

func (NopRunRepository) Close() error { return nil }
