// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"regexp"

	"github.com/rockyhaque/uplift-orbit-server/internal/cache"
	"github.com/rockyhaque/uplift-orbit-server/internal/database"
	"github.com/rockyhaque/uplift-orbit-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// JobRepository defines the interface for job data operations
type JobRepository interface {
	List(ctx context.Context) ([]models.Job, error)
	ListPage(ctx context.Context, q models.JobPageQuery) ([]models.Job, error)
	Count(ctx context.Context, filter, search string) (int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error)
	GetByBuyerEmail(ctx context.Context, email string) ([]models.Job, error)
	Create(ctx context.Context, job *models.Job) (primitive.ObjectID, error)
	Update(ctx context.Context, id primitive.ObjectID, job *models.Job) (*models.JobUpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	IncrementBidCount(ctx context.Context, id primitive.ObjectID) error
}

// jobRepository implements JobRepository
type jobRepository struct {
	col *mongo.Collection
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *mongo.Database) JobRepository {
	return &jobRepository{col: db.Collection(database.JobsCollection)}
}

// BuildJobFilter constructs the shared predicate for paginated listing and
// counting. Both must use the same predicate or the pagination math breaks.
// An empty search matches everything; a non-empty search is a case-insensitive
// literal substring match against the title.
func BuildJobFilter(filter, search string) bson.M {
	q := bson.M{}
	if search != "" {
		q["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	}
	if filter != "" {
		q["category"] = filter
	}
	return q
}

func (r *jobRepository) List(ctx context.Context) ([]models.Job, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	jobs := []models.Job{}
	if err := cur.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// DeadlineSort resolves the sort parameter for paginated listings: "asc"
// ascends, any other non-empty value descends, empty leaves the store order
// untouched.
func DeadlineSort(sort string) bson.D {
	switch sort {
	case "":
		return nil
	case "asc":
		return bson.D{{Key: "deadline", Value: 1}}
	default:
		return bson.D{{Key: "deadline", Value: -1}}
	}
}

func (r *jobRepository) ListPage(ctx context.Context, q models.JobPageQuery) ([]models.Job, error) {
	opts := options.Find().
		SetSkip(int64(q.Page-1) * int64(q.Size)).
		SetLimit(int64(q.Size))
	if sort := DeadlineSort(q.Sort); sort != nil {
		opts.SetSort(sort)
	}

	cur, err := r.col.Find(ctx, BuildJobFilter(q.Filter, q.Search), opts)
	if err != nil {
		return nil, err
	}
	jobs := []models.Job{}
	if err := cur.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRepository) Count(ctx context.Context, filter, search string) (int64, error) {
	var count int64
	err := cache.Aside(ctx, cache.JobsCountKey(filter, search), &count, cache.JobsCountTTL, func() error {
		n, err := r.col.CountDocuments(ctx, BuildJobFilter(filter, search))
		if err != nil {
			return err
		}
		count = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *jobRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error) {
	var job models.Job
	key := cache.JobKey(id.Hex())

	if found, err := cache.GetJSON(ctx, key, &job); err == nil && found {
		return &job, nil
	}

	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&job)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Absent documents are a valid empty result, not an error.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	_ = cache.SetJSON(ctx, key, &job, cache.JobTTL)
	return &job, nil
}

func (r *jobRepository) GetByBuyerEmail(ctx context.Context, email string) ([]models.Job, error) {
	cur, err := r.col.Find(ctx, bson.M{"buyer.email": email})
	if err != nil {
		return nil, err
	}
	jobs := []models.Job{}
	if err := cur.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRepository) Create(ctx context.Context, job *models.Job) (primitive.ObjectID, error) {
	res, err := r.col.InsertOne(ctx, job)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (r *jobRepository) Update(ctx context.Context, id primitive.ObjectID, job *models.Job) (*models.JobUpdateResult, error) {
	// Full-field replace with upsert: a missing id inserts a fresh document,
	// whose store-assigned id differs from the requested one.
	update := bson.M{"$set": bson.M{
		"title":       job.Title,
		"category":    job.Category,
		"description": job.Description,
		"deadline":    job.Deadline,
		"min_price":   job.MinPrice,
		"max_price":   job.MaxPrice,
		"buyer":       job.Buyer,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, err
	}

	cache.InvalidateJob(ctx, id.Hex())
	return &models.JobUpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

func (r *jobRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	cache.InvalidateJob(ctx, id.Hex())
	return res.DeletedCount, nil
}

func (r *jobRepository) IncrementBidCount(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"bid_count": 1}})
	if err == nil {
		cache.InvalidateJob(ctx, id.Hex())
	}
	return err
}
