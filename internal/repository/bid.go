package repository

import (
	"context"
	"errors"

	"github.com/rockyhaque/uplift-orbit-server/internal/database"
	"github.com/rockyhaque/uplift-orbit-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrDuplicateBid indicates a bidder already has a proposal for the job.
var ErrDuplicateBid = errors.New("duplicate proposal for this job")

// BidRepository defines the interface for bid data operations
type BidRepository interface {
	HasBidForJob(ctx context.Context, email, jobID string) (bool, error)
	Create(ctx context.Context, bid *models.Bid) (primitive.ObjectID, error)
	GetByBidderEmail(ctx context.Context, email string) ([]models.Bid, error)
	GetByOwnerEmail(ctx context.Context, email string) ([]models.Bid, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, update models.BidStatusUpdate) (*models.BidUpdateResult, error)
}

// bidRepository implements BidRepository
type bidRepository struct {
	col *mongo.Collection
}

// NewBidRepository creates a new bid repository
func NewBidRepository(db *mongo.Database) BidRepository {
	return &bidRepository{col: db.Collection(database.BidsCollection)}
}

func (r *bidRepository) HasBidForJob(ctx context.Context, email, jobID string) (bool, error) {
	err := r.col.FindOne(ctx, bson.M{"email": email, "jobId": jobID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts the bid. The unique (email, jobId) index turns a race between
// two identical submissions into ErrDuplicateBid instead of a double insert.
func (r *bidRepository) Create(ctx context.Context, bid *models.Bid) (primitive.ObjectID, error) {
	res, err := r.col.InsertOne(ctx, bid)
	if mongo.IsDuplicateKeyError(err) {
		return primitive.NilObjectID, ErrDuplicateBid
	}
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (r *bidRepository) GetByBidderEmail(ctx context.Context, email string) ([]models.Bid, error) {
	cur, err := r.col.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	bids := []models.Bid{}
	if err := cur.All(ctx, &bids); err != nil {
		return nil, err
	}
	return bids, nil
}

func (r *bidRepository) GetByOwnerEmail(ctx context.Context, email string) ([]models.Bid, error) {
	cur, err := r.col.Find(ctx, bson.M{"buyer.email": email})
	if err != nil {
		return nil, err
	}
	bids := []models.Bid{}
	if err := cur.All(ctx, &bids); err != nil {
		return nil, err
	}
	return bids, nil
}

func (r *bidRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, update models.BidStatusUpdate) (*models.BidUpdateResult, error) {
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"status": update.Status}})
	if err != nil {
		return nil, err
	}
	return &models.BidUpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}
