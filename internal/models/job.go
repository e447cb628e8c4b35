// Package models contains data structures for the application's domain models.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Buyer identifies the user who posted a job. It is embedded in both jobs
// and bids so that owner-scoped lookups stay single-collection queries.
type Buyer struct {
	Email string `bson:"email" json:"email"`
	Name  string `bson:"name,omitempty" json:"name,omitempty"`
	Photo string `bson:"photo,omitempty" json:"photo,omitempty"`
}

// Job represents a posted task open for bids.
type Job struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Category    string             `bson:"category" json:"category"`
	Description string             `bson:"description" json:"description"`
	// Deadline is kept as the ISO date string the client submits; sorting on it
	// is lexicographic, which matches chronological order for this format.
	Deadline string  `bson:"deadline" json:"deadline"`
	MinPrice float64 `bson:"min_price" json:"min_price"`
	MaxPrice float64 `bson:"max_price" json:"max_price"`
	Buyer    Buyer   `bson:"buyer" json:"buyer"`
	// BidCount is denormalized; incremented when a bid is accepted for this job.
	BidCount int64 `bson:"bid_count,omitempty" json:"bid_count,omitempty"`
}

// JobUpdateResult reports the outcome of an upsert-style job update.
type JobUpdateResult struct {
	Acknowledged  bool        `json:"acknowledged"`
	MatchedCount  int64       `json:"matchedCount"`
	ModifiedCount int64       `json:"modifiedCount"`
	UpsertedID    interface{} `json:"upsertedId,omitempty"`
}

// JobDeleteResult reports how many documents a delete removed.
type JobDeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// JobPageQuery carries the parameters for a paginated, filtered job listing.
// Page is 1-based.
type JobPageQuery struct {
	Page   int
	Size   int
	Filter string
	Sort   string
	Search string
}
