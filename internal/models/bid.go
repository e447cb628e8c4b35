package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bid represents a proposal submitted by a bidder against a specific job.
// The buyer sub-object duplicates the job owner's identity so that incoming
// proposals can be listed per owner without joining the jobs collection.
type Bid struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email string             `bson:"email" json:"email"`
	JobID string             `bson:"jobId" json:"jobId"`
	Price float64            `bson:"price" json:"price"`
	// Deadline echoes the bidder's proposed completion date.
	Deadline string `bson:"deadline,omitempty" json:"deadline,omitempty"`
	Comment  string `bson:"comment,omitempty" json:"comment,omitempty"`
	JobTitle string `bson:"job_title,omitempty" json:"job_title,omitempty"`
	Category string `bson:"category,omitempty" json:"category,omitempty"`
	Status   string `bson:"status,omitempty" json:"status,omitempty"`
	Buyer    Buyer  `bson:"buyer" json:"buyer"`
	// Extra carries any bidder-supplied fields outside the typed set. The
	// inline tag stores them at the document's top level, so the persisted
	// shape matches what the bidder submitted.
	Extra map[string]any `bson:",inline" json:"-"`
}

// bidFieldNames are the JSON keys bound to typed Bid fields.
var bidFieldNames = map[string]struct{}{
	"_id":       {},
	"email":     {},
	"jobId":     {},
	"price":     {},
	"deadline":  {},
	"comment":   {},
	"job_title": {},
	"category":  {},
	"status":    {},
	"buyer":     {},
}

// CaptureExtra retains the request body's fields that the typed struct does
// not model, so the stored document keeps the bidder's full payload.
func (b *Bid) CaptureExtra(body []byte) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return
	}
	for name := range bidFieldNames {
		delete(raw, name)
	}
	if len(raw) > 0 {
		b.Extra = raw
	}
}

// MarshalJSON flattens Extra back into the top-level object so listings
// return bids in the shape they were submitted. Typed fields win on a key
// collision.
func (b Bid) MarshalJSON() ([]byte, error) {
	type bidAlias Bid
	base, err := json.Marshal(bidAlias(b))
	if err != nil || len(b.Extra) == 0 {
		return base, err
	}

	merged := make(map[string]json.RawMessage, len(b.Extra))
	for k, v := range b.Extra {
		enc, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		merged[k] = enc
	}
	var typed map[string]json.RawMessage
	if err := json.Unmarshal(base, &typed); err != nil {
		return nil, err
	}
	for k, v := range typed {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// BidStatusUpdate is the PATCH payload for a bid. Status values are free-form;
// the marketplace frontend uses Pending/In Progress/Rejected/Complete.
type BidStatusUpdate struct {
	Status string `json:"status"`
}

// BidUpdateResult reports the outcome of a bid status update.
type BidUpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}
