package contracts

// RawRating is a single user-movie rating as read from the source file.
// Every field is optional: nil means the cell was empty or unparseable.
// The cleaner returns the same type, so a cleaned set can be cleaned again.
type RawRating struct {
	UserID    *int64   `json:"userId,omitempty"`
	MovieID   *int64   `json:"movieId,omitempty"`
	Rating    *float64 `json:"rating,omitempty"`
	Timestamp *int64   `json:"timestamp,omitempty"`
}

// Rating bounds used by the MovieLens scale (0.5 ~ 5.0)
const (
	MinRating = 0.5
	MaxRating = 5.0
)

// IsEmpty reports whether every field is missing
func (r RawRating) IsEmpty() bool {
	return r.UserID == nil && r.MovieID == nil && r.Rating == nil && r.Timestamp == nil
}

// IsComplete reports whether userId, movieId and rating are all present
func (r RawRating) IsComplete() bool {
	return r.UserID != nil && r.MovieID != nil && r.Rating != nil
}

// InRange reports whether the rating is present and within [MinRating, MaxRating]
func (r RawRating) InRange() bool {
	return r.Rating != nil && *r.Rating >= MinRating && *r.Rating <= MaxRating
}

// Key returns a comparable value identifying the record by full-field equality.
// Presence is part of the key: a missing timestamp differs from timestamp 0.
func (r RawRating) Key() RatingKey {
	var k RatingKey
	if r.UserID != nil {
		k.HasUser, k.UserID = true, *r.UserID
	}
	if r.MovieID != nil {
		k.HasMovie, k.MovieID = true, *r.MovieID
	}
	if r.Rating != nil {
		k.HasRating, k.Rating = true, *r.Rating
	}
	if r.Timestamp != nil {
		k.HasTimestamp, k.Timestamp = true, *r.Timestamp
	}
	return k
}

// RatingKey is the value form of a RawRating, usable as a map key
type RatingKey struct {
	HasUser      bool
	UserID       int64
	HasMovie     bool
	MovieID      int64
	HasRating    bool
	Rating       float64
	HasTimestamp bool
	Timestamp    int64
}

// NewRating builds a complete RawRating without a timestamp
func NewRating(userID, movieID int64, rating float64) RawRating {
	return RawRating{
		UserID:  &userID,
		MovieID: &movieID,
		Rating:  &rating,
	}
}

// WithTimestamp returns a copy of r carrying the given timestamp
func (r RawRating) WithTimestamp(ts int64) RawRating {
	r.Timestamp = &ts
	return r
}
