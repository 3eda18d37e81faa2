package resource

import (
	"time"

	"aqarat_backend/internal/model"
)

// AnonymousUserName is shown for reviews whose author no longer exists.
const AnonymousUserName = "مستخدم"

type Review struct {
	ID            uint      `json:"id"`
	PropertyID    *uint     `json:"property_id"`
	PropertyTitle *string   `json:"property_title"`
	UserName      string    `json:"user_name"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	LikesCount    int       `json:"likes_count"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewReview(r *model.Review) Review {
	out := Review{
		ID:         r.ID,
		PropertyID: r.PropertyID,
		UserName:   AnonymousUserName,
		Rating:     r.Rating,
		Comment:    r.Comment,
		LikesCount: r.LikesCount(),
		CreatedAt:  r.CreatedAt,
	}
	if r.User != nil {
		out.UserName = r.User.Name
	}
	if r.Property != nil {
		title := r.Property.Title
		out.PropertyTitle = &title
	}
	return out
}

func NewReviews(rs []model.Review) []Review {
	out := make([]Review, 0, len(rs))
	for i := range rs {
		out = append(out, NewReview(&rs[i]))
	}
	return out
}

// ReviewPage is one page of the public review feed.
type ReviewPage struct {
	Reviews         []Review `json:"reviews"`
	HasMore         bool     `json:"has_more"`
	CurrentPage     int      `json:"current_page"`
	TotalReviews    int64    `json:"total_reviews"`
	TotalLikesCount *int64   `json:"total_likes_count,omitempty"`
}

type PropertyReviews struct {
	Status       string   `json:"status"`
	Reviews      []Review `json:"reviews"`
	TotalReviews int      `json:"total_reviews"`
}
