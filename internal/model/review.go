package model

import "gorm.io/gorm"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	gorm.Model
	UserID     uint    `json:"user_id" gorm:"not null;index:idx_review_user_property"`
	PropertyID *uint   `json:"property_id" gorm:"index:idx_review_user_property"`
	Rating     int     `json:"rating" gorm:"not null"`
	Comment    string  `json:"comment" gorm:"type:text;not null"`
	Likes      UserSet `json:"likes"`

	User     *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Property *Property `json:"-" gorm:"foreignKey:PropertyID;constraint:OnDelete:SET NULL"`
}

// ToggleLike flips userID's like and reports whether it is liked afterwards.
func (r *Review) ToggleLike(userID uint) bool {
	var liked bool
	r.Likes, liked = r.Likes.Toggle(userID)
	return liked
}

func (r *Review) IsLikedBy(userID uint) bool {
	return r.Likes.Contains(userID)
}

func (r *Review) LikesCount() int {
	return len(r.Likes)
}
