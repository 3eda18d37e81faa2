// Package resource renders models into the JSON shapes the API returns.
// Values built here are what the listing caches store.
package resource

import (
	"math"
	"strconv"
	"time"

	"aqarat_backend/internal/model"
	"aqarat_backend/pkg/utils/arabic"
)

type Property struct {
	ID                 uint      `json:"id"`
	Title              string    `json:"title"`
	Slug               string    `json:"slug"`
	Description        string    `json:"description"`
	Price              string    `json:"price"`
	Currency           string    `json:"currency"`
	Discount           *float64  `json:"discount"`
	DiscountPercentage string    `json:"discount_percentage"`
	DiscountedPrice    string    `json:"discounted_price"`
	Type               string    `json:"type"`
	Purpose            string    `json:"purpose"`
	PropertyType       string    `json:"property_type"`
	Bedrooms           int       `json:"bedrooms"`
	Bathrooms          int       `json:"bathrooms"`
	LivingRooms        int       `json:"living_rooms"`
	Kitchens           int       `json:"kitchens"`
	Balconies          int       `json:"balconies"`
	AreaTotal          string    `json:"area_total"`
	Features           []string  `json:"features"`
	Tags               []string  `json:"tags"`
	Floor              *int      `json:"floor"`
	TotalFloors        *int      `json:"total_floors"`
	Furnishing         string    `json:"furnishing"`
	Status             string    `json:"status"`
	Views              uint      `json:"views"`
	Likes              uint      `json:"likes"`
	IsFeatured         bool      `json:"is_featured"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Owner    *Contact  `json:"owner"`
	Agency   *Contact  `json:"agency"`
	Location *Location `json:"location"`
	Images   []Image   `json:"images"`
	Videos   []Video   `json:"videos"`
}

type Contact struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Logo  string `json:"logo,omitempty"`
}

type Location struct {
	ID        uint      `json:"id"`
	City      string    `json:"city"`
	District  string    `json:"district"`
	Street    string    `json:"street"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	Landmark  *string   `json:"landmark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Image struct {
	ID        uint   `json:"id"`
	URL       string `json:"image_url"`
	IsPrimary bool   `json:"is_primary"`
}

type Video struct {
	ID        uint      `json:"id"`
	URL       string    `json:"video_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pagination mirrors the paginator metadata clients already consume.
// From and To are nil on an empty page.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
	From        *int  `json:"from"`
	To          *int  `json:"to"`
}

func NewPagination(page, perPage int, total int64, count int) Pagination {
	p := Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    int(math.Max(1, math.Ceil(float64(total)/float64(perPage)))),
	}
	if count > 0 {
		from := (page-1)*perPage + 1
		to := from + count - 1
		p.From, p.To = &from, &to
	}
	return p
}

type PropertyPage struct {
	Properties []Property `json:"properties"`
	Pagination Pagination `json:"pagination"`
}

func NewProperty(p *model.Property) Property {
	out := Property{
		ID:                 p.ID,
		Title:              p.Title,
		Slug:               p.Slug,
		Description:        p.Description,
		Price:              arabicNumber(&p.Price),
		Currency:           p.Currency,
		Discount:           p.Discount,
		DiscountPercentage: DiscountPercentage(p.Price, p.DiscountedPrice),
		DiscountedPrice:    arabicNumber(p.DiscountedPrice),
		Type:               string(p.Type),
		Purpose:            string(p.Purpose),
		PropertyType:       string(p.PropertyType),
		Bedrooms:           p.Bedrooms,
		Bathrooms:          p.Bathrooms,
		LivingRooms:        p.LivingRooms,
		Kitchens:           p.Kitchens,
		Balconies:          p.Balconies,
		AreaTotal:          arabicNumber(&p.AreaTotal),
		Features:           nonNil(p.Features),
		Tags:               nonNil(p.Tags),
		Floor:              p.Floor,
		TotalFloors:        p.TotalFloors,
		Furnishing:         string(p.Furnishing),
		Status:             string(p.Status),
		Views:              p.Views,
		Likes:              p.Likes,
		IsFeatured:         p.IsFeatured,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
		Images:             make([]Image, 0, len(p.Images)),
		Videos:             make([]Video, 0, len(p.Videos)),
	}

	if p.Owner != nil {
		out.Owner = &Contact{ID: p.Owner.ID, Name: p.Owner.Name, Phone: p.Owner.Phone, Email: p.Owner.Email}
	}
	if p.Agency != nil {
		out.Agency = &Contact{ID: p.Agency.ID, Name: p.Agency.Name, Phone: p.Agency.Phone, Email: p.Agency.Email, Logo: p.Agency.Logo}
	}
	if l := p.Location; l != nil {
		out.Location = &Location{
			ID:        l.ID,
			City:      l.City,
			District:  l.District,
			Street:    l.Street,
			Latitude:  l.Latitude,
			Longitude: l.Longitude,
			Landmark:  l.Landmark,
			CreatedAt: l.CreatedAt,
			UpdatedAt: l.UpdatedAt,
		}
	}
	for _, img := range p.Images {
		out.Images = append(out.Images, Image{ID: img.ID, URL: img.URL, IsPrimary: img.IsPrimary})
	}
	for _, v := range p.Videos {
		out.Videos = append(out.Videos, Video{ID: v.ID, URL: v.URL, CreatedAt: v.CreatedAt, UpdatedAt: v.UpdatedAt})
	}
	return out
}

func NewProperties(ps []model.Property) []Property {
	out := make([]Property, 0, len(ps))
	for i := range ps {
		out = append(out, NewProperty(&ps[i]))
	}
	return out
}

// DiscountPercentage renders the rounded saving as Arabic digits with a
// percent sign, or "" when there is no real discount.
func DiscountPercentage(price float64, discounted *float64) string {
	if discounted == nil || *discounted <= 0 || price <= 0 || price <= *discounted {
		return ""
	}
	pct := math.Round((price - *discounted) / price * 100)
	return arabic.ToArabicDigits(strconv.FormatFloat(pct, 'f', 0, 64)) + "%"
}

func arabicNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return arabic.ToArabicDigits(strconv.FormatFloat(*v, 'f', -1, 64))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
