package model

import (
	"strings"

	"aqarat_backend/pkg/utils/arabic"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListingType is the kind of transaction a listing offers.
type ListingType string

const (
	ListingSale ListingType = "sale"
	ListingRent ListingType = "rent"
)

type PropertyStatus string

const (
	StatusAvailable PropertyStatus = "available"
	StatusSold      PropertyStatus = "sold"
	StatusRented    PropertyStatus = "rented"
)

type Purpose string

const (
	PurposeResidential Purpose = "residential"
	PurposeCommercial  Purpose = "commercial"
)

// PropertyKind is the physical kind of the unit.
type PropertyKind string

const (
	KindHouse      PropertyKind = "house"
	KindVilla      PropertyKind = "villa"
	KindApartment  PropertyKind = "apartment"
	KindLand       PropertyKind = "land"
	KindCommercial PropertyKind = "commercial"
	KindOffice     PropertyKind = "office"
)

type Furnishing string

const (
	Furnished     Furnishing = "furnished"
	SemiFurnished Furnishing = "semi-furnished"
	Unfurnished   Furnishing = "unfurnished"
)

const DefaultCurrency = "EGP"

type Property struct {
	gorm.Model
	Title           string                      `json:"title" gorm:"size:255;not null"`
	Slug            string                      `json:"slug" gorm:"size:255;uniqueIndex;not null"`
	Description     string                      `json:"description" gorm:"type:text"`
	Price           float64                     `json:"price" gorm:"not null;index"`
	Currency        string                      `json:"currency" gorm:"size:3;default:EGP"`
	Discount        *float64                    `json:"discount"`
	DiscountedPrice *float64                    `json:"discounted_price"`
	Type            ListingType                 `json:"type" gorm:"size:10;not null;index"`
	Purpose         Purpose                     `json:"purpose" gorm:"size:20"`
	PropertyType    PropertyKind                `json:"property_type" gorm:"size:20"`
	Bedrooms        int                         `json:"bedrooms" gorm:"index"`
	Bathrooms       int                         `json:"bathrooms" gorm:"index"`
	LivingRooms     int                         `json:"living_rooms"`
	Kitchens        int                         `json:"kitchens"`
	Balconies       int                         `json:"balconies"`
	AreaTotal       float64                     `json:"area_total"`
	Floor           *int                        `json:"floor"`
	TotalFloors     *int                        `json:"total_floors"`
	Furnishing      Furnishing                  `json:"furnishing" gorm:"size:20"`
	Features        datatypes.JSONSlice[string] `json:"features"`
	Tags            datatypes.JSONSlice[string] `json:"tags"`
	Status          PropertyStatus              `json:"status" gorm:"size:20;not null;default:available;index"`
	IsFeatured      bool                        `json:"is_featured" gorm:"default:false;index"`
	OwnerID         *uint                       `json:"owner_id"`
	AgencyID        *uint                       `json:"agency_id"`
	Views           uint                        `json:"views" gorm:"default:0"`
	Likes           uint                        `json:"likes" gorm:"default:0"`

	// Relations
	Location *PropertyLocation `json:"location,omitempty" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Images   []PropertyImage   `json:"images,omitempty" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Videos   []PropertyVideo   `json:"videos,omitempty" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Owner    *Owner            `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Agency   *Agency           `json:"agency,omitempty" gorm:"foreignKey:AgencyID"`
}

// BeforeSave fills in the currency when the caller left it blank.
func (p *Property) BeforeSave(tx *gorm.DB) error {
	if strings.TrimSpace(p.Currency) == "" {
		p.Currency = DefaultCurrency
	}
	if p.Status == "" {
		p.Status = StatusAvailable
	}
	return nil
}

// PropertyLocation is the 1:1 address of a listing. CitySearch and
// DistrictSearch hold the normalized, lower-cased forms the location filter
// matches against; they are recomputed on every Create/Save.
type PropertyLocation struct {
	gorm.Model
	PropertyID     uint     `json:"property_id" gorm:"uniqueIndex;not null"`
	City           string   `json:"city" gorm:"size:255;not null"`
	District       string   `json:"district" gorm:"size:255;not null"`
	Street         string   `json:"street" gorm:"size:255"`
	Landmark       *string  `json:"landmark"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	CitySearch     string   `json:"-" gorm:"size:255;index"`
	DistrictSearch string   `json:"-" gorm:"size:255;index"`
}

func (l *PropertyLocation) BeforeSave(tx *gorm.DB) error {
	l.CitySearch = arabic.SearchKey(l.City)
	l.DistrictSearch = arabic.SearchKey(l.District)
	return nil
}

type PropertyImage struct {
	gorm.Model
	PropertyID uint   `json:"property_id" gorm:"index;not null"`
	URL        string `json:"image_url" gorm:"column:image_url;not null"`
	IsPrimary  bool   `json:"is_primary" gorm:"default:false"`
}

type PropertyVideo struct {
	gorm.Model
	PropertyID uint   `json:"property_id" gorm:"index;not null"`
	URL        string `json:"video_url" gorm:"column:video_url;not null"`
}

type Owner struct {
	gorm.Model
	Name  string `json:"name" gorm:"size:255;not null"`
	Phone string `json:"phone" gorm:"size:20"`
	Email string `json:"email" gorm:"size:100"`
}

type Agency struct {
	gorm.Model
	Name  string `json:"name" gorm:"size:255;not null"`
	Phone string `json:"phone" gorm:"size:20"`
	Email string `json:"email" gorm:"size:100"`
	Logo  string `json:"logo"`
}
