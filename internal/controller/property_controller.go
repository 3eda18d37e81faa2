package controller

import (
	"strings"

	"aqarat_backend/internal/model"
	"aqarat_backend/internal/search"
	"aqarat_backend/internal/service"
	"aqarat_backend/pkg/utils/validation"

	"github.com/gofiber/fiber/v2"
)

type PropertyController struct {
	properties *service.PropertyService
}

func NewPropertyController(properties *service.PropertyService) *PropertyController {
	return &PropertyController{properties: properties}
}

// propertyForm is the multipart body of property create and update. Every
// field is optional at this level; create adds its own required check.
type propertyForm struct {
	Title        *string `form:"title" validate:"omitnil,max=255"`
	Description  *string `form:"description"`
	PropertyType *string `form:"property_type" validate:"omitnil,oneof=house villa apartment land commercial office"`
	Type         *string `form:"type" validate:"omitnil,oneof=sale rent"`
	Purpose      *string `form:"purpose" validate:"omitnil,oneof=residential commercial"`
	Furnishing   *string `form:"furnishing" validate:"omitnil,oneof=furnished semi-furnished unfurnished"`
	Status       *string `form:"status" validate:"omitnil,oneof=available sold rented"`
	IsFeatured   *string `form:"is_featured" validate:"omitnil,oneof=true false 1 0"`
	Currency     *string `form:"currency" validate:"omitnil,max=10"`

	Bedrooms        *string `form:"bedrooms" validate:"omitnil,number"`
	Bathrooms       *string `form:"bathrooms" validate:"omitnil,number"`
	LivingRooms     *string `form:"living_rooms" validate:"omitnil,number"`
	Kitchens        *string `form:"kitchens" validate:"omitnil,number"`
	Balconies       *string `form:"balconies" validate:"omitnil,number"`
	AreaTotal       *string `form:"area_total" validate:"omitnil,numeric"`
	Floor           *string `form:"floor" validate:"omitnil,number"`
	TotalFloors     *string `form:"total_floors" validate:"omitnil,number"`
	Price           *string `form:"price" validate:"omitnil,numeric"`
	Discount        *string `form:"discount" validate:"omitnil,numeric"`
	DiscountedPrice *string `form:"discounted_price" validate:"omitnil,numeric"`
	OwnerID         *string `form:"owner_id" validate:"omitnil,number"`
	AgencyID        *string `form:"agency_id" validate:"omitnil,number"`

	City      *string `form:"city" validate:"omitnil,max=255"`
	District  *string `form:"district" validate:"omitnil,max=255"`
	Street    *string `form:"street" validate:"omitnil,max=255"`
	Landmark  *string `form:"landmark" validate:"omitnil,max=255"`
	Latitude  *string `form:"latitude" validate:"omitnil,numeric"`
	Longitude *string `form:"longitude" validate:"omitnil,numeric"`
}

// propertyNumbers holds the parsed numeric fields for range checks.
type propertyNumbers struct {
	Bedrooms        *int     `json:"bedrooms" validate:"omitnil,min=1,max=20"`
	Bathrooms       *int     `json:"bathrooms" validate:"omitnil,min=1,max=15"`
	LivingRooms     *int     `json:"living_rooms" validate:"omitnil,min=0,max=10"`
	Kitchens        *int     `json:"kitchens" validate:"omitnil,min=1,max=5"`
	Balconies       *int     `json:"balconies" validate:"omitnil,min=0,max=10"`
	AreaTotal       *float64 `json:"area_total" validate:"omitnil,min=0,max=100000"`
	Floor           *int     `json:"floor" validate:"omitnil,min=1"`
	TotalFloors     *int     `json:"total_floors" validate:"omitnil,min=1"`
	Price           *float64 `json:"price" validate:"omitnil,min=0"`
	Discount        *float64 `json:"discount" validate:"omitnil,min=0,max=100"`
	DiscountedPrice *float64 `json:"discounted_price" validate:"omitnil,min=0"`
	Latitude        *float64 `json:"latitude" validate:"omitnil,min=-90,max=90"`
	Longitude       *float64 `json:"longitude" validate:"omitnil,min=-180,max=180"`
	OwnerID         *uint    `json:"owner_id"`
	AgencyID        *uint    `json:"agency_id"`
}

var propertyMessages = validation.Messages{
	"title.required":           "العنوان مطلوب.",
	"title.max":                "العنوان يجب ألا يتجاوز 255 حرفًا.",
	"description.required":     "الوصف مطلوب.",
	"property_type.required":   "نوع العقار مطلوب.",
	"property_type.oneof":      "نوع العقار غير صالح.",
	"type.required":            "نوع العرض مطلوب.",
	"type.oneof":               "نوع العرض يجب أن يكون بيع أو إيجار.",
	"purpose.required":         "الغرض من العقار مطلوب.",
	"purpose.oneof":            "الغرض يجب أن يكون سكني أو تجاري.",
	"furnishing.oneof":         "حالة التأثيث غير صالحة.",
	"status.oneof":             "حالة العقار غير صالحة.",
	"is_featured.oneof":        "قيمة التمييز يجب أن تكون صحيحة أو خاطئة.",
	"currency.max":             "العملة غير صالحة.",
	"bedrooms.required":        "عدد غرف النوم مطلوب.",
	"bedrooms.number":          "عدد غرف النوم يجب أن يكون رقمًا.",
	"bedrooms.min":             "يجب أن يحتوي العقار على غرفة نوم واحدة على الأقل.",
	"bedrooms.max":             "عدد غرف النوم يجب ألا يتجاوز 20.",
	"bathrooms.required":       "عدد الحمامات مطلوب.",
	"bathrooms.number":         "عدد الحمامات يجب أن يكون رقمًا.",
	"bathrooms.min":            "يجب أن يحتوي العقار على حمام واحد على الأقل.",
	"bathrooms.max":            "عدد الحمامات يجب ألا يتجاوز 15.",
	"living_rooms.number":      "عدد غرف المعيشة يجب أن يكون رقمًا.",
	"living_rooms.min":         "عدد غرف المعيشة لا يمكن أن يكون سالبًا.",
	"living_rooms.max":         "عدد غرف المعيشة يجب ألا يتجاوز 10.",
	"kitchens.number":          "عدد المطابخ يجب أن يكون رقمًا.",
	"kitchens.min":             "يجب أن يحتوي العقار على مطبخ واحد على الأقل.",
	"kitchens.max":             "عدد المطابخ يجب ألا يتجاوز 5.",
	"balconies.number":         "عدد الشرفات يجب أن يكون رقمًا.",
	"balconies.min":            "عدد الشرفات لا يمكن أن يكون سالبًا.",
	"balconies.max":            "عدد الشرفات يجب ألا يتجاوز 10.",
	"area_total.required":      "المساحة الإجمالية مطلوبة.",
	"area_total.numeric":       "المساحة يجب أن تكون رقمًا.",
	"area_total.min":           "المساحة لا يمكن أن تكون سالبة.",
	"area_total.max":           "المساحة يجب ألا تتجاوز 100000 متر مربع.",
	"floor.number":             "رقم الطابق يجب أن يكون رقمًا.",
	"floor.min":                "رقم الطابق يجب أن يكون 0 أو أكثر.",
	"total_floors.number":      "عدد الطوابق يجب أن يكون رقمًا.",
	"total_floors.min":         "عدد الطوابق يجب أن يكون 1 على الأقل.",
	"price.required":           "السعر مطلوب.",
	"price.numeric":            "السعر يجب أن يكون رقمًا.",
	"price.min":                "السعر لا يمكن أن يكون سالبًا.",
	"discount.numeric":         "الخصم يجب أن يكون رقمًا.",
	"discount.min":             "الخصم لا يمكن أن يكون سالبًا.",
	"discount.max":             "الخصم يجب ألا يتجاوز 100%.",
	"discounted_price.numeric": "السعر بعد الخصم يجب أن يكون رقمًا.",
	"discounted_price.min":     "السعر بعد الخصم لا يمكن أن يكون سالبًا.",
	"owner_id.number":          "المالك غير صالح.",
	"agency_id.number":         "الوكالة غير صالحة.",
	"city.required":            "المدينة مطلوبة.",
	"city.max":                 "اسم المدينة يجب ألا يتجاوز 255 حرفًا.",
	"district.required":        "الحي مطلوب.",
	"district.max":             "اسم الحي يجب ألا يتجاوز 255 حرفًا.",
	"street.required":          "الشارع مطلوب.",
	"street.max":               "اسم الشارع يجب ألا يتجاوز 255 حرفًا.",
	"landmark.max":             "العلامة المميزة يجب ألا تتجاوز 255 حرفًا.",
	"latitude.numeric":         "خط العرض يجب أن يكون رقمًا.",
	"latitude.min":             "خط العرض غير صالح.",
	"latitude.max":             "خط العرض غير صالح.",
	"longitude.numeric":        "خط الطول يجب أن يكون رقمًا.",
	"longitude.min":            "خط الطول غير صالح.",
	"longitude.max":            "خط الطول غير صالح.",
}

// requiredOnCreate lists the fields a new listing cannot omit, in the order
// they are reported.
var requiredOnCreate = []struct {
	field string
	get   func(*propertyForm) *string
}{
	{"title", func(f *propertyForm) *string { return f.Title }},
	{"description", func(f *propertyForm) *string { return f.Description }},
	{"property_type", func(f *propertyForm) *string { return f.PropertyType }},
	{"type", func(f *propertyForm) *string { return f.Type }},
	{"purpose", func(f *propertyForm) *string { return f.Purpose }},
	{"bedrooms", func(f *propertyForm) *string { return f.Bedrooms }},
	{"bathrooms", func(f *propertyForm) *string { return f.Bathrooms }},
	{"area_total", func(f *propertyForm) *string { return f.AreaTotal }},
	{"price", func(f *propertyForm) *string { return f.Price }},
	{"city", func(f *propertyForm) *string { return f.City }},
	{"district", func(f *propertyForm) *string { return f.District }},
	{"street", func(f *propertyForm) *string { return f.Street }},
}

func (f *propertyForm) normalize() {
	englishDigits(f.Bedrooms, f.Bathrooms, f.LivingRooms, f.Kitchens, f.Balconies,
		f.AreaTotal, f.Floor, f.TotalFloors, f.Price, f.Discount, f.DiscountedPrice,
		f.OwnerID, f.AgencyID, f.Latitude, f.Longitude)

	// Blank optional fields count as absent.
	for _, p := range []**string{&f.Title, &f.Description, &f.PropertyType, &f.Type, &f.Purpose,
		&f.Furnishing, &f.Status, &f.IsFeatured, &f.Currency, &f.Bedrooms, &f.Bathrooms,
		&f.LivingRooms, &f.Kitchens, &f.Balconies, &f.AreaTotal, &f.Floor, &f.TotalFloors,
		&f.Price, &f.Discount, &f.DiscountedPrice, &f.OwnerID, &f.AgencyID, &f.City,
		&f.District, &f.Street, &f.Landmark, &f.Latitude, &f.Longitude} {
		if *p != nil && strings.TrimSpace(**p) == "" {
			*p = nil
		}
	}
}

func (f *propertyForm) numbers() (propertyNumbers, error) {
	p := numberParser{messages: propertyMessages}
	nums := propertyNumbers{
		Bedrooms:        p.int("bedrooms", f.Bedrooms),
		Bathrooms:       p.int("bathrooms", f.Bathrooms),
		LivingRooms:     p.int("living_rooms", f.LivingRooms),
		Kitchens:        p.int("kitchens", f.Kitchens),
		Balconies:       p.int("balconies", f.Balconies),
		AreaTotal:       p.float("area_total", f.AreaTotal),
		Floor:           p.int("floor", f.Floor),
		TotalFloors:     p.int("total_floors", f.TotalFloors),
		Price:           p.float("price", f.Price),
		Discount:        p.float("discount", f.Discount),
		DiscountedPrice: p.float("discounted_price", f.DiscountedPrice),
		Latitude:        p.float("latitude", f.Latitude),
		Longitude:       p.float("longitude", f.Longitude),
		OwnerID:         p.uint("owner_id", f.OwnerID),
		AgencyID:        p.uint("agency_id", f.AgencyID),
	}
	return nums, p.err
}

// parsePropertyForm binds and validates the multipart body, returning the
// parsed numbers alongside the raw form.
func parsePropertyForm(c *fiber.Ctx, create bool) (*propertyForm, propertyNumbers, error) {
	form := new(propertyForm)
	if err := c.BodyParser(form); err != nil {
		return nil, propertyNumbers{}, &validation.Error{Message: msgInvalidInput}
	}
	form.normalize()

	if create {
		for _, r := range requiredOnCreate {
			if r.get(form) == nil {
				return nil, propertyNumbers{}, &validation.Error{
					Field: r.field, Tag: "required", Message: propertyMessages[r.field+".required"],
				}
			}
		}
	}
	if err := validation.Struct(form, propertyMessages); err != nil {
		return nil, propertyNumbers{}, err
	}
	nums, err := form.numbers()
	if err != nil {
		return nil, propertyNumbers{}, err
	}
	if err := validation.Struct(nums, propertyMessages); err != nil {
		return nil, propertyNumbers{}, err
	}

	images := formFiles(c, "images")
	if err := validation.ValidateImages(images, validation.MaxPropertyImages); err != nil {
		return nil, propertyNumbers{}, err
	}
	videos := formFiles(c, "videos")
	if err := validation.ValidateVideos(videos, validation.MaxPropertyVideos); err != nil {
		return nil, propertyNumbers{}, err
	}
	return form, nums, nil
}

func orZero[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func asEnum[T ~string](s *string) *T {
	if s == nil {
		return nil
	}
	v := T(*s)
	return &v
}

// Index returns the cached listing page named by the page header.
func (pc *PropertyController) Index(c *fiber.Ctx) error {
	page, err := pc.properties.Index(c.UserContext(), currentPage(c))
	if err != nil {
		return handleError(c, err, "")
	}
	return successData(c, fiber.StatusOK, page)
}

func (pc *PropertyController) Show(c *fiber.Ctx) error {
	slug := strings.TrimSpace(c.Params("slug"))
	if slug == "" {
		return fail(c, fiber.StatusNotFound, "العقار غير موجود")
	}
	p, err := pc.properties.BySlug(c.UserContext(), slug)
	if err != nil {
		return handleError(c, err, "")
	}
	return successData(c, fiber.StatusOK, p)
}

type filterQuery struct {
	Search     string `query:"search" validate:"max=255"`
	IsFeatured string `query:"is_featured" validate:"omitempty,oneof=true false all 1 0"`
	Type       string `query:"type" validate:"omitempty,oneof=sale rent all"`
	Status     string `query:"status" validate:"omitempty,oneof=available sold rented all"`
	Location   string `query:"location" validate:"max=255"`
	MinPrice   string `query:"minPrice" validate:"omitempty,numeric"`
	MaxPrice   string `query:"maxPrice" validate:"omitempty,numeric"`
	Bedrooms   string `query:"bedrooms" validate:"omitempty,number"`
	Bathrooms  string `query:"bathrooms" validate:"omitempty,number"`
}

type filterNumbers struct {
	MinPrice  *float64 `json:"minPrice" validate:"omitnil,min=0"`
	MaxPrice  *float64 `json:"maxPrice" validate:"omitnil,min=0"`
	Bedrooms  *int     `json:"bedrooms" validate:"omitnil,min=0"`
	Bathrooms *int     `json:"bathrooms" validate:"omitnil,min=0"`
}

var filterMessages = validation.Messages{
	"search.max":        "يجب ألا يزيد نص البحث عن 255 حرفًا",
	"is_featured.oneof": "قيمة التمييز غير صالحة",
	"type.oneof":        "نوع العرض غير صالح",
	"status.oneof":      "حالة العقار غير صالحة",
	"location.max":      "يجب ألا يزيد الموقع عن 255 حرفًا",
	"minPrice.numeric":  "يجب أن يكون الحد الأدنى للسعر رقماً",
	"maxPrice.numeric":  "يجب أن يكون الحد الأقصى للسعر رقماً",
	"bedrooms.number":   "يجب أن يكون عدد غرف النوم رقماً",
	"bathrooms.number":  "يجب أن يكون عدد الحمامات رقماً",
	"minPrice.min":      "يجب أن لا يقل الحد الأدنى للسعر عن 0",
	"maxPrice.min":      "يجب أن لا يقل الحد الأقصى للسعر عن 0",
	"bedrooms.min":      "يجب أن لا يقل عدد غرف النوم عن 0",
	"bathrooms.min":     "يجب أن لا يقل عدد الحمامات عن 0",
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Filter runs the public search. Numeric parameters accept Arabic digits.
func (pc *PropertyController) Filter(c *fiber.Ctx) error {
	q := new(filterQuery)
	if err := c.QueryParser(q); err != nil {
		return fail(c, fiber.StatusUnprocessableEntity, msgInvalidInput)
	}
	englishDigits(&q.MinPrice, &q.MaxPrice, &q.Bedrooms, &q.Bathrooms)
	if err := validation.Struct(q, filterMessages); err != nil {
		return handleError(c, err, "")
	}
	p := numberParser{messages: filterMessages}
	nums := filterNumbers{
		MinPrice:  p.float("minPrice", optional(q.MinPrice)),
		MaxPrice:  p.float("maxPrice", optional(q.MaxPrice)),
		Bedrooms:  p.int("bedrooms", optional(q.Bedrooms)),
		Bathrooms: p.int("bathrooms", optional(q.Bathrooms)),
	}
	if p.err != nil {
		return handleError(c, p.err, "")
	}
	if err := validation.Struct(nums, filterMessages); err != nil {
		return handleError(c, err, "")
	}

	page, err := pc.properties.Filter(c.UserContext(), search.FilterSpec{
		Search:     strings.TrimSpace(q.Search),
		IsFeatured: q.IsFeatured,
		Status:     q.Status,
		Type:       q.Type,
		Location:   strings.TrimSpace(q.Location),
		MinPrice:   nums.MinPrice,
		MaxPrice:   nums.MaxPrice,
		Bedrooms:   nums.Bedrooms,
		Bathrooms:  nums.Bathrooms,
		Page:       currentPage(c),
	})
	if err != nil {
		return handleError(c, err, "")
	}
	return successData(c, fiber.StatusOK, page)
}

func (pc *PropertyController) Create(c *fiber.Ctx) error {
	form, nums, err := parsePropertyForm(c, true)
	if err != nil {
		return handleError(c, err, "")
	}

	in := service.PropertyInput{
		Title:           deref(form.Title),
		Description:     deref(form.Description),
		Price:           orZero(nums.Price),
		Currency:        deref(form.Currency),
		Discount:        nums.Discount,
		DiscountedPrice: nums.DiscountedPrice,
		Type:            model.ListingType(deref(form.Type)),
		Purpose:         model.Purpose(deref(form.Purpose)),
		PropertyType:    model.PropertyKind(deref(form.PropertyType)),
		Bedrooms:        orZero(nums.Bedrooms),
		Bathrooms:       orZero(nums.Bathrooms),
		LivingRooms:     orZero(nums.LivingRooms),
		Kitchens:        orZero(nums.Kitchens),
		Balconies:       orZero(nums.Balconies),
		AreaTotal:       orZero(nums.AreaTotal),
		Floor:           nums.Floor,
		TotalFloors:     nums.TotalFloors,
		Furnishing:      model.Furnishing(deref(form.Furnishing)),
		Status:          model.PropertyStatus(deref(form.Status)),
		IsFeatured:      orZero(parseBool(form.IsFeatured)),
		OwnerID:         nums.OwnerID,
		AgencyID:        nums.AgencyID,
		Location: service.LocationInput{
			City:      deref(form.City),
			District:  deref(form.District),
			Street:    deref(form.Street),
			Landmark:  form.Landmark,
			Latitude:  nums.Latitude,
			Longitude: nums.Longitude,
		},
		Images: formFiles(c, "images"),
		Videos: formFiles(c, "videos"),
	}
	if in.Furnishing == "" {
		in.Furnishing = model.Unfurnished
	}
	if features := formStrings(c, "features"); features != nil {
		in.Features = *features
	}
	if tags := formStrings(c, "tags"); tags != nil {
		in.Tags = *tags
	}

	p, err := pc.properties.Create(c.UserContext(), in, currentPage(c))
	if err != nil {
		return handleError(c, err, "حدث خطأ أثناء إنشاء العقار")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "تم إنشاء العقار بنجاح",
		"data":    fiber.Map{"id": p.ID, "slug": p.Slug},
	})
}

// Update applies a partial change. Sending images or videos replaces the
// stored set.
func (pc *PropertyController) Update(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return fail(c, fiber.StatusNotFound, "العقار غير موجود")
	}
	form, nums, err := parsePropertyForm(c, false)
	if err != nil {
		return handleError(c, err, "")
	}

	patch := service.PropertyPatch{
		Title:           form.Title,
		Description:     form.Description,
		Price:           nums.Price,
		Currency:        form.Currency,
		Discount:        nums.Discount,
		DiscountedPrice: nums.DiscountedPrice,
		Type:            asEnum[model.ListingType](form.Type),
		Purpose:         asEnum[model.Purpose](form.Purpose),
		PropertyType:    asEnum[model.PropertyKind](form.PropertyType),
		Bedrooms:        nums.Bedrooms,
		Bathrooms:       nums.Bathrooms,
		LivingRooms:     nums.LivingRooms,
		Kitchens:        nums.Kitchens,
		Balconies:       nums.Balconies,
		AreaTotal:       nums.AreaTotal,
		Floor:           nums.Floor,
		TotalFloors:     nums.TotalFloors,
		Furnishing:      asEnum[model.Furnishing](form.Furnishing),
		Features:        formStrings(c, "features"),
		Tags:            formStrings(c, "tags"),
		Status:          asEnum[model.PropertyStatus](form.Status),
		IsFeatured:      parseBool(form.IsFeatured),
		City:            form.City,
		District:        form.District,
		Street:          form.Street,
		Landmark:        form.Landmark,
		Latitude:        nums.Latitude,
		Longitude:       nums.Longitude,
		Images:          formFiles(c, "images"),
		Videos:          formFiles(c, "videos"),
	}

	p, err := pc.properties.Update(c.UserContext(), id, patch, currentPage(c))
	if err != nil {
		return handleError(c, err, "حدث خطأ أثناء تحديث العقار")
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "تم تحديث العقار بنجاح",
		"data":    fiber.Map{"id": p.ID, "slug": p.Slug},
	})
}

func (pc *PropertyController) Delete(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return fail(c, fiber.StatusNotFound, "العقار غير موجود")
	}
	if err := pc.properties.Delete(c.UserContext(), id, currentPage(c)); err != nil {
		return handleError(c, err, "حدث خطأ أثناء حذف العقار")
	}
	return success(c, fiber.StatusOK, "تم حذف العقار بنجاح")
}
