package controller

import (
	"strings"

	"aqarat_backend/internal/service"
	"aqarat_backend/pkg/utils/validation"

	"github.com/gofiber/fiber/v2"
)

type SettingsController struct {
	settings *service.SettingsService
}

func NewSettingsController(settings *service.SettingsService) *SettingsController {
	return &SettingsController{settings: settings}
}

type settingsRequest struct {
	Location     string `form:"location" validate:"required,max=255"`
	Phone        string `form:"phone" validate:"required,max=20"`
	Email        string `form:"email" validate:"required,max=50"`
	OpeningHours string `form:"opening_hours" validate:"required"`
	Facebook     string `form:"facebook" validate:"max=255"`
	Twitter      string `form:"twitter" validate:"max=255"`
	Instagram    string `form:"instagram" validate:"max=255"`
	Linkedin     string `form:"linkedin" validate:"max=255"`
	Youtube      string `form:"youtube" validate:"max=255"`
}

var settingsMessages = validation.Messages{
	"location.required":      "يجب إدخال الموقع",
	"location.max":           "الموقع يجب ألا يتجاوز 255 حرفاً",
	"phone.required":         "يجب إدخال رقم الهاتف",
	"phone.max":              "رقم الهاتف يجب ألا يتجاوز 20 حرفاً",
	"email.required":         "يجب إدخال البريد الإلكتروني",
	"email.max":              "البريد الإلكتروني يجب ألا يتجاوز 50 حرفاً",
	"opening_hours.required": "يجب إدخال ساعات العمل",
	"facebook.max":           "رابط فيسبوك يجب ألا يتجاوز 255 حرفاً",
	"twitter.max":            "رابط تويتر يجب ألا يتجاوز 255 حرفاً",
	"instagram.max":          "رابط إنستغرام يجب ألا يتجاوز 255 حرفاً",
	"linkedin.max":           "رابط لينكد إن يجب ألا يتجاوز 255 حرفاً",
	"youtube.max":            "رابط يوتيوب يجب ألا يتجاوز 255 حرفاً",
}

func (sc *SettingsController) Get(c *fiber.Ctx) error {
	s, err := sc.settings.Get(c.UserContext())
	if err != nil {
		return handleError(c, err, "")
	}
	return successData(c, fiber.StatusOK, s)
}

// Update overwrites the site settings. An optional "logo" image replaces the
// current one.
func (sc *SettingsController) Update(c *fiber.Ctx) error {
	req := new(settingsRequest)
	if err := c.BodyParser(req); err != nil {
		return fail(c, fiber.StatusUnprocessableEntity, msgInvalidInput)
	}
	for _, f := range []*string{&req.Location, &req.Phone, &req.Email, &req.OpeningHours,
		&req.Facebook, &req.Twitter, &req.Instagram, &req.Linkedin, &req.Youtube} {
		*f = strings.TrimSpace(*f)
	}
	englishDigits(&req.Phone)
	if err := validation.Struct(req, settingsMessages); err != nil {
		return handleError(c, err, "")
	}

	in := service.SettingsInput{
		Location:     req.Location,
		Phone:        req.Phone,
		Email:        req.Email,
		OpeningHours: req.OpeningHours,
		Facebook:     req.Facebook,
		Twitter:      req.Twitter,
		Instagram:    req.Instagram,
		Linkedin:     req.Linkedin,
		Youtube:      req.Youtube,
	}
	if logo, err := c.FormFile("logo"); err == nil {
		if err := validation.ValidateImage(logo); err != nil {
			return handleError(c, err, "")
		}
		in.Logo = logo
	}

	s, err := sc.settings.Update(c.UserContext(), in)
	if err != nil {
		return handleError(c, err, "")
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "تم تحديث الإعدادات",
		"data":    s,
	})
}

func (sc *SettingsController) Slider(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return fail(c, fiber.StatusNotFound, "السلايدر غير موجود")
	}
	s, err := sc.settings.Slider(c.UserContext(), id)
	if err != nil {
		return handleError(c, err, "")
	}
	return successData(c, fiber.StatusOK, s)
}
