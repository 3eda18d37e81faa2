package controller

import (
	"strings"

	"aqarat_backend/internal/model"
	"aqarat_backend/internal/service"
	"aqarat_backend/pkg/utils/validation"

	"github.com/gofiber/fiber/v2"
)

// maxSupportImages bounds the screenshots attached to one ticket.
const maxSupportImages = 5

type SupportController struct {
	support *service.SupportService
}

func NewSupportController(support *service.SupportService) *SupportController {
	return &SupportController{support: support}
}

type supportRequest struct {
	Name     string `form:"name" json:"name" validate:"required,max=255"`
	Email    string `form:"email" json:"email" validate:"required,email"`
	Phone    string `form:"phone" json:"phone" validate:"required,max=20"`
	Priority string `form:"priority" json:"priority" validate:"omitempty,oneof=low medium high"`
	Subject  string `form:"subject" json:"subject" validate:"required,max=255"`
	Message  string `form:"message" json:"message" validate:"required"`
}

var supportMessages = validation.Messages{
	"name.required":    "حقل الاسم مطلوب.",
	"name.max":         "يجب ألا يزيد الاسم عن 255 حرفًا.",
	"email.required":   "حقل البريد الإلكتروني مطلوب.",
	"email.email":      "يجب أن يكون البريد الإلكتروني عنوان بريد إلكتروني صالح.",
	"phone.required":   "حقل الهاتف مطلوب.",
	"phone.max":        "يجب ألا يزيد الهاتف عن 20 حرفًا.",
	"priority.oneof":   "الأولوية يجب أن تكون منخفضة أو متوسطة أو عالية.",
	"subject.required": "حقل الموضوع مطلوب.",
	"subject.max":      "يجب ألا يزيد الموضوع عن 255 حرفًا.",
	"message.required": "حقل الرسالة مطلوب.",
}

func (sc *SupportController) Create(c *fiber.Ctx) error {
	req := new(supportRequest)
	if err := c.BodyParser(req); err != nil {
		return fail(c, fiber.StatusUnprocessableEntity, msgInvalidInput)
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = englishPhone(req.Phone)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	if err := validation.Struct(req, supportMessages); err != nil {
		return handleError(c, err, "")
	}

	images := formFiles(c, "images")
	if err := validation.ValidateImages(images, maxSupportImages); err != nil {
		return handleError(c, err, "")
	}

	_, err := sc.support.Create(c.UserContext(), userID(c), service.SupportInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Priority: model.SupportPriority(req.Priority),
		Subject:  req.Subject,
		Message:  req.Message,
		Images:   images,
	})
	if err != nil {
		return handleError(c, err, "")
	}
	return success(c, fiber.StatusCreated, "سنتواصل معك قريباً")
}
