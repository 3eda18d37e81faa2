package controller

import (
	"strings"

	"aqarat_backend/internal/resource"
	"aqarat_backend/internal/service"
	"aqarat_backend/pkg/utils/validation"

	"github.com/gofiber/fiber/v2"
)

type ProfileController struct {
	users *service.UserService
	auth  *service.AuthService
}

func NewProfileController(users *service.UserService, auth *service.AuthService) *ProfileController {
	return &ProfileController{users: users, auth: auth}
}

type profileRequest struct {
	Name    string `json:"name" validate:"required,max=30"`
	Email   string `json:"email" validate:"required,email,max=50"`
	Phone   string `json:"phone" validate:"omitempty,len=11,egphone"`
	Address string `json:"address" validate:"max=100"`
}

var profileMessages = validation.Messages{
	"name.required":  "حقل الاسم مطلوب",
	"name.max":       "يجب ألا يزيد الاسم عن 30 حرفًا",
	"email.required": "حقل البريد الإلكتروني مطلوب",
	"email.email":    "يجب إدخال بريد إلكتروني صحيح",
	"email.max":      "يجب ألا يزيد البريد الإلكتروني عن 50 حرفًا",
	"phone.len":      "يجب أن يتكون رقم الهاتف من 11 رقمًا",
	"phone.egphone":  "يجب أن يبدأ رقم الهاتف بـ 01 ويتبعه 9 أرقام",
	"address.max":    "يجب ألا يزيد العنوان عن 100 حرف",
}

type changePasswordRequest struct {
	CurrentPassword         string `json:"current_password" validate:"required"`
	NewPassword             string `json:"new_password" validate:"required,min=8"`
	NewPasswordConfirmation string `json:"new_password_confirmation" validate:"required,eqfield=NewPassword"`
}

var changePasswordMessages = validation.Messages{
	"current_password.required":          "حقل كلمة المرور الحالية مطلوب",
	"new_password.required":              "حقل كلمة المرور مطلوب",
	"new_password.min":                   "يجب أن تتكون كلمة المرور من 8 أحرف على الأقل",
	"new_password_confirmation.required": "حقل تأكيد كلمة المرور مطلوب",
	"new_password_confirmation.eqfield":  "كلمة المرور وتأكيد كلمة المرور يجب أن تكون متطابقة",
}

func (pc *ProfileController) Show(c *fiber.Ctx) error {
	u, err := pc.users.Profile(c.UserContext(), userID(c))
	if err != nil {
		return handleError(c, err, "")
	}
	return successData(c, fiber.StatusOK, resource.NewUser(u))
}

func (pc *ProfileController) Update(c *fiber.Ctx) error {
	req := new(profileRequest)
	if err := c.BodyParser(req); err != nil {
		return fail(c, fiber.StatusUnprocessableEntity, msgInvalidInput)
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = englishPhone(req.Phone)
	if err := validation.Struct(req, profileMessages); err != nil {
		return handleError(c, err, "")
	}

	u, err := pc.users.UpdateProfile(c.UserContext(), userID(c), service.ProfileInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: strings.TrimSpace(req.Address),
	})
	if err != nil {
		return handleError(c, err, "")
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "تم التحديث بنجاح",
		"data":    resource.NewUser(u),
	})
}

func (pc *ProfileController) ChangePassword(c *fiber.Ctx) error {
	req := new(changePasswordRequest)
	if err := c.BodyParser(req); err != nil {
		return fail(c, fiber.StatusUnprocessableEntity, msgInvalidInput)
	}
	if err := validation.Struct(req, changePasswordMessages); err != nil {
		return handleError(c, err, "")
	}
	if err := pc.users.ChangePassword(c.UserContext(), userID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return handleError(c, err, "")
	}
	return success(c, fiber.StatusOK, "تم تغيير كلمة المرور بنجاح")
}

// Logout revokes every token of the caller, not only the one presented.
func (pc *ProfileController) Logout(c *fiber.Ctx) error {
	if err := pc.auth.Logout(c.UserContext(), userID(c)); err != nil {
		return handleError(c, err, "")
	}
	return success(c, fiber.StatusOK, "تم تسجيل الخروج بنجاح")
}
