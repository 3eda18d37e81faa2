package controller

import (
	"strings"

	"aqarat_backend/internal/model"
	"aqarat_backend/internal/resource"
	"aqarat_backend/internal/service"
	"aqarat_backend/pkg/utils/validation"

	"github.com/gofiber/fiber/v2"
)

// UserController is the admin user management surface.
type UserController struct {
	users *service.UserService
}

func NewUserController(users *service.UserService) *UserController {
	return &UserController{users: users}
}

type adminUserRequest struct {
	Name    *string `json:"name" validate:"omitnil,min=1,max=30"`
	Email   *string `json:"email" validate:"omitnil,email,max=50"`
	Phone   *string `json:"phone" validate:"omitnil,len=11,egphone"`
	Address *string `json:"address" validate:"omitnil,max=100"`
	Role    *string `json:"role" validate:"omitnil,oneof=user admin"`
}

var adminUserMessages = validation.Messages{
	"name.min":      "حقل الاسم مطلوب",
	"name.max":      "يجب ألا يزيد الاسم عن 30 حرفًا",
	"email.email":   "يجب إدخال بريد إلكتروني صحيح",
	"email.max":     "يجب ألا يزيد البريد الإلكتروني عن 50 حرفًا",
	"phone.len":     "يجب أن يتكون رقم الهاتف من 11 رقمًا",
	"phone.egphone": "يجب أن يبدأ رقم الهاتف بـ 01 ويتبعه 9 أرقام",
	"address.max":   "يجب ألا يزيد العنوان عن 100 حرف",
	"role.oneof":    "الصلاحية يجب أن تكون user أو admin",
}

func (uc *UserController) List(c *fiber.Ctx) error {
	page, err := uc.users.AdminList(c.UserContext(), currentPage(c))
	if err != nil {
		return handleError(c, err, "")
	}
	return successData(c, fiber.StatusOK, page)
}

func (uc *UserController) Update(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return fail(c, fiber.StatusNotFound, "المستخدم غير موجود")
	}
	req := new(adminUserRequest)
	if err := c.BodyParser(req); err != nil {
		return fail(c, fiber.StatusUnprocessableEntity, msgInvalidInput)
	}
	if req.Email != nil {
		*req.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	// An empty phone clears the number and skips the format rules.
	clearPhone := req.Phone != nil && strings.TrimSpace(*req.Phone) == ""
	if clearPhone {
		req.Phone = nil
	} else if req.Phone != nil {
		*req.Phone = englishPhone(*req.Phone)
	}
	if err := validation.Struct(req, adminUserMessages); err != nil {
		return handleError(c, err, "")
	}
	if clearPhone {
		empty := ""
		req.Phone = &empty
	}

	u, err := uc.users.AdminUpdate(c.UserContext(), id, service.AdminUserInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Role:    asEnum[model.Role](req.Role),
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

func (uc *UserController) Delete(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return fail(c, fiber.StatusNotFound, "المستخدم غير موجود")
	}
	if err := uc.users.AdminDelete(c.UserContext(), id); err != nil {
		return handleError(c, err, "")
	}
	return success(c, fiber.StatusOK, "تم حذف المستخدم بنجاح")
}
