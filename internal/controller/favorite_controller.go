package controller

import (
	"aqarat_backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type FavoriteController struct {
	favorites *service.FavoriteService
}

func NewFavoriteController(favorites *service.FavoriteService) *FavoriteController {
	return &FavoriteController{favorites: favorites}
}

func (fc *FavoriteController) Toggle(c *fiber.Ctx) error {
	id, ok := idParam(c, "propertyId")
	if !ok {
		return fail(c, fiber.StatusNotFound, "العقار غير موجود")
	}
	added, err := fc.favorites.Toggle(c.UserContext(), userID(c), id)
	if err != nil {
		return handleError(c, err, "")
	}
	if added {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status":      "success",
			"message":     "تم إضافة العقار للمفضلة",
			"is_favorite": true,
		})
	}
	return c.JSON(fiber.Map{
		"status":      "success",
		"message":     "تم إزالة العقار من المفضلة",
		"is_favorite": false,
	})
}

func (fc *FavoriteController) List(c *fiber.Ctx) error {
	props, err := fc.favorites.List(c.UserContext(), userID(c))
	if err != nil {
		return handleError(c, err, "")
	}
	return successData(c, fiber.StatusOK, props)
}
