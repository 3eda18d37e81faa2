package controller

import (
	"strings"

	"aqarat_backend/internal/resource"
	"aqarat_backend/internal/service"
	"aqarat_backend/pkg/utils/validation"

	"github.com/gofiber/fiber/v2"
)

type ReviewController struct {
	reviews *service.ReviewService
}

func NewReviewController(reviews *service.ReviewService) *ReviewController {
	return &ReviewController{reviews: reviews}
}

type reviewRequest struct {
	PropertyID *uint  `json:"property_id" form:"property_id"`
	Rating     *int   `json:"rating" form:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" form:"comment" validate:"required,min=10,max=500"`
}

var reviewMessages = validation.Messages{
	"rating.required":  "التقييم مطلوب",
	"rating.min":       "التقييم يجب أن يكون على الأقل 1",
	"rating.max":       "التقييم يجب أن يكون على الأكثر 5",
	"comment.required": "التعليق مطلوب",
	"comment.min":      "التعليق يجب أن يكون على الأقل 10 أحرف",
	"comment.max":      "التعليق يجب ألا يزيد عن 500 حرف",
}

// List is the public review feed, paged by the page header.
func (rc *ReviewController) List(c *fiber.Ctx) error {
	page, err := rc.reviews.List(c.UserContext(), currentPage(c))
	if err != nil {
		return handleError(c, err, "")
	}
	return successData(c, fiber.StatusOK, page)
}

func (rc *ReviewController) ByProperty(c *fiber.Ctx) error {
	id, ok := idParam(c, "propertyId")
	if !ok {
		return fail(c, fiber.StatusNotFound, "العقار غير موجود")
	}
	reviews, err := rc.reviews.ByProperty(c.UserContext(), id)
	if err != nil {
		return handleError(c, err, "")
	}
	return c.JSON(resource.PropertyReviews{
		Status:       "success",
		Reviews:      reviews,
		TotalReviews: len(reviews),
	})
}

func (rc *ReviewController) Create(c *fiber.Ctx) error {
	req := new(reviewRequest)
	if err := c.BodyParser(req); err != nil {
		return fail(c, fiber.StatusUnprocessableEntity, "التقييم يجب أن يكون رقمًا صحيحًا")
	}
	req.Comment = strings.TrimSpace(req.Comment)
	if err := validation.Struct(req, reviewMessages); err != nil {
		return handleError(c, err, "")
	}

	_, err := rc.reviews.Create(c.UserContext(), userID(c), service.ReviewInput{
		PropertyID: req.PropertyID,
		Rating:     *req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		return handleError(c, err, "")
	}
	return success(c, fiber.StatusCreated, "سعداء بتقديم تقييمك")
}

func (rc *ReviewController) ToggleLike(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return fail(c, fiber.StatusNotFound, "التقييم غير موجود")
	}
	res, err := rc.reviews.ToggleLike(c.UserContext(), id, userID(c))
	if err != nil {
		return handleError(c, err, "")
	}

	msg := "تم إلغاء الإعجاب"
	if res.IsLiked {
		msg = "تم الإعجاب بالتقييم"
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":      "success",
		"message":     msg,
		"is_liked":    res.IsLiked,
		"likes_count": res.LikesCount,
		"review":      fiber.Map{"likes": res.Likes},
	})
}

// AdminList is List plus the total like count.
func (rc *ReviewController) AdminList(c *fiber.Ctx) error {
	page, err := rc.reviews.AdminList(c.UserContext(), currentPage(c))
	if err != nil {
		return handleError(c, err, "")
	}
	return successData(c, fiber.StatusOK, page)
}

func (rc *ReviewController) AdminDelete(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return fail(c, fiber.StatusNotFound, "المراجعة غير موجودة")
	}
	if err := rc.reviews.Delete(c.UserContext(), id); err != nil {
		if isNotFound(err) {
			return fail(c, fiber.StatusNotFound, "المراجعة غير موجودة")
		}
		return handleError(c, err, "")
	}
	return success(c, fiber.StatusOK, "تم حذف المراجعة")
}
