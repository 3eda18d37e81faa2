package controller

import (
	"errors"

	"aqarat_backend/internal/service"
	"aqarat_backend/pkg/utils/image"
	"aqarat_backend/pkg/utils/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const (
	msgSomethingWrong = "حدث خطأ ما"
	msgServerError    = "حدث خطأ في السيرفر"
	msgInvalidInput   = "البيانات المرسلة غير صالحة"
)

func success(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "success",
		"message": message,
	})
}

func successData(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

type errorMapping struct {
	err     error
	status  int
	message string
}

var serviceErrors = []errorMapping{
	{service.ErrPropertyNotFound, fiber.StatusNotFound, "العقار غير موجود"},
	{service.ErrReviewNotFound, fiber.StatusNotFound, "التقييم غير موجود"},
	{service.ErrUserNotFound, fiber.StatusNotFound, "المستخدم غير موجود"},
	{service.ErrSliderNotFound, fiber.StatusNotFound, "السلايدر غير موجود"},
	{service.ErrSettingsMissing, fiber.StatusNotFound, "الإعدادات غير موجودة"},
	{service.ErrDuplicateReview, fiber.StatusConflict, "لقد قمت بإضافة تقييم لهذا العقار من قبل"},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized, "كلمة المرور غير صحيحة"},
	{service.ErrWrongPassword, fiber.StatusUnprocessableEntity, "كلمة المرور الحالية غير صحيحة"},
	{service.ErrEmailTaken, fiber.StatusUnprocessableEntity, "هذا البريد الإلكتروني مسجل مسبقًا"},
	{service.ErrPhoneTaken, fiber.StatusUnprocessableEntity, "هذا الرقم مسجل مسبقًا"},
	{service.ErrInvalidResetToken, fiber.StatusBadRequest, "رمز إعادة تعيين كلمة المرور غير صالح"},
	{service.ErrResetTokenExpired, fiber.StatusBadRequest, "انتهت صلاحية رمز إعادة التعيين. يرجى طلب رمز جديد"},
	{service.ErrOAuthDisabled, fiber.StatusServiceUnavailable, "تسجيل الدخول عبر جوجل غير متاح حاليًا"},
	{service.ErrOAuthFailed, fiber.StatusBadRequest, "فشل تسجيل الدخول عبر جوجل"},
	{image.ErrInvalidImage, fiber.StatusUnprocessableEntity, "الملف يجب أن يكون صورة فقط"},
}

var mediaErrors = []error{
	validation.ErrFileRequired,
	validation.ErrImageTooLarge,
	validation.ErrVideoTooLarge,
	validation.ErrImageType,
	validation.ErrVideoType,
	validation.ErrTooManyImages,
	validation.ErrTooManyVideos,
	validation.ErrTooManyUploads,
}

// handleError answers err with its mapped status and message. Anything
// unmapped is logged and answered with a 500 carrying fallback.
func handleError(c *fiber.Ctx, err error, fallback string) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return fail(c, fiber.StatusUnprocessableEntity, verr.Message)
	}
	for _, m := range mediaErrors {
		if errors.Is(err, m) {
			return fail(c, fiber.StatusUnprocessableEntity, m.Error())
		}
	}
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			return fail(c, m.status, m.message)
		}
	}

	if fallback == "" {
		fallback = msgServerError
	}
	log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("request failed")
	return fail(c, fiber.StatusInternalServerError, fallback)
}

// ErrorHandler is the app-wide Fiber error handler for errors that escape a
// controller, such as routing misses or oversized bodies.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		msg := fe.Message
		switch fe.Code {
		case fiber.StatusNotFound:
			msg = "الصفحة غير موجودة"
		case fiber.StatusRequestEntityTooLarge:
			msg = "حجم الطلب أكبر من المسموح"
		case fiber.StatusInternalServerError:
			msg = msgServerError
		}
		return fail(c, fe.Code, msg)
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	return fail(c, fiber.StatusInternalServerError, msgSomethingWrong)
}

func isNotFound(err error) bool {
	return errors.Is(err, service.ErrReviewNotFound) ||
		errors.Is(err, service.ErrPropertyNotFound) ||
		errors.Is(err, service.ErrUserNotFound)
}
