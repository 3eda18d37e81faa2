package controller

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"aqarat_backend/internal/model"
	"aqarat_backend/internal/service"
	"aqarat_backend/pkg/utils/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// sessionCookieTTL is how long the Google sign-in cookies live in the browser.
const sessionCookieTTL = 365 * 24 * time.Hour

type AuthController struct {
	auth        *service.AuthService
	frontendURL string
}

func NewAuthController(auth *service.AuthService, frontendURL string) *AuthController {
	return &AuthController{auth: auth, frontendURL: strings.TrimRight(frontendURL, "/")}
}

type signupRequest struct {
	Name            string `json:"name" validate:"required,max=30"`
	Email           string `json:"email" validate:"required,email,max=50"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	Phone           string `json:"phone" validate:"required,len=11,egphone"`
	Address         string `json:"address" validate:"max=100"`
}

var signupMessages = validation.Messages{
	"name.required":             "حقل الاسم مطلوب",
	"name.max":                  "يجب ألا يزيد الاسم عن 30 حرفًا",
	"email.required":            "حقل البريد الإلكتروني مطلوب",
	"email.email":               "يجب إدخال بريد إلكتروني صحيح",
	"email.max":                 "يجب ألا يزيد البريد الإلكتروني عن 50 حرفًا",
	"password.required":         "حقل كلمة المرور مطلوب",
	"password.min":              "يجب أن تتكون كلمة المرور من 8 أحرف على الأقل",
	"confirm_password.required": "حقل تأكيد كلمة المرور مطلوب",
	"confirm_password.eqfield":  "تأكيد كلمة المرور غير متطابق",
	"phone.required":            "حقل رقم الهاتف مطلوب",
	"phone.len":                 "يجب أن يتكون رقم الهاتف من 11 رقمًا",
	"phone.egphone":             "يجب أن يبدأ رقم الهاتف بـ 01 ويتبعه 9 أرقام",
	"address.max":               "يجب ألا يزيد العنوان عن 100 حرف",
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

var loginMessages = validation.Messages{
	"email.required":    "حقل البريد الإلكتروني مطلوب",
	"email.email":       "يجب إدخال بريد إلكتروني صحيح",
	"password.required": "حقل كلمة المرور مطلوب",
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token                string `json:"token"`
	Email                string `json:"email"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

var resetMessages = validation.Messages{
	"email.required":                 "حقل البريد الإلكتروني مطلوب",
	"email.email":                    "يجب إدخال بريد إلكتروني صحيح",
	"password.required":              "كلمة المرور مطلوبة",
	"password.min":                   "يجب أن تتكون كلمة المرور من 8 أحرف على الأقل",
	"password_confirmation.required": "تأكيد كلمة المرور مطلوب",
	"password_confirmation.eqfield":  "تأكيد كلمة المرور غير متطابق",
}

func client(c *fiber.Ctx) service.ClientInfo {
	ip, ua := clientInfo(c)
	return service.ClientInfo{IP: ip, UserAgent: ua}
}

func (ac *AuthController) Signup(c *fiber.Ctx) error {
	req := new(signupRequest)
	if err := c.BodyParser(req); err != nil {
		return fail(c, fiber.StatusUnprocessableEntity, msgInvalidInput)
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = englishPhone(req.Phone)
	if err := validation.Struct(req, signupMessages); err != nil {
		return handleError(c, err, "")
	}

	res, err := ac.auth.Signup(c.UserContext(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  strings.TrimSpace(req.Address),
	})
	if err != nil {
		return handleError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":       "success",
		"message":      "تم التسجيل بنجاح",
		"access_token": res.Token,
	})
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	req := new(loginRequest)
	if err := c.BodyParser(req); err != nil {
		return fail(c, fiber.StatusUnprocessableEntity, msgInvalidInput)
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.Struct(req, loginMessages); err != nil {
		return handleError(c, err, "")
	}

	res, err := ac.auth.Login(c.UserContext(), req.Email, req.Password, client(c))
	if err != nil {
		return handleError(c, err, "")
	}
	return c.JSON(fiber.Map{
		"status":       "success",
		"message":      "تم تسجيل الدخول بنجاح",
		"access_token": res.Token,
	})
}

func (ac *AuthController) GoogleRedirect(c *fiber.Ctx) error {
	u, err := ac.auth.GoogleAuthURL(c.UserContext())
	if err != nil {
		return handleError(c, err, "")
	}
	return c.JSON(fiber.Map{"url": u})
}

// GoogleCallback always ends in a redirect to the frontend: the signup page
// with an error code on failure, or home with the session cookies set.
func (ac *AuthController) GoogleCallback(c *fiber.Ctx) error {
	if c.Query("error") != "" {
		return c.Redirect(ac.frontendURL+"/signup?error=google_auth_cancelled", fiber.StatusFound)
	}

	res, err := ac.auth.GoogleCallback(c.UserContext(), c.Query("state"), c.Query("code"), client(c))
	if err != nil {
		log.Warn().Err(err).Msg("google sign-in failed")
		return c.Redirect(ac.frontendURL+"/signup?error=google_auth_failed", fiber.StatusFound)
	}

	userJSON, err := json.Marshal(cookieUser(res.User))
	if err != nil {
		return c.Redirect(ac.frontendURL+"/signup?error=google_auth_failed", fiber.StatusFound)
	}
	expires := time.Now().Add(sessionCookieTTL)
	c.Cookie(&fiber.Cookie{Name: "userToken", Value: res.Token, Path: "/", Expires: expires, SameSite: fiber.CookieSameSiteLaxMode})
	c.Cookie(&fiber.Cookie{Name: "user", Value: url.QueryEscape(string(userJSON)), Path: "/", Expires: expires, SameSite: fiber.CookieSameSiteLaxMode})
	return c.Redirect(ac.frontendURL, fiber.StatusFound)
}

// cookieUser is the user object handed to the frontend, without the address.
func cookieUser(u *model.User) fiber.Map {
	return fiber.Map{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"phone": u.Phone,
		"role":  u.Role,
	}
}

func (ac *AuthController) ForgotPassword(c *fiber.Ctx) error {
	req := new(forgotPasswordRequest)
	if err := c.BodyParser(req); err != nil {
		return fail(c, fiber.StatusUnprocessableEntity, msgInvalidInput)
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.Struct(req, resetMessages); err != nil {
		return handleError(c, err, "")
	}

	if err := ac.auth.ForgotPassword(c.UserContext(), req.Email); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return fail(c, fiber.StatusUnprocessableEntity, "البريد الإلكتروني غير مسجل مسبقًا")
		}
		return handleError(c, err, "")
	}
	return success(c, fiber.StatusOK, "تم إرسال رابط إعادة تعيين كلمة المرور إلى بريدك الإلكتروني.")
}

func (ac *AuthController) ResetPassword(c *fiber.Ctx) error {
	req := new(resetPasswordRequest)
	if err := c.BodyParser(req); err != nil {
		return fail(c, fiber.StatusUnprocessableEntity, msgInvalidInput)
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Token = strings.TrimSpace(req.Token)
	if missing(req.Email) || missing(req.Token) {
		return fail(c, fiber.StatusBadRequest, "يجب ادخال البريدالالكروني لاعادة تعيين كلمة المرور")
	}
	if err := validation.Struct(req, resetMessages); err != nil {
		return handleError(c, err, "")
	}

	err := ac.auth.ResetPassword(c.UserContext(), req.Email, req.Token, req.Password)
	if errors.Is(err, service.ErrUserNotFound) {
		return fail(c, fiber.StatusBadRequest, "رمز إعادة تعيين كلمة المرور غير صالح")
	}
	if err != nil {
		return handleError(c, err, "")
	}
	return success(c, fiber.StatusOK, "تم إعادة تعيين كلمة المرور بنجاح.")
}

// missing treats the literal "undefined" some clients send as absent.
func missing(s string) bool {
	return s == "" || s == "undefined" || s == "null"
}

func englishPhone(s string) string {
	v := strings.TrimSpace(s)
	englishDigits(&v)
	return v
}
