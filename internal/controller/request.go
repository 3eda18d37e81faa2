package controller

import (
	"encoding/json"
	"mime/multipart"
	"strconv"
	"strings"

	"aqarat_backend/internal/middleware"
	"aqarat_backend/internal/search"
	"aqarat_backend/pkg/utils/arabic"
	"aqarat_backend/pkg/utils/validation"

	"github.com/gofiber/fiber/v2"
)

// currentPage reads the listing page the client is on: the "page" header
// first, then the query string. Anything unusable is page 1 and pages past
// search.MaxPage are clamped to it.
func currentPage(c *fiber.Ctx) int {
	raw := c.Get("page")
	if raw == "" {
		raw = c.Query("page")
	}
	n, err := strconv.Atoi(arabic.ToEnglishDigits(strings.TrimSpace(raw)))
	if err != nil || n < 1 {
		return 1
	}
	return search.ClampPage(n)
}

// idParam parses a positive numeric route parameter.
func idParam(c *fiber.Ctx, name string) (uint, bool) {
	n, err := strconv.ParseUint(arabic.ToEnglishDigits(c.Params(name)), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func userID(c *fiber.Ctx) uint {
	if claims := middleware.Claims(c); claims != nil {
		return claims.UserID
	}
	return 0
}

func clientInfo(c *fiber.Ctx) (ip, userAgent string) {
	return c.IP(), c.Get(fiber.HeaderUserAgent)
}

// englishDigits rewrites Arabic-Indic digits in every non-nil field.
func englishDigits(fields ...*string) {
	for _, f := range fields {
		if f != nil {
			*f = arabic.ToEnglishDigits(strings.TrimSpace(*f))
		}
	}
}

// numberParser converts already shape-checked numeric fields. The first
// value that does not fit its type is kept as a validation error, so an
// overflowing digit string is rejected instead of silently dropped.
type numberParser struct {
	messages validation.Messages
	err      error
}

func (p *numberParser) int(field string, s *string) *int {
	if s == nil || p.err != nil {
		return nil
	}
	n, err := strconv.Atoi(*s)
	if err != nil {
		p.err = p.messages.Fail(field, "number")
		return nil
	}
	return &n
}

func (p *numberParser) float(field string, s *string) *float64 {
	if s == nil || p.err != nil {
		return nil
	}
	f, err := strconv.ParseFloat(*s, 64)
	if err != nil {
		p.err = p.messages.Fail(field, "numeric")
		return nil
	}
	return &f
}

func (p *numberParser) uint(field string, s *string) *uint {
	if s == nil || p.err != nil {
		return nil
	}
	n, err := strconv.ParseUint(*s, 10, 64)
	if err != nil {
		p.err = p.messages.Fail(field, "number")
		return nil
	}
	u := uint(n)
	return &u
}

func parseBool(s *string) *bool {
	if s == nil {
		return nil
	}
	b := *s == "true" || *s == "1"
	return &b
}

// formFiles returns the uploads under key or key[]. Non-multipart requests
// have none.
func formFiles(c *fiber.Ctx, key string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	if files := form.File[key]; len(files) > 0 {
		return files
	}
	return form.File[key+"[]"]
}

// formStrings reads a string list sent either as a JSON array in one field
// or as repeated key[] fields. It returns nil when the field is absent.
func formStrings(c *fiber.Ctx, key string) *[]string {
	if form, err := c.MultipartForm(); err == nil && form != nil {
		if vals := form.Value[key+"[]"]; len(vals) > 0 {
			out := cleanStrings(vals)
			return &out
		}
	}

	raw := c.FormValue(key)
	if raw == "" {
		if !formHas(c, key) {
			return nil
		}
		out := []string{}
		return &out
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		// A single plain value is a one-element list.
		list = []string{raw}
	}
	out := cleanStrings(list)
	return &out
}

func formHas(c *fiber.Ctx, key string) bool {
	if form, err := c.MultipartForm(); err == nil && form != nil {
		_, ok := form.Value[key]
		return ok
	}
	return c.Request().PostArgs().Has(key)
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
