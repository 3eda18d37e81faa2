package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"aqarat_backend/internal/model"
	"aqarat_backend/internal/search"
	"aqarat_backend/internal/service"
	"aqarat_backend/pkg/cache"
	"aqarat_backend/pkg/email"
	"aqarat_backend/pkg/utils/jwt"
	"aqarat_backend/pkg/utils/storage"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testApp struct {
	app   *fiber.App
	db    *gorm.DB
	store *cache.MemoryStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))

	files, err := storage.NewLocal(t.TempDir(), "http://cdn.test/public")
	require.NoError(t, err)
	store := cache.NewMemoryStore()
	media := service.NewMedia(files)
	issuer := jwt.NewIssuer("router-secret-0123456789", time.Hour)

	app := New(8 << 20)
	Setup(app, Deps{
		DB:          db,
		Cache:       store,
		Issuer:      issuer,
		FrontendURL: "https://aqarat.test",
		Properties:  service.NewPropertyService(db, store, media),
		Reviews:     service.NewReviewService(db, store, 10),
		Auth: service.NewAuthService(db, store, issuer, email.LogSender{}, nil, service.AuthConfig{
			FrontendURL:         "https://aqarat.test",
			AdminUserPagesBound: 10,
		}),
		Users:     service.NewUserService(db, store, 10, 10),
		Favorites: service.NewFavoriteService(db, store),
		Settings:  service.NewSettingsService(db, store, media),
		Support:   service.NewSupportService(db, media),
	})
	return &testApp{app: app, db: db, store: store}
}

type response struct {
	status int
	body   map[string]any
	header http.Header
}

func (ta *testApp) do(t *testing.T, req *http.Request, token string) response {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	out := response{status: res.StatusCode, header: res.Header}
	if len(raw) > 0 && strings.HasPrefix(res.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out.body), string(raw))
	}
	return out
}

func (ta *testApp) json(t *testing.T, method, path string, payload any, token string) response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	return ta.do(t, req, token)
}

type formFile struct {
	field, name string
	content     []byte
}

func (ta *testApp) multipart(t *testing.T, method, path string, fields map[string]string, files []formFile, token string) response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return ta.do(t, req, token)
}

func (ta *testApp) user(t *testing.T, email, password string, role model.Role) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := model.User{Name: "User " + email[:3], Email: email, Password: string(hash), Role: role}
	require.NoError(t, ta.db.Create(&u).Error)
	return &u
}

// resetLimit clears one action's counter for the test client address.
func (ta *testApp) resetLimit(t *testing.T, action string) {
	t.Helper()
	require.NoError(t, ta.store.Forget(context.Background(), "rate_limit:"+action+":0.0.0.0"))
}

func (ta *testApp) login(t *testing.T, email, password string) string {
	t.Helper()
	res := ta.json(t, http.MethodPost, "/api/v1/user/login", fiber.Map{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, res.status, res.body)
	return res.body["access_token"].(string)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(2, 2, color.RGBA{G: 180, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func propertyFields(title string) map[string]string {
	return map[string]string{
		"title":         title,
		"description":   "شقة واسعة قريبة من البحر",
		"property_type": "apartment",
		"type":          "sale",
		"purpose":       "residential",
		"bedrooms":      "٣",
		"bathrooms":     "2",
		"area_total":    "150",
		"price":         "١٢٠٠٠٠٠",
		"city":          "الإسكندرية",
		"district":      "سموحة",
		"street":        "شارع النصر",
		"features":      `["parking","elevator"]`,
	}
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	ta := newTestApp(t)
	res := ta.json(t, http.MethodGet, "/api/v1/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "error", res.body["status"])
	assert.NotEmpty(t, res.header.Get("X-Request-ID"))
}

func TestSignupLoginProfileLogout(t *testing.T) {
	ta := newTestApp(t)

	signup := fiber.Map{
		"name":             "Mona",
		"email":            "Mona@Example.com",
		"password":         "secret123",
		"confirm_password": "secret123",
		"phone":            "٠١٠١٢٣٤٥٦٧٨",
	}
	res := ta.json(t, http.MethodPost, "/api/v1/user/signup", signup, "")
	require.Equal(t, http.StatusCreated, res.status, res.body)
	assert.Equal(t, "تم التسجيل بنجاح", res.body["message"])
	assert.NotEmpty(t, res.body["access_token"])

	res = ta.json(t, http.MethodPost, "/api/v1/user/signup", signup, "")
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, "هذا البريد الإلكتروني مسجل مسبقًا", res.body["message"])

	bad := fiber.Map{"name": "Ali", "email": "ali@example.com", "password": "secret123", "confirm_password": "other123", "phone": "01012345679"}
	res = ta.json(t, http.MethodPost, "/api/v1/user/signup", bad, "")
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, "تأكيد كلمة المرور غير متطابق", res.body["message"])

	res = ta.json(t, http.MethodPost, "/api/v1/user/login", fiber.Map{"email": "nobody@example.com", "password": "secret123"}, "")
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "المستخدم غير موجود", res.body["message"])

	res = ta.json(t, http.MethodPost, "/api/v1/user/login", fiber.Map{"email": "mona@example.com", "password": "wrong-pass"}, "")
	assert.Equal(t, http.StatusUnauthorized, res.status)
	assert.Equal(t, "كلمة المرور غير صحيحة", res.body["message"])

	token := ta.login(t, "mona@example.com", "secret123")

	res = ta.json(t, http.MethodGet, "/api/v1/user/profile", nil, token)
	require.Equal(t, http.StatusOK, res.status)
	data := res.body["data"].(map[string]any)
	assert.Equal(t, "mona@example.com", data["email"])
	assert.Equal(t, "01012345678", data["phone"])

	res = ta.json(t, http.MethodDelete, "/api/v1/user/logout", nil, token)
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "تم تسجيل الخروج بنجاح", res.body["message"])

	res = ta.json(t, http.MethodGet, "/api/v1/user/profile", nil, token)
	assert.Equal(t, http.StatusUnauthorized, res.status)
}

func TestLoginRateLimit(t *testing.T) {
	ta := newTestApp(t)
	creds := fiber.Map{"email": "ghost@example.com", "password": "whatever1"}

	for i := 0; i < 5; i++ {
		res := ta.json(t, http.MethodPost, "/api/v1/user/login", creds, "")
		require.Equal(t, http.StatusNotFound, res.status)
	}
	res := ta.json(t, http.MethodPost, "/api/v1/user/login", creds, "")
	assert.Equal(t, http.StatusTooManyRequests, res.status)
	assert.NotEmpty(t, res.header.Get("Retry-After"))
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	ta := newTestApp(t)
	ta.user(t, "user@example.com", "secret123", model.RoleUser)
	token := ta.login(t, "user@example.com", "secret123")

	res := ta.json(t, http.MethodGet, "/admin/v1/users", nil, "")
	assert.Equal(t, http.StatusUnauthorized, res.status)

	res = ta.json(t, http.MethodGet, "/admin/v1/users", nil, token)
	assert.Equal(t, http.StatusForbidden, res.status)
	assert.Equal(t, "يجب ان تكون ادمن", res.body["message"])
}

func TestPropertyLifecycle(t *testing.T) {
	ta := newTestApp(t)
	ta.user(t, "admin@example.com", "secret123", model.RoleAdmin)
	admin := ta.login(t, "admin@example.com", "secret123")

	missing := propertyFields("Sea View Apartment")
	delete(missing, "city")
	res := ta.multipart(t, http.MethodPost, "/admin/v1/properties", missing, nil, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, "المدينة مطلوبة.", res.body["message"])

	tooMany := propertyFields("Sea View Apartment")
	tooMany["bedrooms"] = "25"
	res = ta.multipart(t, http.MethodPost, "/admin/v1/properties", tooMany, nil, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, "عدد غرف النوم يجب ألا يتجاوز 20.", res.body["message"])

	overflow := propertyFields("Sea View Apartment")
	overflow["bedrooms"] = "99999999999999999999"
	res = ta.multipart(t, http.MethodPost, "/admin/v1/properties", overflow, nil, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, "عدد غرف النوم يجب أن يكون رقمًا.", res.body["message"])

	res = ta.multipart(t, http.MethodPost, "/admin/v1/properties", propertyFields("Sea View Apartment"),
		[]formFile{{"images", "front.png", pngBytes(t)}}, admin)
	require.Equal(t, http.StatusCreated, res.status, res.body)
	assert.Equal(t, "تم إنشاء العقار بنجاح", res.body["message"])
	created := res.body["data"].(map[string]any)
	slug := created["slug"].(string)
	id := int(created["id"].(float64))
	assert.Equal(t, "sea-view-apartment", slug)

	res = ta.json(t, http.MethodGet, "/api/v1/properties/property/"+slug, nil, "")
	require.Equal(t, http.StatusOK, res.status)
	prop := res.body["data"].(map[string]any)
	assert.EqualValues(t, 3, prop["bedrooms"])
	assert.Equal(t, []any{"parking", "elevator"}, prop["features"])
	assert.Len(t, prop["images"], 1)

	res = ta.json(t, http.MethodGet, "/api/v1/properties", nil, "")
	require.Equal(t, http.StatusOK, res.status)
	page := res.body["data"].(map[string]any)
	assert.Len(t, page["properties"], 1)

	res = ta.multipart(t, http.MethodPatch, fmt.Sprintf("/admin/v1/properties/%d", id),
		map[string]string{"title": "Garden Villa", "is_featured": "true"}, nil, admin)
	require.Equal(t, http.StatusOK, res.status, res.body)
	assert.Equal(t, "garden-villa", res.body["data"].(map[string]any)["slug"])

	res = ta.json(t, http.MethodGet, "/api/v1/properties/property/"+slug, nil, "")
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "العقار غير موجود", res.body["message"])

	res = ta.json(t, http.MethodDelete, fmt.Sprintf("/admin/v1/properties/%d", id), nil, admin)
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "تم حذف العقار بنجاح", res.body["message"])

	res = ta.json(t, http.MethodDelete, fmt.Sprintf("/admin/v1/properties/%d", id), nil, admin)
	assert.Equal(t, http.StatusNotFound, res.status)
}

func TestPropertyFilter(t *testing.T) {
	ta := newTestApp(t)
	ta.user(t, "admin@example.com", "secret123", model.RoleAdmin)
	admin := ta.login(t, "admin@example.com", "secret123")

	cheap := propertyFields("Small Flat")
	cheap["price"] = "500000"
	res := ta.multipart(t, http.MethodPost, "/admin/v1/properties", cheap, nil, admin)
	require.Equal(t, http.StatusCreated, res.status, res.body)
	res = ta.multipart(t, http.MethodPost, "/admin/v1/properties", propertyFields("Big Flat"), nil, admin)
	require.Equal(t, http.StatusCreated, res.status, res.body)

	q := url.Values{"minPrice": {"١٠٠٠٠٠٠"}, "location": {"الاسكندريه"}}
	res = ta.json(t, http.MethodGet, "/api/v1/properties/filter?"+q.Encode(), nil, "")
	require.Equal(t, http.StatusOK, res.status, res.body)
	props := res.body["data"].(map[string]any)["properties"].([]any)
	require.Len(t, props, 1)
	assert.Equal(t, "Big Flat", props[0].(map[string]any)["title"])

	res = ta.json(t, http.MethodGet, "/api/v1/properties/filter?minPrice=-5", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, "يجب أن لا يقل الحد الأدنى للسعر عن 0", res.body["message"])

	res = ta.json(t, http.MethodGet, "/api/v1/properties/filter?bedrooms=many", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, "يجب أن يكون عدد غرف النوم رقماً", res.body["message"])

	res = ta.json(t, http.MethodGet, "/api/v1/properties/filter?bedrooms=99999999999999999999", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, "يجب أن يكون عدد غرف النوم رقماً", res.body["message"])

	res = ta.json(t, http.MethodGet, "/api/v1/properties/filter?maxPrice=1"+strings.Repeat("0", 400), nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, "يجب أن يكون الحد الأقصى للسعر رقماً", res.body["message"])
}

func TestPropertyPagesAreBounded(t *testing.T) {
	ta := newTestApp(t)
	ta.user(t, "admin@example.com", "secret123", model.RoleAdmin)
	admin := ta.login(t, "admin@example.com", "secret123")
	res := ta.multipart(t, http.MethodPost, "/admin/v1/properties", propertyFields("Small Flat"), nil, admin)
	require.Equal(t, http.StatusCreated, res.status, res.body)

	for _, path := range []string{"/api/v1/properties", "/api/v1/properties/filter"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("page", "9223372036854775807")
		res = ta.do(t, req, "")
		require.Equal(t, http.StatusOK, res.status, res.body)
		page := res.body["data"].(map[string]any)
		assert.Empty(t, page["properties"], path)
		pagination := page["pagination"].(map[string]any)
		assert.EqualValues(t, search.MaxPage, pagination["current_page"], path)
		assert.Nil(t, pagination["from"], path)
	}

	_, cached, err := ta.store.Get(context.Background(), "properties_page-9223372036854775807")
	require.NoError(t, err)
	assert.False(t, cached)
	_, cached, err = ta.store.Get(context.Background(), fmt.Sprintf("properties_page-%d", search.MaxPage))
	require.NoError(t, err)
	assert.True(t, cached)
}

func TestReviewsFlow(t *testing.T) {
	ta := newTestApp(t)
	ta.user(t, "sara@example.com", "secret123", model.RoleUser)
	token := ta.login(t, "sara@example.com", "secret123")

	review := fiber.Map{"rating": 5, "comment": "خدمة ممتازة وسرعة في الرد"}
	res := ta.json(t, http.MethodPost, "/api/v1/reviews", review, "")
	assert.Equal(t, http.StatusUnauthorized, res.status)

	res = ta.json(t, http.MethodPost, "/api/v1/reviews", fiber.Map{"rating": 9, "comment": "خدمة ممتازة وسرعة في الرد"}, token)
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, "التقييم يجب أن يكون على الأكثر 5", res.body["message"])

	res = ta.json(t, http.MethodPost, "/api/v1/reviews", review, token)
	require.Equal(t, http.StatusCreated, res.status, res.body)
	assert.Equal(t, "سعداء بتقديم تقييمك", res.body["message"])

	res = ta.json(t, http.MethodPost, "/api/v1/reviews", review, token)
	assert.Equal(t, http.StatusConflict, res.status)
	assert.Equal(t, "لقد قمت بإضافة تقييم لهذا العقار من قبل", res.body["message"])

	res = ta.json(t, http.MethodGet, "/api/v1/reviews", nil, "")
	require.Equal(t, http.StatusOK, res.status)
	feed := res.body["data"].(map[string]any)
	reviews := feed["reviews"].([]any)
	require.Len(t, reviews, 1)
	assert.EqualValues(t, 1, feed["total_reviews"])
	id := int(reviews[0].(map[string]any)["id"].(float64))

	path := fmt.Sprintf("/api/v1/reviews/%d/toggle-like", id)
	res = ta.json(t, http.MethodPatch, path, nil, token)
	require.Equal(t, http.StatusCreated, res.status)
	assert.Equal(t, "تم الإعجاب بالتقييم", res.body["message"])
	assert.Equal(t, true, res.body["is_liked"])

	res = ta.json(t, http.MethodPatch, path, nil, token)
	assert.Equal(t, "تم إلغاء الإعجاب", res.body["message"])
	assert.EqualValues(t, 0, res.body["likes_count"])

	res = ta.json(t, http.MethodPatch, "/api/v1/reviews/999/toggle-like", nil, token)
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "التقييم غير موجود", res.body["message"])
}

func TestReviewsSamePropertyManyUsers(t *testing.T) {
	ta := newTestApp(t)
	ta.user(t, "admin@example.com", "secret123", model.RoleAdmin)
	admin := ta.login(t, "admin@example.com", "secret123")
	res := ta.multipart(t, http.MethodPost, "/admin/v1/properties", propertyFields("Corniche Flat"), nil, admin)
	require.Equal(t, http.StatusCreated, res.status, res.body)
	propertyID := uint(res.body["data"].(map[string]any)["id"].(float64))

	review := func(token string) response {
		return ta.json(t, http.MethodPost, "/api/v1/reviews",
			fiber.Map{"property_id": propertyID, "rating": 4, "comment": "شقة هادئة ومريحة جدا"}, token)
	}

	for _, email := range []string{"hala@example.com", "omar@example.com"} {
		ta.user(t, email, "secret123", model.RoleUser)
		res = review(ta.login(t, email, "secret123"))
		require.Equal(t, http.StatusCreated, res.status, res.body)
	}
	// Every request shares one client address in tests.
	ta.resetLimit(t, "post_review")

	ta.user(t, "yara@example.com", "secret123", model.RoleUser)
	yara := ta.login(t, "yara@example.com", "secret123")
	res = review(yara)
	require.Equal(t, http.StatusCreated, res.status, res.body)
	res = review(yara)
	assert.Equal(t, http.StatusConflict, res.status)
	assert.Equal(t, "لقد قمت بإضافة تقييم لهذا العقار من قبل", res.body["message"])

	res = ta.json(t, http.MethodGet, fmt.Sprintf("/api/v1/reviews/%d", propertyID), nil, "")
	require.Equal(t, http.StatusOK, res.status, res.body)
	assert.Len(t, res.body["reviews"], 3)
	assert.EqualValues(t, 3, res.body["total_reviews"])
}

func TestFavoritesToggle(t *testing.T) {
	ta := newTestApp(t)
	ta.user(t, "admin@example.com", "secret123", model.RoleAdmin)
	admin := ta.login(t, "admin@example.com", "secret123")

	res := ta.multipart(t, http.MethodPost, "/admin/v1/properties", propertyFields("Nile Flat"), nil, admin)
	require.Equal(t, http.StatusCreated, res.status, res.body)
	id := int(res.body["data"].(map[string]any)["id"].(float64))

	path := fmt.Sprintf("/api/v1/user/favorites/%d", id)
	res = ta.json(t, http.MethodPost, path, nil, admin)
	assert.Equal(t, http.StatusCreated, res.status)
	assert.Equal(t, "تم إضافة العقار للمفضلة", res.body["message"])

	res = ta.json(t, http.MethodGet, "/api/v1/user/favorites", nil, admin)
	assert.Len(t, res.body["data"], 1)

	res = ta.json(t, http.MethodPost, path, nil, admin)
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "تم إزالة العقار من المفضلة", res.body["message"])

	res = ta.json(t, http.MethodPost, "/api/v1/user/favorites/9999", nil, admin)
	assert.Equal(t, http.StatusNotFound, res.status)
}

func TestSettingsAndSupport(t *testing.T) {
	ta := newTestApp(t)
	ta.user(t, "admin@example.com", "secret123", model.RoleAdmin)
	admin := ta.login(t, "admin@example.com", "secret123")

	res := ta.multipart(t, http.MethodPatch, "/admin/v1/settings", map[string]string{"location": "القاهرة"}, nil, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, "يجب إدخال رقم الهاتف", res.body["message"])

	fields := map[string]string{
		"location":      "القاهرة",
		"phone":         "٠١٠٠٠٠٠٠٠٠٠",
		"email":         "info@aqarat.test",
		"opening_hours": "9-5",
	}
	res = ta.multipart(t, http.MethodPatch, "/admin/v1/settings", fields, []formFile{{"logo", "logo.png", pngBytes(t)}}, admin)
	require.Equal(t, http.StatusOK, res.status, res.body)
	assert.Equal(t, "تم تحديث الإعدادات", res.body["message"])

	res = ta.json(t, http.MethodGet, "/api/v1/settings", nil, "")
	require.Equal(t, http.StatusOK, res.status)
	settings := res.body["data"].(map[string]any)
	assert.Equal(t, "01000000000", settings["phone"])
	assert.True(t, strings.HasPrefix(settings["logo"].(string), "http://cdn.test/public/"))

	ticket := fiber.Map{"name": "Admin", "email": "admin@example.com", "phone": "01000000000", "subject": "Help", "message": "Need help"}
	res = ta.json(t, http.MethodPost, "/api/v1/user/support", ticket, admin)
	assert.Equal(t, http.StatusCreated, res.status, res.body)
	assert.Equal(t, "سنتواصل معك قريباً", res.body["message"])

	delete(ticket, "subject")
	res = ta.json(t, http.MethodPost, "/api/v1/user/support", ticket, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, "حقل الموضوع مطلوب.", res.body["message"])
}

func TestForgotAndResetPasswordValidation(t *testing.T) {
	ta := newTestApp(t)
	ta.user(t, "omar@example.com", "secret123", model.RoleUser)

	res := ta.json(t, http.MethodPost, "/api/v1/auth/forgot-password", fiber.Map{"email": "ghost@example.com"}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, "البريد الإلكتروني غير مسجل مسبقًا", res.body["message"])

	res = ta.json(t, http.MethodPost, "/api/v1/auth/forgot-password", fiber.Map{"email": "omar@example.com"}, "")
	assert.Equal(t, http.StatusOK, res.status)

	res = ta.json(t, http.MethodPost, "/api/v1/auth/reset-password", fiber.Map{
		"email": "undefined", "token": "abc", "password": "newpass123", "password_confirmation": "newpass123",
	}, "")
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = ta.json(t, http.MethodPost, "/api/v1/auth/reset-password", fiber.Map{
		"email": "omar@example.com", "token": "wrong", "password": "newpass123", "password_confirmation": "newpass123",
	}, "")
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "رمز إعادة تعيين كلمة المرور غير صالح", res.body["message"])

	res = ta.json(t, http.MethodGet, "/api/v1/auth/google/redirect", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, res.status)
}

func TestAdminUsers(t *testing.T) {
	ta := newTestApp(t)
	ta.user(t, "admin@example.com", "secret123", model.RoleAdmin)
	target := ta.user(t, "kareem@example.com", "secret123", model.RoleUser)
	admin := ta.login(t, "admin@example.com", "secret123")

	res := ta.json(t, http.MethodGet, "/admin/v1/users", nil, admin)
	require.Equal(t, http.StatusOK, res.status)
	assert.EqualValues(t, 1, res.body["data"].(map[string]any)["admins_total"])

	path := fmt.Sprintf("/admin/v1/users/%d", target.ID)
	res = ta.json(t, http.MethodPatch, path, fiber.Map{"role": "owner"}, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)

	res = ta.json(t, http.MethodPatch, path, fiber.Map{"role": "admin", "phone": ""}, admin)
	require.Equal(t, http.StatusOK, res.status, res.body)
	assert.Equal(t, "admin", res.body["data"].(map[string]any)["role"])

	res = ta.json(t, http.MethodDelete, path, nil, admin)
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "تم حذف المستخدم بنجاح", res.body["message"])

	res = ta.json(t, http.MethodDelete, path, nil, admin)
	assert.Equal(t, http.StatusNotFound, res.status)
}
