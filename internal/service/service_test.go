package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"aqarat_backend/internal/model"
	"aqarat_backend/pkg/cache"
	"aqarat_backend/pkg/oauth"
	"aqarat_backend/pkg/utils/jwt"
	"aqarat_backend/pkg/utils/storage"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPublicURL = "http://cdn.test/public"

type env struct {
	db      *gorm.DB
	cache   *cache.MemoryStore
	store   *storage.Local
	media   *Media
	issuer  *jwt.Issuer
	mailer  *fakeMailer
	storage string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))

	dir := t.TempDir()
	store, err := storage.NewLocal(dir, testPublicURL)
	require.NoError(t, err)

	return &env{
		db:      db,
		cache:   cache.NewMemoryStore(),
		store:   store,
		media:   NewMedia(store),
		issuer:  jwt.NewIssuer("test-secret-0123456789", time.Hour),
		mailer:  &fakeMailer{},
		storage: dir,
	}
}

// storedFiles lists every file under the storage root, relative to it.
func (e *env) storedFiles(t *testing.T) []string {
	t.Helper()
	var out []string
	err := filepath.Walk(e.storage, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			rel, _ := filepath.Rel(e.storage, path)
			out = append(out, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	return out
}

func (e *env) cached(t *testing.T, key string) bool {
	t.Helper()
	_, ok, err := e.cache.Get(context.Background(), key)
	require.NoError(t, err)
	return ok
}

func (e *env) user(t *testing.T, name, email, password string, role model.Role) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := model.User{Name: name, Email: email, Password: string(hash), Role: role}
	require.NoError(t, e.db.Create(&u).Error)
	return &u
}

func (e *env) property(t *testing.T, title string) *model.Property {
	t.Helper()
	p := model.Property{
		Title:    title,
		Slug:     strings.ToLower(strings.ReplaceAll(title, " ", "-")) + "-" + uuid.NewString()[:6],
		Type:     model.ListingSale,
		Price:    100000,
		Location: &model.PropertyLocation{City: "القاهرة", District: "المعادي", Street: "9"},
	}
	require.NoError(t, e.db.Create(&p).Error)
	return &p
}

// upload builds a multipart file header the way Fiber hands them over.
func upload(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(10 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field][0]
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type sentMail struct {
	Kind, To, Link string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) record(s sentMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, s)
	return nil
}

func (m *fakeMailer) SendWelcomeEmail(ctx context.Context, to, name string) error {
	return m.record(sentMail{Kind: "welcome", To: to})
}

func (m *fakeMailer) SendPasswordResetEmail(ctx context.Context, to, link string) error {
	return m.record(sentMail{Kind: "reset", To: to, Link: link})
}

func (m *fakeMailer) SendPasswordChangedEmail(ctx context.Context, to string) error {
	return m.record(sentMail{Kind: "changed", To: to})
}

func (m *fakeMailer) last(kind string) (sentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].Kind == kind {
			return m.sent[i], true
		}
	}
	return sentMail{}, false
}

type fakeGoogle struct {
	profile *oauth.Profile
	err     error
}

func (g *fakeGoogle) AuthCodeURL(state string) string {
	return "https://accounts.google.test/auth?state=" + state
}

func (g *fakeGoogle) Profile(ctx context.Context, code string) (*oauth.Profile, error) {
	return g.profile, g.err
}
