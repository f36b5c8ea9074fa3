package kernel_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/bazinga/storefront/app/models"
	"github.com/bazinga/storefront/config"
	"github.com/bazinga/storefront/database/migrations"
	"github.com/bazinga/storefront/internal/kernel"
	"github.com/bazinga/storefront/pkg/auth"
	"github.com/bazinga/storefront/pkg/storage"
	"github.com/bazinga/storefront/pkg/testkit"
)

var today = time.Date(2026, time.January, 31, 9, 0, 0, 0, time.UTC)

type APISuite struct {
	suite.Suite
	db      *gorm.DB
	kernel  *kernel.Kernel
	handler http.Handler
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	config.Set("RATE_LIMIT_BURST", "100000")
	config.Set("RATE_LIMIT_RPS", "100000")

	s.db = testkit.OpenDB(s.T(), migrations.Apply)
	tokens, err := auth.NewTokenService("integration-secret-0123456789", time.Hour)
	s.Require().NoError(err)
	disk, err := storage.NewLocal(s.T().TempDir(), "http://localhost/storage")
	s.Require().NoError(err)

	s.kernel = kernel.New(kernel.Deps{
		DB:     s.db,
		Tokens: tokens,
		Disk:   disk,
		Now:    func() time.Time { return today },
	})
	s.handler = s.kernel.Handler()
}

func (s *APISuite) TearDownTest() {
	s.kernel.Close()
}

func (s *APISuite) do(req testkit.Request) *httptest.ResponseRecorder {
	return testkit.Do(s.T(), s.handler, req)
}

// register signs up name and returns its token.
func (s *APISuite) register(name string) string {
	res := s.do(testkit.Request{
		Method: http.MethodPost,
		URL:    "/api/auth/register",
		Body:   map[string]any{"email": name + "@example.com", "username": name, "password": "secret123"},
	})
	s.status(res, http.StatusOK)
	return testkit.Decode[map[string]any](s.T(), res)["token"].(string)
}

func (s *APISuite) promote(name string, role models.Role) {
	s.Require().NoError(s.db.Model(&models.User{}).Where("username = ?", name).Update("role", role).Error)
}

func (s *APISuite) createComic(token string, body map[string]any) uint {
	res := s.do(testkit.Request{Method: http.MethodPost, URL: "/api/comics", Body: body, Token: token})
	s.status(res, http.StatusCreated)
	return uint(testkit.Decode[map[string]any](s.T(), res)["id"].(float64))
}

func (s *APISuite) status(res *httptest.ResponseRecorder, want int) {
	s.T().Helper()
	s.Require().True(testkit.AssertStatus(s.T(), res, want))
}

func (s *APISuite) TestRegisterAndLogin() {
	res := s.do(testkit.Request{
		Method: http.MethodPost,
		URL:    "/api/auth/register",
		Body:   map[string]any{"email": "ada@example.com", "username": "ada", "password": "secret123"},
	})
	s.status(res, http.StatusOK)
	testkit.AssertSubset(s.T(), map[string]any{
		"username":               "ada",
		"email":                  "ada@example.com",
		"role":                   "USER",
		"subscriptionType":       "Free",
		"subscriptionExpiration": nil,
	}, res)

	res = s.do(testkit.Request{
		Method: http.MethodPost,
		URL:    "/api/auth/register",
		Body:   map[string]any{"email": "ada@example.com", "username": "ada2", "password": "secret123"},
	})
	s.status(res, http.StatusBadRequest)
	testkit.AssertJSONBody(s.T(), `{"status":400,"message":"email is already registered"}`, res)

	res = s.do(testkit.Request{
		Method: http.MethodPost,
		URL:    "/api/auth/login",
		Body:   map[string]any{"email": "ada@example.com", "password": "wrong"},
	})
	s.status(res, http.StatusUnauthorized)

	for _, body := range []map[string]any{
		{"email": "ada@example.com", "password": ""},
		{"email": "ada@example.com"},
		{},
	} {
		res = s.do(testkit.Request{Method: http.MethodPost, URL: "/api/auth/login", Body: body})
		s.status(res, http.StatusUnauthorized)
		testkit.AssertJSONBody(s.T(), `{"status":401,"message":"invalid email or password"}`, res)
	}

	res = s.do(testkit.Request{
		Method: http.MethodPost,
		URL:    "/api/auth/login",
		Body:   map[string]any{"email": "ada", "password": "secret123"},
	})
	s.status(res, http.StatusOK)
	token := testkit.Decode[map[string]any](s.T(), res)["token"].(string)

	res = s.do(testkit.Request{URL: "/api/auth/me", Token: token})
	s.status(res, http.StatusOK)
	testkit.AssertSubset(s.T(), map[string]any{"username": "ada"}, res)
}

func (s *APISuite) TestRegisterValidation() {
	res := s.do(testkit.Request{
		Method: http.MethodPost,
		URL:    "/api/auth/register",
		Body:   map[string]any{"username": "ab", "password": "secret123"},
	})
	s.status(res, http.StatusUnprocessableEntity)
	testkit.AssertSubset(s.T(), map[string]any{
		"errors": map[string]any{
			"email":    "The email field is required.",
			"username": "The username must be at least 3 characters.",
		},
	}, res)
}

func (s *APISuite) TestTokenFailuresAreUniform() {
	for name, token := range map[string]string{
		"missing":   "",
		"malformed": "not-a-jwt",
	} {
		s.Run(name, func() {
			res := s.do(testkit.Request{URL: "/api/cart", Token: token})
			s.status(res, http.StatusUnauthorized)
			testkit.AssertJSONBody(s.T(), `{"status":401,"message":"Unauthorized"}`, res)
		})
	}

	// A token whose account has been deleted.
	token := s.register("ghost")
	s.Require().NoError(s.db.Where("username = ?", "ghost").Delete(&models.User{}).Error)
	res := s.do(testkit.Request{URL: "/api/cart", Token: token})
	s.status(res, http.StatusUnauthorized)
	testkit.AssertJSONBody(s.T(), `{"status":401,"message":"Unauthorized"}`, res)
}

func (s *APISuite) TestCartPricingAndMerge() {
	admin := s.register("admin")
	s.promote("admin", models.RoleAdmin)
	comicID := s.createComic(admin, map[string]any{"title": "Watchmen", "price": "10.00"})

	user := s.register("ada")
	res := s.do(testkit.Request{
		Method: http.MethodPost,
		URL:    "/api/cart",
		Body:   map[string]any{"comicId": comicID, "purchaseType": "DIGITAL"},
		Token:  user,
	})
	s.status(res, http.StatusOK)
	s.Contains(res.Body.String(), `"unitPrice":7.50`)

	res = s.do(testkit.Request{
		Method: http.MethodPost,
		URL:    "/api/cart",
		Body:   map[string]any{"comicId": comicID, "purchaseType": "DIGITAL", "quantity": 2},
		Token:  user,
	})
	s.status(res, http.StatusOK)
	lines := testkit.Decode[[]map[string]any](s.T(), res)
	s.Require().Len(lines, 1)
	s.EqualValues(3, lines[0]["quantity"])
	s.EqualValues(22.5, lines[0]["lineTotal"])
	s.Equal("DIGITAL", lines[0]["purchaseType"])

	lineID := lines[0]["id"]

	// Another user cannot see or edit the line.
	other := s.register("bob")
	res = s.do(testkit.Request{
		Method: http.MethodPut,
		URL:    "/api/cart",
		Body:   map[string]any{"cartItemId": lineID, "quantity": 9},
		Token:  other,
	})
	s.status(res, http.StatusNotFound)

	res = s.do(testkit.Request{
		Method: http.MethodPut,
		URL:    "/api/cart",
		Body:   map[string]any{"cartItemId": lineID, "quantity": 0},
		Token:  user,
	})
	s.status(res, http.StatusOK)
	testkit.AssertJSONBody(s.T(), `[]`, res)
}

func (s *APISuite) TestSubscribe() {
	user := s.register("ada")

	res := s.do(testkit.Request{
		Method: http.MethodPost,
		URL:    "/api/subscriptions/subscribe",
		Body:   map[string]any{"subscriptionType": "premium", "billingCycle": "monthly"},
		Token:  user,
	})
	s.status(res, http.StatusOK)
	testkit.AssertJSONBody(s.T(), `{"subscriptionType":"Premium","subscriptionExpiration":"2026-02-28"}`, res)

	res = s.do(testkit.Request{
		Method: http.MethodPost,
		URL:    "/api/subscriptions/subscribe",
		Body:   map[string]any{"subscriptionType": "Platinum", "billingCycle": "monthly"},
		Token:  user,
	})
	s.status(res, http.StatusBadRequest)

	res = s.do(testkit.Request{
		Method: http.MethodPost,
		URL:    "/api/subscriptions/subscribe",
		Body:   map[string]any{"subscriptionType": "", "billingCycle": "monthly"},
		Token:  user,
	})
	s.status(res, http.StatusBadRequest)
	testkit.AssertJSONBody(s.T(), `{"status":400,"message":"invalid subscription type \"\""}`, res)

	res = s.do(testkit.Request{
		Method: http.MethodPost,
		URL:    "/api/subscriptions/subscribe",
		Body:   map[string]any{"subscriptionType": "Premium"},
		Token:  user,
	})
	s.status(res, http.StatusBadRequest)
	testkit.AssertJSONBody(s.T(), `{"status":400,"message":"invalid billing cycle \"\""}`, res)

	admin := s.register("root")
	s.promote("root", models.RoleAdmin)
	res = s.do(testkit.Request{
		Method: http.MethodPost,
		URL:    "/api/subscriptions/subscribe",
		Body:   map[string]any{"subscriptionType": "Premium", "billingCycle": "yearly"},
		Token:  admin,
	})
	s.status(res, http.StatusForbidden)

	// Bad input is reported before the role check.
	res = s.do(testkit.Request{
		Method: http.MethodPost,
		URL:    "/api/subscriptions/subscribe",
		Body:   map[string]any{"subscriptionType": "Platinum", "billingCycle": "yearly"},
		Token:  admin,
	})
	s.status(res, http.StatusBadRequest)
}

func (s *APISuite) TestRoleGuards() {
	user := s.register("ada")

	res := s.do(testkit.Request{Method: http.MethodPost, URL: "/api/comics", Body: map[string]any{"title": "X"}, Token: user})
	s.status(res, http.StatusForbidden)
	testkit.AssertJSONBody(s.T(), `{"status":403,"message":"Forbidden"}`, res)

	res = s.do(testkit.Request{URL: "/api/admin/users", Token: user})
	s.status(res, http.StatusForbidden)

	res = s.do(testkit.Request{Method: http.MethodPost, URL: "/api/news", Body: map[string]any{"title": "t", "content": "c"}, Token: user})
	s.status(res, http.StatusForbidden)

	s.promote("ada", models.RoleEditor)
	res = s.do(testkit.Request{Method: http.MethodPost, URL: "/api/news", Body: map[string]any{"title": "Launch", "content": "We are live"}, Token: user})
	s.status(res, http.StatusCreated)

	res = s.do(testkit.Request{URL: "/api/news"})
	s.status(res, http.StatusOK)
	posts := testkit.Decode[[]map[string]any](s.T(), res)
	s.Require().Len(posts, 1)
	s.Equal("ada", posts[0]["author"])
}

func (s *APISuite) TestRedactAndDeleteCascade() {
	admin := s.register("admin")
	s.promote("admin", models.RoleAdmin)
	comicID := s.createComic(admin, map[string]any{"title": "Doomed", "price": 3})

	user := s.register("ada")
	s.status(s.do(testkit.Request{Method: http.MethodPost, URL: "/api/cart", Body: map[string]any{"comicId": comicID}, Token: user}), http.StatusOK)
	s.status(s.do(testkit.Request{Method: http.MethodPost, URL: "/api/wishlist", Body: map[string]any{"comicId": comicID}, Token: user}), http.StatusOK)

	url := "/api/admin/comics/" + itoa(comicID)
	s.status(s.do(testkit.Request{Method: http.MethodDelete, URL: url, Token: admin}), http.StatusBadRequest)

	res := s.do(testkit.Request{Method: http.MethodPut, URL: url + "/redaction", Body: map[string]any{"redacted": true}, Token: admin})
	s.status(res, http.StatusOK)

	s.status(s.do(testkit.Request{URL: "/api/comics/" + itoa(comicID)}), http.StatusNotFound)
	s.status(s.do(testkit.Request{Method: http.MethodDelete, URL: url, Token: admin}), http.StatusNoContent)

	res = s.do(testkit.Request{URL: "/api/cart", Token: user})
	s.status(res, http.StatusOK)
	testkit.AssertJSONBody(s.T(), `[]`, res)

	res = s.do(testkit.Request{URL: "/api/wishlist", Token: user})
	s.status(res, http.StatusOK)
	testkit.AssertJSONBody(s.T(), `[]`, res)
}

func (s *APISuite) TestUploadCover() {
	admin := s.register("admin")
	s.promote("admin", models.RoleAdmin)
	comicID := s.createComic(admin, map[string]any{"title": "Cover"})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "cover.png")
	s.Require().NoError(err)
	_, err = fw.Write([]byte("\x89PNG fake"))
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	res := s.do(testkit.Request{
		Method:      http.MethodPut,
		URL:         "/api/admin/comics/" + itoa(comicID) + "/cover",
		Body:        &body,
		ContentType: mw.FormDataContentType(),
		Token:       admin,
	})
	s.status(res, http.StatusOK)

	imageURL := testkit.Decode[map[string]any](s.T(), res)["imageUrl"].(string)
	s.True(strings.HasPrefix(imageURL, "http://localhost/storage/covers/"), imageURL)

	res = s.do(testkit.Request{URL: strings.TrimPrefix(imageURL, "http://localhost")})
	s.status(res, http.StatusOK)
	s.Equal("\x89PNG fake", res.Body.String())
}

func (s *APISuite) TestOpsEndpoints() {
	s.status(s.do(testkit.Request{URL: "/healthz"}), http.StatusOK)

	res := s.do(testkit.Request{URL: "/api/nothing-here"})
	s.status(res, http.StatusNotFound)
	testkit.AssertJSONBody(s.T(), `{"status":404,"message":"Not found"}`, res)

	s.do(testkit.Request{URL: "/api/comics"})
	res = s.do(testkit.Request{URL: "/metrics"})
	s.status(res, http.StatusOK)
	s.Contains(res.Body.String(), "bazinga_http_requests_total")
}

func (s *APISuite) TestRouteTable() {
	names := map[string]bool{}
	for _, r := range s.kernel.Routes() {
		names[r.Name] = true
	}
	for _, want := range []string{"auth.register", "cart.update", "wishlist.remove", "admin.comics.cover", "admin.users.update", "metrics", "storage"} {
		s.True(names[want], want)
	}
}

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }
