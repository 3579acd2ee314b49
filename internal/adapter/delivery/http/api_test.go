package http_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gavv/httpexpect/v2"
	"github.com/go-chi/httplog/v2"
	"github.com/stretchr/testify/suite"
	"github.com/vadimbarashkov/bytelink/internal/adapter/qr"
	"github.com/vadimbarashkov/bytelink/internal/adapter/repository/memory"
	"github.com/vadimbarashkov/bytelink/internal/usecase"

	delivery "github.com/vadimbarashkov/bytelink/internal/adapter/delivery/http"
)

const baseURL = "http://localhost:8080"

type APITestSuite struct {
	suite.Suite
	logger *httplog.Logger
	server *httptest.Server
	e      *httpexpect.Expect
}

func (suite *APITestSuite) SetupSuite() {
	suite.logger = httplog.NewLogger("", httplog.Options{Writer: io.Discard})
}

func (suite *APITestSuite) SetupSubTest() {
	linkUseCase := usecase.New(baseURL, memory.NewLinkRepository(), qr.NewRenderer(64))

	suite.server = httptest.NewServer(delivery.NewRouter(suite.logger, linkUseCase))
	suite.e = httpexpect.Default(suite.T(), suite.server.URL)
}

func (suite *APITestSuite) TearDownSubTest() {
	suite.server.Close()
}

func (suite *APITestSuite) shorten(body map[string]string) *httpexpect.Object {
	return suite.e.POST("/api/v1/links").
		WithJSON(body).
		Expect().
		Status(http.StatusCreated).
		JSON().Object()
}

func (suite *APITestSuite) TestLinkLifecycle() {
	suite.Run("shorten, resolve and read analytics", func() {
		link := suite.shorten(map[string]string{"original_url": "https://example.com/x"})

		id := link.Value("id").String().Raw()
		shortCode := link.Value("short_code").String().NotEmpty().Raw()
		link.HasValue("short_url", baseURL+"/"+shortCode)
		link.HasValue("clicks", 0)
		link.Value("qr_code").String().HasPrefix("data:image/png;base64,")

		for _, referer := range []string{"https://google.com/", "https://google.com/", ""} {
			req := suite.e.GET("/" + shortCode).
				WithRedirectPolicy(httpexpect.DontFollowRedirects)
			if referer != "" {
				req = req.WithHeader("Referer", referer)
			}
			req.Expect().
				Status(http.StatusFound).
				Header("Location").IsEqual("https://example.com/x")
		}

		stats := suite.e.GET(fmt.Sprintf("/api/v1/links/%s/analytics", id)).
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		stats.HasValue("total", 3)
		stats.HasValue("last_24_hours", 3)
		stats.Value("top_referers").Array().Value(0).Object().
			HasValue("referer", "https://google.com/").
			HasValue("count", 2)
		stats.Value("top_referers").Array().Value(1).Object().
			HasValue("referer", "Direct").
			HasValue("count", 1)
		stats.Value("clicks_by_day").Array().Length().IsEqual(7)

		suite.e.GET(fmt.Sprintf("/api/v1/links/%s", id)).
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			HasValue("clicks", 3).
			Value("analytics").Object().HasValue("total", 3)
	})

	suite.Run("custom code conflict", func() {
		suite.shorten(map[string]string{"original_url": "https://example.com/x", "custom_code": "promo1"})

		suite.e.POST("/api/v1/links").
			WithJSON(map[string]string{"original_url": "https://example.com/y", "custom_code": "promo1"}).
			Expect().
			Status(http.StatusConflict).
			JSON().Object().
			HasValue("code", "code_taken")
	})

	suite.Run("modify then deactivate", func() {
		link := suite.shorten(map[string]string{"original_url": "https://example.com/x", "custom_code": "before"})
		id := link.Value("id").String().Raw()

		suite.e.PUT(fmt.Sprintf("/api/v1/links/%s", id)).
			WithJSON(map[string]string{"custom_code": "after1"}).
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			HasValue("short_code", "after1").
			HasValue("short_url", baseURL+"/after1")

		suite.e.GET("/before").
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			Expect().
			Status(http.StatusNotFound)

		suite.e.DELETE(fmt.Sprintf("/api/v1/links/%s", id)).
			Expect().
			Status(http.StatusNoContent)

		suite.e.GET("/after1").
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			Expect().
			Status(http.StatusNotFound)

		suite.e.PUT(fmt.Sprintf("/api/v1/links/%s", id)).
			WithJSON(map[string]string{"original_url": "https://example.com/z"}).
			Expect().
			Status(http.StatusNotFound)

		suite.e.GET("/api/v1/links").
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("pagination").Object().HasValue("total_urls", 0)
	})

	suite.Run("list and dashboard", func() {
		for i := 0; i < 3; i++ {
			suite.shorten(map[string]string{"original_url": fmt.Sprintf("https://example.com/%d", i)})
		}

		list := suite.e.GET("/api/v1/links").
			WithQuery("page", 1).
			WithQuery("limit", 2).
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		list.Value("urls").Array().Length().IsEqual(2)
		list.Value("pagination").Object().
			HasValue("current_page", 1).
			HasValue("total_pages", 2).
			HasValue("total_urls", 3).
			HasValue("has_next", true).
			HasValue("has_prev", false)

		dashboard := suite.e.GET("/api/v1/stats/dashboard").
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		dashboard.HasValue("total_urls", 3)
		dashboard.HasValue("total_clicks", 0)
		dashboard.Value("recent_urls").Array().Length().IsEqual(3)
		dashboard.Value("clicks_over_time").Array().IsEmpty()
	})
}

func TestAPI(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
