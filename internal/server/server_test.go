package server_test

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/index-orchestrator/internal/config"
	"github.com/kubev2v/index-orchestrator/internal/server"
)

var secret = []byte("s3cr3t")

func signToken(key []byte, method jwt.SigningMethod, expiresIn time.Duration) string {
	claims := jwt.RegisteredClaims{
		Subject:   "indexer-client",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	}
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return signed
}

var _ = Describe("Server", func() {
	var cfg *config.Configuration

	register := func(router *gin.RouterGroup) {
		router.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"subject": c.GetString("subject")})
		})
		router.GET("/panic", func(c *gin.Context) {
			panic("boom")
		})
	}

	get := func(s *server.Server, path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		cfg = config.NewConfigurationWithOptionsAndDefaults()
	})

	Context("without authentication", func() {
		It("should route api requests", func() {
			s, err := server.NewServer(cfg, register)
			Expect(err).NotTo(HaveOccurred())

			Expect(get(s, "/api/v1/ping", "").Code).To(Equal(http.StatusOK))
			Expect(get(s, "/health", "").Code).To(Equal(http.StatusOK))
			Expect(get(s, "/api/v1/unknown", "").Code).To(Equal(http.StatusNotFound))
		})

		It("should recover from handler panics", func() {
			s, err := server.NewServer(cfg, register)
			Expect(err).NotTo(HaveOccurred())

			Expect(get(s, "/api/v1/panic", "").Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Context("with authentication", func() {
		var s *server.Server

		BeforeEach(func() {
			cfg.Authentication.Enabled = true
			cfg.Authentication.JWTSecret = string(secret)

			var err error
			s, err = server.NewServer(cfg, register)
			Expect(err).NotTo(HaveOccurred())
		})

		// Given a token signed with the configured secret
		// When an api route is called with it
		// Then the request passes and the subject is available to handlers
		It("should accept a valid token", func() {
			// Act
			w := get(s, "/api/v1/ping", signToken(secret, jwt.SigningMethodHS256, time.Hour))

			// Assert
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("indexer-client"))
		})

		DescribeTable("should reject",
			func(token func() string) {
				Expect(get(s, "/api/v1/ping", token()).Code).To(Equal(http.StatusUnauthorized))
			},
			Entry("a missing token", func() string { return "" }),
			Entry("a token signed with another secret", func() string {
				return signToken([]byte("other"), jwt.SigningMethodHS256, time.Hour)
			}),
			Entry("an expired token", func() string {
				return signToken(secret, jwt.SigningMethodHS256, -time.Minute)
			}),
			Entry("a token using another algorithm", func() string {
				return signToken(secret, jwt.SigningMethodHS512, time.Hour)
			}),
			Entry("garbage", func() string { return "not-a-jwt" }),
		)

		It("should leave the health endpoint open", func() {
			Expect(get(s, "/health", "").Code).To(Equal(http.StatusOK))
		})

		It("should refuse to build without a secret", func() {
			cfg.Authentication.JWTSecret = ""

			_, err := server.NewServer(cfg, register)
			Expect(err).To(HaveOccurred())
		})
	})
})
