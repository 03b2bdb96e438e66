package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"operon.app/server/internal/http/middleware"
)

var _ = Describe("Auth", func() {
	const secret = "test-secret"

	var router *gin.Engine

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		router.Use(middleware.Auth(secret))
		router.GET("/whoami", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"userId": middleware.UserID(c)})
		})
	})

	signToken := func(secret, subject string) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": subject,
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte(secret))
		Expect(err).NotTo(HaveOccurred())
		return signed
	}

	get := func(authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("accepts a valid bearer token and exposes the subject", func() {
		w := get("Bearer " + signToken(secret, "user_1"))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("user_1"))
	})

	It("rejects a missing Authorization header", func() {
		w := get("")

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(w.Body.String()).To(ContainSubstring("Unauthorized: User not authenticated."))
	})

	It("rejects a token signed with the wrong secret", func() {
		w := get("Bearer " + signToken("other-secret", "user_1"))

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects a token without a subject", func() {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte(secret))
		Expect(err).NotTo(HaveOccurred())

		w := get("Bearer " + signed)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects a non-bearer scheme", func() {
		w := get("Basic abc123")

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})
})
