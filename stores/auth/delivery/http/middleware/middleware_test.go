package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/mocks"
)

func TestAuth(t *testing.T) {
	auth := &mocks.AuthUsecase{}
	auth.On("ParseToken", mock.Anything, "good").Return(domain.AccountId("acc-1"), nil)
	auth.On("ParseToken", mock.Anything, "bad").Return(domain.AccountId(""), domain.ErrUnauthorized)

	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("ctx", ctx.Background())
			return next(c)
		}
	})
	e.GET("/me", func(c echo.Context) error {
		id := c.Get("accountId").(domain.AccountId)
		require.Equal(t, "acc-1", ctx.AccountId(c.Get("ctx").(ctx.Ctx)))
		return c.String(http.StatusOK, string(id))
	}, New(auth).Auth())

	tests := []struct {
		header string
		want   int
	}{
		{header: "Bearer good", want: http.StatusOK},
		{header: "Bearer bad", want: http.StatusUnauthorized},
		{header: "", want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tt.header != "" {
			req.Header.Set(echo.HeaderAuthorization, tt.header)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, tt.want, rec.Code, tt.header)
		if tt.want == http.StatusOK {
			require.Equal(t, "acc-1", rec.Body.String())
		}
	}
}
