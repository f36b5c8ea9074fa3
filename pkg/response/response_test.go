package response_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bazinga/storefront/pkg/apperror"
	"github.com/bazinga/storefront/pkg/response"
)

func TestFromError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"not found", apperror.NotFound("comic 3 not found"), 404, `{"status":404,"message":"comic 3 not found"}`},
		{"ownership", apperror.OwnershipMismatch("cart item 9 not found"), 404, `{"status":404,"message":"cart item 9 not found"}`},
		{"duplicate", apperror.DuplicateIdentity("email already registered"), 400, `{"status":400,"message":"email already registered"}`},
		{"expired token", apperror.TokenExpired("token expired", nil), 401, `{"status":401,"message":"Unauthorized"}`},
		{"forbidden", apperror.Forbidden("only users can subscribe"), 403, `{"status":403,"message":"only users can subscribe"}`},
		{"internal", apperror.Internal(errors.New("db down"), "list cart"), 500, `{"status":500,"message":"Internal Server Error"}`},
		{"foreign", errors.New("boom"), 500, `{"status":500,"message":"Internal Server Error"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			response.FromError(context.Background(), rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			assert.JSONEq(t, tc.body, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	response.ValidationError(rec, map[string]string{"email": "The email field is required."})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"status":422,"message":"Validation failed","errors":{"email":"The email field is required."}}`, rec.Body.String())
}
