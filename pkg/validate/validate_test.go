package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bazinga/storefront/pkg/validate"
)

type registerInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=20"`
	Password string `json:"password" validate:"required,min=8"`
}

type cartInput struct {
	ComicID  uint   `json:"comicId"  validate:"required"`
	Quantity *int   `json:"quantity" validate:"omitempty,ne=0"`
	Mode     string `json:"purchaseType" validate:"omitempty,oneof=ORIGINAL DIGITAL original digital"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{Email: "tony@stark.com", Username: "ironman", Password: "jarvis-123"})
	assert.False(t, validate.HasErrors(errs), "%v", errs)
}

func TestErrorsAreKeyedByJSONName(t *testing.T) {
	errs := validate.Struct(registerInput{Email: "not-an-email", Username: "ab"})

	assert.Equal(t, "The email must be a valid email address.", errs["email"])
	assert.Equal(t, "The username must be at least 3 characters.", errs["username"])
	assert.Equal(t, "The password field is required.", errs["password"])
	assert.Len(t, errs, 3)
}

func TestOptionalPointer(t *testing.T) {
	assert.Empty(t, validate.Struct(cartInput{ComicID: 1}))

	zero := 0
	errs := validate.Struct(cartInput{ComicID: 1, Quantity: &zero})
	assert.Contains(t, errs, "quantity")

	errs = validate.Struct(cartInput{ComicID: 1, Mode: "hologram"})
	assert.Equal(t, "The purchaseType must be one of: ORIGINAL, DIGITAL, original, digital.", errs["purchaseType"])
}
