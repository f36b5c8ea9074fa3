package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazinga/storefront/app/models"
)

func TestParseTier(t *testing.T) {
	for in, want := range map[string]models.Tier{
		"premium":    models.TierPremium,
		" UNLIMITED": models.TierUnlimited,
		"Free":       models.TierFree,
	} {
		got, err := models.ParseTier(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{"", "gold", "premium+"} {
		_, err := models.ParseTier(in)
		assert.Error(t, err, in)
	}
}

func TestParseBillingCycle(t *testing.T) {
	c, err := models.ParseBillingCycle(" Yearly ")
	require.NoError(t, err)
	assert.Equal(t, models.BillingYearly, c)

	_, err = models.ParseBillingCycle("weekly")
	assert.Error(t, err)
	_, err = models.ParseBillingCycle("")
	assert.Error(t, err)
}

func TestOptionalEnumsDefault(t *testing.T) {
	mode, err := models.ParsePurchaseMode("")
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseOriginal, mode)

	mode, err = models.ParsePurchaseMode("digital")
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseDigital, mode)

	_, err = models.ParsePurchaseMode("hologram")
	assert.Error(t, err)

	ct, err := models.ParseComicType("  ")
	require.NoError(t, err)
	assert.Equal(t, models.ComicPhysicalCopy, ct)

	role, err := models.ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, role)

	_, err = models.ParseRole("root")
	assert.Error(t, err)
}

func TestPurchasableTiers(t *testing.T) {
	assert.True(t, models.TierPremium.Purchasable())
	assert.True(t, models.TierUnlimited.Purchasable())
	assert.False(t, models.TierFree.Purchasable())
}
