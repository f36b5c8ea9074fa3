package models

import "time"

// User is a registered identity. Email is the token subject.
type User struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	Username               string     `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Email                  string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password               string     `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	Role                   Role       `gorm:"size:20;not null;default:USER" json:"role"`
	FirstName              string     `gorm:"size:100" json:"firstName,omitempty"`
	LastName               string     `gorm:"size:100" json:"lastName,omitempty"`
	SubscriptionType       Tier       `gorm:"size:20;not null;default:Free" json:"subscriptionType"`
	SubscriptionExpiration *time.Time `gorm:"type:date" json:"subscriptionExpiration"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

// PricingTier is the tier carts are priced with: the stored subscription
// type, with a blank value read as Free. The expiration date does not enter
// into it.
func (u *User) PricingTier() Tier {
	if u.SubscriptionType == "" {
		return TierFree
	}
	return u.SubscriptionType
}

// Subject is the token subject identifying u.
func (u *User) Subject() string { return u.Email }

func (u *User) RoleName() string { return string(u.Role) }
