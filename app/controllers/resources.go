package controllers

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bazinga/storefront/app/models"
)

// Response documents. Money is written as a JSON number with two decimals
// and dates as YYYY-MM-DD.

type AuthResponse struct {
	Token                  string  `json:"token"`
	UserID                 uint    `json:"userId"`
	Username               string  `json:"username"`
	Email                  string  `json:"email"`
	Role                   string  `json:"role"`
	SubscriptionType       string  `json:"subscriptionType"`
	SubscriptionExpiration *string `json:"subscriptionExpiration"`
}

type UserResponse struct {
	ID                     uint    `json:"id"`
	Username               string  `json:"username"`
	Email                  string  `json:"email"`
	Role                   string  `json:"role"`
	FirstName              string  `json:"firstName"`
	LastName               string  `json:"lastName"`
	SubscriptionType       string  `json:"subscriptionType"`
	SubscriptionExpiration *string `json:"subscriptionExpiration"`
}

type SubscriptionResponse struct {
	SubscriptionType       string  `json:"subscriptionType"`
	SubscriptionExpiration *string `json:"subscriptionExpiration"`
}

type NamedResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type ComicResponse struct {
	ID            uint           `json:"id"`
	Title         string         `json:"title"`
	Author        string         `json:"author"`
	ISBN          *string        `json:"isbn"`
	Description   string         `json:"description"`
	MainCharacter string         `json:"mainCharacter"`
	Series        string         `json:"series"`
	PublishedYear *int           `json:"publishedYear"`
	Price         *json.Number   `json:"price"`
	ImageURL      string         `json:"imageUrl"`
	ComicType     string         `json:"comicType"`
	Redacted      bool           `json:"redacted,omitempty"`
	Category      *NamedResponse `json:"category"`
	Condition     *NamedResponse `json:"condition"`
}

type CartLineResponse struct {
	ID           uint           `json:"id"`
	Comic        *ComicResponse `json:"comic"`
	Quantity     int            `json:"quantity"`
	PurchaseType string         `json:"purchaseType"`
	UnitPrice    json.Number    `json:"unitPrice"`
	LineTotal    json.Number    `json:"lineTotal"`
}

// CollectionLineResponse is a wishlist or library entry.
type CollectionLineResponse struct {
	ID      uint           `json:"id"`
	Comic   *ComicResponse `json:"comic"`
	AddedAt time.Time      `json:"addedAt"`
}

type NewsResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func dateOnly(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}

func authResponse(token string, u *models.User) AuthResponse {
	return AuthResponse{
		Token:                  token,
		UserID:                 u.ID,
		Username:               u.Username,
		Email:                  u.Email,
		Role:                   string(u.Role),
		SubscriptionType:       string(u.SubscriptionType),
		SubscriptionExpiration: dateOnly(u.SubscriptionExpiration),
	}
}

func userResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:                     u.ID,
		Username:               u.Username,
		Email:                  u.Email,
		Role:                   string(u.Role),
		FirstName:              u.FirstName,
		LastName:               u.LastName,
		SubscriptionType:       string(u.SubscriptionType),
		SubscriptionExpiration: dateOnly(u.SubscriptionExpiration),
	}
}

func userList(users []models.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = userResponse(&users[i])
	}
	return out
}

func comicResponse(c *models.Comic) *ComicResponse {
	if c == nil {
		return nil
	}
	out := &ComicResponse{
		ID:            c.ID,
		Title:         c.Title,
		Author:        c.Author,
		ISBN:          c.ISBN,
		Description:   c.Description,
		MainCharacter: c.MainCharacter,
		Series:        c.Series,
		PublishedYear: c.PublishedYear,
		ImageURL:      c.ImageURL,
		ComicType:     string(c.ComicType),
		Redacted:      c.Redacted,
	}
	if p := c.BasePrice(); p != nil {
		n := money(*p)
		out.Price = &n
	}
	if c.Category != nil {
		out.Category = &NamedResponse{ID: c.Category.ID, Name: c.Category.Name}
	}
	if c.Condition != nil {
		out.Condition = &NamedResponse{ID: c.Condition.ID, Name: c.Condition.Name}
	}
	return out
}

func comicList(comics []models.Comic) []*ComicResponse {
	out := make([]*ComicResponse, len(comics))
	for i := range comics {
		out[i] = comicResponse(&comics[i])
	}
	return out
}

func cartLines(items []models.LineItem) []CartLineResponse {
	out := make([]CartLineResponse, len(items))
	for i, it := range items {
		out[i] = CartLineResponse{
			ID:           it.ID,
			Comic:        comicResponse(it.Comic),
			Quantity:     it.Quantity,
			PurchaseType: it.Variant,
			UnitPrice:    money(it.UnitPrice),
			LineTotal:    money(it.LineTotal()),
		}
	}
	return out
}

func collectionLines(items []models.LineItem) []CollectionLineResponse {
	out := make([]CollectionLineResponse, len(items))
	for i, it := range items {
		out[i] = CollectionLineResponse{ID: it.ID, Comic: comicResponse(it.Comic), AddedAt: it.AddedAt}
	}
	return out
}

func categoryList(rows []models.Category) []NamedResponse {
	out := make([]NamedResponse, len(rows))
	for i, r := range rows {
		out[i] = NamedResponse{ID: r.ID, Name: r.Name, Description: r.Description}
	}
	return out
}

func conditionList(rows []models.Condition) []NamedResponse {
	out := make([]NamedResponse, len(rows))
	for i, r := range rows {
		out[i] = NamedResponse{ID: r.ID, Name: r.Name, Description: r.Description}
	}
	return out
}

func newsList(posts []models.NewsPost) []NewsResponse {
	out := make([]NewsResponse, len(posts))
	for i := range posts {
		out[i] = newsResponse(&posts[i])
	}
	return out
}

func newsResponse(p *models.NewsPost) NewsResponse {
	author := ""
	if p.Author != nil {
		author = p.Author.Username
	}
	return NewsResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Author:    author,
		CreatedAt: p.CreatedAt,
		ExpiresAt: p.ExpiresAt,
	}
}
