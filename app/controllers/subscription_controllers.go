package controllers

import (
	"net/http"

	"github.com/bazinga/storefront/app/services"
	"github.com/bazinga/storefront/pkg/ctx"
)

type SubscriptionController struct {
	service *services.SubscriptionService
}

func NewSubscriptionController(service *services.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{service: service}
}

func (s *SubscriptionController) Subscribe(c *ctx.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var in services.SubscribeInput
	if !c.BindJSON(&in) {
		return
	}

	updated, err := s.service.Subscribe(c.Context(), user, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, SubscriptionResponse{
		SubscriptionType:       string(updated.SubscriptionType),
		SubscriptionExpiration: dateOnly(updated.SubscriptionExpiration),
	})
}
