package controllers

import (
	"net/http"

	"github.com/bazinga/storefront/app/services"
	"github.com/bazinga/storefront/pkg/ctx"
)

// maxCoverBytes caps cover uploads.
const maxCoverBytes = 10 << 20

type CatalogController struct {
	service *services.CatalogService
}

func NewCatalogController(service *services.CatalogService) *CatalogController {
	return &CatalogController{service: service}
}

func (cc *CatalogController) Index(c *ctx.Context) {
	comics, err := cc.service.List(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, comicList(comics))
}

func (cc *CatalogController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	comic, err := cc.service.Get(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, comicResponse(comic))
}

func (cc *CatalogController) Categories(c *ctx.Context) {
	rows, err := cc.service.Categories(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, categoryList(rows))
}

func (cc *CatalogController) Conditions(c *ctx.Context) {
	rows, err := cc.service.Conditions(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, conditionList(rows))
}

// Admin endpoints.

func (cc *CatalogController) AdminIndex(c *ctx.Context) {
	comics, err := cc.service.AdminList(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, comicList(comics))
}

func (cc *CatalogController) Store(c *ctx.Context) {
	var in services.ComicInput
	if !c.BindJSON(&in) {
		return
	}
	comic, err := cc.service.Create(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusCreated, comicResponse(comic))
}

func (cc *CatalogController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.ComicInput
	if !c.BindJSON(&in) {
		return
	}
	comic, err := cc.service.Update(c.Context(), id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, comicResponse(comic))
}

func (cc *CatalogController) Redact(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in struct {
		Redacted *bool `json:"redacted" validate:"required"`
	}
	if !c.BindJSON(&in) {
		return
	}
	comic, err := cc.service.SetRedacted(c.Context(), id, *in.Redacted)
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, comicResponse(comic))
}

// UploadCover takes a multipart form with the image in "file".
func (cc *CatalogController) UploadCover(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}

	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, maxCoverBytes)
	file, header, err := c.R.FormFile("file")
	if err != nil {
		c.Error(http.StatusBadRequest, "a cover image is required in the \"file\" field")
		return
	}
	defer file.Close()

	comic, err := cc.service.UploadCover(c.Context(), id, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, comicResponse(comic))
}

func (cc *CatalogController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := cc.service.Delete(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}
	c.NoContent()
}
