package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/wholesale-platform/internal/catalog"
)

const maxListLimit = 200

func (h *Handler) ListProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit <= 0 || limit > maxListLimit {
		limit = 50
	}
	out, err := h.Catalog.ListProducts(c.Request.Context(), limit)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, out)
}

func (h *Handler) FeaturedProducts(c *gin.Context) {
	out, err := h.Catalog.Featured(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, out)
}

func (h *Handler) ProductsByCategory(c *gin.Context) {
	id, valid := paramID(c, "category_id")
	if !valid {
		return
	}
	out, err := h.Catalog.ByCategory(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, out)
}

func (h *Handler) ProductBySlug(c *gin.Context) {
	p, err := h.Catalog.BySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, p)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	ctx := c.Request.Context()
	p, err := h.Catalog.Product(ctx, id)
	if err != nil {
		failErr(c, err)
		return
	}
	certs, err := h.Catalog.ProductCertifications(ctx, id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"product": p, "certifications": certs})
}

type createProductReq struct {
	CategoryID       uint64  `json:"category_id" binding:"required"`
	ConditionGradeID *uint64 `json:"condition_grade_id"`
	Name             string  `json:"name" binding:"required"`
	Slug             string  `json:"slug"`
	SKU              string  `json:"sku" binding:"required"`
	Description      string  `json:"description"`
	Specifications   string  `json:"specifications"`
	BasePrice        int64   `json:"base_price"`
	MOQ              int     `json:"moq"`
	Stock            int     `json:"stock"`
	Images           string  `json:"images"`
	Featured         bool    `json:"featured"`
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req createProductReq
	if !bindJSON(c, &req) {
		return
	}
	p := &catalog.Product{
		CategoryID:       req.CategoryID,
		ConditionGradeID: req.ConditionGradeID,
		Name:             req.Name,
		Slug:             req.Slug,
		SKU:              req.SKU,
		Description:      req.Description,
		Specifications:   req.Specifications,
		BasePrice:        req.BasePrice,
		MOQ:              req.MOQ,
		Stock:            req.Stock,
		Images:           req.Images,
		Featured:         req.Featured,
		Active:           true,
	}
	if err := h.Catalog.CreateProduct(c.Request.Context(), p); err != nil {
		failErr(c, err)
		return
	}
	ok(c, p)
}

func (h *Handler) ListCategories(c *gin.Context) {
	out, err := h.Catalog.Categories(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, out)
}

type createCategoryReq struct {
	Name         string `json:"name" binding:"required"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	DisplayOrder int    `json:"display_order"`
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req createCategoryReq
	if !bindJSON(c, &req) {
		return
	}
	cat := &catalog.Category{
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		DisplayOrder: req.DisplayOrder,
	}
	if err := h.Catalog.CreateCategory(c.Request.Context(), cat); err != nil {
		failErr(c, err)
		return
	}
	ok(c, cat)
}

func (h *Handler) ListCertifications(c *gin.Context) {
	out, err := h.Catalog.Certifications(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, out)
}

func (h *Handler) ProductCertifications(c *gin.Context) {
	id, valid := paramID(c, "product_id")
	if !valid {
		return
	}
	out, err := h.Catalog.ProductCertifications(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, out)
}
