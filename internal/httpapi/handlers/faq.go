package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/wholesale-platform/internal/faq"
)

func (h *Handler) FAQCategories(c *gin.Context) {
	out, err := h.FAQ.Categories(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, out)
}

func (h *Handler) FAQItemsByCategory(c *gin.Context) {
	id, valid := paramID(c, "category_id")
	if !valid {
		return
	}
	out, err := h.FAQ.ItemsByCategory(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, out)
}

func (h *Handler) FAQItem(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	it, err := h.FAQ.Item(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, it)
}

func (h *Handler) SearchFAQ(c *gin.Context) {
	out, err := h.FAQ.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, out)
}

type markHelpfulReq struct {
	Helpful *bool `json:"helpful" binding:"required"`
}

func (h *Handler) MarkFAQHelpful(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req markHelpfulReq
	if !bindJSON(c, &req) {
		return
	}
	if err := h.FAQ.MarkHelpful(c.Request.Context(), id, *req.Helpful); err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"success": true})
}

func (h *Handler) CreateFAQCategory(c *gin.Context) {
	var req faq.CategoryInput
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.FAQ.CreateCategory(c.Request.Context(), req)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, cat)
}

func (h *Handler) CreateFAQItem(c *gin.Context) {
	var req faq.ItemInput
	if !bindJSON(c, &req) {
		return
	}
	it, err := h.FAQ.CreateItem(c.Request.Context(), req)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, it)
}
