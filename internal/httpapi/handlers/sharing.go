package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/wholesale-platform/internal/sharing"
)

// shareProduct loads the catalog product named by :product_id.
func (h *Handler) shareProduct(c *gin.Context) (sharing.Product, bool) {
	id, valid := paramID(c, "product_id")
	if !valid {
		return sharing.Product{}, false
	}
	p, err := h.Catalog.Product(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return sharing.Product{}, false
	}
	sp := sharing.Product{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		SKU:         p.SKU,
		BasePrice:   p.BasePrice,
	}
	var images []string
	if json.Unmarshal([]byte(p.Images), &images) == nil && len(images) > 0 {
		sp.ImageURL = images[0]
	}
	return sp, true
}

func (h *Handler) ShareURLs(c *gin.Context) {
	p, found := h.shareProduct(c)
	if !found {
		return
	}
	urls, err := h.Sharing.ShareURLs(p)
	if err != nil {
		failErr(c, err)
		return
	}
	meta, err := h.Sharing.MetaTags(p)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"share_urls": urls, "meta_tags": meta})
}

func (h *Handler) ShareTemplates(c *gin.Context) {
	p, found := h.shareProduct(c)
	if !found {
		return
	}
	email, err := h.Sharing.EmailTemplate(p)
	if err != nil {
		failErr(c, err)
		return
	}
	whatsapp, err := h.Sharing.WhatsAppTemplate(p)
	if err != nil {
		failErr(c, err)
		return
	}
	linkedin, err := h.Sharing.LinkedInTemplate(p)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"email": email, "whatsapp": whatsapp, "linkedin": linkedin})
}

type trackShareReq struct {
	ProductID uint64 `json:"product_id" binding:"required"`
	Platform  string `json:"platform" binding:"required"`
}

func (h *Handler) TrackShare(c *gin.Context) {
	var req trackShareReq
	if !bindJSON(c, &req) {
		return
	}
	n, err := h.Sharing.TrackShare(c.Request.Context(), req.ProductID, req.Platform)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"success": true, "count": n})
}

func (h *Handler) ShareStats(c *gin.Context) {
	id, valid := paramID(c, "product_id")
	if !valid {
		return
	}
	stats, err := h.Sharing.Stats(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, stats)
}
