package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/wholesale-platform/internal/pricing"
)

func (h *Handler) PricingTiers(c *gin.Context) {
	id, valid := paramID(c, "product_id")
	if !valid {
		return
	}
	out, err := h.Pricing.Tiers(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, out)
}

type addTierReq struct {
	MinQuantity int   `json:"min_quantity" binding:"required"`
	MaxQuantity *int  `json:"max_quantity"`
	Price       int64 `json:"price" binding:"required"`
}

func (h *Handler) AddPricingTier(c *gin.Context) {
	id, valid := paramID(c, "product_id")
	if !valid {
		return
	}
	var req addTierReq
	if !bindJSON(c, &req) {
		return
	}
	t := &pricing.Tier{ProductID: id, MinQuantity: req.MinQuantity, MaxQuantity: req.MaxQuantity, Price: req.Price}
	if err := h.Pricing.AddTier(c.Request.Context(), t); err != nil {
		failErr(c, err)
		return
	}
	ok(c, t)
}

func (h *Handler) DeletePricingTier(c *gin.Context) {
	productID, valid := paramID(c, "product_id")
	if !valid {
		return
	}
	tierID, valid := paramID(c, "tier_id")
	if !valid {
		return
	}
	if err := h.Pricing.DeleteTier(c.Request.Context(), productID, tierID); err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"deleted": true})
}
