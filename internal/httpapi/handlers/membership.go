package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/wholesale-platform/internal/membership"
)

func (h *Handler) MembershipTiers(c *gin.Context) {
	out, err := h.Membership.Tiers(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, out)
}

func (h *Handler) MyMembership(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	m, err := h.Membership.UserMembership(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, m)
}

func (h *Handler) ApplicableDiscount(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	productID, valid := queryID(c, "product_id")
	if !valid {
		return
	}
	categoryID, valid := queryID(c, "category_id")
	if !valid {
		return
	}
	d, err := h.Membership.ApplicableDiscount(c.Request.Context(), uid, productID, categoryID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, d)
}

func (h *Handler) CheckUpgrade(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	st, err := h.Membership.CheckUpgrade(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, st)
}

type assignTierReq struct {
	UserID uint64 `json:"user_id" binding:"required"`
	TierID uint64 `json:"tier_id" binding:"required"`
}

func (h *Handler) AssignTier(c *gin.Context) {
	var req assignTierReq
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.Membership.AssignTier(c.Request.Context(), req.UserID, req.TierID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, m)
}

type createTierReq struct {
	Name               string `json:"name" binding:"required"`
	Level              int    `json:"level" binding:"required"`
	Description        string `json:"description"`
	Color              string `json:"color"`
	DiscountPercentage int    `json:"discount_percentage"`
	MinAnnualPurchase  int64  `json:"min_annual_purchase"`
	AdditionalBenefits string `json:"additional_benefits"`
}

func (h *Handler) CreateTier(c *gin.Context) {
	var req createTierReq
	if !bindJSON(c, &req) {
		return
	}
	t := &membership.Tier{
		Name:               req.Name,
		Level:              req.Level,
		Description:        req.Description,
		Color:              req.Color,
		DiscountPercentage: req.DiscountPercentage,
		MinAnnualPurchase:  req.MinAnnualPurchase,
		AdditionalBenefits: req.AdditionalBenefits,
	}
	if err := h.Membership.CreateTier(c.Request.Context(), t); err != nil {
		failErr(c, err)
		return
	}
	ok(c, t)
}

func (h *Handler) CreateDiscount(c *gin.Context) {
	var d membership.Discount
	if !bindJSON(c, &d) {
		return
	}
	d.ID = 0
	if err := h.Membership.CreateDiscount(c.Request.Context(), &d); err != nil {
		failErr(c, err)
		return
	}
	ok(c, d)
}
