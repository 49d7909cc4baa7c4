package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/wholesale-platform/internal/cart"
)

func (h *Handler) CartItems(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	out, err := h.Cart.Items(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, out)
}

func (h *Handler) AddCartItem(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	var req cart.AddInput
	if !bindJSON(c, &req) {
		return
	}
	it, err := h.Cart.AddItem(c.Request.Context(), uid, req)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, it)
}

type updateCartItemReq struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	id, valid := paramID(c, "item_id")
	if !valid {
		return
	}
	var req updateCartItemReq
	if !bindJSON(c, &req) {
		return
	}
	it, err := h.Cart.UpdateItem(c.Request.Context(), uid, id, req.Quantity)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, it)
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	id, valid := paramID(c, "item_id")
	if !valid {
		return
	}
	if err := h.Cart.RemoveItem(c.Request.Context(), uid, id); err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"success": true})
}

func (h *Handler) ClearCart(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	n, err := h.Cart.Clear(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"removed": n})
}

func (h *Handler) CartTotal(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	sum, err := h.Cart.Total(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, sum)
}
