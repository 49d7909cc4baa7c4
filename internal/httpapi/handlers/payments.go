package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/wholesale-platform/internal/checkout"
	"github.com/suPer8Hu/wholesale-platform/internal/models"
)

const maxWebhookBody = 64 << 10

func customerOf(u *models.User) checkout.Customer {
	name := u.Name
	if name == "" {
		name = u.Username
	}
	return checkout.Customer{ID: u.ID, Email: u.Email, Name: name}
}

// origin is where the provider sends the buyer back to after payment.
func (h *Handler) origin(c *gin.Context) string {
	if o := strings.TrimSpace(c.GetHeader("Origin")); o != "" {
		for _, allowed := range h.Cfg.CORSOrigins {
			if o == allowed {
				return o
			}
		}
	}
	return h.Cfg.PublicBaseURL
}

func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	user, found := h.currentUser(c)
	if !found {
		return
	}
	var req checkout.Input
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Checkout.CreateCheckoutSession(c.Request.Context(), customerOf(user), req, h.origin(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, res)
}

func (h *Handler) PayOrder(c *gin.Context) {
	user, found := h.currentUser(c)
	if !found {
		return
	}
	id, valid := paramID(c, "order_id")
	if !valid {
		return
	}
	res, err := h.Checkout.PayOrder(c.Request.Context(), customerOf(user), id, h.origin(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, res)
}

// PaymentWebhook needs the raw body; the signature covers the exact bytes.
func (h *Handler) PaymentWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		fail(c, http.StatusBadRequest, 10001, "failed to read body")
		return
	}
	if err := h.Checkout.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"received": true})
}

func (h *Handler) GetOrder(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	id, valid := paramID(c, "order_id")
	if !valid {
		return
	}
	o, err := h.Checkout.GetOrderDetails(c.Request.Context(), uid, id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, o)
}

func (h *Handler) ListOrders(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	out, err := h.Checkout.GetUserOrders(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, out)
}
