package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/wholesale-platform/internal/multipay"
)

func (h *Handler) RegionPaymentMethods(c *gin.Context) {
	country := c.Query("country")
	if country == "" {
		fail(c, http.StatusBadRequest, 10002, "country is required")
		return
	}
	amount, valid := queryInt64(c, "amount", false)
	if !valid {
		return
	}
	ok(c, multipay.ForCountry(country, amount))
}

func (h *Handler) PaymentMethodDetails(c *gin.Context) {
	g, err := multipay.LookupGateway(c.Param("method"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, g)
}

func (h *Handler) PaymentTotal(c *gin.Context) {
	amount, valid := queryInt64(c, "amount", true)
	if !valid {
		return
	}
	b, err := multipay.CalculateTotal(amount, c.Query("method"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, b)
}

func (h *Handler) InitializePayment(c *gin.Context) {
	user, found := h.currentUser(c)
	if !found {
		return
	}
	var req multipay.InitInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Payments.Initialize(c.Request.Context(), user.Email, req)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, res)
}
