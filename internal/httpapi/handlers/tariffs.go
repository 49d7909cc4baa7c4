package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/wholesale-platform/internal/tariff"
)

func (h *Handler) CalculateTariff(c *gin.Context) {
	value, valid := queryInt64(c, "value", true)
	if !valid {
		return
	}
	out, err := tariff.Calculate(value, c.Query("country"), c.Query("currency"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, out)
}

type bulkTariffReq struct {
	Items    []tariff.BulkItem `json:"items" binding:"required"`
	Country  string            `json:"country" binding:"required"`
	Currency string            `json:"currency"`
}

func (h *Handler) CalculateBulkTariff(c *gin.Context) {
	var req bulkTariffReq
	if !bindJSON(c, &req) {
		return
	}
	out, err := tariff.CalculateBulk(req.Items, req.Country, req.Currency)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, out)
}

func (h *Handler) TariffCountries(c *gin.Context) {
	ok(c, tariff.Countries())
}

type compareTariffReq struct {
	Value     int64    `json:"value"`
	Countries []string `json:"countries" binding:"required"`
	Currency  string   `json:"currency"`
}

func (h *Handler) CompareTariffs(c *gin.Context) {
	var req compareTariffReq
	if !bindJSON(c, &req) {
		return
	}
	if req.Value < 0 {
		fail(c, http.StatusBadRequest, 10002, "value must be >= 0")
		return
	}
	out, err := tariff.Compare(req.Value, req.Countries, req.Currency)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, out)
}

func (h *Handler) TariffSummary(c *gin.Context) {
	out, err := tariff.GetSummary(c.Param("country"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, out)
}

func (h *Handler) EstimateFinalPrice(c *gin.Context) {
	value, valid := queryInt64(c, "value", true)
	if !valid {
		return
	}
	shipping, valid := queryInt64(c, "shipping", false)
	if !valid {
		return
	}
	out, err := tariff.EstimateFinalPrice(value, c.Query("country"), shipping, c.Query("currency"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, out)
}
