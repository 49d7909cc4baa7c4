package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
	"github.com/suPer8Hu/wholesale-platform/internal/rfq"
)

func (h *Handler) SubmitRFQ(c *gin.Context) {
	user, found := h.currentUser(c)
	if !found {
		return
	}
	var req rfq.SubmitInput
	if !bindJSON(c, &req) {
		return
	}
	inq, err := h.RFQ.Submit(c.Request.Context(), user.ID, user.Email, req)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, inq)
}

func (h *Handler) MyRFQs(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	out, err := h.RFQ.MyInquiries(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, out)
}

// GetRFQ shows an inquiry to its owner or an admin. Everyone else gets 404.
func (h *Handler) GetRFQ(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	inq, err := h.RFQ.Get(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	if inq.UserID != uid && !isAdmin(c) {
		failErr(c, common.NotFound("inquiry"))
		return
	}
	ok(c, inq)
}

func (h *Handler) ListRFQs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit <= 0 || limit > maxListLimit {
		limit = 100
	}
	out, err := h.RFQ.List(c.Request.Context(), rfq.Status(c.Query("status")), limit)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, out)
}
