package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/wholesale-platform/internal/inquiry"
)

func (h *Handler) SendInquiryNotification(c *gin.Context) {
	user, found := h.currentUser(c)
	if !found {
		return
	}
	var req inquiry.Input
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Inquiries.SendInquiryNotification(c.Request.Context(), user.ID, user.Name, req)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, res)
}

func (h *Handler) MyInquiryNotifications(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	out, err := h.Inquiries.ListByUser(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, out)
}
