package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/wholesale-platform/internal/profile"
)

func (h *Handler) GetProfile(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	p, err := h.Profile.Get(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, p)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	var req profile.Input
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Profile.Update(c.Request.Context(), uid, req)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, p)
}
