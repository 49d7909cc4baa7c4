package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
	"github.com/suPer8Hu/wholesale-platform/internal/quote"
)

func actorOf(c *gin.Context, uid uint64) quote.Actor {
	return quote.Actor{UserID: uid, Admin: isAdmin(c)}
}

func (h *Handler) CreateQuote(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	var req quote.CreateInput
	if !bindJSON(c, &req) {
		return
	}
	q, err := h.Quotes.Create(c.Request.Context(), uid, req)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, q)
}

func (h *Handler) GetQuote(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	q, err := h.Quotes.GetFor(c.Request.Context(), actorOf(c, uid), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, q)
}

func (h *Handler) QuoteHistory(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	ctx := c.Request.Context()
	if _, err := h.Quotes.GetFor(ctx, actorOf(c, uid), id); err != nil {
		failErr(c, err)
		return
	}
	out, err := h.Quotes.History(ctx, id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, out)
}

// ownsInquiry writes 404 unless the caller is an admin or owns the inquiry.
func (h *Handler) ownsInquiry(c *gin.Context, uid, inquiryID uint64) bool {
	if isAdmin(c) {
		return true
	}
	inq, err := h.RFQ.Get(c.Request.Context(), inquiryID)
	if err != nil {
		failErr(c, err)
		return false
	}
	if inq.UserID != uid {
		failErr(c, common.NotFound("inquiry"))
		return false
	}
	return true
}

// RFQQuotes lists the quotes of an inquiry, newest first. Buyers never see drafts.
func (h *Handler) RFQQuotes(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	id, valid := paramID(c, "rfq_id")
	if !valid || !h.ownsInquiry(c, uid, id) {
		return
	}
	all, err := h.Quotes.ListByInquiry(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	if isAdmin(c) {
		ok(c, all)
		return
	}
	visible := make([]quote.Quote, 0, len(all))
	for _, q := range all {
		if q.Status != quote.StatusDraft {
			visible = append(visible, q)
		}
	}
	ok(c, visible)
}

// ActiveRFQQuote returns the newest quote that is neither rejected nor expired.
func (h *Handler) ActiveRFQQuote(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	id, valid := paramID(c, "rfq_id")
	if !valid || !h.ownsInquiry(c, uid, id) {
		return
	}
	q, err := h.Quotes.ActiveForInquiry(c.Request.Context(), id, isAdmin(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, q)
}

type updateQuoteStatusReq struct {
	Status quote.Status `json:"status" binding:"required"`
	Notes  string       `json:"notes"`
}

func (h *Handler) UpdateQuoteStatus(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req updateQuoteStatusReq
	if !bindJSON(c, &req) {
		return
	}
	q, err := h.Quotes.UpdateStatus(c.Request.Context(), actorOf(c, uid), id, req.Status, req.Notes)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, q)
}

func (h *Handler) ConvertQuote(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	o, created, err := h.Quotes.Convert(c.Request.Context(), actorOf(c, uid), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"order": o, "created": created})
}
