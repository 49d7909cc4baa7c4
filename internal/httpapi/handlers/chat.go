package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/wholesale-platform/internal/chat"
)

const (
	chatPollInterval      = 2 * time.Second
	chatHeartbeatInterval = 15 * time.Second
)

type startChatReq struct {
	Topic string `json:"topic"`
}

func (h *Handler) StartChatSession(c *gin.Context) {
	user, found := h.currentUser(c)
	if !found {
		return
	}
	var req startChatReq
	_ = c.ShouldBindJSON(&req) // allow empty {}

	name := user.Name
	if name == "" {
		name = user.Username
	}
	sess, err := h.Chat.StartSession(c.Request.Context(), user.ID, name, user.Email, req.Topic)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, sess)
}

func (h *Handler) GetChatSession(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	sess, msgs, err := h.Chat.GetSession(c.Request.Context(), uid, c.Param("session_id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"session": sess, "messages": msgs})
}

func (h *Handler) MyChatSession(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	sess, err := h.Chat.GetUserSession(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, sess)
}

type sendChatMessageReq struct {
	Message       string `json:"message" binding:"required"`
	AttachmentURL string `json:"attachment_url"`
}

func (h *Handler) SendChatMessage(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	var req sendChatMessageReq
	if !bindJSON(c, &req) {
		return
	}
	msg, err := h.Chat.SendMessage(c.Request.Context(), uid, c.Param("session_id"), req.Message, req.AttachmentURL)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, msg)
}

func (h *Handler) ListChatMessages(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	msgs, err := h.Chat.GetMessages(c.Request.Context(), uid, c.Param("session_id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"messages": msgs})
}

func (h *Handler) CloseChatSession(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	if err := h.Chat.CloseSession(c.Request.Context(), uid, c.Param("session_id")); err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"closed": true})
}

// ChatEvents streams new messages of a session as server-sent events until
// the session closes or the client goes away.
func (h *Handler) ChatEvents(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	sessionID := c.Param("session_id")
	var afterID uint64
	if v := c.Query("after_id"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			afterID = n
		}
	}

	ctx := c.Request.Context()
	// first read validates ownership before any SSE bytes go out
	msgs, sess, err := h.Chat.MessagesAfter(ctx, uid, sessionID, afterID)
	if err != nil {
		failErr(c, err)
		return
	}

	flusher, canFlush := c.Writer.(http.Flusher)
	if !canFlush {
		fail(c, http.StatusInternalServerError, 50001, "streaming not supported")
		return
	}

	// SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	writeJSON := func(event string, payload any) {
		b, err := json.Marshal(payload)
		if err != nil {
			fmt.Fprintf(c.Writer, "event: error\ndata: {\"message\":\"json marshal failed\"}\n\n")
			flusher.Flush()
			return
		}
		if event != "" {
			fmt.Fprintf(c.Writer, "event: %s\n", event)
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", string(b))
		flusher.Flush()
	}

	emit := func(msgs []chat.Message, sess *chat.Session) bool {
		for _, m := range msgs {
			writeJSON("message", gin.H{"type": "message", "message": m})
			afterID = m.ID
		}
		if sess.Status == chat.SessionClosed {
			writeJSON("closed", gin.H{"type": "closed", "session_id": sess.SessionID})
			return false
		}
		return true
	}
	if !emit(msgs, sess) {
		return
	}

	poll := time.NewTicker(chatPollInterval)
	defer poll.Stop()
	heartbeat := time.NewTicker(chatHeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-poll.C:
			msgs, sess, err := h.Chat.MessagesAfter(ctx, uid, sessionID, afterID)
			if err != nil {
				writeJSON("error", gin.H{"type": "error", "message": "failed to load messages"})
				return
			}
			if !emit(msgs, sess) {
				return
			}

		case <-heartbeat.C:
			writeJSON("ping", gin.H{
				"type": "ping",
				"ts":   time.Now().Unix(),
			})

		case <-ctx.Done():
			return
		}
	}
}

// Agent side

func (h *Handler) AgentReply(c *gin.Context) {
	uid, found := mustUser(c)
	if !found {
		return
	}
	var req sendChatMessageReq
	if !bindJSON(c, &req) {
		return
	}
	msg, err := h.Chat.SendAgentMessage(c.Request.Context(), uid, c.Param("session_id"), req.Message)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, msg)
}

func (h *Handler) AssignChatSession(c *gin.Context) {
	agent, err := h.Chat.AssignChatToAgent(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"assigned": agent != nil, "agent": agent})
}

func (h *Handler) UpsertAgent(c *gin.Context) {
	var req chat.AgentInput
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.Chat.UpsertAgent(c.Request.Context(), req)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, a)
}

type agentStatusReq struct {
	Status chat.AgentStatus `json:"status" binding:"required"`
}

func (h *Handler) SetAgentStatus(c *gin.Context) {
	id, valid := paramID(c, "agent_id")
	if !valid {
		return
	}
	var req agentStatusReq
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Chat.SetAgentStatus(c.Request.Context(), id, req.Status); err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"id": id, "status": req.Status})
}

func (h *Handler) ListAgents(c *gin.Context) {
	out, err := h.Chat.Agents(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, out)
}
