package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/suPer8Hu/wholesale-platform/internal/common"
	"gorm.io/gorm"
)

const (
	defaultTopic      = "General Inquiry"
	maxMessageLen     = 5000
	assignRounds      = 3
	candidateLimit    = 20
	defaultMaxChats   = 5
	pollMessagesLimit = 100
)

var errSlotTaken = errors.New("agent slot taken")

// Transcript is what gets mailed to the customer when a chat closes.
type Transcript struct {
	Session   *Session
	AgentName string
	Messages  []Message
}

// TranscriptMailer delivers chat transcripts. It must not fail the caller.
type TranscriptMailer interface {
	ChatTranscript(ctx context.Context, t Transcript)
}

type Service struct {
	db     *gorm.DB
	repo   *Repo
	mailer TranscriptMailer
	now    func() time.Time
}

func NewService(db *gorm.DB, repo *Repo, mailer TranscriptMailer) *Service {
	return &Service{db: db, repo: repo, mailer: mailer, now: time.Now}
}

// StartSession opens a waiting session and tries to hand it to an agent.
// No free agent is not an error; the session just stays waiting.
func (s *Service) StartSession(ctx context.Context, userID uint64, name, email, topic string) (*Session, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = defaultTopic
	}
	sid, err := common.NewULID()
	if err != nil {
		return nil, err
	}
	sess := &Session{
		SessionID:     sid,
		UserID:        userID,
		CustomerName:  name,
		CustomerEmail: email,
		Status:        SessionWaiting,
		Topic:         topic,
		StartedAt:     s.now(),
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return nil, common.Unavailable(err)
	}

	agent, err := s.AssignChatToAgent(ctx, sess.SessionID)
	if err != nil {
		log.Printf("[Chat] assign session=%s failed: %v", sess.SessionID, err)
		return sess, nil
	}
	if agent != nil {
		sess.Status = SessionActive
		sess.AgentID = &agent.ID
	}
	return sess, nil
}

// AssignChatToAgent claims a slot on the least loaded online agent and
// activates the session in the same transaction. It returns (nil, nil)
// when every agent is full or offline.
func (s *Service) AssignChatToAgent(ctx context.Context, sessionID string) (*Agent, error) {
	for round := 0; round < assignRounds; round++ {
		candidates, err := s.repo.AssignmentCandidates(ctx, candidateLimit)
		if err != nil {
			return nil, common.Unavailable(err)
		}
		if len(candidates) == 0 {
			return nil, nil
		}
		for i := range candidates {
			agent := &candidates[i]
			err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				repo := s.repo.WithTx(tx)
				ok, err := repo.ClaimSlot(ctx, agent.ID)
				if err != nil {
					return err
				}
				if !ok {
					return errSlotTaken
				}
				activated, err := repo.ActivateSession(ctx, sessionID, agent.ID)
				if err != nil {
					return err
				}
				if !activated {
					return common.Conflict("session is not waiting")
				}
				return repo.InsertMessage(ctx, &Message{
					SessionID:  sessionID,
					SenderID:   agent.UserID,
					SenderType: SenderSystem,
					Message:    fmt.Sprintf("%s has joined the chat.", agent.Name),
				})
			})
			if errors.Is(err, errSlotTaken) {
				continue
			}
			if err != nil {
				return nil, common.DBErr(err, "chat session")
			}
			agent.CurrentChats++
			log.Printf("[Chat] session=%s assigned to agent=%d", sessionID, agent.ID)
			return agent, nil
		}
	}
	return nil, nil
}

// ReleaseChatFromAgent gives back the slot agentID holds for sessionID.
// It does nothing when the session is not assigned to that agent.
func (s *Service) ReleaseChatFromAgent(ctx context.Context, sessionID string, agentID uint64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.releaseChat(ctx, s.repo.WithTx(tx), sessionID, agentID)
	})
	return common.DBErr(err, "chat session")
}

func (s *Service) releaseChat(ctx context.Context, repo *Repo, sessionID string, agentID uint64) error {
	sess, err := repo.LockSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.AgentID == nil || *sess.AgentID != agentID {
		return nil
	}
	return repo.ReleaseSlot(ctx, agentID)
}

func (s *Service) ownedSession(ctx context.Context, userID uint64, sessionID string) (*Session, error) {
	sess, err := s.repo.GetSessionBySessionID(ctx, sessionID)
	if err != nil {
		return nil, common.DBErr(err, "chat session")
	}
	if sess.UserID != userID {
		return nil, common.NotFound("chat session")
	}
	return sess, nil
}

// GetSession returns the session and its full message history.
func (s *Service) GetSession(ctx context.Context, userID uint64, sessionID string) (*Session, []Message, error) {
	sess, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := s.repo.ListMessages(ctx, sessionID, 0, 0)
	if err != nil {
		return nil, nil, common.Unavailable(err)
	}
	return sess, msgs, nil
}

// GetUserSession returns the caller's newest open session, or nil.
func (s *Service) GetUserSession(ctx context.Context, userID uint64) (*Session, error) {
	sess, err := s.repo.LatestOpenSession(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, common.Unavailable(err)
	}
	return sess, nil
}

func validateMessage(text string) error {
	n := utf8.RuneCountInString(text)
	if strings.TrimSpace(text) == "" || n > maxMessageLen {
		return common.Validation("message must be 1..%d characters", maxMessageLen)
	}
	return nil
}

func (s *Service) SendMessage(ctx context.Context, userID uint64, sessionID, text, attachmentURL string) (*Message, error) {
	if err := validateMessage(text); err != nil {
		return nil, err
	}
	sess, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status == SessionClosed {
		return nil, common.Validation("chat session is closed")
	}
	msg := &Message{
		SessionID:     sessionID,
		SenderID:      userID,
		SenderType:    SenderCustomer,
		Message:       text,
		AttachmentURL: attachmentURL,
	}
	if err := s.repo.InsertMessage(ctx, msg); err != nil {
		return nil, common.Unavailable(err)
	}
	return msg, nil
}

// SendAgentMessage posts a reply from the agent the session is assigned to.
func (s *Service) SendAgentMessage(ctx context.Context, agentUserID uint64, sessionID, text string) (*Message, error) {
	if err := validateMessage(text); err != nil {
		return nil, err
	}
	agent, err := s.repo.GetAgentByUserID(ctx, agentUserID)
	if err != nil {
		return nil, common.DBErr(err, "support agent")
	}
	sess, err := s.repo.GetSessionBySessionID(ctx, sessionID)
	if err != nil {
		return nil, common.DBErr(err, "chat session")
	}
	if sess.AgentID == nil || *sess.AgentID != agent.ID {
		return nil, common.NotFound("chat session")
	}
	if sess.Status == SessionClosed {
		return nil, common.Validation("chat session is closed")
	}
	msg := &Message{
		SessionID:  sessionID,
		SenderID:   agentUserID,
		SenderType: SenderAgent,
		Message:    text,
	}
	if err := s.repo.InsertMessage(ctx, msg); err != nil {
		return nil, common.Unavailable(err)
	}
	return msg, nil
}

// GetMessages lists the session history and marks other parties' messages read.
func (s *Service) GetMessages(ctx context.Context, userID uint64, sessionID string) ([]Message, error) {
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	msgs, err := s.repo.ListMessages(ctx, sessionID, 0, 0)
	if err != nil {
		return nil, common.Unavailable(err)
	}
	if err := s.repo.MarkRead(ctx, sessionID, userID); err != nil {
		return nil, common.Unavailable(err)
	}
	return msgs, nil
}

// MessagesAfter returns up to a page of messages newer than afterID.
func (s *Service) MessagesAfter(ctx context.Context, userID uint64, sessionID string, afterID uint64) ([]Message, *Session, error) {
	sess, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := s.repo.ListMessages(ctx, sessionID, afterID, pollMessagesLimit)
	if err != nil {
		return nil, nil, common.Unavailable(err)
	}
	return msgs, sess, nil
}

// CloseSession closes the session, frees the agent slot and mails the
// transcript. Closing an already closed session is a no-op.
func (s *Service) CloseSession(ctx context.Context, userID uint64, sessionID string) error {
	sess, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if sess.Status == SessionClosed {
		return nil
	}

	closedAt := s.now()
	var closed bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		// the agent may have been assigned since the ownership read
		cur, err := repo.LockSession(ctx, sessionID)
		if err != nil {
			return err
		}
		ok, err := repo.CloseSession(ctx, sessionID, closedAt)
		if err != nil || !ok {
			return err
		}
		closed = true
		sess = cur
		if cur.AgentID != nil {
			return s.releaseChat(ctx, repo, sessionID, *cur.AgentID)
		}
		return nil
	})
	if err != nil {
		return common.Unavailable(err)
	}
	if !closed {
		return nil
	}
	sess.Status = SessionClosed
	sess.ClosedAt = &closedAt
	log.Printf("[Chat] session=%s closed", sessionID)

	s.sendTranscript(ctx, sess)
	return nil
}

func (s *Service) sendTranscript(ctx context.Context, sess *Session) {
	if s.mailer == nil || sess.CustomerEmail == "" {
		return
	}
	msgs, err := s.repo.ListMessages(ctx, sess.SessionID, 0, 0)
	if err != nil {
		log.Printf("[Chat] transcript session=%s: load messages: %v", sess.SessionID, err)
		return
	}
	if len(msgs) == 0 {
		return
	}
	t := Transcript{Session: sess, Messages: msgs}
	if sess.AgentID != nil {
		if a, err := s.repo.GetAgent(ctx, *sess.AgentID); err == nil {
			t.AgentName = a.Name
		}
	}
	s.mailer.ChatTranscript(ctx, t)
}

// Agent administration

type AgentInput struct {
	UserID   uint64      `json:"user_id" binding:"required"`
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email"`
	Status   AgentStatus `json:"status"`
	MaxChats int         `json:"max_chats"`
}

func (s *Service) UpsertAgent(ctx context.Context, in AgentInput) (*Agent, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, common.Validation("name is required")
	}
	if in.Status == "" {
		in.Status = AgentOffline
	}
	if !in.Status.Valid() {
		return nil, common.Validation("unknown agent status %q", in.Status)
	}
	if in.MaxChats < 0 {
		return nil, common.Validation("max_chats must be >= 1")
	}
	if in.MaxChats == 0 {
		in.MaxChats = defaultMaxChats
	}
	a := &Agent{
		UserID:   in.UserID,
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Status:   in.Status,
		MaxChats: in.MaxChats,
	}
	if err := s.repo.UpsertAgent(ctx, a); err != nil {
		return nil, common.Unavailable(err)
	}
	saved, err := s.repo.GetAgentByUserID(ctx, in.UserID)
	return saved, common.DBErr(err, "support agent")
}

func (s *Service) SetAgentStatus(ctx context.Context, agentID uint64, status AgentStatus) error {
	if !status.Valid() {
		return common.Validation("unknown agent status %q", status)
	}
	ok, err := s.repo.SetAgentStatus(ctx, agentID, status)
	if err != nil {
		return common.Unavailable(err)
	}
	if !ok {
		return common.NotFound("support agent")
	}
	return nil
}

func (s *Service) Agents(ctx context.Context) ([]Agent, error) {
	out, err := s.repo.ListAgents(ctx)
	return out, common.DBErr(err, "support agents")
}
