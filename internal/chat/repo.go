package chat

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) WithTx(tx *gorm.DB) *Repo {
	return &Repo{db: tx}
}

func (r *Repo) CreateSession(ctx context.Context, s *Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *Repo) GetSessionBySessionID(ctx context.Context, sessionID string) (*Session, error) {
	var s Session
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// LockSession reads the session row for update inside a transaction.
func (r *Repo) LockSession(ctx context.Context, sessionID string) (*Session, error) {
	var s Session
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("session_id = ?", sessionID).
		First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// LatestOpenSession returns the user's newest session that is not closed.
func (r *Repo) LatestOpenSession(ctx context.Context, userID uint64) (*Session, error) {
	var s Session
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status <> ?", userID, SessionClosed).
		Order("id DESC").
		First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// ActivateSession binds a waiting session to agentID.
func (r *Repo) ActivateSession(ctx context.Context, sessionID string, agentID uint64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Session{}).
		Where("session_id = ? AND status = ?", sessionID, SessionWaiting).
		Updates(map[string]any{"status": SessionActive, "agent_id": agentID})
	return res.RowsAffected > 0, res.Error
}

func (r *Repo) CloseSession(ctx context.Context, sessionID string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Session{}).
		Where("session_id = ? AND status <> ?", sessionID, SessionClosed).
		Updates(map[string]any{"status": SessionClosed, "closed_at": at})
	return res.RowsAffected > 0, res.Error
}

func (r *Repo) InsertMessage(ctx context.Context, m *Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// ListMessages returns messages in ASC id order, optionally only those after afterID.
func (r *Repo) ListMessages(ctx context.Context, sessionID string, afterID uint64, limit int) ([]Message, error) {
	q := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC")
	if afterID > 0 {
		q = q.Where("id > ?", afterID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var msgs []Message
	if err := q.Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// MarkRead flags every message in the session not sent by readerID as read.
func (r *Repo) MarkRead(ctx context.Context, sessionID string, readerID uint64) error {
	return r.db.WithContext(ctx).Model(&Message{}).
		Where("session_id = ? AND sender_id <> ? AND is_read = ?", sessionID, readerID, false).
		Update("is_read", true).Error
}

// Agents

func (r *Repo) GetAgent(ctx context.Context, id uint64) (*Agent, error) {
	var a Agent
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repo) GetAgentByUserID(ctx context.Context, userID uint64) (*Agent, error) {
	var a Agent
	if err := r.db.WithContext(ctx).First(&a, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repo) ListAgents(ctx context.Context) ([]Agent, error) {
	var out []Agent
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertAgent inserts or updates the agent row keyed by user id.
// CurrentChats is never overwritten.
func (r *Repo) UpsertAgent(ctx context.Context, a *Agent) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "status", "max_chats", "updated_at"}),
	}).Create(a).Error
}

func (r *Repo) SetAgentStatus(ctx context.Context, id uint64, status AgentStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Agent{}).Where("id = ?", id).Update("status", status)
	return res.RowsAffected > 0, res.Error
}

// AssignmentCandidates lists online agents with spare capacity, least loaded first.
func (r *Repo) AssignmentCandidates(ctx context.Context, limit int) ([]Agent, error) {
	var out []Agent
	if err := r.db.WithContext(ctx).
		Where("status = ? AND current_chats < max_chats", AgentOnline).
		Order("current_chats ASC, id ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ClaimSlot takes one chat slot on the agent if it is online and below capacity.
func (r *Repo) ClaimSlot(ctx context.Context, agentID uint64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Agent{}).
		Where("id = ? AND status = ? AND current_chats < max_chats", agentID, AgentOnline).
		Update("current_chats", gorm.Expr("current_chats + 1"))
	return res.RowsAffected > 0, res.Error
}

// ReleaseSlot gives one slot back, never going below zero.
func (r *Repo) ReleaseSlot(ctx context.Context, agentID uint64) error {
	return r.db.WithContext(ctx).Model(&Agent{}).
		Where("id = ?", agentID).
		Update("current_chats", gorm.Expr("CASE WHEN current_chats > 0 THEN current_chats - 1 ELSE 0 END")).Error
}
