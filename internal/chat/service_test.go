package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
	"gorm.io/gorm"
)

type recordingMailer struct {
	mu          sync.Mutex
	transcripts []Transcript
}

func (m *recordingMailer) ChatTranscript(_ context.Context, t Transcript) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transcripts = append(m.transcripts, t)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// one connection serialises writers the way row locks would on MySQL
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&Session{}, &Message{}, &Agent{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newAgent(t *testing.T, svc *Service, userID uint64, maxChats int) *Agent {
	t.Helper()
	a, err := svc.UpsertAgent(context.Background(), AgentInput{
		UserID:   userID,
		Name:     fmt.Sprintf("Agent %d", userID),
		Status:   AgentOnline,
		MaxChats: maxChats,
	})
	if err != nil {
		t.Fatalf("upsert agent: %v", err)
	}
	return a
}

func TestStartSessionWithoutAgentsStaysWaiting(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, NewRepo(db), nil)

	sess, err := svc.StartSession(context.Background(), 1, "Ann", "ann@example.com", "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if sess.Status != SessionWaiting || sess.AgentID != nil || sess.Topic != "General Inquiry" {
		t.Fatalf("unexpected session %+v", sess)
	}
	if len(sess.SessionID) != 26 {
		t.Fatalf("expected ULID session id, got %q", sess.SessionID)
	}
}

func TestConcurrentAssignmentRespectsCapacity(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	svc := NewService(db, repo, nil)
	ctx := context.Background()
	agent := newAgent(t, svc, 100, 1)

	const n = 10
	ids := make([]string, n)
	for i := range ids {
		sid, err := common.NewULID()
		if err != nil {
			t.Fatalf("ulid: %v", err)
		}
		sess := &Session{SessionID: sid, UserID: uint64(i + 1), Status: SessionWaiting, Topic: "t"}
		if err := repo.CreateSession(ctx, sess); err != nil {
			t.Fatalf("create session: %v", err)
		}
		ids[i] = sess.SessionID
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins []string
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			a, err := svc.AssignChatToAgent(ctx, id)
			if err != nil {
				t.Errorf("assign %s: %v", id, err)
				return
			}
			if a != nil {
				mu.Lock()
				wins = append(wins, id)
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	if len(wins) != 1 {
		t.Fatalf("expected exactly one assignment, got %d", len(wins))
	}
	got, _ := repo.GetAgent(ctx, agent.ID)
	if got.CurrentChats != 1 {
		t.Fatalf("expected current_chats=1, got %d", got.CurrentChats)
	}

	sess, _ := repo.GetSessionBySessionID(ctx, wins[0])
	if err := svc.CloseSession(ctx, sess.UserID, sess.SessionID); err != nil {
		t.Fatalf("close: %v", err)
	}
	got, _ = repo.GetAgent(ctx, agent.ID)
	if got.CurrentChats != 0 {
		t.Fatalf("expected slot released, got %d", got.CurrentChats)
	}

	// a second release for the same session must not drive the counter negative
	if err := svc.ReleaseChatFromAgent(ctx, sess.SessionID, agent.ID); err != nil {
		t.Fatalf("release: %v", err)
	}
	got, _ = repo.GetAgent(ctx, agent.ID)
	if got.CurrentChats != 0 {
		t.Fatalf("current_chats went below zero: %d", got.CurrentChats)
	}
}

func TestReleaseChatFromAgentChecksAssignment(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	svc := NewService(db, repo, nil)
	ctx := context.Background()

	a := newAgent(t, svc, 100, 3)
	b := newAgent(t, svc, 101, 3)
	sess, err := svc.StartSession(ctx, 1, "Ann", "", "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if sess.AgentID == nil || *sess.AgentID != a.ID {
		t.Fatalf("expected assignment to agent %d, got %+v", a.ID, sess)
	}
	if ok, _ := repo.ClaimSlot(ctx, b.ID); !ok {
		t.Fatalf("claim failed")
	}

	// b does not hold this session
	if err := svc.ReleaseChatFromAgent(ctx, sess.SessionID, b.ID); err != nil {
		t.Fatalf("release: %v", err)
	}
	if got, _ := repo.GetAgent(ctx, b.ID); got.CurrentChats != 1 {
		t.Fatalf("unassigned agent must keep its load, got %d", got.CurrentChats)
	}

	if err := svc.ReleaseChatFromAgent(ctx, sess.SessionID, a.ID); err != nil {
		t.Fatalf("release: %v", err)
	}
	if got, _ := repo.GetAgent(ctx, a.ID); got.CurrentChats != 0 {
		t.Fatalf("expected slot released, got %d", got.CurrentChats)
	}
	if err := svc.ReleaseChatFromAgent(ctx, "missing", a.ID); common.KindOf(err) != common.KindNotFound {
		t.Fatalf("unknown session must be not found, got %v", err)
	}
}

func TestCloseReleasesSlotAssignedAfterRead(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	svc := NewService(db, repo, nil)
	ctx := context.Background()

	sess, err := svc.StartSession(ctx, 1, "Ann", "", "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if sess.Status != SessionWaiting {
		t.Fatalf("expected waiting session, got %+v", sess)
	}
	agent := newAgent(t, svc, 100, 2)

	// assign the session right after CloseSession has read it
	var (
		fired     bool
		assignErr error
	)
	err = db.Callback().Query().After("gorm:query").Register("test:assign_after_read", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "chat_sessions" {
			return
		}
		fired = true
		_, assignErr = svc.AssignChatToAgent(context.Background(), sess.SessionID)
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	if err := svc.CloseSession(ctx, 1, sess.SessionID); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !fired || assignErr != nil {
		t.Fatalf("assignment did not run between read and close: fired=%v err=%v", fired, assignErr)
	}

	got, _ := repo.GetSessionBySessionID(ctx, sess.SessionID)
	if got.Status != SessionClosed || got.AgentID == nil || *got.AgentID != agent.ID {
		t.Fatalf("unexpected session after close %+v", got)
	}
	a, _ := repo.GetAgent(ctx, agent.ID)
	if a.CurrentChats != 0 {
		t.Fatalf("expected slot released on close, got current_chats=%d", a.CurrentChats)
	}
}

func TestAssignmentPrefersLeastLoadedAgent(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, NewRepo(db), nil)
	ctx := context.Background()

	busy := newAgent(t, svc, 100, 3)
	idle := newAgent(t, svc, 101, 3)
	if ok, err := svc.repo.ClaimSlot(ctx, busy.ID); !ok || err != nil {
		t.Fatalf("claim: ok=%v err=%v", ok, err)
	}

	sess, err := svc.StartSession(ctx, 1, "Ann", "", "Pricing")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if sess.Status != SessionActive || sess.AgentID == nil || *sess.AgentID != idle.ID {
		t.Fatalf("expected assignment to idle agent %d, got %+v", idle.ID, sess)
	}

	if err := svc.SetAgentStatus(ctx, idle.ID, AgentAway); err != nil {
		t.Fatalf("set status: %v", err)
	}
	sess2, _ := svc.StartSession(ctx, 2, "Bo", "", "")
	if sess2.AgentID == nil || *sess2.AgentID != busy.ID {
		t.Fatalf("away agents must be skipped, got %+v", sess2)
	}
}

func TestMessagingAndTranscript(t *testing.T) {
	db := openTestDB(t)
	mailer := &recordingMailer{}
	svc := NewService(db, NewRepo(db), mailer)
	ctx := context.Background()
	agent := newAgent(t, svc, 100, 2)

	sess, err := svc.StartSession(ctx, 7, "Cy", "cy@example.com", "Shipping")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.SendMessage(ctx, 7, sess.SessionID, "", ""); common.KindOf(err) != common.KindValidation {
		t.Fatalf("empty message must be rejected, got %v", err)
	}
	if _, err := svc.SendMessage(ctx, 7, sess.SessionID, strings.Repeat("x", 5001), ""); common.KindOf(err) != common.KindValidation {
		t.Fatalf("long message must be rejected, got %v", err)
	}
	if _, err := svc.SendMessage(ctx, 8, sess.SessionID, "hi", ""); common.KindOf(err) != common.KindNotFound {
		t.Fatalf("foreign session must be hidden, got %v", err)
	}
	if _, err := svc.SendMessage(ctx, 7, sess.SessionID, "where is my pallet?", ""); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.SendAgentMessage(ctx, agent.UserID, sess.SessionID, "on its way"); err != nil {
		t.Fatalf("agent send: %v", err)
	}

	msgs, err := svc.GetMessages(ctx, 7, sess.SessionID)
	if err != nil || len(msgs) != 3 {
		t.Fatalf("expected system+customer+agent messages, got %d err=%v", len(msgs), err)
	}
	var unread int64
	db.Model(&Message{}).Where("session_id = ? AND sender_id <> ? AND is_read = ?", sess.SessionID, 7, false).Count(&unread)
	if unread != 0 {
		t.Fatalf("expected messages from others marked read, %d unread", unread)
	}

	after, _, err := svc.MessagesAfter(ctx, 7, sess.SessionID, msgs[1].ID)
	if err != nil || len(after) != 1 || after[0].SenderType != SenderAgent {
		t.Fatalf("unexpected poll result %+v err=%v", after, err)
	}

	if err := svc.CloseSession(ctx, 7, sess.SessionID); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := svc.CloseSession(ctx, 7, sess.SessionID); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if len(mailer.transcripts) != 1 {
		t.Fatalf("expected one transcript, got %d", len(mailer.transcripts))
	}
	tr := mailer.transcripts[0]
	if tr.AgentName != agent.Name || len(tr.Messages) != 3 {
		t.Fatalf("unexpected transcript %+v", tr)
	}
	if _, err := svc.SendMessage(ctx, 7, sess.SessionID, "hello?", ""); common.KindOf(err) != common.KindValidation {
		t.Fatalf("closed session must reject messages, got %v", err)
	}
	if open, err := svc.GetUserSession(ctx, 7); err != nil || open != nil {
		t.Fatalf("expected no open session, got %+v err=%v", open, err)
	}
}

func TestUpsertAgentKeepsLoad(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, NewRepo(db), nil)
	ctx := context.Background()

	a := newAgent(t, svc, 100, 2)
	if ok, _ := svc.repo.ClaimSlot(ctx, a.ID); !ok {
		t.Fatalf("claim failed")
	}
	b, err := svc.UpsertAgent(ctx, AgentInput{UserID: 100, Name: "Renamed", Status: AgentAway, MaxChats: 4})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if b.ID != a.ID || b.Name != "Renamed" || b.MaxChats != 4 || b.CurrentChats != 1 {
		t.Fatalf("unexpected agent after upsert %+v", b)
	}
	if _, err := svc.UpsertAgent(ctx, AgentInput{UserID: 1, Name: "x", Status: "busy"}); common.KindOf(err) != common.KindValidation {
		t.Fatalf("bad status must be rejected, got %v", err)
	}
}
