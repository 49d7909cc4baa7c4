package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/suPer8Hu/wholesale-platform/internal/chat"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
	"github.com/suPer8Hu/wholesale-platform/internal/quote"
	"github.com/suPer8Hu/wholesale-platform/internal/rfq"
)

// Publisher hands a job id to the queue.
type Publisher interface {
	PublishJob(ctx context.Context, jobID string) error
}

// ErrAlreadyHandled is returned by Deliver for jobs that succeeded or are in flight.
var ErrAlreadyHandled = errors.New("notification job already handled")

// Dispatcher is the notification outbox: it records jobs and gets them delivered.
type Dispatcher struct {
	repo      *Repo
	sender    Sender
	publisher Publisher
	baseURL   string
	now       func() time.Time
}

// NewDispatcher builds a dispatcher. publisher may be nil, in which case jobs
// are delivered in a background goroutine.
func NewDispatcher(repo *Repo, sender Sender, publisher Publisher, baseURL string) *Dispatcher {
	return &Dispatcher{
		repo:      repo,
		sender:    sender,
		publisher: publisher,
		baseURL:   strings.TrimRight(baseURL, "/"),
		now:       time.Now,
	}
}

// Enqueue stores the message as a job and schedules delivery. A non-empty
// key makes the enqueue idempotent; repeating it for a failed job schedules
// the job again.
func (d *Dispatcher) Enqueue(ctx context.Context, kind string, m Message, key string) (*Job, error) {
	id, err := common.NewULID()
	if err != nil {
		return nil, err
	}
	job := &Job{
		ID:        id,
		Kind:      kind,
		Recipient: m.To,
		Subject:   m.Subject,
		HTML:      m.HTML,
		Text:      m.Text,
		Status:    JobQueued,
	}
	if key != "" {
		job.IdempotencyKey = &key
	}
	job, created, err := d.repo.CreateJobOrGetExisting(ctx, job)
	if err != nil {
		return nil, common.Unavailable(err)
	}
	if !created && job.Status != JobFailed {
		return job, nil
	}

	if d.publisher != nil {
		if err := d.publisher.PublishJob(ctx, job.ID); err != nil {
			// the row stays queued; mark it so it is visible as undelivered
			_ = d.repo.MarkFailed(ctx, job.ID, "publish failed: "+err.Error())
			return job, fmt.Errorf("publish notification job: %w", err)
		}
		return job, nil
	}

	go func(jobID string) {
		if err := d.Deliver(context.WithoutCancel(ctx), jobID); err != nil && !errors.Is(err, ErrAlreadyHandled) {
			log.Printf("[Notify] inline delivery job=%s failed: %v", jobID, err)
		}
	}(job.ID)
	return job, nil
}

// Deliver sends a stored job once and records the outcome.
func (d *Dispatcher) Deliver(ctx context.Context, jobID string) error {
	ok, err := d.repo.MarkRunning(ctx, jobID)
	if err != nil {
		return common.Unavailable(err)
	}
	if !ok {
		return ErrAlreadyHandled
	}
	j, err := d.repo.GetJobByID(ctx, jobID)
	if err != nil {
		return common.DBErr(err, "notification job")
	}

	if err := d.sender.Send(ctx, j.Message()); err != nil {
		_ = d.repo.MarkFailed(ctx, jobID, err.Error())
		return err
	}
	if err := d.repo.MarkSucceeded(ctx, jobID, d.now()); err != nil {
		return common.Unavailable(err)
	}
	log.Printf("[Notify] %s sent to %s job=%s", j.Kind, j.Recipient, jobID)
	return nil
}

// Attempts returns how often the job has been tried.
func (d *Dispatcher) Attempts(ctx context.Context, jobID string) (int, error) {
	j, err := d.repo.GetJobByID(ctx, jobID)
	if err != nil {
		return 0, common.DBErr(err, "notification job")
	}
	return j.Attempts, nil
}

// ChatTranscript mails the closed chat to the customer.
func (d *Dispatcher) ChatTranscript(ctx context.Context, t chat.Transcript) {
	sess := t.Session
	name := sess.CustomerName
	if name == "" {
		name = "Customer"
	}
	agent := t.AgentName
	if agent == "" {
		agent = "Support Agent"
	}
	data := TranscriptData{
		CustomerName: name,
		Topic:        sess.Topic,
		AgentName:    t.AgentName,
		Started:      sess.StartedAt,
		Ended:        d.now(),
	}
	if sess.ClosedAt != nil {
		data.Ended = *sess.ClosedAt
	}
	for _, m := range t.Messages {
		line := TranscriptLine{At: m.CreatedAt, Body: m.Message}
		switch m.SenderType {
		case chat.SenderCustomer:
			line.Sender, line.Own = name, true
		case chat.SenderSystem:
			line.Sender = "System"
		default:
			line.Sender = agent
		}
		data.Lines = append(data.Lines, line)
	}

	msg, err := TranscriptEmail(sess.CustomerEmail, data)
	if err != nil {
		log.Printf("[Chat] render transcript session=%s: %v", sess.SessionID, err)
		return
	}
	if _, err := d.Enqueue(ctx, "chat_transcript", msg, "chat-transcript:"+sess.SessionID); err != nil {
		log.Printf("[Chat] failed to enqueue transcript email session=%s: %v", sess.SessionID, err)
	}
}

// QuoteSent mails the buyer a link to a quote that was just sent.
func (d *Dispatcher) QuoteSent(ctx context.Context, q *quote.Quote, inq *rfq.Inquiry) {
	name := inq.ContactName
	if name == "" {
		name = "Valued Customer"
	}
	msg, err := QuoteSentEmail(inq.Email, QuoteData{
		CustomerName: name,
		QuoteNumber:  q.QuoteNumber,
		Total:        q.TotalAmount,
		Currency:     q.Currency,
		ValidUntil:   q.ValidUntil,
		Terms:        q.Terms,
		URL:          fmt.Sprintf("%s/quotes/%d", d.baseURL, q.ID),
	})
	if err != nil {
		log.Printf("[Quote] render quote email %s: %v", q.QuoteNumber, err)
		return
	}
	if _, err := d.Enqueue(ctx, "quote_sent", msg, "quote-sent:"+q.QuoteNumber); err != nil {
		log.Printf("[Quote] failed to enqueue quote email %s: %v", q.QuoteNumber, err)
	}
}
