package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/suPer8Hu/wholesale-platform/internal/notify"
	"gorm.io/gorm"
)

type stubSender struct{ err error }

func (s stubSender) Send(context.Context, notify.Message) error { return s.err }

type holdPublisher struct{}

func (holdPublisher) PublishJob(context.Context, string) error { return nil }

func TestHandleJobRetriesThenDeadLetters(t *testing.T) {
	db, err := gorm.Open(gormsqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&notify.Job{}))
	repo := notify.NewRepo(db)
	ctx := context.Background()

	enqueuer := notify.NewDispatcher(repo, stubSender{}, holdPublisher{}, "https://shop.example.com")
	job, err := enqueuer.Enqueue(ctx, "test", notify.Message{To: "a@example.com", Subject: "hi", Text: "hi"}, "")
	require.NoError(t, err)

	failing := notify.NewDispatcher(repo, stubSender{err: errors.New("provider 500")}, nil, "")
	require.Equal(t, retry, handleJob(ctx, failing, job.ID, 2))
	require.Equal(t, deadLetter, handleJob(ctx, failing, job.ID, 2))

	other, err := enqueuer.Enqueue(ctx, "test", notify.Message{To: "b@example.com", Subject: "hi", Text: "hi"}, "")
	require.NoError(t, err)
	working := notify.NewDispatcher(repo, stubSender{}, nil, "")
	require.Equal(t, ack, handleJob(ctx, working, other.ID, 2))
	// redelivery of a finished job is acked without sending again
	require.Equal(t, ack, handleJob(ctx, working, other.ID, 2))
}

func TestWorkerConcurrency(t *testing.T) {
	t.Setenv("WORKER_CONCURRENCY", "")
	require.Equal(t, 2, workerConcurrency())
	t.Setenv("WORKER_CONCURRENCY", "500")
	require.Equal(t, 50, workerConcurrency())
	t.Setenv("WORKER_CONCURRENCY", "-3")
	require.Equal(t, 2, workerConcurrency())
}
