package store

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"tanya/internal/models"
	"tanya/internal/tasks"
)

// AsynqJobClient enqueues background jobs on Redis via asynq.
type AsynqJobClient struct {
	client *asynq.Client
}

var _ JobClient = (*AsynqJobClient)(nil)

func NewAsynqJobClient(redisAddr string) *AsynqJobClient {
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	return &AsynqJobClient{client: client}
}

// EnqueueIndexEntry schedules embedding and indexing of a newly appended
// catalog entry so the write path never blocks on the embedding provider.
func (c *AsynqJobClient) EnqueueIndexEntry(ctx context.Context, category string, entry models.FaqEntry) error {
	task, err := tasks.NewIndexEntryTask(category, entry.Question, entry.Answer)
	if err != nil {
		return err
	}
	info, err := c.client.EnqueueContext(ctx, task, asynq.MaxRetry(5), asynq.Queue("default"))
	if err != nil {
		return fmt.Errorf("enqueue index entry task: %w", err)
	}
	log.Debugf("enqueued index entry task id=%s queue=%s", info.ID, info.Queue)
	return nil
}

func (c *AsynqJobClient) Close() error {
	return c.client.Close()
}
