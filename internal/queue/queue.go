package queue

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
)

// Enqueuer hands publish work to the delivery queue and, for terminal
// failures, to the dead letter queue.
type Enqueuer interface {
	EnqueuePost(ctx context.Context, payload PublishPostPayload) error
	EnqueueDeadLetter(ctx context.Context, payload PublishPostPayload) error
}

type asynqEnqueuer struct {
	client          *asynq.Client
	queue           string
	deadLetterQueue string
}

func NewEnqueuer(client *asynq.Client, queue, deadLetterQueue string) Enqueuer {
	return &asynqEnqueuer{
		client:          client,
		queue:           queue,
		deadLetterQueue: deadLetterQueue,
	}
}

func (e *asynqEnqueuer) EnqueuePost(ctx context.Context, payload PublishPostPayload) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePublishPost, taskPayload)

	_, err = e.client.EnqueueContext(ctx, task, asynq.Queue(e.queue))
	if err != nil {
		return err
	}

	log.Printf("Task scheduled: %+v", payload)
	return nil
}

// EnqueueDeadLetter copies the payload to a queue no worker consumes,
// where it stays visible to operators through the asynq inspector.
func (e *asynqEnqueuer) EnqueueDeadLetter(ctx context.Context, payload PublishPostPayload) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePublishDead, taskPayload)

	_, err = e.client.EnqueueContext(ctx, task, asynq.Queue(e.deadLetterQueue))
	if err != nil {
		return err
	}

	log.Printf("Task dead-lettered: %+v", payload)
	return nil
}
