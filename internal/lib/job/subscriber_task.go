package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskSubscriberNotify emails the site owner about a new subscriber.
	TaskSubscriberNotify = "subscriber:notify"
)

// SubscriberNotifyPayload is the JSON payload of TaskSubscriberNotify.
type SubscriberNotifyPayload struct {
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

// NewSubscriberNotifyTask builds the task. It retries up to 3 times on the
// "low" queue and is killed after 30 seconds.
func NewSubscriberNotifyTask(subscriber string) (*asynq.Task, error) {
	payload, err := json.Marshal(SubscriberNotifyPayload{
		Email:        subscriber,
		SubscribedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskSubscriberNotify,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("low"),
		asynq.Timeout(30*time.Second),
	), nil
}
