package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/mertdogan/fleettrack/internal/config"
	"github.com/mertdogan/fleettrack/internal/models"
)

type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// ScheduleFeeRecalc queues a fee rewrite for the logs a contract change
// affects. Contracts without a company govern nothing, so they enqueue
// nothing.
func (c *Client) ScheduleFeeRecalc(_ context.Context, contract models.Contract) error {
	if contract.CompanyID == nil {
		return nil
	}
	payload := FeeRecalcPayload{
		ContractID: contract.ID,
		CompanyID:  *contract.CompanyID,
		OwnerID:    contract.OwnerID.String(),
		From:       contract.StartDate.String(),
	}
	if contract.EndDate != nil {
		to := contract.EndDate.String()
		payload.To = &to
	}
	return c.enqueue(TypeFeeRecalc, payload, asynq.MaxRetry(3), asynq.Timeout(5*time.Minute))
}

func (c *Client) enqueue(taskType string, payload interface{}, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(taskType, data)
	_, err = c.client.Enqueue(task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}
