package scheduler

import (
	"context"
	"fmt"

	"simulador_solar_backend/internal/leads/domain"
	"simulador_solar_backend/internal/leads/gateway"
	"simulador_solar_backend/platform/apperr"
	"simulador_solar_backend/platform/config"
	"simulador_solar_backend/platform/logger"
	"simulador_solar_backend/platform/redisopt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// MessageSender delivers a WhatsApp text message.
type MessageSender interface {
	SendMessage(ctx context.Context, phoneNumber, message string) (string, error)
}

// LeadStore reads and updates stored leads.
type LeadStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (gateway.Lead, error)
	UpdateStatusAs(ctx context.Context, id uuid.UUID, status string, actorID *uuid.UUID, source string) (bool, error)
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	leads  LeadStore
	sender MessageSender
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, leads LeadStore, sender MessageSender, log *logger.Logger) (*Worker, error) {
	opt, err := redisopt.Asynq(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := newWorker(leads, sender, log)
	w.server = server
	return w, nil
}

func newWorker(leads LeadStore, sender MessageSender, log *logger.Logger) *Worker {
	w := &Worker{
		mux:    asynq.NewServeMux(),
		leads:  leads,
		sender: sender,
		log:    log,
	}
	w.mux.HandleFunc(TaskLeadOutreach, w.handleLeadOutreach)
	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleLeadOutreach sends the first WhatsApp message and marks the lead contacted.
// Leads that are gone or were already contacted are skipped without retry.
func (w *Worker) handleLeadOutreach(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadOutreachPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return fmt.Errorf("%w: invalid lead id %q", asynq.SkipRetry, payload.LeadID)
	}

	lead, err := w.leads.GetByID(ctx, leadID)
	if apperr.Is(err, apperr.KindNotFound) {
		w.log.Warn("outreach skipped: lead not found", "leadId", leadID)
		return nil
	}
	if err != nil {
		return err
	}
	if lead.Status.IsContacted() {
		w.log.Info("outreach skipped: lead already contacted", "leadId", leadID, "status", lead.Status)
		return nil
	}

	phone := payload.Phone
	if phone == "" {
		phone = lead.PhoneNumber
	}
	if _, err := w.sender.SendMessage(ctx, phone, payload.Message); err != nil {
		w.log.ExternalCallFailed("whatsapp", "send_outreach", 0, err)
		return err
	}

	if _, err := w.leads.UpdateStatusAs(ctx, leadID, string(domain.StatusContacted), nil, "outreach"); err != nil {
		return err
	}
	return nil
}
