package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskLeadOutreach = "leads.outreach"

// LeadOutreachPayload schedules the first WhatsApp contact with a submitted lead.
type LeadOutreachPayload struct {
	LeadID  string `json:"leadId"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func NewLeadOutreachTask(payload LeadOutreachPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadOutreach, data), nil
}

func ParseLeadOutreachPayload(task *asynq.Task) (LeadOutreachPayload, error) {
	var payload LeadOutreachPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadOutreachPayload{}, err
	}
	return payload, nil
}
