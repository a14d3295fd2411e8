// Package service runs the simulator wizard for HTTP sessions: it loads and saves the
// wizard state, qualifies complete leads and records submissions.
package service

import (
	"context"
	"errors"

	"simulador_solar_backend/internal/events"
	"simulador_solar_backend/internal/simulator/domain"
	"simulador_solar_backend/internal/simulator/message"
	"simulador_solar_backend/internal/simulator/ports"
	"simulador_solar_backend/internal/simulator/qualification"
	"simulador_solar_backend/internal/simulator/session"
	"simulador_solar_backend/internal/simulator/wizard"
	"simulador_solar_backend/platform/apperr"
	"simulador_solar_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	msgSessionUnavailable = "Não foi possível salvar sua simulação. Tente novamente."
	msgSubmitFailed       = "Não foi possível enviar sua simulação. Seus dados foram mantidos, tente novamente."
	msgIncomplete         = "Preencha todas as etapas antes de ver o resultado."
)

// SubmitResult is returned after a successful submission.
type SubmitResult struct {
	Lead          ports.RecordedLead
	Qualification qualification.Result
	Message       message.Message
}

// Service coordinates the wizard, its session storage and submission.
type Service struct {
	store     session.Store
	engine    *qualification.Engine
	formatter *message.Formatter
	recorder  ports.LeadRecorder
	bus       events.Bus
	log       *logger.Logger
	opts      []wizard.Option
}

// New creates the simulator service. bus may be nil.
func New(store session.Store, engine *qualification.Engine, formatter *message.Formatter, recorder ports.LeadRecorder, bus events.Bus, log *logger.Logger, opts ...wizard.Option) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		store:     store,
		engine:    engine,
		formatter: formatter,
		recorder:  recorder,
		bus:       bus,
		log:       log,
		opts:      opts,
	}
}

// Start resumes the session's wizard, or creates one, and captures the campaign
// parameters of the visit.
func (s *Service) Start(ctx context.Context, sessionID uuid.UUID, incoming domain.Attribution) (*wizard.Wizard, error) {
	w := s.load(ctx, sessionID)
	w.CaptureAttribution(incoming)
	return w, s.save(ctx, w)
}

// Get returns the session's wizard. A missing session starts a new one lazily.
func (s *Service) Get(ctx context.Context, sessionID uuid.UUID) (*wizard.Wizard, error) {
	w := s.load(ctx, sessionID)
	if w.SessionID() != sessionID {
		return w, s.save(ctx, w)
	}
	return w, nil
}

// UpdateLeadData merges patch and returns the wizard together with the validation
// problems of the fields the patch touched.
func (s *Service) UpdateLeadData(ctx context.Context, sessionID uuid.UUID, patch domain.LeadPatch) (*wizard.Wizard, map[string]error, error) {
	w := s.load(ctx, sessionID)
	w.UpdateLeadData(patch)
	if err := s.save(ctx, w); err != nil {
		return nil, nil, err
	}
	return w, touchedProblems(patch, w.Data()), nil
}

// NextStep advances the wizard. The boolean reports whether the step changed.
func (s *Service) NextStep(ctx context.Context, sessionID uuid.UUID) (*wizard.Wizard, bool, error) {
	return s.navigate(ctx, sessionID, (*wizard.Wizard).NextStep)
}

// PreviousStep moves the wizard back one step.
func (s *Service) PreviousStep(ctx context.Context, sessionID uuid.UUID) (*wizard.Wizard, bool, error) {
	return s.navigate(ctx, sessionID, (*wizard.Wizard).PreviousStep)
}

// SetCurrentStep jumps to step when it is reachable.
func (s *Service) SetCurrentStep(ctx context.Context, sessionID uuid.UUID, step wizard.Step) (*wizard.Wizard, bool, error) {
	return s.navigate(ctx, sessionID, func(w *wizard.Wizard) bool {
		return w.SetCurrentStep(step)
	})
}

func (s *Service) navigate(ctx context.Context, sessionID uuid.UUID, move func(*wizard.Wizard) bool) (*wizard.Wizard, bool, error) {
	w := s.load(ctx, sessionID)
	moved := move(w)
	if moved || w.SessionID() != sessionID {
		if err := s.save(ctx, w); err != nil {
			return nil, false, err
		}
	}
	return w, moved, nil
}

// Reset clears the wizard under a new session id. The old session is deleted and the
// captured attribution carries over.
func (s *Service) Reset(ctx context.Context, sessionID uuid.UUID) (*wizard.Wizard, error) {
	w := s.load(ctx, sessionID)
	previous := w.SessionID()
	w.Reset()
	if err := s.save(ctx, w); err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, previous); err != nil {
		s.log.WithContext(ctx).Warn("failed to delete previous simulator session", "sessionId", previous, "error", err)
	}
	return w, nil
}

// Preview qualifies the wizard's lead without recording it.
func (s *Service) Preview(ctx context.Context, sessionID uuid.UUID) (*wizard.Wizard, qualification.Result, error) {
	w := s.load(ctx, sessionID)
	if !w.Complete() {
		return w, qualification.Result{}, incomplete(w)
	}
	res, err := s.engine.Qualify(w.Data())
	return w, res, err
}

// Submit qualifies the lead, formats the outreach message and records the lead.
// A run records at most one lead; submitting again returns the recorded one.
// On failure the stored wizard is left untouched so the visitor can resubmit.
func (s *Service) Submit(ctx context.Context, sessionID uuid.UUID) (*wizard.Wizard, SubmitResult, error) {
	w := s.load(ctx, sessionID)
	if !w.Complete() {
		return w, SubmitResult{}, incomplete(w)
	}
	data := w.Data()

	res, err := s.engine.Qualify(data)
	if err != nil {
		return w, SubmitResult{}, err
	}
	msg := s.formatter.Format(data, res)

	if existing := s.submitted(ctx, w); existing != nil {
		return w, SubmitResult{Lead: *existing, Qualification: res, Message: msg}, nil
	}

	lead, err := s.recorder.Record(ctx, w.SessionID(), data, res, w.Attribution())
	if err != nil {
		s.log.WithContext(ctx).Error("lead submission failed", "sessionId", w.SessionID(), "error", err)
		var domainErr *apperr.Error
		if errors.As(err, &domainErr) && domainErr.Kind != apperr.KindInternal {
			return w, SubmitResult{}, err
		}
		return w, SubmitResult{}, apperr.Coded(apperr.KindInternal, domain.CodeUnknownError, msgSubmitFailed).WithErr(err)
	}

	w.MarkSubmitted(domain.Submission{
		LeadID:      lead.ID,
		CreatedAt:   lead.CreatedAt,
		Status:      lead.Status,
		Placeholder: lead.Placeholder,
	})
	if err := s.save(ctx, w); err != nil {
		s.log.WithContext(ctx).Warn("lead recorded but session not updated", "sessionId", w.SessionID(), "leadId", lead.ID, "error", err)
	}

	s.publishSubmitted(ctx, w, lead, res, msg)

	return w, SubmitResult{Lead: lead, Qualification: res, Message: msg}, nil
}

// submitted returns the lead already recorded for this wizard run, or nil. The stored
// lead wins over the session snapshot so its status is current.
func (s *Service) submitted(ctx context.Context, w *wizard.Wizard) *ports.RecordedLead {
	stored, err := s.recorder.FindBySession(ctx, w.SessionID())
	if err != nil {
		s.log.WithContext(ctx).Warn("failed to look up submitted lead", "sessionId", w.SessionID(), "error", err)
	}
	if stored != nil {
		return stored
	}

	sub := w.Submission()
	if sub == nil {
		return nil
	}
	return &ports.RecordedLead{
		ID:          sub.LeadID,
		CreatedAt:   sub.CreatedAt,
		Status:      sub.Status,
		Placeholder: sub.Placeholder,
	}
}

// Lead returns the lead recorded for the session, or nil.
func (s *Service) Lead(ctx context.Context, sessionID uuid.UUID) (*ports.RecordedLead, error) {
	if sessionID == uuid.Nil {
		return nil, nil
	}
	return s.recorder.FindBySession(ctx, sessionID)
}

// RecordWhatsAppClick marks the session's lead as contacted through WhatsApp. Clicks
// for leads of other sessions and for placeholder leads are ignored.
func (s *Service) RecordWhatsAppClick(ctx context.Context, sessionID, leadID uuid.UUID) (bool, error) {
	lead, err := s.Lead(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if lead == nil || lead.ID != leadID || lead.Placeholder {
		return false, nil
	}
	return s.recorder.MarkContactedViaWhatsApp(ctx, leadID)
}

// WhatsAppQRCode renders the deep link of the session's message as a PNG.
func (s *Service) WhatsAppQRCode(ctx context.Context, sessionID uuid.UUID, size int) ([]byte, error) {
	w := s.load(ctx, sessionID)
	if !w.Complete() {
		return nil, incomplete(w)
	}
	res, err := s.engine.Qualify(w.Data())
	if err != nil {
		return nil, err
	}
	return message.QRCode(s.formatter.Format(w.Data(), res).DeepLinkURL, size)
}

func (s *Service) publishSubmitted(ctx context.Context, w *wizard.Wizard, lead ports.RecordedLead, res qualification.Result, msg message.Message) {
	if s.bus == nil {
		return
	}
	data := w.Data()
	attr := w.Attribution()
	s.bus.Publish(ctx, events.LeadSubmitted{
		BaseEvent:               events.NewBaseEvent(),
		LeadID:                  lead.ID,
		SessionID:               w.SessionID(),
		Placeholder:             lead.Placeholder,
		FullName:                data.FullName,
		PhoneNumber:             data.PhoneNumber,
		Email:                   data.Email,
		City:                    data.City,
		State:                   data.State,
		MonthlyBillAmount:       data.MonthlyBillAmount,
		IsQualified:             res.IsQualified,
		DisqualificationReason:  res.DisqualificationReason,
		SystemSizeKWp:           res.SystemSizeKWp,
		EstimatedMonthlySavings: res.EstimatedMonthlySavings,
		PackageTier:             string(res.PackageTier),
		Warnings:                res.Warnings,
		MessageText:             msg.Text,
		DeepLinkURL:             msg.DeepLinkURL,
		UTMSource:               attr.Source,
		UTMCampaign:             attr.Campaign,
	})
}

// load returns the stored wizard or a fresh one when the id is unknown, expired or
// unreadable.
func (s *Service) load(ctx context.Context, sessionID uuid.UUID) *wizard.Wizard {
	if sessionID == uuid.Nil {
		return wizard.New(domain.Attribution{}, s.opts...)
	}

	raw, err := s.store.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			s.log.WithContext(ctx).Warn("failed to load simulator session", "sessionId", sessionID, "error", err)
		}
		return wizard.New(domain.Attribution{}, s.opts...)
	}

	w, err := wizard.Decode(raw, s.opts...)
	if err != nil {
		s.log.WithContext(ctx).Warn("discarding unreadable simulator session", "sessionId", sessionID, "error", err)
		return wizard.New(domain.Attribution{}, s.opts...)
	}
	return w
}

func (s *Service) save(ctx context.Context, w *wizard.Wizard) error {
	raw, err := wizard.Encode(w)
	if err == nil {
		err = s.store.Save(ctx, w.SessionID(), raw)
	}
	if err != nil {
		s.log.WithContext(ctx).Error("failed to save simulator session", "sessionId", w.SessionID(), "error", err)
		return apperr.Wrap(apperr.KindInternal, msgSessionUnavailable, err)
	}
	return nil
}

func incomplete(w *wizard.Wizard) error {
	invalid := make([]string, 0, wizard.StepCount)
	for step := wizard.StepLocation; step < wizard.StepCount; step++ {
		if !w.Validity()[step] {
			invalid = append(invalid, step.String())
		}
	}
	return apperr.Coded(apperr.KindUnprocessable, domain.CodeInsufficientData, msgIncomplete).
		WithDetails(map[string][]string{"invalidSteps": invalid})
}

func touchedProblems(patch domain.LeadPatch, data domain.LeadData) map[string]error {
	all := data.Problems()
	if all == nil {
		return nil
	}

	touched := map[string]bool{
		"postalCode":        patch.PostalCode != nil,
		"city":              patch.City != nil,
		"state":             patch.State != nil,
		"monthlyBillAmount": patch.MonthlyBillAmount != nil,
		"connectionType":    patch.ConnectionType != nil,
		"roofType":          patch.RoofType != nil,
		"fullName":          patch.FullName != nil,
		"phoneNumber":       patch.PhoneNumber != nil,
		"email":             patch.Email != nil,
	}
	out := make(map[string]error)
	for field, err := range all {
		if touched[field] {
			out[field] = err
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
