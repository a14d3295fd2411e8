package transport

import (
	"errors"

	"simulador_solar_backend/internal/simulator/wizard"
	"simulador_solar_backend/platform/apperr"
)

// ToSessionResponse snapshots the wizard for the client.
func ToSessionResponse(w *wizard.Wizard, problems map[string]error) SessionResponse {
	resp := SessionResponse{
		SessionID:       w.SessionID(),
		CurrentStep:     w.CurrentStep(),
		CurrentStepName: w.CurrentStep().String(),
		Progress:        w.Progress(),
		StepValidation:  w.Validity(),
		Complete:        w.Complete(),
		LeadData:        w.Data(),
		Attribution:     w.Attribution(),
	}
	for step := wizard.StepLocation; step < wizard.StepCount; step++ {
		resp.Reachable[step] = w.CanNavigateTo(step)
	}
	if len(problems) > 0 {
		resp.FieldErrors = make(map[string]FieldError, len(problems))
		for field, err := range problems {
			resp.FieldErrors[field] = toFieldError(err)
		}
	}
	return resp
}

func toFieldError(err error) FieldError {
	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		return FieldError{Code: domainErr.Code, Message: domainErr.Message}
	}
	return FieldError{Code: "UNKNOWN_ERROR", Message: err.Error()}
}
