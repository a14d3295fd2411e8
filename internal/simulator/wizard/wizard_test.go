package wizard

import (
	"encoding/json"
	"testing"

	"simulador_solar_backend/internal/simulator/domain"

	"github.com/google/uuid"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func locationPatch() domain.LeadPatch {
	return domain.LeadPatch{PostalCode: strPtr("01310-100"), City: strPtr("São Paulo"), State: strPtr("SP")}
}

func consumptionPatch() domain.LeadPatch {
	ct := domain.ConnectionTwoPhase
	return domain.LeadPatch{MonthlyBillAmount: floatPtr(300), ConnectionType: &ct}
}

func roofPatch() domain.LeadPatch {
	rt := domain.RoofClayTile
	return domain.LeadPatch{RoofType: &rt}
}

func contactPatch() domain.LeadPatch {
	return domain.LeadPatch{FullName: strPtr("João Silva"), PhoneNumber: strPtr("11999999999"), Email: strPtr("test@example.com")}
}

func sequentialIDs() (IDGenerator, []uuid.UUID) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	i := 0
	return func() uuid.UUID {
		id := ids[i%len(ids)]
		i++
		return id
	}, ids
}

func TestNewWizardStartsOnLocation(t *testing.T) {
	w := New(domain.Attribution{})
	if w.CurrentStep() != StepLocation || w.Progress() != 0 {
		t.Fatalf("unexpected initial state step=%v progress=%d", w.CurrentStep(), w.Progress())
	}
	if w.SessionID() == uuid.Nil {
		t.Fatalf("expected generated session id")
	}
	if !w.CanNavigateTo(StepLocation) || w.CanNavigateTo(StepConsumption) {
		t.Fatalf("only the first step should be reachable")
	}
}

func TestNextStepRequiresValidity(t *testing.T) {
	w := New(domain.Attribution{})
	if w.NextStep() {
		t.Fatalf("next step must be blocked while Location is invalid")
	}

	w.UpdateLeadData(locationPatch())
	if !w.NextStep() || w.CurrentStep() != StepConsumption {
		t.Fatalf("expected to advance to Consumption")
	}
	if w.NextStep() {
		t.Fatalf("Consumption is not valid yet")
	}

	for _, p := range []domain.LeadPatch{consumptionPatch(), roofPatch(), contactPatch()} {
		w.UpdateLeadData(p)
		w.NextStep()
	}
	if w.CurrentStep() != StepContact {
		t.Fatalf("expected Contact, got %v", w.CurrentStep())
	}
	if w.NextStep() || w.CurrentStep() != StepContact {
		t.Fatalf("must never go past Contact")
	}
	if !w.Complete() || w.Progress() != 100 {
		t.Fatalf("expected complete wizard")
	}
}

func TestPreviousStepStopsAtLocation(t *testing.T) {
	w := New(domain.Attribution{})
	if w.PreviousStep() {
		t.Fatalf("cannot go back from Location")
	}
	w.UpdateLeadData(locationPatch())
	w.NextStep()
	if !w.PreviousStep() || w.CurrentStep() != StepLocation {
		t.Fatalf("expected to return to Location")
	}
}

func TestSetCurrentStepHonoursGating(t *testing.T) {
	w := New(domain.Attribution{})
	w.UpdateLeadData(locationPatch())
	w.UpdateLeadData(roofPatch())

	if w.SetCurrentStep(StepContact) {
		t.Fatalf("Contact must be blocked while Consumption is invalid")
	}
	if !w.SetCurrentStep(StepConsumption) {
		t.Fatalf("Consumption should be reachable")
	}
	if w.SetCurrentStep(Step(7)) || w.SetCurrentStep(Step(-1)) {
		t.Fatalf("out of range steps must be rejected")
	}
}

func TestProgressCountsValidStepsNotPosition(t *testing.T) {
	w := New(domain.Attribution{})
	w.UpdateLeadData(locationPatch())
	w.NextStep()
	w.UpdateLeadData(roofPatch())

	// Location and TechnicalFit valid, Consumption not.
	if w.Progress() != 50 {
		t.Fatalf("expected 50%%, got %d", w.Progress())
	}
	if w.CurrentStep() != StepConsumption {
		t.Fatalf("unexpected step %v", w.CurrentStep())
	}
}

func TestProgressIsTwentyFivePerValidStep(t *testing.T) {
	patches := []domain.LeadPatch{locationPatch(), consumptionPatch(), roofPatch(), contactPatch()}
	for mask := 0; mask < 16; mask++ {
		w := New(domain.Attribution{})
		for i, p := range patches {
			if mask&(1<<i) != 0 {
				w.UpdateLeadData(p)
			}
		}
		if w.Progress() != 25*w.Validity().ValidCount() {
			t.Fatalf("mask %b: progress %d, valid %d", mask, w.Progress(), w.Validity().ValidCount())
		}

		// reachability is monotonic
		for s := StepContact; s > StepLocation; s-- {
			if w.CanNavigateTo(s) && !w.CanNavigateTo(s-1) {
				t.Fatalf("mask %b: step %v reachable but %v is not", mask, s, s-1)
			}
		}
	}
}

func TestValidityRecomputedForAllSteps(t *testing.T) {
	w := New(domain.Attribution{})
	for _, p := range []domain.LeadPatch{locationPatch(), consumptionPatch(), roofPatch(), contactPatch()} {
		w.UpdateLeadData(p)
	}
	w.UpdateLeadData(domain.LeadPatch{City: strPtr("  ")})

	v := w.Validity()
	if v[StepLocation] || !v[StepConsumption] || !v[StepTechnicalFit] || !v[StepContact] {
		t.Fatalf("unexpected validity %v", v)
	}
	if w.CanNavigateTo(StepConsumption) {
		t.Fatalf("clearing the city must block later steps")
	}
}

func TestResetKeepsAttributionAndRotatesSession(t *testing.T) {
	gen, ids := sequentialIDs()
	attribution := domain.Attribution{Source: "google", Campaign: "verao"}
	w := New(attribution, WithIDGenerator(gen))
	w.UpdateLeadData(locationPatch())
	w.NextStep()

	w.Reset()

	if w.SessionID() != ids[1] {
		t.Fatalf("expected a new session id")
	}
	if w.Attribution() != attribution {
		t.Fatalf("attribution lost on reset: %+v", w.Attribution())
	}
	if w.Data() != (domain.LeadData{}) || w.Validity().ValidCount() != 0 || w.CurrentStep() != StepLocation {
		t.Fatalf("reset did not clear wizard state")
	}
}

func TestCaptureAttributionKeepsFirstValues(t *testing.T) {
	w := New(domain.Attribution{})
	if w.CaptureAttribution(domain.Attribution{}) {
		t.Fatalf("empty attribution must not be captured")
	}

	first := domain.Attribution{Source: "google", Campaign: "verao"}
	if !w.CaptureAttribution(first) {
		t.Fatalf("first attribution must be captured")
	}
	if w.CaptureAttribution(domain.Attribution{Source: "facebook"}) || w.Attribution() != first {
		t.Fatalf("stored attribution must win, got %+v", w.Attribution())
	}
}

func TestCodecRoundTrip(t *testing.T) {
	w := New(domain.Attribution{Source: "instagram"})
	for _, p := range []domain.LeadPatch{locationPatch(), consumptionPatch(), roofPatch()} {
		w.UpdateLeadData(p)
		w.NextStep()
	}

	raw, err := Encode(w)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	restored, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if restored.SessionID() != w.SessionID() || restored.CurrentStep() != StepContact {
		t.Fatalf("session or step lost: %v %v", restored.SessionID(), restored.CurrentStep())
	}
	if restored.Data() != w.Data() || restored.Validity() != w.Validity() || restored.Attribution() != w.Attribution() {
		t.Fatalf("restored wizard differs")
	}
}

func TestDecodeClampsUnreachableStep(t *testing.T) {
	raw := []byte(`{"v":1,"sessionId":"` + uuid.NewString() + `","currentStep":3,"data":{"postalCode":"01310-100","city":"São Paulo","state":"SP"}}`)
	w, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.CurrentStep() != StepConsumption {
		t.Fatalf("expected step clamped to Consumption, got %v", w.CurrentStep())
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, raw := range []string{`nope`, `{"v":2,"sessionId":"` + uuid.NewString() + `"}`, `{"v":1}`} {
		if _, err := Decode([]byte(raw)); err == nil {
			t.Errorf("expected error for %s", raw)
		}
	}
}

func TestStepValidationJSON(t *testing.T) {
	v := StepValidation{true, false, true, false}
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]bool
	_ = json.Unmarshal(raw, &decoded)
	if !decoded["location"] || decoded["consumption"] || !decoded["technicalFit"] || decoded["contact"] {
		t.Fatalf("unexpected json %s", raw)
	}

	var back StepValidation
	if err := json.Unmarshal(raw, &back); err != nil || back != v {
		t.Fatalf("round trip mismatch %v %v", back, err)
	}
}

func TestSubmissionSurvivesCodecAndClearsOnReset(t *testing.T) {
	w := New(domain.Attribution{})
	leadID := uuid.New()
	w.MarkSubmitted(domain.Submission{LeadID: leadID, Status: "qualified"})

	raw, err := Encode(w)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	restored, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sub := restored.Submission(); sub == nil || sub.LeadID != leadID || sub.Status != "qualified" {
		t.Fatalf("submission lost in codec: %+v", sub)
	}

	restored.Reset()
	if restored.Submission() != nil {
		t.Fatalf("reset must clear the submission")
	}
}
