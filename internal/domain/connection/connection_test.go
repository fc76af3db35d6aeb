package connection

import (
	"errors"
	"testing"
)

func pendingRequest() *ConnectionRequest {
	return &ConnectionRequest{
		RequestID:    "req-1",
		DoctorEmail:  "doc@example.com",
		PatientEmail: "pat@example.com",
		Status:       StatusPending,
	}
}

func TestAcceptPending(t *testing.T) {
	req := pendingRequest()
	if err := req.Accept(); err != nil {
		t.Fatalf("Accept() on pending: %v", err)
	}
	if req.Status != StatusAccepted {
		t.Errorf("status = %q, want accepted", req.Status)
	}
	if req.ResolvedAt == nil {
		t.Error("resolved timestamp not set")
	}
}

func TestRejectPending(t *testing.T) {
	req := pendingRequest()
	if err := req.Reject("Smith"); err != nil {
		t.Fatalf("Reject() on pending: %v", err)
	}
	if req.Status != StatusRejected {
		t.Errorf("status = %q, want rejected", req.Status)
	}
	if want := "Your request was rejected by Dr. Smith"; req.RejectionMessage != want {
		t.Errorf("rejection message = %q, want %q", req.RejectionMessage, want)
	}
	if req.ResolvedAt == nil {
		t.Error("resolved timestamp not set")
	}
}

func TestRejectFallsBackToEmail(t *testing.T) {
	req := pendingRequest()
	if err := req.Reject(""); err != nil {
		t.Fatal(err)
	}
	if want := "Your request was rejected by Dr. doc@example.com"; req.RejectionMessage != want {
		t.Errorf("rejection message = %q, want %q", req.RejectionMessage, want)
	}
}

func TestTerminalStatesRefuseTransitions(t *testing.T) {
	accepted := pendingRequest()
	if err := accepted.Accept(); err != nil {
		t.Fatal(err)
	}
	if err := accepted.Reject("Smith"); !errors.Is(err, ErrRequestAlreadyResolved) {
		t.Errorf("Reject after Accept = %v, want ErrRequestAlreadyResolved", err)
	}
	if err := accepted.Accept(); !errors.Is(err, ErrRequestAlreadyResolved) {
		t.Errorf("Accept after Accept = %v, want ErrRequestAlreadyResolved", err)
	}
	if accepted.Status != StatusAccepted {
		t.Errorf("status after refused transition = %q, want accepted unchanged", accepted.Status)
	}
	if accepted.RejectionMessage != "" {
		t.Error("refused reject must not record a rejection message")
	}

	rejected := pendingRequest()
	if err := rejected.Reject("Smith"); err != nil {
		t.Fatal(err)
	}
	if err := rejected.Accept(); !errors.Is(err, ErrRequestAlreadyResolved) {
		t.Errorf("Accept after Reject = %v, want ErrRequestAlreadyResolved", err)
	}
	if rejected.Status != StatusRejected {
		t.Errorf("status after refused transition = %q, want rejected unchanged", rejected.Status)
	}
}

func TestCanTransitionTo(t *testing.T) {
	req := pendingRequest()
	if !req.CanTransitionTo(StatusAccepted) || !req.CanTransitionTo(StatusRejected) {
		t.Error("pending must allow both terminal transitions")
	}
	if req.CanTransitionTo(StatusPending) {
		t.Error("pending → pending is not a transition")
	}
}

func TestStatusPredicates(t *testing.T) {
	if StatusPending.IsTerminal() {
		t.Error("pending is not terminal")
	}
	if !StatusAccepted.IsTerminal() || !StatusRejected.IsTerminal() {
		t.Error("accepted and rejected are terminal")
	}
	if !StatusPending.IsValid() || RequestStatus("bogus").IsValid() {
		t.Error("IsValid misclassified a status")
	}
}
