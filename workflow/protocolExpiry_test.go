package workflow_test

import (
	"strings"
	"testing"
	"time"

	"github.com/defensoria/siri-backend/models"
	"github.com/defensoria/siri-backend/workflow"
)

func TestBuildExpiryNotification(t *testing.T) {
	end1 := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end2 := time.Date(2026, 11, 15, 0, 0, 0, 0, time.UTC)
	deadline := time.Date(2026, 11, 27, 0, 0, 0, 0, time.UTC)

	subject, body := workflow.BuildExpiryNotification([]*models.Protocol{
		{Code: "PROT-2025-001", EndDate: &end1},
		{Code: "PROT-2025-017", EndDate: &end2},
	}, deadline)

	if subject != "Protocols expiring by 2026-11-27" {
		t.Fatalf("subject = %q", subject)
	}
	if !strings.Contains(body, "PROT-2025-001 (expires 2026-10-01)") {
		t.Errorf("body missing first protocol:\n%s", body)
	}
	if !strings.Contains(body, "PROT-2025-017 (expires 2026-11-15)") {
		t.Errorf("body missing second protocol:\n%s", body)
	}
}

func TestBuildExpiryNotificationWithoutEndDate(t *testing.T) {
	deadline := time.Date(2026, 11, 27, 0, 0, 0, 0, time.UTC)
	_, body := workflow.BuildExpiryNotification([]*models.Protocol{
		{Code: "PROT-2025-099"},
	}, deadline)

	if !strings.Contains(body, "PROT-2025-099") {
		t.Fatalf("body missing protocol code:\n%s", body)
	}
	if strings.Contains(body, "expires") {
		t.Fatalf("body mentions an end date the protocol does not have:\n%s", body)
	}
}
