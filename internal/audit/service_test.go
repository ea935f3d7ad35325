package audit

import (
	"errors"
	"testing"

	"mealprogram-backend/internal/models"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWriteFailureIsLogged(t *testing.T) {
	core, recorded := observer.New(zap.ErrorLevel)
	SetLogger(zap.New(core))
	defer SetLogger(zap.NewNop())

	logWriteFailure(LogOptions{
		EntityType: "consumption_log",
		EntityID:   9,
		Action:     models.AuditActionCreate,
	}, errors.New("connection refused"))

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["entity_type"] != "consumption_log" {
		t.Fatalf("entity_type = %v", ctx["entity_type"])
	}
	if ctx["action"] != "create" {
		t.Fatalf("action = %v", ctx["action"])
	}
}

func TestSetLoggerIgnoresNil(t *testing.T) {
	SetLogger(nil)
	if logger == nil {
		t.Fatal("nil must not replace the package logger")
	}
}
