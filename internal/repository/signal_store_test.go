package repository

import (
	"strings"
	"testing"
	"time"

	"TradeYodha/internal/domain/models"
)

func TestSignalsSchemaColumnTypesMatchBindings(t *testing.T) {
	stmts := SignalsSchema("testdb")
	if len(stmts) != 2 {
		t.Fatalf("expected database + table statements, got %d", len(stmts))
	}
	ddl := stmts[1]

	// Classification labels are stored as strings; numeric columns stay numeric.
	for _, col := range []string{
		"confidence String",
		"bias String",
		"tier UInt8",
		"price Float64",
		"target1 Nullable(Float64)",
	} {
		if !strings.Contains(ddl, col) {
			t.Fatalf("ddl missing %q:\n%s", col, ddl)
		}
	}

	target := 190.0
	args := signalArgs(&models.Signal{
		ID:         "sig-1",
		Ticker:     "AAPL",
		Type:       models.SignalThesisFlip,
		Tier:       1,
		Bias:       models.BiasBullish,
		Confidence: models.ConfidenceHigh,
		Price:      187.5,
		Target1:    &target,
		FiredAt:    time.Now(),
	})
	if len(args) != 13 {
		t.Fatalf("expected 13 bound args, got %d", len(args))
	}
	// confidence is the 9th column in signalCols
	if v, ok := args[8].(string); !ok || v != "HIGH" {
		t.Fatalf("confidence must bind as string, got %T(%v)", args[8], args[8])
	}
	if _, ok := args[9].(float64); !ok {
		t.Fatalf("price must bind as float64, got %T", args[9])
	}
}
