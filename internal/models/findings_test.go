package models_test

import (
	"testing"

	"kubescan/internal/models"
)

func TestSeverity_RankOrdering(t *testing.T) {
	for i := 1; i < len(models.Severities); i++ {
		prev, cur := models.Severities[i-1], models.Severities[i]
		if prev.Rank() >= cur.Rank() {
			t.Errorf("Rank(%s) = %d not below Rank(%s) = %d", prev, prev.Rank(), cur, cur.Rank())
		}
	}
}

func TestSeverity_UnknownRanksLast(t *testing.T) {
	unknown := models.Severity("WHATEVER")
	if unknown.Valid() {
		t.Error("unknown severity reported valid")
	}
	for _, s := range models.Severities {
		if unknown.Rank() <= s.Rank() {
			t.Errorf("unknown severity ranks at or above %s", s)
		}
	}
}

func TestFinding_Comparable(t *testing.T) {
	a := models.Finding{Severity: models.SeverityHigh, Title: "x", Namespace: "prod"}
	b := a
	if a != b {
		t.Error("identical findings compare unequal")
	}
	b.Namespace = "dev"
	if a == b {
		t.Error("differing findings compare equal")
	}
}
