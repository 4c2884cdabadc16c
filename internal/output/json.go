package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"kubescan/internal/models"
	"kubescan/internal/version"
)

// ScanMetadata describes one scan run in the JSON report.
type ScanMetadata struct {
	Timestamp      time.Time `json:"timestamp"`
	ClusterContext string    `json:"cluster_context,omitempty"`
	Namespaces     []string  `json:"namespaces"`
	TotalFindings  int       `json:"total_findings"`
	ScannerVersion string    `json:"scanner_version"`
}

// Report is the top-level JSON output of a scan.
type Report struct {
	ScanMetadata ScanMetadata       `json:"scan_metadata"`
	Summary      models.ScanSummary `json:"summary"`
	Findings     []models.Finding   `json:"findings"`
}

// NewReport assembles a Report with the current timestamp and scanner
// version.
func NewReport(clusterContext string, namespaces []string, findings []models.Finding, summary models.ScanSummary) *Report {
	return &Report{
		ScanMetadata: ScanMetadata{
			Timestamp:      time.Now().UTC(),
			ClusterContext: clusterContext,
			Namespaces:     namespaces,
			TotalFindings:  len(findings),
			ScannerVersion: version.Version,
		},
		Summary:  summary,
		Findings: findings,
	}
}

// WriteJSON writes the report as indented JSON to w.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// SaveJSON writes the report to the file at path, creating or truncating it.
func (r *Report) SaveJSON(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()
	if err := r.WriteJSON(f); err != nil {
		return fmt.Errorf("write report file %q: %w", path, err)
	}
	return f.Close()
}
