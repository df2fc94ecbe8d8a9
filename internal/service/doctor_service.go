package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pasjesplank/plank/internal/barcode"
	"github.com/pasjesplank/plank/internal/id"
	"github.com/pasjesplank/plank/internal/medium"
	"github.com/pasjesplank/plank/internal/model"
)

// IssueSeverity indicates how critical an issue is.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// Issue codes for diagnostic results.
const (
	// Data integrity (errors)
	CodeMalformedCollection = "MALFORMED_COLLECTION"
	CodeDuplicateCardID     = "DUPLICATE_CARD_ID"

	// Recoverable records (warnings)
	CodeMissingCardID   = "MISSING_CARD_ID"
	CodeMissingCategory = "MISSING_CATEGORY"
	CodeUnknownCategory = "UNKNOWN_CATEGORY"
	CodeUnknownColor    = "UNKNOWN_COLOR"
	CodeEmptyStoreName  = "EMPTY_STORE_NAME"

	// Checkout problems (warnings)
	CodeFallbackBarcode    = "FALLBACK_BARCODE"
	CodeUnencodableBarcode = "UNENCODABLE_BARCODE"
)

// BackupSuffix is appended to the slot when a malformed collection is set aside.
const BackupSuffix = "-backup"

// Issue represents a single diagnostic finding.
type Issue struct {
	Severity  IssueSeverity `json:"severity"`
	Code      string        `json:"code"`
	CardID    string        `json:"card_id,omitempty"`
	Index     int           `json:"index"`
	Message   string        `json:"message"`
	Fixable   bool          `json:"fixable"`
	FixAction string        `json:"fix_action,omitempty"`
}

// CollectionDiagnostic contains stats for the stored collection.
type CollectionDiagnostic struct {
	Slot    string `json:"slot"`
	Exists  bool   `json:"exists"`
	Records int    `json:"records"`
	Bytes   int    `json:"bytes"`
}

// ReportSummary summarizes the diagnostic results.
type ReportSummary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Fixed    int `json:"fixed"`
}

// DiagnosticReport contains all diagnostic results.
type DiagnosticReport struct {
	Collection CollectionDiagnostic `json:"collection"`
	Issues     []Issue              `json:"issues"`
	Summary    ReportSummary        `json:"summary"`
}

// HasErrors returns true if there are any error-level issues.
func (r *DiagnosticReport) HasErrors() bool {
	return r.Summary.Errors > 0
}

// Fixable returns the number of issues Fix can resolve.
func (r *DiagnosticReport) Fixable() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Fixable {
			n++
		}
	}
	return n
}

// rawCard is a stored record read without any normalization, so the doctor
// sees exactly what is on disk.
type rawCard struct {
	ID            string  `json:"id"`
	StoreName     string  `json:"storeName"`
	BarcodeNumber string  `json:"barcodeNumber"`
	Color         string  `json:"color"`
	Category      *string `json:"category"`
}

// DoctorService checks the stored collection for records the app would
// silently repair or drop on load.
// Uses the raw medium to bypass store normalization.
type DoctorService struct {
	medium   medium.Medium
	slot     string
	barcodes *barcode.Renderer
	ids      id.Source
}

// NewDoctorService creates a new diagnostic service.
func NewDoctorService(m medium.Medium, slot string, barcodes *barcode.Renderer) *DoctorService {
	if slot == "" {
		slot = model.DefaultSlot
	}
	if barcodes == nil {
		barcodes = barcode.NewRenderer(barcode.DefaultOptions())
	}
	return &DoctorService{medium: m, slot: slot, barcodes: barcodes, ids: id.Flex{}}
}

// WithIDSource replaces the id source used to re-key duplicates.
func (s *DoctorService) WithIDSource(src id.Source) *DoctorService {
	s.ids = src
	return s
}

// Diagnose reads the collection and reports every issue found.
func (s *DoctorService) Diagnose(ctx context.Context) (*DiagnosticReport, error) {
	report := &DiagnosticReport{
		Collection: CollectionDiagnostic{Slot: s.slot},
		Issues:     []Issue{},
	}

	data, err := s.medium.Get(ctx, s.slot)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection: %w", err)
	}
	if data == nil {
		return report, nil
	}
	report.Collection.Exists = true
	report.Collection.Bytes = len(data)

	var records []rawCard
	if err := json.Unmarshal(data, &records); err != nil {
		report.Issues = append(report.Issues, Issue{
			Severity:  SeverityError,
			Code:      CodeMalformedCollection,
			Index:     -1,
			Message:   fmt.Sprintf("collection is not a JSON list of cards (%v); the app shows it as empty", err),
			Fixable:   true,
			FixAction: fmt.Sprintf("move it to %q and start an empty collection", s.slot+BackupSuffix),
		})
		summarize(report)
		return report, nil
	}
	report.Collection.Records = len(records)

	seen := make(map[string]int)
	for i, rec := range records {
		s.checkRecord(report, i, rec, seen)
	}

	summarize(report)
	return report, nil
}

func (s *DoctorService) checkRecord(report *DiagnosticReport, i int, rec rawCard, seen map[string]int) {
	add := func(issue Issue) {
		issue.Index = i
		issue.CardID = rec.ID
		report.Issues = append(report.Issues, issue)
	}

	if rec.ID == "" {
		add(Issue{
			Severity:  SeverityWarning,
			Code:      CodeMissingCardID,
			Message:   fmt.Sprintf("record %d has no id and is ignored", i),
			Fixable:   true,
			FixAction: "remove the record",
		})
		return
	}
	if first, dup := seen[rec.ID]; dup {
		add(Issue{
			Severity:  SeverityError,
			Code:      CodeDuplicateCardID,
			Message:   fmt.Sprintf("id %q is also used by record %d", rec.ID, first),
			Fixable:   true,
			FixAction: "assign a fresh id",
		})
	} else {
		seen[rec.ID] = i
	}

	switch {
	case rec.Category == nil || *rec.Category == "":
		add(Issue{
			Severity:  SeverityWarning,
			Code:      CodeMissingCategory,
			Message:   "no category; shown under " + model.FallbackCategory.Label(),
			Fixable:   true,
			FixAction: "store category " + string(model.FallbackCategory),
		})
	case !model.Category(*rec.Category).IsValid():
		add(Issue{
			Severity:  SeverityWarning,
			Code:      CodeUnknownCategory,
			Message:   fmt.Sprintf("unknown category %q; shown under %s", *rec.Category, model.FallbackCategory.Label()),
			Fixable:   true,
			FixAction: "store category " + string(model.FallbackCategory),
		})
	}

	if !model.IsPaletteColor(rec.Color) {
		add(Issue{
			Severity:  SeverityWarning,
			Code:      CodeUnknownColor,
			Message:   fmt.Sprintf("color %q is not in the palette", rec.Color),
			Fixable:   true,
			FixAction: "use " + model.ColorName(model.DefaultColor),
		})
	}

	if strings.TrimSpace(rec.StoreName) == "" {
		add(Issue{
			Severity: SeverityWarning,
			Code:     CodeEmptyStoreName,
			Message:  "store name is empty",
		})
	}

	switch s.barcodes.Render(rec.BarcodeNumber).Symbology {
	case barcode.EAN13:
	case barcode.Blank:
		add(Issue{
			Severity: SeverityWarning,
			Code:     CodeUnencodableBarcode,
			Message:  fmt.Sprintf("number %q cannot be drawn as a barcode", rec.BarcodeNumber),
		})
	default:
		add(Issue{
			Severity: SeverityWarning,
			Code:     CodeFallbackBarcode,
			Message:  fmt.Sprintf("number %q is not a valid EAN-13 and is drawn as CODE128", rec.BarcodeNumber),
		})
	}
}

func summarize(report *DiagnosticReport) {
	report.Summary.Errors = 0
	report.Summary.Warnings = 0
	for _, issue := range report.Issues {
		if issue.Severity == SeverityError {
			report.Summary.Errors++
		} else {
			report.Summary.Warnings++
		}
	}
}

// Fix applies automatic fixes for issues that have deterministic solutions.
// Returns a new report showing remaining issues and what was fixed.
// It writes the medium directly, bypassing any open card store.
func (s *DoctorService) Fix(ctx context.Context, report *DiagnosticReport) (*DiagnosticReport, error) {
	before := report.Fixable()
	if before == 0 {
		return report, nil
	}

	data, err := s.medium.Get(ctx, s.slot)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection: %w", err)
	}

	var records []rawCard
	if err := json.Unmarshal(data, &records); err != nil {
		if err := s.medium.Put(ctx, s.slot+BackupSuffix, data); err != nil {
			return nil, fmt.Errorf("failed to back up collection: %w", err)
		}
		records = nil
	}

	out, err := model.EncodeCollection(s.repair(records))
	if err != nil {
		return nil, fmt.Errorf("failed to encode collection: %w", err)
	}
	if err := s.medium.Put(ctx, s.slot, out); err != nil {
		return nil, fmt.Errorf("failed to write collection: %w", err)
	}

	fresh, err := s.Diagnose(ctx)
	if err != nil {
		return nil, err
	}
	fresh.Summary.Fixed = before - fresh.Fixable()
	return fresh, nil
}

// repair normalizes records in order. Duplicates after the first keep their
// data under a fresh id.
func (s *DoctorService) repair(records []rawCard) []model.Card {
	cards := make([]model.Card, 0, len(records))
	taken := make(map[string]bool, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			continue
		}
		cardID := rec.ID
		for taken[cardID] {
			cardID = s.ids.NewID()
		}
		taken[cardID] = true

		category := ""
		if rec.Category != nil {
			category = *rec.Category
		}
		color, ok := model.LookupColor(rec.Color)
		if !ok {
			color = model.DefaultColor
		}

		cards = append(cards, model.Card{
			ID:            cardID,
			StoreName:     rec.StoreName,
			BarcodeNumber: rec.BarcodeNumber,
			Color:         color,
			Category:      model.ResolveCategory(category),
		})
	}
	return cards
}
