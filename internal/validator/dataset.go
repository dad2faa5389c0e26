// Package validator provides validation utilities for trek datasets.
package validator

import (
	"errors"
	"fmt"
	"sort"

	"trekdata/internal/config"
	"trekdata/internal/repair"
	"trekdata/pkg/jsonx"
	"trekdata/pkg/manifest"
)

// ValidationError represents a validation error with context. Index points
// at the offending record; document-level errors carry -1.
type ValidationError struct {
	Index   int
	Field   string
	Value   string
	Message string
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []string
	Stats    ValidationStats
	IsValid  bool
}

// ValidationStats contains validation statistics.
type ValidationStats struct {
	TotalRecords   int
	ValidRecords   int
	InvalidRecords int
	DuplicateIDs   int
	MissingIDs     int
}

// DatasetValidator validates trek dataset files.
type DatasetValidator struct {
	cfg *config.Config
}

// NewDatasetValidator creates a new validator.
func NewDatasetValidator(cfg *config.Config) *DatasetValidator {
	return &DatasetValidator{cfg: cfg}
}

// ValidateText validates the dataset text. It expects strict JSON; a dataset
// that still needs repairing fails with the parse error as the only finding.
func (v *DatasetValidator) ValidateText(text string) *ValidationResult {
	result := &ValidationResult{
		IsValid:  true,
		Errors:   []ValidationError{},
		Warnings: []string{},
		Stats:    ValidationStats{},
	}

	records, err := jsonx.DecodeArray(text)
	if err != nil {
		result.IsValid = false
		result.Errors = append(result.Errors, ValidationError{
			Index:   -1,
			Message: fmt.Sprintf("dataset does not parse: %v", err),
		})

		return result
	}

	idField := v.cfg.Repair.IDField
	seen := repair.NewSeen()
	idTypes := map[string]bool{}

	for i, raw := range records {
		result.Stats.TotalRecords++

		record, ok := raw.(map[string]interface{})
		if !ok {
			result.IsValid = false
			result.Stats.InvalidRecords++
			result.Errors = append(result.Errors, ValidationError{
				Index:   i,
				Message: fmt.Sprintf("record is %T, expected an object", raw),
			})

			continue
		}

		id, present := record[idField]
		if !present {
			result.IsValid = false
			result.Stats.InvalidRecords++
			result.Stats.MissingIDs++
			result.Errors = append(result.Errors, ValidationError{
				Index:   i,
				Field:   idField,
				Message: fmt.Sprintf("record has no %q field", idField),
			})

			continue
		}

		key, keyable := repair.IDKey(id)
		if !keyable {
			result.IsValid = false
			result.Stats.InvalidRecords++
			result.Errors = append(result.Errors, ValidationError{
				Index:   i,
				Field:   idField,
				Value:   truncate(fmt.Sprintf("%v", id), 50),
				Message: fmt.Sprintf("identifier is %T, expected a scalar", id),
			})

			continue
		}

		if seen.Has(key) {
			result.IsValid = false
			result.Stats.InvalidRecords++
			result.Stats.DuplicateIDs++
			result.Errors = append(result.Errors, ValidationError{
				Index:   i,
				Field:   idField,
				Value:   fmt.Sprintf("%v", id),
				Message: "duplicate identifier",
			})

			continue
		}

		seen.Add(key)
		idTypes[typeLabel(id)] = true
		result.Stats.ValidRecords++

		if name, ok := record["name"].(string); !ok || name == "" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("record %d: missing or empty name", i))
		}
	}

	if len(idTypes) > 1 {
		labels := make([]string, 0, len(idTypes))
		for label := range idTypes {
			labels = append(labels, label)
		}

		sort.Strings(labels)

		result.Warnings = append(result.Warnings,
			fmt.Sprintf("identifier types are mixed: %v", labels))
	}

	if result.Stats.ValidRecords < v.cfg.Validation.MinRecords {
		result.IsValid = false
		result.Errors = append(result.Errors, ValidationError{
			Index: -1,
			Message: fmt.Sprintf(
				"minimum records not met: got %d, expected at least %d",
				result.Stats.ValidRecords,
				v.cfg.Validation.MinRecords,
			),
		})
	}

	if result.Stats.ValidRecords > v.cfg.Validation.MaxRecords {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf(
				"unusually high record count: got %d, expected max %d (check for parsing errors)",
				result.Stats.ValidRecords,
				v.cfg.Validation.MaxRecords,
			),
		)
	}

	return result
}

// ValidateManifest checks the dataset content against its manifest. A
// missing manifest is only worth a warning; a hash mismatch means the file
// changed since the last repair and fails validation.
func (v *DatasetValidator) ValidateManifest(path, content string) *ValidationResult {
	result := &ValidationResult{
		IsValid:  true,
		Errors:   []ValidationError{},
		Warnings: []string{},
	}

	if !v.cfg.Validation.VerifyManifest {
		return result
	}

	err := manifest.Verify(path, content)

	switch {
	case err == nil:
	case errors.Is(err, manifest.ErrNoManifest):
		result.Warnings = append(result.Warnings,
			"no manifest found, run the repair tool to create one")
	default:
		result.IsValid = false
		result.Errors = append(result.Errors, ValidationError{
			Index:   -1,
			Message: fmt.Sprintf("manifest check failed: %v", err),
		})
	}

	return result
}

// typeLabel names the JSON type of a decoded identifier.
func typeLabel(id interface{}) string {
	switch id.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "bool"
	default:
		return fmt.Sprintf("%T", id)
	}
}

// truncate truncates string to max length.
func truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}

	return s
}

// String returns string representation of validation result.
func (r *ValidationResult) String() string {
	status := "✅ VALID"
	if !r.IsValid {
		status = "❌ INVALID"
	}

	return fmt.Sprintf(
		"%s | Total: %d | Valid: %d | Invalid: %d | Warnings: %d",
		status,
		r.Stats.TotalRecords,
		r.Stats.ValidRecords,
		r.Stats.InvalidRecords,
		len(r.Warnings),
	)
}

// PrintErrors prints validation errors in readable format.
func (r *ValidationResult) PrintErrors() {
	if len(r.Errors) == 0 {
		return
	}

	fmt.Println("❌ Validation Errors:")

	for _, err := range r.Errors {
		if err.Index >= 0 {
			fmt.Printf("  Record %d", err.Index)

			if err.Field != "" {
				fmt.Printf(" [%s]", err.Field)
			}

			fmt.Printf(": %s\n", err.Message)

			if err.Value != "" {
				fmt.Printf("    Found: %q\n", err.Value)
			}
		} else {
			fmt.Printf("  %s\n", err.Message)
		}
	}
}

// PrintWarnings prints validation warnings.
func (r *ValidationResult) PrintWarnings() {
	if len(r.Warnings) == 0 {
		return
	}

	fmt.Println("⚠️  Validation Warnings:")

	for _, warn := range r.Warnings {
		fmt.Printf("  %s\n", warn)
	}
}
