// Package reportschema validates an assembled comparison report against the
// JSON Schema documented in spec §6, so transports can reject a malformed
// report before it reaches a caller.
package reportschema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaDoc = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": [
    "comparison_id", "status", "config", "reference_profile",
    "candidate_profile", "row_alignment", "key_match", "column_mapping", "scores"
  ],
  "properties": {
    "comparison_id": {"type": "string", "minLength": 1},
    "status": {"type": "string", "enum": ["ok", "partial_key_match", "no_complete_key_match"]},
    "reason": {"type": "string"},
    "config": {
      "type": "object",
      "required": ["sample_size_mapping", "weights"],
      "properties": {
        "sample_size_mapping": {"type": "integer", "minimum": 1},
        "weights": {"type": "object"},
        "missing_reference_column_score": {"type": "number"},
        "extra_candidate_columns_penalize": {"type": "boolean"}
      }
    },
    "reference_profile": {"type": "object"},
    "candidate_profile": {"type": "object"},
    "row_alignment": {
      "type": "object",
      "required": ["pairs", "matched_rows", "coverage_reference", "coverage_candidate", "complete"],
      "properties": {
        "pairs": {"type": "array"},
        "matched_rows": {"type": "integer", "minimum": 0},
        "duplicate_reference_keys": {"type": "integer", "minimum": 0},
        "duplicate_candidate_matches": {"type": "integer", "minimum": 0},
        "missing_candidate_keys_or_unmatched": {"type": "integer", "minimum": 0},
        "coverage_reference": {"type": "number", "minimum": 0, "maximum": 1},
        "coverage_candidate": {"type": "number", "minimum": 0, "maximum": 1},
        "complete": {"type": "boolean"}
      }
    },
    "key_match": {
      "type": "object",
      "required": ["found_usable_match"],
      "properties": {
        "found_usable_match": {"type": "boolean"},
        "reference_column": {"type": "string"},
        "candidate_column": {"type": "string"},
        "reason": {"type": "string"},
        "candidates": {"type": "array"}
      }
    },
    "column_mapping": {
      "type": "object",
      "required": ["mapping", "unused_reference_columns", "unused_candidate_columns", "mean_mapping_confidence"],
      "properties": {
        "mapping": {"type": "object"},
        "unused_reference_columns": {"type": "array", "items": {"type": "string"}},
        "unused_candidate_columns": {"type": "array", "items": {"type": "string"}},
        "mean_mapping_confidence": {"type": "number", "minimum": 0, "maximum": 1},
        "pairs": {"type": "array"}
      }
    },
    "scores": {
      "type": "object",
      "required": ["columns", "dataset_similarity_equal_weighted", "overall_score_with_coverage"],
      "properties": {
        "columns": {"type": "array"},
        "dataset_similarity_equal_weighted": {"type": "number", "minimum": 0, "maximum": 1},
        "overall_score_with_coverage": {"type": "number", "minimum": 0, "maximum": 1}
      }
    }
  }
}`

const virtualURL = "memory://report.schema.json"

var compiled *jsonschema.Schema

func compile() (*jsonschema.Schema, error) {
	if compiled != nil {
		return compiled, nil
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(virtualURL, strings.NewReader(schemaDoc)); err != nil {
		return nil, fmt.Errorf("reportschema: add resource: %w", err)
	}
	s, err := compiler.Compile(virtualURL)
	if err != nil {
		return nil, fmt.Errorf("reportschema: compile: %w", err)
	}
	compiled = s
	return compiled, nil
}

// ValidateJSON validates an already-marshaled report document.
func ValidateJSON(data []byte) error {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("reportschema: invalid JSON: %w", err)
	}
	return ValidateData(payload)
}

// ValidateData validates a decoded report document (map[string]any, or any
// value produced by json.Unmarshal).
func ValidateData(payload any) error {
	s, err := compile()
	if err != nil {
		return err
	}
	if err := s.Validate(payload); err != nil {
		return fmt.Errorf("reportschema: %w", err)
	}
	return nil
}

// ValidateReport marshals report to JSON and validates the result, so
// callers can check an in-memory compare.Report without a manual round trip.
func ValidateReport(report any) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("reportschema: marshal report: %w", err)
	}
	return ValidateJSON(data)
}
