package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/extest/tablesim/internal/compare"
	"github.com/extest/tablesim/internal/table"
	"github.com/extest/tablesim/internal/tables"
	"github.com/extest/tablesim/internal/telemetry"
	"github.com/extest/tablesim/pkg/comparerr"
)

// CompareTablesInput is the compare_tables tool's request shape (spec §6).
type CompareTablesInput struct {
	ReferencePath     string            `json:"reference_path"`
	CandidatePath     string            `json:"candidate_path"`
	SampleSizeMapping int               `json:"sample_size_mapping,omitempty"`
	Weights           map[string]string `json:"weights,omitempty"`
}

// RegisterCompareTool registers the single compare_tables tool (spec §6's
// only documented operation) against the given table cache and telemetry
// hooks. Comparison-slot gating is applied by runtime.Middleware at the
// server level, not here.
func RegisterCompareTool(s *server.MCPServer, reg *Registry, tblMgr *tables.Manager, hooks *telemetry.Hooks, logger zerolog.Logger) {
	tool := mcp.NewTool(
		"compare_tables",
		mcp.WithDescription("Compare a reference CSV table against a candidate CSV table and report row alignment, column mapping, and similarity scores"),
		mcp.WithString("reference_path", mcp.Required(), mcp.Description("Allowed path to the reference CSV file")),
		mcp.WithString("candidate_path", mcp.Required(), mcp.Description("Allowed path to the candidate CSV file")),
		mcp.WithNumber("sample_size_mapping", mcp.DefaultNumber(256), mcp.Min(1), mcp.Description("Row-pair sample size used by the column mapper's content-similarity term")),
		mcp.WithOutputSchema[compare.Report](),
	)

	s.AddTool(tool, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in CompareTablesInput) (*mcp.CallToolResult, error) {
		refPath := strings.TrimSpace(in.ReferencePath)
		candPath := strings.TrimSpace(in.CandidatePath)
		if refPath == "" || candPath == "" {
			return comparerr.New(comparerr.Validation, "reference_path and candidate_path are required").MCP(), nil
		}

		// Comparison-slot acquisition is already enforced by runtime.Middleware
		// wrapping every tool call; this handler only needs the loaded tables.
		ref, err := tblMgr.GetOrLoad(table.Reference, refPath)
		if err != nil {
			return comparerr.Wrap(comparerr.MalformedInput, fmt.Errorf("reference: %w", err)).MCP(), nil
		}
		cand, err := tblMgr.GetOrLoad(table.Candidate, candPath)
		if err != nil {
			return comparerr.Wrap(comparerr.MalformedInput, fmt.Errorf("candidate: %w", err)).MCP(), nil
		}

		cfg := compare.DefaultConfig()
		if in.SampleSizeMapping > 0 {
			cfg.SampleSizeMapping = in.SampleSizeMapping
		}
		if in.Weights != nil {
			cfg.Weights = in.Weights
		}

		report, err := compare.Compare(ctx, ref, cand, cfg, logger)
		if err != nil {
			if cerr, ok := err.(*comparerr.Error); ok {
				return cerr.MCP(), nil
			}
			return comparerr.Wrap(comparerr.InternalError, err).MCP(), nil
		}

		if hooks != nil {
			hooks.LogResourceUsage(report.ComparisonID, len(ref.Rows), len(ref.Headers), len(cand.Rows), len(cand.Headers))
		}

		summary := fmt.Sprintf(
			"status=%s dataset_similarity=%.6f overall_score=%.6f matched_rows=%d",
			report.Status, report.Scores.DatasetSimilarityEqualWeighted, report.Scores.OverallScoreWithCoverage, report.RowAlignment.MatchedRows,
		)
		res := mcp.NewToolResultStructured(report, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return res, nil
	}))
	reg.Register(tool)
}
