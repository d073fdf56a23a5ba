package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/extest/tablesim/config"
	"github.com/extest/tablesim/internal/compare"
	"github.com/extest/tablesim/internal/runtime"
	"github.com/extest/tablesim/internal/security"
	"github.com/extest/tablesim/internal/table"
	"github.com/extest/tablesim/pkg/comparerr"
	"github.com/extest/tablesim/pkg/validation"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var (
		referencePath     string
		candidatePath     string
		candidatesGlob    string
		outputJSONPath    string
		sampleSizeMapping int
		pretty            bool
		summary           bool
	)

	flag.StringVar(&referencePath, "reference", "", "Path to the reference CSV file")
	flag.StringVar(&candidatePath, "candidate", "", "Path to the candidate CSV file")
	flag.StringVar(&candidatesGlob, "candidates-glob", "", "Glob of candidate CSV files to batch-compare against --reference (mutually exclusive with --candidate)")
	flag.StringVar(&outputJSONPath, "output-json", "", "Write the report JSON here instead of stdout")
	flag.IntVar(&sampleSizeMapping, "sample-size-mapping", 0, "Row-pair sample size used by the column mapper's content-similarity term (0 defers to config file / default)")
	flag.BoolVar(&pretty, "pretty", false, "Indent the emitted JSON")
	flag.BoolVar(&summary, "summary", false, "Also print a human-readable summary line to stderr")
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		zlog.Debug().Msg("loaded .env file from cwd")
	}

	logger := zlog.With().Str("service", "comparecsv").Logger()

	if referencePath == "" {
		fmt.Fprintln(os.Stderr, "VALIDATION: --reference is required")
		os.Exit(2)
	}
	if candidatePath == "" && candidatesGlob == "" {
		fmt.Fprintln(os.Stderr, "VALIDATION: one of --candidate or --candidates-glob is required")
		os.Exit(2)
	}
	if candidatePath != "" && candidatesGlob != "" {
		fmt.Fprintln(os.Stderr, "VALIDATION: --candidate and --candidates-glob are mutually exclusive")
		os.Exit(2)
	}

	secMgr, err := security.NewManagerFromEnv()
	if err != nil {
		logger.Error().Err(err).Msg("security: failed to initialize manager from env")
		fmt.Fprintln(os.Stderr, "invalid security configuration; set TABLESIM_ALLOWED_DIRS")
		os.Exit(1)
	}

	fileOverrides, err := config.LoadFile(config.SearchPaths("tablesim"))
	if err != nil {
		writeErr(comparerr.Wrap(comparerr.Validation, err))
	}
	if msg := validation.ValidateStruct(fileOverrides); msg != "" {
		writeErr(comparerr.New(comparerr.Validation, msg))
	}

	cfg := compare.DefaultConfig()
	if fileOverrides.SampleSizeMapping > 0 {
		cfg.SampleSizeMapping = fileOverrides.SampleSizeMapping
	}
	if fileOverrides.Weights != nil {
		cfg.Weights = fileOverrides.Weights
	}
	if sampleSizeMapping > 0 {
		cfg.SampleSizeMapping = sampleSizeMapping
	}

	refCanonical, err := secMgr.ValidateOpenPath(referencePath)
	if err != nil {
		writeErr(comparerr.Wrap(comparerr.PermissionDenied, err))
	}
	ref, err := table.LoadCSV(table.Reference, refCanonical)
	if err != nil {
		writeErr(comparerr.Wrap(comparerr.MalformedInput, err))
	}

	var candidatePaths []string
	if candidatesGlob != "" {
		matches, err := doublestar.FilepathGlob(candidatesGlob)
		if err != nil {
			writeErr(comparerr.Wrap(comparerr.Validation, err))
		}
		if len(matches) == 0 {
			writeErr(comparerr.New(comparerr.Validation, fmt.Sprintf("no files matched glob %q", candidatesGlob)))
		}
		sort.Strings(matches)
		candidatePaths = matches
	} else {
		candidatePaths = []string{candidatePath}
	}

	limits := runtime.NewLimits(0, 0)
	ctrl := runtime.NewController(limits)

	reports := make([]compare.Report, len(candidatePaths))
	errs := make([]error, len(candidatePaths))

	runErr := ctrl.Parallel(context.Background(), len(candidatePaths), func(i int) {
		candCanonical, err := secMgr.ValidateOpenPath(candidatePaths[i])
		if err != nil {
			errs[i] = comparerr.Wrap(comparerr.PermissionDenied, err)
			return
		}
		cand, err := table.LoadCSV(table.Candidate, candCanonical)
		if err != nil {
			errs[i] = comparerr.Wrap(comparerr.MalformedInput, err)
			return
		}
		report, err := compare.Compare(context.Background(), ref, cand, cfg, logger)
		if err != nil {
			errs[i] = err
			return
		}
		reports[i] = report
	})
	if runErr != nil {
		writeErr(comparerr.Wrap(comparerr.InternalError, runErr))
	}

	exitCode := 0
	var out any = reports[0]
	if len(candidatePaths) > 1 {
		batch := make(map[string]any, len(candidatePaths))
		for i, p := range candidatePaths {
			key := filepath.Base(p)
			if errs[i] != nil {
				batch[key] = map[string]string{"error": errs[i].Error()}
				exitCode = 1
				continue
			}
			batch[key] = reports[i]
			if summary {
				printSummary(p, reports[i])
			}
		}
		out = batch
	} else {
		if errs[0] != nil {
			writeErr(errs[0])
		}
		if summary {
			printSummary(candidatePaths[0], reports[0])
		}
	}

	data, err := marshalOutput(out, pretty)
	if err != nil {
		writeErr(comparerr.Wrap(comparerr.InternalError, err))
	}

	if outputJSONPath != "" {
		if err := os.WriteFile(outputJSONPath, data, 0o644); err != nil {
			writeErr(comparerr.Wrap(comparerr.InternalError, err))
		}
	} else {
		fmt.Println(string(data))
	}

	os.Exit(exitCode)
}

func marshalOutput(v any, pretty bool) ([]byte, error) {
	if report, ok := v.(compare.Report); ok {
		return report.Render(pretty)
	}
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

func printSummary(path string, r compare.Report) {
	fmt.Fprintf(os.Stderr,
		"%s: status=%s dataset_similarity=%.6f overall_score=%.6f coverage_reference=%.6f coverage_candidate=%.6f\n",
		filepath.Base(path), r.Status, r.Scores.DatasetSimilarityEqualWeighted, r.Scores.OverallScoreWithCoverage,
		r.RowAlignment.CoverageReference, r.RowAlignment.CoverageCandidate,
	)
}

func writeErr(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}
