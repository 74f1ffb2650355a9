package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/migdam/graphs/internal/models"
	"github.com/migdam/graphs/internal/service"
	"github.com/migdam/graphs/internal/state"
)

// Options tunes one analysis call.
type Options struct {
	// Preference overrides the autonomous visualization choice when it
	// names a type present in the ranking.
	Preference string

	// Timeout is the per-dataset time budget. Zero uses the service
	// default; exceeding it yields a partial report marked truncated.
	Timeout time.Duration
}

// ServiceOptions configures the analysis service.
type ServiceOptions struct {
	Workers               int
	MaxCorrelationColumns int
	DefaultTimeout        time.Duration
}

// Decision is the selector output handed to a rendering collaborator.
type Decision struct {
	VizType    string                `json:"viz_type"`
	Confidence float64               `json:"confidence"`
	Candidates []models.VizCandidate `json:"candidates"`
	Axes       models.AxisSuggestion `json:"axes"`
	Profile    *models.DataProfile   `json:"profile"`
}

// Result is the output of one full analysis pass.
type Result struct {
	VizType    string                  `json:"viz_type"`
	Confidence float64                 `json:"confidence"`
	Profile    *models.DataProfile     `json:"profile"`
	Report     *models.AnalyticsReport `json:"report"`
}

// BatchResult is one dataset's outcome in a batch run.
type BatchResult struct {
	JobID   string  `json:"job_id"`
	Dataset string  `json:"dataset"`
	Result  *Result `json:"result,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// Service orchestrates the full pipeline: profile, visualization decision,
// concurrent analytics modules, aggregation and report assembly.
type Service struct {
	profiler *service.DataProfiler
	selector *service.VisualizationSelector
	runner   *service.ModuleRunner
	builder  *service.ReportBuilder

	workers        int
	defaultTimeout time.Duration
	logger         *zap.Logger
}

// NewService wires the pipeline components.
func NewService(logger *zap.Logger, opts ServiceOptions) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	selector := service.NewVisualizationSelector(logger)
	return &Service{
		profiler:       service.NewDataProfiler(selector, opts.MaxCorrelationColumns),
		selector:       selector,
		runner:         service.NewModuleRunner(logger),
		builder:        service.NewReportBuilder(),
		workers:        opts.Workers,
		defaultTimeout: opts.DefaultTimeout,
		logger:         logger,
	}
}

// Profile classifies a dataset and returns its profile.
func (s *Service) Profile(ds *state.Dataset) (*models.DataProfile, error) {
	return s.profiler.Build(ds)
}

// Decide profiles the dataset and returns the chosen visualization type,
// the full ranking and the implied axis columns.
func (s *Service) Decide(ds *state.Dataset, preference string) (*Decision, error) {
	profile, err := s.profiler.Build(ds)
	if err != nil {
		return nil, err
	}
	vizType, confidence := s.selector.Decide(profile, preference)

	candidates := make([]models.VizCandidate, len(profile.SuggestedVisualizations))
	for i, t := range profile.SuggestedVisualizations {
		candidates[i] = models.VizCandidate{Type: t, Confidence: profile.ConfidenceScores[t]}
	}

	return &Decision{
		VizType:    vizType,
		Confidence: confidence,
		Candidates: candidates,
		Axes:       s.selector.SuggestAxes(profile, vizType),
		Profile:    profile,
	}, nil
}

// Analyze runs the full pipeline for one dataset. Only a structurally
// invalid dataset fails; module errors degrade to fewer insights and an
// exceeded time budget yields a truncated report.
func (s *Service) Analyze(ctx context.Context, ds *state.Dataset, opts Options) (*Result, error) {
	profile, err := s.profiler.Build(ds)
	if err != nil {
		return nil, err
	}
	vizType, confidence := s.selector.Decide(profile, opts.Preference)

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = s.defaultTimeout
	}
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	insights, truncated := s.runner.Run(runCtx, ds, profile, vizType)
	report := s.builder.Build(ds, profile, vizType, insights, truncated)

	s.logger.Debug("analysis complete",
		zap.String("dataset", ds.Name),
		zap.String("viz_type", vizType),
		zap.Int("insights", len(report.Insights)),
		zap.Bool("truncated", truncated))

	return &Result{
		VizType:    vizType,
		Confidence: confidence,
		Profile:    profile,
		Report:     report,
	}, nil
}

// AnalyzeBatch analyzes every dataset over a fixed worker pool. One
// dataset's failure never cancels the others; results are best-effort and
// returned in input order.
func (s *Service) AnalyzeBatch(ctx context.Context, datasets []*state.Dataset, opts Options) []BatchResult {
	results := make([]BatchResult, len(datasets))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				ds := datasets[i]
				br := BatchResult{JobID: uuid.NewString(), Dataset: ds.Name}
				result, err := s.Analyze(ctx, ds, opts)
				if err != nil {
					br.Error = err.Error()
					s.logger.Warn("batch job failed",
						zap.String("job_id", br.JobID),
						zap.String("dataset", ds.Name),
						zap.Error(err))
				} else {
					br.Result = result
				}
				results[i] = br
			}
		}()
	}
	for i := range datasets {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
