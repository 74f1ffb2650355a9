package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/migdam/graphs/internal/models"
	"github.com/migdam/graphs/internal/state"
)

// AnalyticsModule is one independent, side-effect-free analysis pass over a
// dataset and its profile.
type AnalyticsModule interface {
	Name() string
	Analyze(ds *state.Dataset, profile *models.DataProfile) []models.Insight
}

// ModuleRunner executes analytics modules fork-join style. A panic inside
// one module is recovered and logged; the module then contributes nothing
// and the remaining modules are unaffected.
type ModuleRunner struct {
	modules []AnalyticsModule
	logger  *zap.Logger
}

// NewModuleRunner registers the standard six modules.
func NewModuleRunner(logger *zap.Logger) *ModuleRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModuleRunner{
		modules: []AnalyticsModule{
			NewStatisticalAnalyzer(),
			NewPatternAnalyzer(),
			NewTrendAnalyzer(),
			NewAnomalyAnalyzer(),
			NewRelationshipAnalyzer(),
			NewNetworkAnalyzer(),
		},
		logger: logger,
	}
}

// NewModuleRunnerWith builds a runner over an explicit module list. Used by
// tests and callers that need a reduced set.
func NewModuleRunnerWith(logger *zap.Logger, modules ...AnalyticsModule) *ModuleRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModuleRunner{modules: modules, logger: logger}
}

// Run executes the applicable modules concurrently and returns the merged,
// unaggregated insights. The second return value reports whether the
// context expired before every module finished; the insights collected up
// to that point are still returned.
func (r *ModuleRunner) Run(ctx context.Context, ds *state.Dataset, profile *models.DataProfile, vizType string) ([]models.Insight, bool) {
	active := r.activeModules(profile, vizType)
	if len(active) == 0 {
		return []models.Insight{}, false
	}

	results := make(chan []models.Insight, len(active))
	var wg sync.WaitGroup
	for _, mod := range active {
		wg.Add(1)
		go func(m AnalyticsModule) {
			defer wg.Done()
			results <- r.runModule(m, ds, profile)
		}(mod)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	insights := []models.Insight{}
	pending := len(active)
	for pending > 0 {
		select {
		case batch, ok := <-results:
			if !ok {
				return insights, false
			}
			insights = append(insights, batch...)
			pending--
		case <-ctx.Done():
			r.logger.Warn("analysis time budget exceeded, returning partial insights",
				zap.Int("modules_pending", pending))
			return insights, true
		}
	}
	return insights, false
}

// activeModules gates the network module: it only runs when the profile
// indicates network structure or the chosen type is network.
func (r *ModuleRunner) activeModules(profile *models.DataProfile, vizType string) []AnalyticsModule {
	active := make([]AnalyticsModule, 0, len(r.modules))
	for _, mod := range r.modules {
		if mod.Name() == "network" && !profile.HasNetworkStructure && vizType != VizNetwork {
			continue
		}
		active = append(active, mod)
	}
	return active
}

func (r *ModuleRunner) runModule(m AnalyticsModule, ds *state.Dataset, profile *models.DataProfile) (insights []models.Insight) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("analytics module failed, dropping its contribution",
				zap.String("module", m.Name()),
				zap.Any("panic", rec))
			insights = nil
		}
	}()
	return m.Analyze(ds, profile)
}
