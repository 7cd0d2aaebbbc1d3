package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"creditfeatures/internal/aggregate"
	"creditfeatures/internal/config"
	"creditfeatures/internal/dataset"
	"creditfeatures/internal/exporter"
	"creditfeatures/internal/features"
	"creditfeatures/internal/loader"
)

// Split names used for table naming and logging.
const (
	SplitTrain = "train"
	SplitTest  = "test"
)

// TargetColumn carries the default label; present on the training split only.
const TargetColumn = "TARGET"

// Result holds the outputs of a pipeline run: the two final feature tables
// and the three shared aggregate tables.
type Result struct {
	Train        *dataset.Table
	Test         *dataset.Table
	Bureau       *dataset.Table
	Previous     *dataset.Table
	Installments *dataset.Table
}

// Pipeline sequences the fixed transform: load both applicant splits, derive
// applicant features, aggregate the three supplementary tables, left-join the
// aggregates onto each split, and emit the results.
type Pipeline struct {
	cfg     *config.Config
	logger  *slog.Logger
	writer  *exporter.CSVWriter
	deriver *features.Deriver
	stages  []*StageState
}

// New creates a pipeline for the given configuration.
func New(cfg *config.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:     cfg,
		logger:  logger,
		writer:  exporter.NewCSVWriter(),
		deriver: features.NewDeriver(logger),
		stages: []*StageState{
			NewStageState(StageLoad),
			NewStageState(StageDerive),
			NewStageState(StageAggregate),
			NewStageState(StageJoin),
			NewStageState(StageEmit),
		},
	}
}

// Stages returns the stage states of the last (or current) run.
func (p *Pipeline) Stages() []*StageState {
	return p.stages
}

// Run executes all five stages. Any stage failure aborts the run; output
// files are written only in the final stage, after every in-memory transform
// has succeeded for both splits.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	steps := []struct {
		state *StageState
		run   func(context.Context, *Result) error
	}{
		{p.stage(StageLoad), p.runLoad},
		{p.stage(StageDerive), p.runDerive},
		{p.stage(StageAggregate), p.runAggregate},
		{p.stage(StageJoin), p.runJoin},
		{p.stage(StageEmit), p.runEmit},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			step.state.Fail(err)
			return nil, fmt.Errorf("stage %s: %w", step.state.Name, err)
		}

		step.state.Start()
		p.logger.InfoContext(ctx, "pipeline stage started", slog.String("stage", step.state.Name))

		if err := step.run(ctx, result); err != nil {
			step.state.Fail(err)
			p.logger.ErrorContext(ctx, "pipeline stage failed",
				slog.String("stage", step.state.Name),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("stage %s: %w", step.state.Name, err)
		}

		step.state.Complete()
		p.logger.InfoContext(ctx, "pipeline stage completed",
			slog.String("stage", step.state.Name),
			slog.Duration("duration", step.state.Duration()))
	}

	return result, nil
}

func (p *Pipeline) stage(name string) *StageState {
	for _, s := range p.stages {
		if s.Name == name {
			return s
		}
	}
	return NewStageState(name)
}

// runLoad reads both applicant splits and checks their invariants.
func (p *Pipeline) runLoad(ctx context.Context, result *Result) error {
	train, err := loader.ReadTable(p.cfg.InputPath(p.cfg.Data.TrainFile), SplitTrain)
	if err != nil {
		return err
	}
	if err := validateSplit(train, true); err != nil {
		return err
	}

	test, err := loader.ReadTable(p.cfg.InputPath(p.cfg.Data.TestFile), SplitTest)
	if err != nil {
		return err
	}
	if err := validateSplit(test, false); err != nil {
		return err
	}

	result.Train = train
	result.Test = test
	return nil
}

// runDerive applies the applicant feature derivation to both splits. The
// splits share no state, so they run concurrently.
func (p *Pipeline) runDerive(ctx context.Context, result *Result) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.deriver.Derive(gctx, result.Train) })
	g.Go(func() error { return p.deriver.Derive(gctx, result.Test) })
	return g.Wait()
}

// runAggregate loads and reduces each supplementary table inside its own
// scope, so the raw transaction rows are released before the next table is
// loaded. Only the one-row-per-applicant aggregates survive the stage.
func (p *Pipeline) runAggregate(ctx context.Context, result *Result) error {
	var err error

	result.Bureau, err = func() (*dataset.Table, error) {
		records, err := loader.LoadBureau(p.cfg.InputPath(p.cfg.Data.BureauFile))
		if err != nil {
			return nil, err
		}
		return aggregate.NewBureauAggregator(p.logger).Aggregate(ctx, records)
	}()
	if err != nil {
		return err
	}

	result.Previous, err = func() (*dataset.Table, error) {
		records, err := loader.LoadPrevious(p.cfg.InputPath(p.cfg.Data.PreviousFile))
		if err != nil {
			return nil, err
		}
		return aggregate.NewPreviousAggregator(p.logger).Aggregate(ctx, records)
	}()
	if err != nil {
		return err
	}

	result.Installments, err = func() (*dataset.Table, error) {
		records, err := loader.LoadInstallments(p.cfg.InputPath(p.cfg.Data.InstallmentsFile))
		if err != nil {
			return nil, err
		}
		return aggregate.NewInstallmentAggregator(p.logger).Aggregate(ctx, records)
	}()
	return err
}

// runJoin left-joins each split against the three aggregate tables in the
// fixed order bureau, previous, installments. The aggregate tables are shared
// read-only between the two splits.
func (p *Pipeline) runJoin(ctx context.Context, result *Result) error {
	join := func(t *dataset.Table) (*dataset.Table, error) {
		for _, agg := range []*dataset.Table{result.Bureau, result.Previous, result.Installments} {
			var err error
			if t, err = dataset.LeftJoin(t, agg); err != nil {
				return nil, err
			}
		}
		return t, nil
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		joined, err := join(result.Train)
		if err == nil {
			result.Train = joined
		}
		return err
	})
	g.Go(func() error {
		joined, err := join(result.Test)
		if err == nil {
			result.Test = joined
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "joined aggregate features",
		slog.Int("train_columns", result.Train.NumCols()),
		slog.Int("test_columns", result.Test.NumCols()))
	return nil
}

// runEmit persists the final tables. Nothing is written when persistence is
// disabled; the caller still receives the in-memory result.
func (p *Pipeline) runEmit(ctx context.Context, result *Result) error {
	if !p.cfg.Output.Persist {
		p.logger.InfoContext(ctx, "persistence disabled, skipping output")
		return nil
	}

	type output struct {
		file  string
		table *dataset.Table
	}
	outputs := []output{
		{p.cfg.Output.TrainFile, result.Train},
		{p.cfg.Output.TestFile, result.Test},
	}
	if p.cfg.Output.WriteAggregates {
		outputs = append(outputs,
			output{result.Bureau.Name() + ".csv", result.Bureau},
			output{result.Previous.Name() + ".csv", result.Previous},
			output{result.Installments.Name() + ".csv", result.Installments},
		)
	}

	for _, out := range outputs {
		if err := p.writer.WriteTable(p.cfg.OutputPath(out.file), out.table); err != nil {
			return fmt.Errorf("write %s: %w", out.file, err)
		}
	}
	return nil
}
