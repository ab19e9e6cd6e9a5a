package worker

import (
	"context"

	"go.uber.org/fx"

	"wispgate/internal/ai"
	"wispgate/internal/crm"
	"wispgate/internal/workflow"
	"wispgate/pkg/logger"
	"wispgate/pkg/queue"
)

var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(Start),
)

type Params struct {
	fx.In

	Logger      logger.Logger
	Consumer    queue.Consumer
	CRMService  crm.Service
	AIService   ai.Service
	WorkflowSvc workflow.Service
}

// Processor consumes queued jobs and dispatches them by type.
type Processor struct {
	logger      logger.Logger
	consumer    queue.Consumer
	crmService  crm.Service
	aiService   ai.Service
	workflowSvc workflow.Service
}

func New(p Params) *Processor {
	return &Processor{
		logger:      p.Logger,
		consumer:    p.Consumer,
		crmService:  p.CRMService,
		aiService:   p.AIService,
		workflowSvc: p.WorkflowSvc,
	}
}

// Start ties the consumer loop to the fx lifecycle: one goroutine that
// lives until shutdown cancels its context.
func Start(lc fx.Lifecycle, p *Processor) {
	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.logger.Info(ctx, "Starting worker")
			go p.consumer.Run(runCtx, p.Process)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.logger.Info(ctx, "Worker stopped")
			cancel()
			return nil
		},
	})
}
