package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	weftcmd "github.com/weftlabs/weft/pkg/cmd"
	"github.com/weftlabs/weft/pkg/editor"
	"github.com/weftlabs/weft/pkg/log"
	"github.com/weftlabs/weft/pkg/models"
	"github.com/weftlabs/weft/pkg/otelhelper"
	"github.com/weftlabs/weft/pkg/persistence"
	"github.com/weftlabs/weft/pkg/registry"
)

var errWorkflowIDRequired = errors.New("workflow id argument is required")

// setup wires the pieces every subcommand needs: logger, tracer, storage.
func setup(ctx context.Context, command *cli.Command, module string) (*session, error) {
	log.Setup(command.String("log-level"))
	logger := log.WithModule(module)

	tracer := noop.NewTracerProvider().Tracer("weft")

	if command.Bool("tracing") {
		var err error

		tracer, err = otelhelper.NewTracer(ctx, "weft")
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracer: %w", err)
		}
	}

	store, err := weftcmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize persistence: %w", err)
	}

	return &session{logger: logger, tracer: tracer, persistence: store}, nil
}

type session struct {
	logger      *slog.Logger
	tracer      trace.Tracer
	persistence persistence.Persistence
}

func (s *session) close(ctx context.Context) {
	if err := s.persistence.Close(ctx); err != nil {
		s.logger.Error("Failed to close persistence", "error", err)
	}
}

func (s *session) loadWorkflow(ctx context.Context, command *cli.Command) (*models.Workflow, error) {
	workflowID := command.Args().First()
	if workflowID == "" {
		return nil, errWorkflowIDRequired
	}

	workflow, err := s.persistence.WorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	if workflow == nil {
		return nil, fmt.Errorf("%w: %s", persistence.ErrWorkflowNotFound, workflowID)
	}

	return workflow, nil
}

func runInspect(ctx context.Context, command *cli.Command) error {
	sess, err := setup(ctx, command, "inspect")
	if err != nil {
		return err
	}
	defer sess.close(ctx)

	workflow, err := sess.loadWorkflow(ctx, command)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(workflow)
}

func runValidate(ctx context.Context, command *cli.Command) error {
	sess, err := setup(ctx, command, "validate")
	if err != nil {
		return err
	}
	defer sess.close(ctx)

	workflow, err := sess.loadWorkflow(ctx, command)
	if err != nil {
		return err
	}

	if err := persistence.ValidateWorkflow(workflow); err != nil {
		return err
	}

	reg := registry.NewRegistry(log.WithModule("registry"))

	for _, node := range workflow.Nodes {
		if _, known := reg.Get(node.Type); !known {
			// Types outside the built-in catalog are owned by external
			// registries and skipped here.
			continue
		}

		if err := reg.ValidateParameters(node.Type, node.Parameters); err != nil {
			return fmt.Errorf("node %s: %w", node.ID, err)
		}
	}

	fmt.Fprintf(os.Stdout, "workflow %s is valid (%d nodes, %d connections)\n",
		workflow.ID, len(workflow.Nodes), len(workflow.Connections))

	return nil
}

func runNormalize(ctx context.Context, command *cli.Command) error {
	sess, err := setup(ctx, command, "normalize")
	if err != nil {
		return err
	}
	defer sess.close(ctx)

	workflow, err := sess.loadWorkflow(ctx, command)
	if err != nil {
		return err
	}

	for _, conn := range workflow.Connections {
		conn.Normalize()
	}

	return sess.persistence.SaveWorkflow(ctx, workflow)
}

func runInsert(ctx context.Context, command *cli.Command) error {
	sess, err := setup(ctx, command, "insert")
	if err != nil {
		return err
	}
	defer sess.close(ctx)

	workflow, err := sess.loadWorkflow(ctx, command)
	if err != nil {
		return err
	}

	ctx, span := otelhelper.StartSpan(ctx, sess.tracer, "weft.insert",
		attribute.String(otelhelper.WorkflowIDKey, workflow.ID),
		attribute.String(otelhelper.CommandKey, "addNode"),
	)
	defer span.End()

	eventBus, err := weftcmd.NewEventBus(command.String("event-bus"), log.WithModule("eventbus"))
	if err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	defer func() {
		if err := eventBus.Close(); err != nil {
			sess.logger.Error("Failed to close event bus", "error", err)
		}
	}()

	store := editor.NewStore(workflow,
		editor.WithLogger(log.WithModule("editor")),
		editor.WithPublisher(eventBus),
	)

	node := &models.WorkflowNode{
		Type: command.String("type"),
		Name: command.String("name"),
		Position: models.Position{
			X: command.Float("x"),
			Y: command.Float("y"),
		},
	}

	var ins *editor.InsertionContext

	if command.String("source") != "" || command.String("target") != "" {
		ins = &editor.InsertionContext{
			SourceNodeID: command.String("source"),
			TargetNodeID: command.String("target"),
			SourceOutput: command.String("source-output"),
			TargetInput:  command.String("target-input"),
		}
	}

	added, err := store.AddNode(ctx, node, ins)
	if err != nil {
		otelhelper.SetError(span, err, attribute.String(otelhelper.NodeTypeKey, node.Type))

		return err
	}

	span.SetAttributes(attribute.String(otelhelper.NodeIDKey, added.ID))

	if err := sess.persistence.SaveWorkflow(ctx, store.Workflow()); err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	fmt.Fprintf(os.Stdout, "inserted node %s at (%.0f, %.0f)\n", added.ID, added.Position.X, added.Position.Y)

	return nil
}
