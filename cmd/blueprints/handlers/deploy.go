// Package handlers implements the business logic for CLI commands.
//
// Handlers are called by the command definitions in the commands package.
// Collaborators are reached through package variables so tests can replace
// them.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/blueprints/internal/blueprint"
	"github.com/imamik/blueprints/internal/compose"
	"github.com/imamik/blueprints/internal/config"
	"github.com/imamik/blueprints/internal/platform/s3"
	"github.com/imamik/blueprints/internal/provisioning"
)

// DefaultConfigFile is used when no --config flag is given.
const DefaultConfigFile = "blueprint.yaml"

// ErrAborted is returned when the user declines the deployment.
var ErrAborted = errors.New("deployment aborted")

// DeployOptions are the inputs of Deploy.
type DeployOptions struct {
	ConfigPath  string
	Context     map[string]string
	Yes         bool
	MetricsFile string
	Debug       bool
	Out         io.Writer
}

// summaryExporter uploads deployment summaries.
type summaryExporter interface {
	Key(blueprintID, deploymentID string, at time.Time) string
	ExportJSON(ctx context.Context, key string, v any) error
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	loadConfigFile = config.LoadFile

	loadTimeouts = config.LoadTimeouts

	composeBlueprint = compose.Build

	deployBlueprint = provisioning.Deploy

	newExporter = func(ctx context.Context, c *config.S3ExportConfig) (summaryExporter, error) {
		client, err := s3.NewClient(ctx, s3.Options{
			Endpoint:  c.Endpoint,
			Region:    c.Region,
			PathStyle: c.PathStyle,
		})
		if err != nil {
			return nil, err
		}
		return &s3.Exporter{Client: client, Bucket: c.Bucket, Prefix: c.Prefix, CreateBucket: c.CreateBucket}, nil
	}

	newRegistry = prometheus.NewRegistry

	newDeploymentID = uuid.NewString

	now = time.Now

	confirm = confirmDeploy

	isInteractive = isInteractiveTTY
)

// Deploy provisions the blueprint described by the file at opts.ConfigPath.
//
//  1. Loads and validates the blueprint file
//  2. Composes add-ons, teams, cluster provider and network resolver
//  3. Asks for confirmation on a terminal unless opts.Yes is set
//  4. Runs the provisioning pipeline bounded by the deploy timeout
//  5. Prints the summary, writes metrics and exports the summary to S3
//
// The summary is printed and exported for failed deployments too.
func Deploy(ctx context.Context, opts DeployOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	logger := newLogger(opts.Debug)
	ctx = log.IntoContext(ctx, logger)

	cfg, err := loadConfigFile(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load blueprint: %w", err)
	}

	timeouts := loadTimeouts()
	composed, err := composeBlueprint(ctx, cfg, opts.Context, compose.WithTimeouts(timeouts))
	if err != nil {
		return fmt.Errorf("failed to compose blueprint: %w", err)
	}

	if !opts.Yes && isInteractive() {
		ok, err := confirm(ctx, composed.Config)
		if err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			return ErrAborted
		}
	}

	registry := newRegistry()
	deployOpts := []provisioning.Option{
		provisioning.WithObserver(provisioning.NewLogObserver(logger)),
		provisioning.WithMetrics(provisioning.NewMetrics(registry)),
	}
	if composed.Resolver != nil {
		deployOpts = append(deployOpts, provisioning.WithNetworkResolver(composed.Resolver))
	}

	deploymentID := newDeploymentID()
	logger.Info("deploying blueprint", "blueprint", cfg.ID, "deployment", deploymentID)

	deployCtx, cancel := context.WithTimeout(ctx, timeouts.Deploy)
	defer cancel()

	started := now()
	info, deployErr := deployBlueprint(deployCtx, composed.Scope, composed.Config, deployOpts...)
	summary := provisioning.NewSummary(deploymentID, composed.Config, info, deployErr, started, now())

	fmt.Fprint(out, renderSummary(summary))

	var errs []error
	if deployErr != nil {
		errs = append(errs, fmt.Errorf("deployment %s failed: %w", deploymentID, deployErr))
	}
	if opts.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.MetricsFile, registry); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics: %w", err))
		}
	}
	if cfg.Export.S3 != nil {
		if err := exportSummary(ctx, cfg.Export.S3, summary); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func exportSummary(ctx context.Context, c *config.S3ExportConfig, summary *provisioning.Summary) error {
	exporter, err := newExporter(ctx, c)
	if err != nil {
		return fmt.Errorf("failed to create summary exporter: %w", err)
	}
	key := exporter.Key(summary.BlueprintID, summary.DeploymentID, summary.StartedAt)
	if err := exporter.ExportJSON(ctx, key, summary); err != nil {
		return fmt.Errorf("failed to export summary: %w", err)
	}
	log.FromContext(ctx).Info("summary exported", "bucket", c.Bucket, "key", key)
	return nil
}

var _ summaryExporter = (*s3.Exporter)(nil)

// describe is the one-line description shown in the confirmation prompt.
func describe(cfg *blueprint.Config) string {
	return fmt.Sprintf("%d add-ons, %d teams", len(cfg.AddOns), len(cfg.Teams))
}
