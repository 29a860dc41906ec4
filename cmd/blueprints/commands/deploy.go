package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/blueprints/cmd/blueprints/handlers"
)

// Deploy returns the command that provisions a blueprint.
//
// Optional flags:
//
//	--config, -c: Path to the blueprint file (default: blueprint.yaml)
//	--context: Scope context values, e.g. --context vpc=default
//	--yes, -y: Skip the confirmation prompt
//	--metrics-file: Write provisioning metrics in Prometheus text format
//	--debug: Verbose development logging
func Deploy() *cobra.Command {
	opts := handlers.DeployOptions{}

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy a blueprint",
		Long: `Deploy a cluster blueprint.

The network is resolved first, then the cluster is attached, add-ons are
deployed concurrently, teams are set up in order and post-deploy hooks run
last. A summary of the deployment is printed and optionally exported to S3.

Examples:
  # Deploy blueprint.yaml from the current directory
  blueprints deploy

  # Use the account's default network and skip the prompt
  blueprints deploy -c prod.yaml --context vpc=default --yes

  # Add users to a team at deploy time
  blueprints deploy --context team-burnham.users=alice,bob`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Out = cmd.OutOrStdout()
			return handlers.Deploy(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", handlers.DefaultConfigFile, "Path to the blueprint file")
	cmd.Flags().StringToStringVar(&opts.Context, "context", nil, "Scope context values (key=value)")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Deploy without asking for confirmation")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write metrics to this file in Prometheus text format")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "Enable debug logging")

	return cmd
}
