package commands

import (
	"fmt"
	"net"
	"os/exec"
	"runtime"

	"github.com/leapstack-labs/leapquery/internal/cli/config"
	"github.com/leapstack-labs/leapquery/internal/ui"
	"github.com/spf13/cobra"
)

// UIOptions holds options for the ui command.
type UIOptions struct {
	Port  int
	Open  bool
	Watch bool
}

// NewUICommand creates the ui command.
func NewUICommand() *cobra.Command {
	opts := &UIOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the query builder web UI",
		Long: `Start a local web server with the query builder and the explorer.

The UI provides:
- Query builder: table, columns, one WHERE condition and a row limit
- Shortcuts from leapquery.yaml, reloaded when the file changes
- Explorer: free-form query cards with contains and range filters
- CSV download of every result
- Query history at /history
- Prometheus metrics at /metrics`,
		Example: `  # Start UI on default port
  leapquery ui

  # Start on custom port
  leapquery ui --port 3000

  # Start without auto-opening browser
  leapquery ui --open=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd)
		},
	}

	// Only explicitly set flags override leapquery.yaml.
	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.Open, "open", true, "Open the browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Reload shortcuts when leapquery.yaml changes")

	return cmd
}

func runUI(cmd *cobra.Command) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	catalog, err := cc.Cfg.Catalog()
	if err != nil {
		return err
	}

	uiCfg := ui.Config{
		Runner:            cc.Runner,
		Schema:            cc.Schema,
		Catalog:           catalog,
		Explorer:          cc.Cfg.Explorer,
		MaxFilters:        cc.Cfg.UI.MaxFilters,
		Port:              cc.Cfg.UI.Port,
		Watch:             cc.Cfg.UI.Watch,
		ConfigPath:        config.GetConfigFileUsed(),
		SessionSecret:     cc.Cfg.UI.SessionSecret,
		MaxSessions:       cc.Cfg.UI.MaxSessions,
		SessionTTL:        cc.Cfg.UI.SessionTTL,
		Gatherer:          cc.Registry,
		RequestsPerMinute: cc.Cfg.UI.RateLimit,
		Logger:            cc.Logger,
	}
	if cc.History != nil {
		uiCfg.History = cc.History
	}
	server := ui.NewServer(uiCfg)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cc.Cfg.UI.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", cc.Cfg.UI.Port, err)
	}

	url := ui.URL(ln.Addr())
	if cc.Cfg.UI.AutoOpen {
		go openBrowser(url)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Starting UI server on %s\n", url)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	return server.ServeListener(cmd.Context(), ln)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
