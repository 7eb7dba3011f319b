package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/leapquery/internal/export"
	"github.com/leapstack-labs/leapquery/internal/history"
	"github.com/leapstack-labs/leapquery/internal/metrics"
	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/spf13/cobra"
)

const (
	replPrompt     = "leapquery> "
	replContPrompt = "      ...> "
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive SQL shell",
		Long: `Start an interactive SQL shell against the configured target.

Statements end with a semicolon and may span several lines. Table names
complete with Tab. Type .help for the available dot-commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd)
		},
	}
}

func runREPL(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	format, err := resolveFormat(cc.Cfg.OutputFormat, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	sess := &replSession{
		cc:     cc,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		format: format,
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     filepath.Join(filepath.Dir(cc.Cfg.History.Path), "repl_history"),
		AutoComplete:    sess.completer(ctx),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(sess.out, "LeapQuery REPL (%s target)\n", cc.Cfg.Target.Type)
	_, _ = fmt.Fprintln(sess.out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(sess.out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			sess.reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}

		quit := sess.handle(ctx, line)
		if quit {
			return nil
		}
		rl.SetPrompt(sess.prompt())
	}
}

// replSession is the state of one REPL: the statement being typed and the
// output format.
type replSession struct {
	cc     *CommandContext
	out    io.Writer
	errOut io.Writer
	format export.Format
	buf    strings.Builder
}

func (s *replSession) prompt() string {
	if s.buf.Len() > 0 {
		return replContPrompt
	}
	return replPrompt
}

func (s *replSession) reset() {
	s.buf.Reset()
}

// handle processes one input line and reports whether the REPL should exit.
func (s *replSession) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if s.buf.Len() == 0 && strings.HasPrefix(line, ".") {
		return s.dotCommand(ctx, line)
	}

	s.buf.WriteString(line)
	if !strings.HasSuffix(line, ";") {
		s.buf.WriteString(" ")
		return false
	}

	stmt := s.buf.String()
	s.buf.Reset()
	s.execute(ctx, stmt)
	return false
}

func (s *replSession) execute(ctx context.Context, stmt string) {
	res, err := s.cc.Runner.Run(ctx, metrics.SourceCLI, stmt)
	if err != nil {
		s.errorf("%v", err)
		return
	}
	s.write(res)
	_, _ = fmt.Fprintln(s.out)
}

func (s *replSession) dotCommand(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.out)

	case ".tables":
		tables, err := s.cc.Schema.Tables(ctx)
		if err != nil {
			s.errorf("%v", err)
			return false
		}
		s.write(listResult("table", tables))

	case ".columns":
		if len(parts) < 2 {
			s.errorf("usage: .columns <table>")
			return false
		}
		columns, err := s.cc.Schema.Columns(ctx, parts[1])
		if err != nil {
			s.errorf("%v", err)
			return false
		}
		s.write(listResult("column", columns))

	case ".describe":
		if len(parts) < 2 {
			s.errorf("usage: .describe <table>")
			return false
		}
		columns, err := s.cc.Adapter.DescribeColumns(ctx, parts[1])
		if err != nil {
			s.errorf("%v", err)
			return false
		}
		s.write(describeResult(columns))

	case ".history":
		limit := 10
		if len(parts) > 1 {
			n, err := strconv.Atoi(parts[1])
			if err != nil || n < 1 {
				s.errorf("usage: .history [n]")
				return false
			}
			limit = n
		}
		if s.cc.History == nil {
			s.errorf("query history is disabled")
			return false
		}
		entries, err := s.cc.History.List(ctx, history.Filter{Limit: limit})
		if err != nil {
			s.errorf("%v", err)
			return false
		}
		s.write(historyResult(entries))

	case ".format":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(s.out, "format: %s\n", s.format)
			return false
		}
		f, err := export.ParseFormat(parts[1])
		if err != nil {
			s.errorf("%v", err)
			return false
		}
		s.format = f

	case ".clear":
		_, _ = fmt.Fprint(s.out, "\033[H\033[2J")

	default:
		s.errorf("unknown command: %s (type .help for commands)", parts[0])
	}
	return false
}

func (s *replSession) write(res *core.Result) {
	if err := export.Write(s.out, res, s.format); err != nil {
		s.errorf("%v", err)
	}
}

func (s *replSession) errorf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.errOut, "Error: "+format+"\n", args...)
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help             Show this help message
  .tables           List tables
  .columns <table>  List the columns of a table
  .describe <table> Show the type and nullability of each column
  .history [n]      Show the last n executed statements (default 10)
  .format [name]    Show or set the output format (table, json, csv, md)
  .clear            Clear the screen
  .quit / .exit     Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for table names
`
	_, _ = fmt.Fprintln(w, help)
}

// completer completes dot-commands and table names.
func (s *replSession) completer(ctx context.Context) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface

	// Completion is best effort; a failing lookup only leaves it out.
	tables, _ := s.cc.Schema.Tables(ctx)
	tableItems := make([]readline.PrefixCompleterInterface, len(tables))
	for i, t := range tables {
		tableItems[i] = readline.PcItem(t)
		items = append(items, readline.PcItem(t))
	}

	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".columns", tableItems...),
		readline.PcItem(".describe", tableItems...),
		readline.PcItem(".history"),
		readline.PcItem(".format",
			readline.PcItem("table"), readline.PcItem("json"),
			readline.PcItem("csv"), readline.PcItem("md")),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
	return readline.NewPrefixCompleter(items...)
}
