package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/martinemde/askhub/internal/color"
	"github.com/martinemde/askhub/internal/hubserver"
	"github.com/martinemde/askhub/internal/keybind"
	"github.com/martinemde/askhub/internal/mcpserver"
	"github.com/martinemde/askhub/internal/ui"
)

const version = "0.1.0"

func main() {
	if err := run(os.Args, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet(args[0], flag.ExitOnError)
	flags.SetOutput(stderr)

	var (
		showVersion = flags.Bool("version", false, "Show version information")
		showHelp    = flags.Bool("help", false, "Show help information")
		verbose     = flags.Bool("verbose", false, "Log debug detail")
		mcpMode     = flags.Bool("mcp", false, "Run as an MCP stdio bridge to a running hub")
		askMode     = flags.String("ask", "", "Send one question to a running hub (yesno, text, credentials, filename, download, alert)")
		title       = flags.String("title", "", "Question title for --ask")
		text        = flags.String("text", "", "Question body for --ask")
		defValue    = flags.String("default", "", "Question default for --ask")
		blocking    = flags.Bool("blocking", false, "Make --ask preempt the displayed question instead of queueing")
		socket      = flags.String("socket", "", "Unix socket path (default: a per-process path in the temp dir)")
		bindings    = flags.String("bindings", "", "YAML key-binding override file")
		logFile     = flags.String("log", "", "Write logs to this file (default: no logging)")
		colorMode   = flags.String("color", "auto", "Control color output (auto, always, never)")
	)

	if err := flags.Parse(args[1:]); err != nil {
		return err
	}

	if *showVersion {
		_, _ = fmt.Fprintf(stdout, "askhub version %s\n", version)
		return nil
	}

	if *showHelp {
		printHelp(stdout, *colorMode)
		return nil
	}

	color.ConfigureColorProfile(*colorMode)

	if *mcpMode {
		return mcpserver.Run(version)
	}

	if *askMode != "" {
		return runAsk(stdout, hubserver.Request{
			Mode:     *askMode,
			Title:    *title,
			Text:     *text,
			Default:  *defValue,
			Blocking: *blocking,
		}, *socket)
	}

	return runHub(*socket, *bindings, *logFile, *verbose)
}

// runHub starts the terminal hub: the prompt TUI plus the producer socket.
func runHub(socket, bindings, logFile string, verbose bool) error {
	logger, err := newLogger(logFile, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	keys := keybind.Default()
	if bindings != "" {
		keys, err = keybind.Load(bindings)
		if err != nil {
			return err
		}
	}

	if socket == "" {
		socket = filepath.Join(os.TempDir(), fmt.Sprintf("askhub-%d.sock", os.Getpid()))
	}

	hub := ui.New(keys, socket, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := hubserver.New(socket, hub.Arbiter(), logger)
	if err := srv.Start(ctx); err != nil {
		return err
	}
	defer srv.Stop()

	// Children we might spawn one day inherit the socket; mostly this makes
	// `askhub --ask` work without --socket from the same shell environment.
	_ = os.Setenv(hubserver.SocketEnvVar, socket)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		hub.Quit()
	}()

	return hub.Run()
}

// newLogger builds a file logger; the terminal itself belongs to the TUI.
// Without a path, logging is disabled entirely.
func newLogger(path string, verbose bool) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	return config.Build()
}

// runAsk sends a single question to a running hub and prints the answer,
// which makes the hub usable from shell scripts.
func runAsk(stdout io.Writer, req hubserver.Request, socket string) error {
	if req.Title == "" {
		return fmt.Errorf("--ask requires --title")
	}

	client := hubserver.NewClient()
	if socket != "" {
		client = hubserver.NewClientWithPath(socket)
	}
	if client == nil {
		return fmt.Errorf("no hub socket: pass --socket or set %s", hubserver.SocketEnvVar)
	}

	resp, err := client.Ask(req)
	if err != nil {
		return err
	}
	if resp.Status == hubserver.StatusAborted {
		return fmt.Errorf("question aborted")
	}

	answer := resp.Answer
	switch {
	case answer == nil:
		// Alerts acknowledge without a payload.
	case answer.Accepted != nil:
		if *answer.Accepted {
			_, _ = fmt.Fprintln(stdout, "yes")
		} else {
			_, _ = fmt.Fprintln(stdout, "no")
		}
	case answer.OpenWith != nil:
		_, _ = fmt.Fprintf(stdout, "open:%s\n", *answer.OpenWith)
	case answer.User != "" || answer.Password != "":
		_, _ = fmt.Fprintf(stdout, "%s:%s\n", answer.User, answer.Password)
	default:
		_, _ = fmt.Fprintln(stdout, answer.Value)
	}
	return nil
}

func printHelp(w io.Writer, colorMode string) {
	useColors := color.ShouldUseColors(colorMode)

	var mdRenderer *glamour.TermRenderer
	if useColors {
		var err error
		mdRenderer, err = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(0),
		)
		if err != nil {
			mdRenderer = nil
		}
	}

	renderMarkdown := func(text string) string {
		if mdRenderer == nil {
			return text
		}
		rendered, err := mdRenderer.Render(text)
		if err != nil {
			return text
		}
		return strings.TrimSpace(rendered)
	}

	titleStyle := lipgloss.NewStyle().Bold(true).MarginBottom(1)
	sectionStyle := lipgloss.NewStyle().Bold(true).MarginTop(1)
	optionStyle := lipgloss.NewStyle()
	descStyle := lipgloss.NewStyle()

	if useColors {
		titleStyle = titleStyle.Foreground(lipgloss.Color("6"))
		sectionStyle = sectionStyle.Foreground(lipgloss.Color("3"))
		optionStyle = optionStyle.Foreground(lipgloss.Color("2"))
		descStyle = descStyle.Foreground(lipgloss.Color("7"))
	}

	title := titleStyle.Render("askhub - One terminal surface for every question your tools ask")

	usage := lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("Usage:"),
		"  askhub [options]",
	)

	description := lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("Description:"),
		descStyle.Render("  askhub multiplexes questions from concurrent producers onto a single"),
		descStyle.Render("  terminal prompt. Producers connect over a unix socket (or through the"),
		descStyle.Render("  MCP bridge); blocking questions preempt whatever is displayed and the"),
		descStyle.Render("  previous prompt is restored afterwards, while non-blocking questions"),
		descStyle.Render("  are served strictly in arrival order."),
	)

	options := lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("Options:"),
		fmt.Sprintf("  %s          Show this help message", optionStyle.Render("--help")),
		fmt.Sprintf("  %s       Show version information", optionStyle.Render("--version")),
		fmt.Sprintf("  %s       Log debug detail", optionStyle.Render("--verbose")),
		fmt.Sprintf("  %s           Run as an MCP stdio bridge to a running hub", optionStyle.Render("--mcp")),
		fmt.Sprintf("  %s          Send one question to a running hub", optionStyle.Render("--ask")),
		fmt.Sprintf("  %s         Question title for --ask (required)", optionStyle.Render("--title")),
		fmt.Sprintf("  %s          Question body for --ask", optionStyle.Render("--text")),
		fmt.Sprintf("  %s       Question default for --ask", optionStyle.Render("--default")),
		fmt.Sprintf("  %s      Preempt the displayed question instead of queueing", optionStyle.Render("--blocking")),
		fmt.Sprintf("  %s        Unix socket path", optionStyle.Render("--socket")),
		fmt.Sprintf("  %s      YAML key-binding override file", optionStyle.Render("--bindings")),
		fmt.Sprintf("  %s           Write logs to this file", optionStyle.Render("--log")),
		fmt.Sprintf("  %s         Control color output (auto, always, never)", optionStyle.Render("--color")),
	)

	examplesBlock := `~~~sh
# Run the hub in one terminal
askhub

# Ask a yes/no question from another terminal
askhub --ask yesno --title "Deploy to production?" --default no --socket /tmp/askhub-1234.sock

# Ask for credentials, urgently
askhub --ask credentials --title "Proxy login" --blocking --socket /tmp/askhub-1234.sock

# Wire an agent up through MCP
ASKHUB_SOCK=/tmp/askhub-1234.sock askhub --mcp
~~~`

	examples := lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("Examples:"),
		renderMarkdown(examplesBlock),
	)

	help := lipgloss.JoinVertical(lipgloss.Left,
		title,
		usage,
		description,
		options,
		examples,
	)

	_, _ = fmt.Fprintln(w, help)
}
