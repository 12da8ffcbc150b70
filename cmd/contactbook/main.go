package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeanpaul/contactbook/internal/config"
	"github.com/jeanpaul/contactbook/internal/contact"
	"github.com/jeanpaul/contactbook/internal/export"
	"github.com/jeanpaul/contactbook/internal/logging"
	"github.com/jeanpaul/contactbook/internal/store"
	"github.com/jeanpaul/contactbook/internal/tui"
)

// Set with -ldflags "-X main.version=..." at release time.
var version = "dev"

// app holds the wired dependencies every subcommand works against.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.File
	svc      *contact.Service
	exporter *export.Exporter
	out      io.Writer
	errOut   io.Writer
}

func newApp(cfg *config.Config, out, errOut io.Writer) *app {
	logger := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	st := store.New(cfg.Store.Path,
		store.WithQuarantine(cfg.Store.Quarantine),
		store.WithLogger(logger),
	)
	svc := contact.NewService(st,
		contact.WithStrictEmail(cfg.Validation.StrictEmail),
		contact.WithLogger(logger),
	)
	exp := export.New(svc, export.Options{
		CSVPath:  cfg.Export.CSVPath,
		XLSXPath: cfg.Export.XLSXPath,
		Sheet:    cfg.Export.Sheet,
	}, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		svc:      svc,
		exporter: exp,
		out:      out,
		errOut:   errOut,
	}
}

func main() {
	configFlag := flag.String("config", "", "Path to config.yaml")
	fileFlag := flag.String("file", "", "Contacts file (overrides store.path)")
	versionFlag := flag.Bool("version", false, "Print version")
	helpFlag := flag.Bool("help", false, "Show help")
	flag.BoolVar(helpFlag, "h", false, "Show help")

	flag.Usage = showHelp
	flag.Parse()

	if *helpFlag {
		showHelp()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("contactbook %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()

	// config init runs before Load so a broken config can be replaced.
	if len(args) > 0 && args[0] == "config" {
		if err := cmdConfig(args[1:], os.Stdout); err != nil {
			fatal("%s", err)
		}
		return
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fatal("%s", err)
	}
	if *fileFlag != "" {
		cfg.Store.Path = *fileFlag
	}
	tui.SetTheme(cfg.Theme)

	a := newApp(cfg, os.Stdout, os.Stderr)

	if len(args) == 0 {
		launchTUI(a)
		return
	}

	var cmdErr error
	switch args[0] {
	case "add":
		cmdErr = a.cmdAdd(args[1:])
	case "list":
		cmdErr = a.cmdList(args[1:])
	case "search":
		cmdErr = a.cmdSearch(args[1:])
	case "edit":
		cmdErr = a.cmdEdit(args[1:])
	case "delete":
		cmdErr = a.cmdDelete(args[1:])
	case "export":
		cmdErr = a.cmdExport(args[1:])
	case "import":
		cmdErr = a.cmdImport(args[1:])
	case "serve":
		cmdErr = a.cmdServe(args[1:])
	case "help":
		showHelp()
	default:
		fatal("unknown command: %s (see contactbook help)", args[0])
	}
	if cmdErr != nil {
		fatal("%s", cmdErr)
	}
}

func launchTUI(a *app) {
	var opts []tea.ProgramOption
	if isTerminal() {
		opts = append(opts, tea.WithAltScreen())
	}

	p := tea.NewProgram(tui.NewModel(a.svc, a.exporter), opts...)
	if _, err := p.Run(); err != nil {
		fatal("TUI error: %s", err)
	}
}

// isTerminal checks if stdin is a terminal
func isTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func fatal(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("error: "+msg))
	os.Exit(1)
}

func showHelp() {
	help := `
` + tui.BannerStyle.Render("Contact Book") + ` - keep contacts in a JSON file

` + tui.LabelStyle.Render("USAGE:") + `
  contactbook [flags]                   Start the interactive menu
  contactbook [flags] <command> [args]  Run a command

` + tui.LabelStyle.Render("COMMANDS:") + `
  add -name -phone -email -address      Add a contact
  list [-plain]                         List every contact
  search <name|email|phone> <query>     Find contacts (case-insensitive)
  edit <n> [-name -phone -email -address]
                                        Change contact n, omitted fields are kept
  delete <n>                            Remove contact n
  export [-format csv|xlsx]             Write all contacts to a file
  import <pattern>...                   Append contacts from CSV, XLSX or JSON files
  serve [-addr host:port]               Serve the contact book over HTTP
  config init [-force] [path]           Write a default config.yaml
  help                                  Show this help

` + tui.LabelStyle.Render("FLAGS:") + `
  --config <path>                       Use a specific config file
  --file <path>                         Use a specific contacts file
  --version                             Show version
  --help, -h                            Show this help

` + tui.LabelStyle.Render("EXAMPLES:") + `
  contactbook add -name Alice -phone 0123456789 -email alice@example.com
  contactbook search email example.com
  contactbook import 'exports/**/*.csv'

` + tui.HelpStyle.Render("Environment: CONTACTBOOK_STORE_PATH, CONTACTBOOK_LOG_LEVEL, ...") + `
`
	fmt.Println(help)
}
