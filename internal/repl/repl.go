package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"tstbuild/internal/catalog"
	"tstbuild/internal/cli"
	"tstbuild/internal/color"
	"tstbuild/internal/session"
	"tstbuild/pkg/logging"
)

const subsystem = "REPL"

var errExit = errors.New("exit")

// Options configures a REPL.
type Options struct {
	Prompt      string
	HistoryFile string
	// Out and In default to the process stdout and stdin.
	Out io.Writer
	In  io.Reader
}

// REPL is a line-oriented test file editor. It is the session's Presenter:
// argument values typed with "set" are handed to the session through
// FieldValue, and confirmations are asked on the terminal.
type REPL struct {
	session  *session.Session
	renderer *cli.Renderer
	options  Options

	rl     *readline.Instance
	in     *bufio.Reader
	staged map[string]string
}

// New creates a REPL editing a fresh session over cat.
func New(cat *catalog.Catalog, fs session.FileSystem, options Options) *REPL {
	if options.Out == nil {
		options.Out = os.Stdout
	}
	if options.In == nil {
		options.In = os.Stdin
	}
	if options.Prompt == "" {
		options.Prompt = "tst> "
	}

	r := &REPL{
		options: options,
		in:      bufio.NewReader(options.In),
		staged:  make(map[string]string),
	}
	r.renderer = cli.NewRenderer(options.Out, cli.OutputFormatTable)
	r.session = session.NewSession(cat, fs, r)
	return r
}

// Session returns the edited session.
func (r *REPL) Session() *session.Session { return r.session }

// FieldValue returns the value typed for a field, falling back to the
// value stored on the current entry.
func (r *REPL) FieldValue(name string) string {
	if v, ok := r.staged[name]; ok {
		return v
	}
	if cur := r.session.Current(); cur != nil {
		return cur.ArgValues[name]
	}
	return ""
}

// SetValidationMessage prints a message styled by severity.
func (r *REPL) SetValidationMessage(text string, severity session.Severity) {
	switch severity {
	case session.SeverityError:
		fmt.Fprintln(r.options.Out, color.Error(text))
	case session.SeverityWarning:
		fmt.Fprintln(r.options.Out, color.Warning(text))
	default:
		fmt.Fprintln(r.options.Out, color.Success(text))
	}
}

// ConfirmProceed asks a yes/no question. Anything but yes is no.
func (r *REPL) ConfirmProceed(message string) bool {
	fmt.Fprintln(r.options.Out, color.Warning(message))
	answer, err := r.readLine("[y/N] ")
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (r *REPL) readLine(prompt string) (string, error) {
	if r.rl != nil {
		r.rl.SetPrompt(prompt)
		defer r.rl.SetPrompt(r.options.Prompt)
		return r.rl.Readline()
	}
	fmt.Fprint(r.options.Out, prompt)
	line, err := r.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Open loads path into the session before the loop starts.
func (r *REPL) Open(path string) error {
	if err := r.session.Open(path); err != nil {
		return err
	}
	fmt.Fprintf(r.options.Out, "Opened %s (%d tests)\n", path, r.session.Len())
	return nil
}

// Run starts the REPL and blocks until the user exits.
func (r *REPL) Run() error {
	if r.options.HistoryFile != "" {
		if err := os.MkdirAll(filepath.Dir(r.options.HistoryFile), 0755); err != nil {
			logging.Warn(subsystem, "History disabled: %v", err)
		}
	}

	config := &readline.Config{
		Prompt:          r.options.Prompt,
		HistoryFile:     r.options.HistoryFile,
		AutoComplete:    r.createCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	}

	rl, err := readline.NewEx(config)
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer rl.Close()
	r.rl = rl
	defer func() { r.rl = nil }()

	logging.Debug(subsystem, "Editor started with %d catalog commands", r.session.Catalog().Len())
	fmt.Fprintln(r.options.Out, "Test file editor. Type 'help' for available commands. Use TAB for completion.")
	fmt.Fprintln(r.options.Out)

	for {
		line, err := r.rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				continue
			}
		} else if err == io.EOF {
			if r.confirmQuit() {
				fmt.Fprintln(r.options.Out, "Goodbye!")
				return nil
			}
			continue
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if err := r.executeCommand(input); err != nil {
			if errors.Is(err, errExit) {
				fmt.Fprintln(r.options.Out, "Goodbye!")
				return nil
			}
			fmt.Fprintln(r.options.Out, color.Error("Error: "+err.Error()))
		}
		// Keep the completer in step with the current command's fields
		r.rl.Config.AutoComplete = r.createCompleter()
	}
}

func (r *REPL) confirmQuit() bool {
	if !r.session.Dirty() {
		return true
	}
	return r.ConfirmProceed("You have unsaved changes. Quit anyway?")
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}
