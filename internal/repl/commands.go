package repl

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mattn/go-runewidth"

	"tstbuild/internal/color"
	"tstbuild/internal/entry"
	"tstbuild/internal/pattern"
	"tstbuild/internal/session"
)

// listWidth is the display width of one entry summary in "list".
const listWidth = 72

var replCommands = []string{
	"help", "list", "commands", "add", "dup", "rm", "up", "down", "select",
	"cmd", "device", "set", "reply", "expected", "warnonly", "errexpected",
	"show", "validate", "preview", "save", "saveas", "new", "open", "pattern", "exit",
}

// executeCommand parses and executes one input line.
func (r *REPL) executeCommand(input string) error {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "help", "?":
		return r.showHelp()

	case "list", "ls":
		return r.handleList()

	case "commands":
		return r.renderer.Catalog(r.session.Catalog())

	case "add":
		r.session.Add()
		if len(args) > 0 {
			return r.handleCmd(args[0])
		}
		fmt.Fprintf(r.options.Out, "Added test #%d\n", r.session.CurrentIndex()+1)
		return nil

	case "dup", "duplicate":
		if _, err := r.session.Duplicate(); err != nil {
			return err
		}
		fmt.Fprintf(r.options.Out, "Duplicated as test #%d\n", r.session.CurrentIndex()+1)
		return nil

	case "rm", "remove":
		return r.session.Remove()

	case "up":
		return r.session.MoveUp()

	case "down":
		return r.session.MoveDown()

	case "select", "sel":
		if len(args) != 1 {
			return fmt.Errorf("usage: select <number>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("usage: select <number>")
		}
		return r.session.Select(n - 1)

	case "cmd", "command":
		if len(args) != 1 {
			return fmt.Errorf("usage: cmd <command>")
		}
		return r.handleCmd(args[0])

	case "device":
		return r.session.SetDevice(strings.Join(args, " "))

	case "set":
		if len(args) < 1 {
			return fmt.Errorf("usage: set <field> [value]")
		}
		return r.handleSet(args[0], restAfter(input, 2))

	case "reply":
		return r.handleReply(args)

	case "expected":
		return r.session.SetExpected(restAfter(input, 1))

	case "warnonly":
		on, err := parseOnOff(args)
		if err != nil {
			return err
		}
		return r.session.SetWarnOnly(on)

	case "errexpected":
		on, err := parseOnOff(args)
		if err != nil {
			return err
		}
		return r.session.SetErrorExpected(on)

	case "show":
		return r.handleShow()

	case "validate":
		if len(args) > 0 && strings.EqualFold(args[0], "all") {
			return r.renderer.Validation("All tests", r.session.Validate())
		}
		result, err := r.session.ValidateCurrent()
		if err != nil {
			return err
		}
		return r.renderer.Validation(fmt.Sprintf("Test #%d", r.session.CurrentIndex()+1), result)

	case "preview":
		text, err := r.session.Preview()
		if err != nil {
			return err
		}
		fmt.Fprintln(r.options.Out, text)
		return nil

	case "save":
		if len(args) > 0 {
			return r.ignoreCancel(r.session.SaveAs(args[0]))
		}
		err := r.session.Save()
		if errors.Is(err, session.ErrNoPath) {
			return fmt.Errorf("no file name yet, use: save <path>")
		}
		return r.ignoreCancel(err)

	case "saveas":
		if len(args) != 1 {
			return fmt.Errorf("usage: saveas <path>")
		}
		return r.ignoreCancel(r.session.SaveAs(args[0]))

	case "new":
		return r.ignoreCancel(r.session.New())

	case "open":
		if len(args) != 1 {
			return fmt.Errorf("usage: open <path>")
		}
		return r.ignoreCancel(r.Open(args[0]))

	case "pattern":
		return r.handlePattern(args)

	case "exit", "quit":
		if r.confirmQuit() {
			return errExit
		}
		return nil

	default:
		return fmt.Errorf("unknown command: %s. Type 'help' for available commands", command)
	}
}

// showHelp displays available commands
func (r *REPL) showHelp() error {
	out := r.options.Out
	fmt.Fprintln(out, "Available commands:")
	fmt.Fprintln(out, "  help, ?                     - Show this help message")
	fmt.Fprintln(out, "  list                        - List the tests, current one marked with >")
	fmt.Fprintln(out, "  commands                    - List the command catalog")
	fmt.Fprintln(out, "  add [command]               - Append a new test and select it")
	fmt.Fprintln(out, "  dup                         - Duplicate the current test")
	fmt.Fprintln(out, "  rm                          - Remove the current test")
	fmt.Fprintln(out, "  up, down                    - Move the current test")
	fmt.Fprintln(out, "  select <n>                  - Select test number n")
	fmt.Fprintln(out, "  cmd <command>               - Set the command of the current test")
	fmt.Fprintln(out, "  device [name]               - Set or clear the device prefix")
	fmt.Fprintln(out, "  set <field> [value]         - Set an argument value")
	fmt.Fprintln(out, "  reply <length|off>          - Set or clear the reply length")
	fmt.Fprintln(out, "  expected [pattern]          - Set or clear the expected reply pattern")
	fmt.Fprintln(out, "  warnonly <on|off>           - Toggle the warnOnly flag")
	fmt.Fprintln(out, "  errexpected <on|off>        - Toggle the errorExpected flag")
	fmt.Fprintln(out, "  show                        - Show the current test")
	fmt.Fprintln(out, "  validate [all]              - Validate the current test or all tests")
	fmt.Fprintln(out, "  preview                     - Show the file contents")
	fmt.Fprintln(out, "  save [path], saveas <path>  - Write the file")
	fmt.Fprintln(out, "  new, open <path>            - Start over or load a file")
	fmt.Fprintln(out, "  pattern [pattern reply]     - Pattern reference, or test a reply")
	fmt.Fprintln(out, "  exit, quit                  - Exit the editor")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Keyboard shortcuts:")
	fmt.Fprintln(out, "  TAB                         - Auto-complete commands, command names and fields")
	fmt.Fprintln(out, "  Ctrl+R                      - Search command history")
	fmt.Fprintln(out, "  Ctrl+D                      - Exit")
	return nil
}

func (r *REPL) handleList() error {
	entries := r.session.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(r.options.Out, color.Muted("No tests. Use 'add' to create one."))
		return nil
	}
	for i, e := range entries {
		marker := " "
		if i == r.session.CurrentIndex() {
			marker = ">"
		}
		summary := e.String()
		if e.Command == "" {
			summary = color.Muted("(no command)")
		}
		fmt.Fprintf(r.options.Out, "%s %3d  %s\n", marker, i+1, runewidth.Truncate(summary, listWidth, "…"))
	}
	dirty := ""
	if r.session.Dirty() {
		dirty = ", unsaved changes"
	}
	fmt.Fprintln(r.options.Out, color.Muted(fmt.Sprintf("%d test(s)%s", len(entries), dirty)))
	return nil
}

func (r *REPL) handleCmd(key string) error {
	def, err := r.session.SetCommand(key)
	if err != nil {
		return err
	}
	if def == nil {
		r.SetValidationMessage(fmt.Sprintf("'%s' is not in the catalog. It will be written as-is.", key), session.SeverityWarning)
		return nil
	}
	fmt.Fprintf(r.options.Out, "Test #%d: %s\n", r.session.CurrentIndex()+1, def.DisplayName())
	for _, field := range def.Fields() {
		fmt.Fprintf(r.options.Out, "  %-16s %s\n", field.Name, color.Muted(field.Label()))
	}
	return nil
}

// handleSet hands one field value to the session through FieldValue.
func (r *REPL) handleSet(name, value string) error {
	cur := r.session.Current()
	if cur == nil {
		return session.ErrNoSelection
	}
	def := cur.Definition()
	if def == nil {
		return fmt.Errorf("command '%s' has no definition, arguments cannot be set", cur.Command)
	}
	declared := false
	for _, field := range def.Fields() {
		if field.Name == name {
			declared = true
			break
		}
	}
	if !declared {
		return fmt.Errorf("%s has no field '%s'", def.DisplayName(), name)
	}

	r.staged[name] = value
	defer delete(r.staged, name)
	r.session.Commit()
	return nil
}

func (r *REPL) handleReply(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: reply <length|off>")
	}
	if strings.EqualFold(args[0], "off") {
		return r.session.SetReply(false, 0)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return fmt.Errorf("reply length must be a non-negative number, got '%s'", args[0])
	}
	return r.session.SetReply(true, n)
}

func (r *REPL) handleShow() error {
	cur := r.session.Current()
	if cur == nil {
		return session.ErrNoSelection
	}
	out := r.options.Out

	title := fmt.Sprintf("Test #%d", r.session.CurrentIndex()+1)
	fmt.Fprintln(out, color.Header(title))
	def := cur.Definition()
	switch {
	case def != nil:
		fmt.Fprintf(out, "  command      %s\n", def.DisplayName())
	case cur.Command == "":
		fmt.Fprintf(out, "  command      %s\n", color.Muted("(none)"))
	default:
		fmt.Fprintf(out, "  command      %s %s\n", cur.Command, color.Warning("(not in catalog)"))
	}
	fmt.Fprintf(out, "  device       %s\n", orNone(cur.Device))
	fmt.Fprintf(out, "  warnOnly     %s\n", onOff(cur.WarnOnly))
	fmt.Fprintf(out, "  errExpected  %s\n", onOff(cur.ErrorExpected))
	if cur.ReplyLength != nil {
		fmt.Fprintf(out, "  replyLength  %d\n", *cur.ReplyLength)
	} else {
		fmt.Fprintf(out, "  replyLength  %s\n", color.Muted("(none)"))
	}
	fmt.Fprintf(out, "  expected     %s\n", orNone(cur.Expected))

	if def != nil {
		for _, field := range def.Fields() {
			value, ok := cur.ArgValues[field.Name]
			shown := value
			if !ok {
				shown = color.Muted("(not set)")
			}
			fmt.Fprintf(out, "  %-12s %s %s\n", field.Name, shown, color.Muted(field.Label()))
		}
		return nil
	}

	names := make([]string, 0, len(cur.ArgValues))
	for name := range cur.ArgValues {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-12s %s\n", name, cur.ArgValues[name])
	}
	return nil
}

func (r *REPL) handlePattern(args []string) error {
	switch len(args) {
	case 0:
		fmt.Fprintln(r.options.Out, pattern.Reference())
		return nil
	case 2:
		if pattern.Match(args[0], args[1]) {
			fmt.Fprintln(r.options.Out, color.Success("match"))
		} else {
			fmt.Fprintln(r.options.Out, color.Error("no match"))
		}
		return nil
	default:
		return fmt.Errorf("usage: pattern [<pattern> <reply>]")
	}
}

// ignoreCancel turns a declined confirmation into a note instead of an error.
func (r *REPL) ignoreCancel(err error) error {
	if errors.Is(err, session.ErrCancelled) {
		fmt.Fprintln(r.options.Out, color.Muted("Cancelled."))
		return nil
	}
	return err
}

func (r *REPL) createCompleter() readline.AutoCompleter {
	commandKeys := func(string) []string {
		var keys []string
		for _, def := range r.session.Catalog().Commands() {
			keys = append(keys, def.Key())
		}
		return keys
	}
	fieldNames := func(string) []string {
		cur := r.session.Current()
		if cur == nil || cur.Definition() == nil {
			return nil
		}
		var names []string
		for _, field := range cur.Definition().Fields() {
			names = append(names, field.Name)
		}
		return names
	}

	var items []readline.PrefixCompleterInterface
	for _, name := range replCommands {
		switch name {
		case "add", "cmd":
			items = append(items, readline.PcItem(name, readline.PcItemDynamic(commandKeys)))
		case "set":
			items = append(items, readline.PcItem(name, readline.PcItemDynamic(fieldNames)))
		case "warnonly", "errexpected":
			items = append(items, readline.PcItem(name, readline.PcItem("on"), readline.PcItem("off")))
		case "validate":
			items = append(items, readline.PcItem(name, readline.PcItem("all")))
		case "reply":
			items = append(items, readline.PcItem(name, readline.PcItem("off")))
		default:
			items = append(items, readline.PcItem(name))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

// restAfter returns input with its first n fields removed, keeping the
// spacing inside the remainder.
func restAfter(input string, n int) string {
	rest := strings.TrimSpace(input)
	for i := 0; i < n; i++ {
		idx := strings.IndexAny(rest, " \t")
		if idx < 0 {
			return ""
		}
		rest = strings.TrimLeft(rest[idx:], " \t")
	}
	return rest
}

func parseOnOff(args []string) (bool, error) {
	if len(args) != 1 {
		return false, fmt.Errorf("expected on or off")
	}
	switch strings.ToLower(args[0]) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	if b, ok := entry.ParseBoolLiteral(args[0]); ok {
		return b, nil
	}
	return false, fmt.Errorf("expected on or off, got '%s'", args[0])
}

func onOff(flag *bool) string {
	if flag != nil && *flag {
		return "on"
	}
	return "off"
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return color.Muted("(none)")
	}
	return s
}
