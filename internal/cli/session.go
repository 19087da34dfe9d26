package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yyyoichi/contactsheet"
	"github.com/yyyoichi/contactsheet/internal/config"
)

var errQuit = errors.New("quit")

// NewSessionCmd creates the session command, a line editor over one sheet
func NewSessionCmd() *cobra.Command {
	var script string
	var style styleFlags

	cmd := &cobra.Command{
		Use:   "session [files...]",
		Short: "Edit a contact sheet interactively",
		Long: `Start an editing session on a sheet holding the given files.

Commands are read one per line from standard input, or from --script. In a
script the first failing command stops the session with an error; at the
terminal the error is printed and the session goes on. Type "help" for the
list of commands.`,
		Example: `  contactsheet session photos/*.png

  # Non-interactive
  printf 'select 1\ndown\nsave out.png\n' | contactsheet session a.png b.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			opts, err := style.options(cmd, cfg, nil)
			if err != nil {
				return err
			}
			b, err := contactsheet.New(opts...)
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			strict := false
			if script != "" {
				f, err := os.Open(script)
				if err != nil {
					return fmt.Errorf("failed to open script: %w", err)
				}
				defer f.Close()
				in, strict = f, true
			}

			s := &session{sheet: contactsheet.NewSheet(), builder: b, out: cmd.OutOrStdout()}
			if len(args) > 0 {
				if err := s.add(cmd.Context(), args); err != nil {
					return err
				}
			}
			return s.run(cmd.Context(), in, strict)
		},
	}

	cmd.Flags().StringVar(&script, "script", "", "Read commands from this file instead of standard input")
	addStyleFlags(cmd, &style)

	return cmd
}

type session struct {
	sheet   *contactsheet.Sheet
	builder *contactsheet.Builder
	out     io.Writer
}

type sessionCommand struct {
	name  string
	usage string
	help  string
	run   func(s *session, ctx context.Context, args []string) error
}

var sessionCommands []sessionCommand

func init() {
	sessionCommands = []sessionCommand{
		{"add", "add <file>...", "append images to the end of the list", (*session).add},
		{"remove", "remove", "remove the selected images", (*session).remove},
		{"select", "select <n>...", "select images by list number", (*session).selectItems},
		{"deselect", "deselect <n>...", "deselect images by list number", (*session).deselect},
		{"select-all", "select-all", "select every image", noArgs((*contactsheet.Sheet).SelectAll)},
		{"clear", "clear", "clear the selection", noArgs((*contactsheet.Sheet).ClearSelection)},
		{"up", "up", "move the selected images one place toward the start", noArgs(func(sh *contactsheet.Sheet) { sh.Reorder(contactsheet.TowardStart) })},
		{"down", "down", "move the selected images one place toward the end", noArgs(func(sh *contactsheet.Sheet) { sh.Reorder(contactsheet.TowardEnd) })},
		{"columns", "columns [n]", "set the column count, blank to derive it", field((*contactsheet.Sheet).SetColumns)},
		{"rows", "rows [n]", "set the row count, blank to derive it", field((*contactsheet.Sheet).SetRows)},
		{"width", "width [n]", "set the output width, blank to derive it", field((*contactsheet.Sheet).SetWidth)},
		{"list", "list", "show the images, * marks the selection", (*session).list},
		{"layout", "layout", "show the resolved grid", (*session).layout},
		{"save", "save <path>", "build the sheet and write it to path", (*session).save},
		{"manifest", "manifest <path>", "write the images and grid as a YAML manifest", (*session).manifest},
		{"help", "help", "show this list", (*session).help},
		{"quit", "quit", "end the session", func(*session, context.Context, []string) error { return errQuit }},
	}
}

// run executes commands from r until it is exhausted or quit is entered.
// Blank lines and lines starting with # are ignored.
func (s *session) run(ctx context.Context, r io.Reader, strict bool) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		err := s.exec(ctx, fields[0], fields[1:])
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			if strict {
				return fmt.Errorf("line %d: %s: %w", line, fields[0], err)
			}
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (s *session) exec(ctx context.Context, name string, args []string) error {
	if name == "exit" {
		name = "quit"
	}
	for _, c := range sessionCommands {
		if c.name == name {
			return c.run(s, ctx, args)
		}
	}
	return fmt.Errorf("unknown command %q, try help", name)
}

func noArgs(f func(*contactsheet.Sheet)) func(*session, context.Context, []string) error {
	return func(s *session, _ context.Context, args []string) error {
		if len(args) > 0 {
			return fmt.Errorf("takes no arguments")
		}
		f(s.sheet)
		return nil
	}
}

func field(set func(*contactsheet.Sheet, string) error) func(*session, context.Context, []string) error {
	return func(s *session, _ context.Context, args []string) error {
		if len(args) > 1 {
			return fmt.Errorf("takes at most one value")
		}
		return set(s.sheet, strings.Join(args, ""))
	}
}

func (s *session) add(_ context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no files given")
	}
	paths := imagePaths(args, nil)
	if len(paths) == 0 {
		return fmt.Errorf("no image files among %d arguments, allowed: %s", len(args), contactsheet.FilterPattern())
	}
	added := s.sheet.Add(paths...)
	fmt.Fprintf(s.out, "added %d\n", len(added))
	return nil
}

func (s *session) remove(_ context.Context, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("takes no arguments, select images first")
	}
	fmt.Fprintf(s.out, "removed %d\n", s.sheet.Remove())
	return nil
}

// indexes converts one-based list numbers to zero-based indexes.
func (s *session) indexes(args []string) ([]int, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no list numbers given")
	}
	n := s.sheet.Len()
	out := make([]int, 0, len(args))
	for _, a := range args {
		i, err := strconv.Atoi(a)
		if err != nil || i < 1 || i > n {
			return nil, fmt.Errorf("%q is not a list number between 1 and %d", a, n)
		}
		out = append(out, i-1)
	}
	return out, nil
}

func (s *session) selectItems(_ context.Context, args []string) error {
	idx, err := s.indexes(args)
	if err != nil {
		return err
	}
	return s.sheet.SelectIndex(idx...)
}

func (s *session) deselect(_ context.Context, args []string) error {
	idx, err := s.indexes(args)
	if err != nil {
		return err
	}
	items := s.sheet.Items()
	refs := make([]contactsheet.ImageReference, len(idx))
	for i, j := range idx {
		refs[i] = items[j]
	}
	s.sheet.Deselect(refs...)
	return nil
}

func (s *session) list(_ context.Context, _ []string) error {
	items := s.sheet.Items()
	if len(items) == 0 {
		fmt.Fprintln(s.out, "(empty)")
		return nil
	}
	for i, ref := range items {
		mark := " "
		if s.sheet.IsSelected(ref) {
			mark = "*"
		}
		fmt.Fprintf(s.out, "%3d %s %s\n", i+1, mark, ref.FullPath())
	}
	return nil
}

func (s *session) layout(_ context.Context, _ []string) error {
	l, err := s.sheet.Layout()
	if err != nil {
		return err
	}
	printLayout(s.out, s.sheet.Len(), l)
	return nil
}

func (s *session) save(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: save <path>")
	}
	if err := s.builder.BuildSheet(ctx, s.sheet, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "saved %s\n", args[0])
	return nil
}

func (s *session) manifest(_ context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: manifest <path>")
	}
	snap, err := s.sheet.Snapshot()
	if err != nil {
		return err
	}
	m := &config.Manifest{
		Columns: &snap.Layout.Columns,
		Rows:    &snap.Layout.Rows,
		Width:   &snap.Layout.Width,
	}
	for _, ref := range snap.Items {
		m.Images = append(m.Images, ref.FullPath())
	}
	if err := m.Save(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "wrote %s\n", args[0])
	return nil
}

func (s *session) help(_ context.Context, _ []string) error {
	for _, c := range sessionCommands {
		fmt.Fprintf(s.out, "  %-18s %s\n", c.usage, c.help)
	}
	return nil
}
