package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/fivemoreminix/onyxview/chromahl"
	"github.com/fivemoreminix/onyxview/grammar"
	"github.com/fivemoreminix/onyxview/grammar/onyx"
	"github.com/fivemoreminix/onyxview/page"
	"github.com/fivemoreminix/onyxview/ui"
	"github.com/gdamore/tcell/v2"
	"github.com/go-enry/go-enry/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

type app struct {
	cfg      Config
	log      *logrus.Logger
	closeLog io.Closer
	registry *grammar.Registry
}

func main() {
	a := &app{}
	cliApp := &cli.App{
		Name:  "onyxview",
		Usage: "highlight Onyx source in the terminal or in HTML pages",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config `FILE`"},
			&cli.StringFlag{Name: "log-file", Usage: "append logs to `FILE`"},
			&cli.StringFlag{Name: "log-level", Usage: "panic, fatal, error, warn, info, debug or trace"},
			&cli.StringSliceFlag{Name: "grammar", Aliases: []string{"g"}, Usage: "register the YAML language descriptor in `FILE`"},
		},
		Before: a.setup,
		After: func(*cli.Context) error {
			if a.closeLog != nil {
				return a.closeLog.Close()
			}
			return nil
		},
		DefaultCommand: "view",
		Commands: []*cli.Command{
			{
				Name:      "view",
				Usage:     "browse highlighted files (^Q quit, ^R reload, ^G go to line, ^C copy line, ^E/^W switch tabs)",
				ArgsUsage: "FILE...",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: "reload files when they change on disk"},
				},
				Action: a.view,
			},
			{
				Name:      "html",
				Usage:     "highlight the <code> blocks of an HTML page",
				ArgsUsage: "[PAGE]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "engine", Value: "regex", Usage: "regex or chroma"},
					&cli.StringFlag{Name: "default-language", Usage: "language of blocks without a language class"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write the page to `FILE` instead of stdout"},
				},
				Action: a.html,
			},
			{
				Name:  "dump",
				Usage: "print a language descriptor as YAML",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Value: onyx.RegistryName},
				},
				Action: a.dump,
			},
			{
				Name:   "languages",
				Usage:  "list registered languages",
				Action: a.languages,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func (a *app) setup(c *cli.Context) error {
	cfg, err := LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("log-file") {
		cfg.LogFile = c.String("log-file")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	cfg.Grammars = append(cfg.Grammars, c.StringSlice("grammar")...)
	a.cfg = cfg

	switch c.Args().First() {
	case "html", "dump", "languages", "help", "h":
		a.log, a.closeLog, err = NewLogger(cfg, false)
	default:
		a.log, a.closeLog, err = NewLogger(cfg, true)
	}
	if err != nil {
		return err
	}
	page.Logger = a.log

	a.registry, err = a.newRegistry()
	return err
}

// newRegistry registers Onyx and every configured grammar file.
func (a *app) newRegistry() (*grammar.Registry, error) {
	reg := grammar.NewRegistry(grammar.WithLogger(a.log))
	if err := onyx.Register(reg); err != nil {
		return nil, err
	}

	for _, path := range a.cfg.Grammars {
		desc, err := loadGrammar(path)
		if err != nil {
			return nil, err
		}
		if err := reg.RegisterLanguage(desc.Name, func() grammar.LanguageDescriptor { return desc }); err != nil {
			return nil, err
		}
		a.log.WithFields(logrus.Fields{"language": desc.Name, "path": path}).Info("loaded grammar")
	}
	return reg, nil
}

func loadGrammar(path string) (grammar.LanguageDescriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return grammar.LanguageDescriptor{}, errors.Wrapf(err, "opening grammar. path=%s", path)
	}
	defer f.Close()

	desc, err := grammar.LoadDescriptor(f)
	return desc, errors.Wrapf(err, "loading grammar. path=%s", path)
}

// engine returns a page engine of the given kind. The chroma engine gets every
// registered language except Onyx, which InitializeHighlighting adds itself.
func (a *app) engine(kind, defaultLanguage string) (page.Engine, error) {
	switch kind {
	case "regex":
		return page.NewEngine(a.registry, page.WithDefaultLanguage(defaultLanguage)), nil
	case "chroma":
		e := chromahl.NewEngine()
		e.DefaultLanguage = defaultLanguage
		for _, name := range a.registry.Languages() {
			if name == onyx.RegistryName {
				continue
			}
			desc, _ := a.registry.GetLanguage(name)
			d := *desc
			if err := e.RegisterLanguage(name, func() grammar.LanguageDescriptor { return d }); err != nil {
				return nil, err
			}
		}
		return e, nil
	}
	return nil, errors.Errorf("unknown engine %q", kind)
}

func (a *app) html(c *cli.Context) error {
	in := io.Reader(os.Stdin)
	if path := c.Args().First(); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "opening page. path=%s", path)
		}
		defer f.Close()
		in = f
	}

	doc, err := page.ParseHTML(in)
	if err != nil {
		return err
	}

	engine, err := a.engine(c.String("engine"), c.String("default-language"))
	if err != nil {
		return err
	}
	n, err := onyx.InitializeHighlighting(doc, engine)
	if err != nil {
		return err
	}
	a.log.WithFields(logrus.Fields{"blocks": n, "engine": c.String("engine")}).Info("highlighted page")

	out := io.Writer(os.Stdout)
	if path := c.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrapf(err, "creating page. path=%s", path)
		}
		defer f.Close()
		out = f
	}
	return doc.Render(out)
}

func (a *app) dump(c *cli.Context) error {
	name := c.String("language")
	desc, ok := a.registry.GetLanguage(name)
	if !ok {
		return errors.Wrapf(grammar.ErrUnknownLanguage, "%q", name)
	}
	return grammar.WriteDescriptor(os.Stdout, *desc)
}

func (a *app) languages(c *cli.Context) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tALIASES\tFILETYPES")
	for _, name := range a.registry.Languages() {
		desc, _ := a.registry.GetLanguage(name)
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, strings.Join(desc.Aliases, ","), strings.Join(desc.Filetypes, ","))
	}
	return w.Flush()
}

func (a *app) view(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return errors.New("no files given")
	}

	colorscheme, err := a.cfg.BuildColorscheme()
	if err != nil {
		return err
	}
	theme := ui.Theme{}
	engine := page.NewEngine(a.registry, page.WithDefaultLanguage(a.cfg.DefaultLanguage))

	tabs := ui.NewTabContainer(&theme)
	for _, path := range paths {
		contents, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "reading file. path=%s", path)
		}
		v := ui.NewCodeView(path, contents, &colorscheme, &theme)
		v.TabSize = a.cfg.TabSize
		v.LineNumbers = a.cfg.LineNumbers
		v.Language = a.detectLanguage(path, contents)
		tabs.AddTab(filepath.Base(path), v)
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "creating screen")
	}
	if err := s.Init(); err != nil {
		return errors.Wrap(err, "initializing screen")
	}
	defer s.Fini() // Useful for handling panics

	if c.Bool("watch") || a.cfg.Watch {
		ctx, cancel := context.WithCancel(c.Context)
		defer cancel()
		if err := watchFiles(ctx, s, paths, a.log); err != nil {
			return err
		}
	}

	if _, err := ClipInitialize(); err != nil {
		a.log.WithError(err).Warn("system clipboard unavailable, using internal clipboard")
	}

	// Every file is loaded: the content is ready.
	a.highlight(tabs, engine)

	sizex, sizey := s.Size()
	tabs.SetPos(0, 0)
	tabs.SetSize(sizex, sizey-1)
	tabs.SetFocused(true)

	var status string
	var dialog *ui.GotoLineDialog // Non-nil while open
	closeDialog := func() {
		dialog.SetFocused(false)
		dialog = nil
		s.HideCursor()
		tabs.SetFocused(true)
	}

	for {
		s.Clear()
		tabs.Draw(s)
		if dialog != nil {
			w, _ := dialog.GetSize()
			dialog.SetPos(sizex/2-w/2, sizey/2-2)
			dialog.Draw(s)
		}
		drawStatusBar(s, tabs, &theme, sizex, sizey, status)
		s.Show()

		switch ev := s.PollEvent().(type) {
		case *tcell.EventResize:
			sizex, sizey = s.Size()
			tabs.SetSize(sizex, sizey-1)
			s.Sync() // Redraw everything
		case *tcell.EventInterrupt:
			if changed, ok := ev.Data().(fileChanged); ok {
				status = a.reload(tabs, engine, changed.Path)
			}
		case *tcell.EventKey:
			status = ""
			if dialog != nil {
				dialog.HandleEvent(ev)
				continue
			}
			switch ev.Key() {
			case tcell.KeyCtrlQ:
				return nil
			case tcell.KeyCtrlR:
				status = a.reload(tabs, engine, "")
			case tcell.KeyCtrlG:
				v := tabs.SelectedView()
				if v == nil {
					break
				}
				dialog = ui.NewGotoLineDialog(&theme, func(line int) {
					v.SetCursorLine(line - 1)
					closeDialog()
				}, closeDialog)
				dialog.SetSize(24, 3)
				tabs.SetFocused(false)
				dialog.SetFocused(true)
			case tcell.KeyCtrlC:
				if v := tabs.SelectedView(); v != nil {
					if err := ClipWrite(v.LineString(v.CursorLine())); err != nil {
						a.log.WithError(err).Error("could not copy line")
						status = "copy failed"
					} else {
						status = fmt.Sprintf("copied line %d", v.CursorLine()+1)
					}
				}
			default:
				tabs.HandleEvent(ev)
			}
		}
	}
}

// detectLanguage picks the language of path from the registered filetypes,
// falling back to enry's detection when it names a registered language.
func (a *app) detectLanguage(path string, contents []byte) string {
	if name, ok := a.registry.MatchFilename(path); ok {
		return name
	}
	if lang := enry.GetLanguage(filepath.Base(path), contents); lang != "" && a.registry.HasLanguage(lang) {
		return strings.ToLower(lang)
	}
	return ""
}

func (a *app) highlight(tabs *ui.TabContainer, engine page.Engine) {
	n, err := onyx.InitializeHighlighting(tabs, engine)
	if err != nil {
		a.log.WithError(err).Error("could not initialize highlighting")
		return
	}
	a.log.WithField("blocks", n).Debug("highlighted views")
}

// reload reads the open file at path again, or every open file when path is
// empty, and highlights the new contents.
func (a *app) reload(tabs *ui.TabContainer, engine page.Engine, path string) string {
	var n int
	for _, v := range tabs.Views() {
		if path != "" && v.FilePath != path {
			continue
		}
		contents, err := os.ReadFile(v.FilePath)
		if err != nil {
			a.log.WithError(err).WithField("path", v.FilePath).Warn("could not reload file")
			continue
		}
		v.SetContents(contents)
		n++
	}
	a.highlight(tabs, engine)
	return fmt.Sprintf("reloaded %d file(s)", n)
}

func drawStatusBar(s tcell.Screen, tabs *ui.TabContainer, theme *ui.Theme, width, height int, status string) {
	style := theme.GetOrDefault("StatusBar")
	ui.DrawRect(s, 0, height-1, width, 1, ' ', style)

	text := " ^Q quit  ^R reload  ^G line  ^C copy  ^E/^W tabs"
	if v := tabs.SelectedView(); v != nil {
		lang := v.Language
		if lang == "" {
			lang = "plain"
		}
		text = fmt.Sprintf(" %s  %d/%d  %s", lang, v.CursorLine()+1, v.Buffer.Lines(), text)
	}
	if status != "" {
		text = " " + status + " |" + text
	}
	ui.DrawStr(s, 0, height-1, width, text, style)
}
