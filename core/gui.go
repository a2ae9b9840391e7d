package core

import (
	"context"
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/hamidzr/stylefind/constant"
	"github.com/hamidzr/stylefind/render"
)

// GUIOptions configure the results window.
type GUIOptions struct {
	Title     string
	MinWidth  float32
	MinHeight float32
	// PidFile names the single instance lock; empty uses the project name.
	PidFile string
}

// GUI is the results window: an address bar, the slot list and the nav row.
type GUI struct {
	app     fyne.App
	window  fyne.Window
	surface *render.FyneSurface
	entry   *render.URLEntry
	label   *widget.Label
	session *Session
	quit    func()
}

// NewGUI builds the window on a, showing surface and driving session.
func NewGUI(a fyne.App, surface *render.FyneSurface, session *Session, opts GUIOptions) *GUI {
	if opts.Title == "" {
		opts.Title = constant.ProjectName
	}
	g := &GUI{
		app:     a,
		window:  a.NewWindow(opts.Title),
		surface: surface,
		label:   widget.NewLabel(opts.Title),
		session: session,
		quit:    a.Quit,
	}

	g.entry = render.NewURLEntry("page address")
	g.entry.Swallow = map[fyne.KeyName]bool{
		fyne.KeyUp:       true,
		fyne.KeyDown:     true,
		fyne.KeyTab:      true,
		fyne.KeyPageUp:   true,
		fyne.KeyPageDown: true,
	}
	g.entry.OnKeyDown = g.handleKey
	g.entry.OnChanged = func(string) { surface.Select(constant.UnsetInt) }
	g.window.Canvas().SetOnTypedKey(g.handleKey)

	surface.OnNext = session.Next
	surface.OnPrev = session.Prev
	surface.OnToggleInstall = session.ToggleInstall
	surface.OnOpen = g.open

	top := container.NewVBox(render.NewAddressBar(g.entry, g.label, 120), surface.Status)
	content := container.NewBorder(top, surface.NavBar(), nil, nil, container.NewVScroll(surface.Container))
	g.window.SetContent(content)
	g.window.Resize(fyne.NewSize(opts.MinWidth, opts.MinHeight))
	g.window.Canvas().Focus(g.entry)
	return g
}

// Load puts tabURL in the address bar and searches for it.
func (g *GUI) Load(tabURL string) {
	g.entry.SetText(tabURL)
	g.session.Restart(tabURL)
}

func (g *GUI) handleKey(key *fyne.KeyEvent) {
	count := g.surface.Len()
	selected := g.surface.Selected()
	switch key.Name {
	case fyne.KeyDown, fyne.KeyTab:
		if count == 0 {
			return
		}
		if selected < count-1 {
			g.surface.Select(selected + 1)
		} else { // wrap
			g.surface.Select(0)
		}
	case fyne.KeyUp:
		if count == 0 {
			return
		}
		if selected > 0 {
			g.surface.Select(selected - 1)
		} else { // wrap
			g.surface.Select(count - 1)
		}
	case fyne.KeyPageDown:
		g.surface.Select(constant.UnsetInt)
		g.session.Next()
	case fyne.KeyPageUp:
		g.surface.Select(constant.UnsetInt)
		g.session.Prev()
	case fyne.KeyReturn, fyne.KeyEnter:
		if e, ok := g.surface.EntryAt(selected); ok && !e.Placeholder() {
			g.session.ToggleInstall(e.Position)
			return
		}
		g.session.Restart(g.entry.Text)
	case fyne.KeyEscape:
		g.quit()
	}
}

func (g *GUI) open(raw string) {
	u, err := url.Parse(raw)
	if err != nil {
		logrus.WithError(err).WithField("url", raw).Warn("cannot open style page")
		return
	}
	if err := g.app.OpenURL(u); err != nil {
		logrus.WithError(err).WithField("url", raw).Warn("cannot open style page")
	}
}

// RunGUI shows the results window for tabURL and blocks until it is closed
// or ctx is done. deps.Surface is replaced by the window's surface.
func RunGUI(ctx context.Context, deps Deps, sessionOpts SessionOptions, baseURL, tabURL string, opts GUIOptions) error {
	if _, err := createPidFile(opts.PidFile); err != nil {
		return err
	}
	defer func() {
		if err := removePidFile(opts.PidFile); err != nil {
			logrus.WithError(err).Warn("pid file cleanup")
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a := app.New()
	a.Settings().SetTheme(render.MainTheme{Theme: theme.DefaultTheme()})
	surface := render.NewFyneSurface(baseURL)
	deps.Surface = surface
	session := NewSession(deps, sessionOpts, tabURL)
	g := NewGUI(a, surface, session, opts)

	runErr := make(chan error, 1)
	go func() {
		runErr <- session.Run(ctx)
		a.Quit()
	}()
	g.Load(tabURL)
	g.window.SetOnClosed(cancel)
	g.window.ShowAndRun()
	cancel()
	<-runErr
	return nil
}
