// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/divviya-ainavi/chatbot-salesgenius/internal/auth"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/config"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/logging"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/router"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/ui/authform"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/ui/chat"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/ui/components"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// sessionMsg delivers a snapshot published by the auth session.
type sessionMsg struct {
	snap auth.Snapshot
}

// restoreFailedMsg reports that the remembered session could not be loaded.
type restoreFailedMsg struct {
	err error
}

// configReloadedMsg carries a config file reloaded by the watcher.
type configReloadedMsg struct {
	cfg *config.Config
	err error
}

// =============================================================================
// KEYS
// =============================================================================

type appKeyMap struct {
	Quit       key.Binding
	SignOut    key.Binding
	ToggleForm key.Binding
}

func defaultAppKeyMap() appKeyMap {
	return appKeyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		SignOut:    key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "sign out")),
		ToggleForm: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "switch form")),
	}
}

// =============================================================================
// APP MODEL
// =============================================================================

// chatBuilder turns the current configuration into a chat view config.
type chatBuilder func(cfg *config.Config) chat.Config

// App is the root Bubble Tea model. It follows the auth session and shows
// the view the router picks; a chat view is created fresh on every entry and
// closed on every exit.
type App struct {
	ctx     context.Context
	cfg     *config.Config
	session auth.Session
	restore func(context.Context) error
	build   chatBuilder

	router *router.Router
	snap   auth.Snapshot
	sub    <-chan auth.Snapshot
	unsub  func()

	theme   *styles.Theme
	keys    appKeyMap
	header  *components.Header
	forms   *authform.Model
	chat    *chat.Model
	spinner spinner.Model

	width  int
	height int

	log *slog.Logger
}

// newApp subscribes to session before anything can publish, so no snapshot
// is missed between construction and the first Update.
func newApp(ctx context.Context, cfg *config.Config, session auth.Session, restore func(context.Context) error, build chatBuilder) *App {
	theme := styles.NewTheme(cfg.UI.Theme)
	sub, unsub := session.Subscribe()

	a := &App{
		ctx:     ctx,
		cfg:     cfg,
		session: session,
		restore: restore,
		build:   build,
		router:  router.New(),
		sub:     sub,
		unsub:   unsub,
		theme:   theme,
		keys:    defaultAppKeyMap(),
		header:  components.NewHeader(theme, assistantName(cfg)),
		forms:   authform.New(ctx, session, theme),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.Spinner)),
		width:   80,
		height:  24,
		log:     logging.For("app"),
	}
	a.applySnapshot(session.Snapshot())
	return a
}

// Current returns the view the router picked.
func (a *App) Current() router.View {
	return a.router.Current()
}

// Chat returns the mounted chat view, or nil.
func (a *App) Chat() *chat.Model {
	return a.chat
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForSnapshot(a.sub), a.spinner.Tick, a.forms.Init()}
	if a.restore != nil {
		restore, ctx := a.restore, a.ctx
		cmds = append(cmds, func() tea.Msg {
			if err := restore(ctx); err != nil {
				return restoreFailedMsg{err: err}
			}
			return nil
		})
	}
	return tea.Batch(cmds...)
}

// waitForSnapshot blocks for the next published snapshot.
func waitForSnapshot(sub <-chan auth.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-sub
		if !ok {
			return nil
		}
		return sessionMsg{snap: snap}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.layout()
		return a, nil

	case sessionMsg:
		cmd := a.applySnapshot(msg.snap)
		return a, tea.Batch(cmd, waitForSnapshot(a.sub))

	case restoreFailedMsg:
		a.log.Warn("auth_restore_failed", "error", msg.err)
		return a, nil

	case configReloadedMsg:
		a.applyConfig(msg.cfg, msg.err)
		return a, nil

	case authform.ResultMsg:
		_, cmd := a.forms.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case spinner.TickMsg:
		if msg.ID != a.spinner.ID() {
			if a.chat == nil {
				return a, nil
			}
			_, cmd := a.chat.Update(msg)
			return a, cmd
		}
		if a.router.Current() != router.ViewResolving {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	// Chat messages from a view that has been closed are dropped here; the
	// chat itself drops those stamped with an older generation.
	if a.chat != nil {
		_, cmd := a.chat.Update(msg)
		return a, cmd
	}
	if a.router.Current().Unauthenticated() {
		_, cmd := a.forms.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, a.keys.Quit) {
		a.shutdown()
		return tea.Quit
	}

	switch a.router.Current() {
	case router.ViewChat:
		if key.Matches(msg, a.keys.SignOut) {
			return a.signOut()
		}
		_, cmd := a.chat.Update(msg)
		return cmd

	case router.ViewLogin, router.ViewSignUp:
		if key.Matches(msg, a.keys.ToggleForm) {
			a.syncForms(a.router.Toggle())
			return nil
		}
		_, cmd := a.forms.Update(msg)
		return cmd
	}
	return nil
}

// signOut ends the session. The absent-user snapshot is current once
// SignOut returns, so the view switches without waiting for the channel.
func (a *App) signOut() tea.Cmd {
	if err := a.session.SignOut(a.ctx); err != nil {
		a.log.Warn("auth_sign_out_failed", "error", err)
	}
	return a.applySnapshot(a.session.Snapshot())
}

// applySnapshot routes snap and mounts or unmounts the chat view.
func (a *App) applySnapshot(snap auth.Snapshot) tea.Cmd {
	a.snap = snap
	prev := a.router.Current()
	next := a.router.Apply(snap)
	if next == router.ViewChat {
		a.header.SetUser(snap.Username(), a.keys.SignOut.Help().Key+" "+a.keys.SignOut.Help().Desc)
	} else {
		a.header.SetUser("", "")
	}
	if prev != next {
		a.log.Debug("view_changed", "from", prev.String(), "to", next.String())
	}

	if prev == router.ViewChat && next != router.ViewChat {
		a.unmountChat()
		a.forms.Reset()
	}
	a.syncForms(next)

	switch {
	case next == router.ViewChat && a.chat == nil:
		return a.mountChat()
	case next == router.ViewResolving && prev != router.ViewResolving:
		return a.spinner.Tick
	}
	return nil
}

func (a *App) syncForms(v router.View) {
	switch v {
	case router.ViewLogin:
		a.forms.SetMode(authform.ModeLogin)
	case router.ViewSignUp:
		a.forms.SetMode(authform.ModeSignUp)
	}
}

func (a *App) mountChat() tea.Cmd {
	cfg := a.build(a.cfg)
	if cfg.Theme == nil {
		cfg.Theme = a.theme
	}
	if cfg.Context == nil {
		cfg.Context = a.ctx
	}
	a.chat = chat.New(cfg)
	a.layout()
	return a.chat.Init()
}

func (a *App) unmountChat() {
	if a.chat == nil {
		return
	}
	a.chat.Close()
	a.chat = nil
}

// applyConfig takes the reloaded settings that can change at runtime.
func (a *App) applyConfig(cfg *config.Config, err error) {
	if err != nil {
		a.log.Warn("config_reload_failed", "error", err)
		return
	}
	a.cfg = cfg
	a.header.Title = assistantName(cfg)
	if a.chat != nil {
		c := a.build(cfg)
		a.chat.Apply(chat.Settings{Fetcher: c.Fetcher, Delay: c.Delay, CopyWindow: c.CopyWindow})
	}
	a.log.Info("config_reloaded", "endpoint", cfg.Endpoint.URL)
}

// shutdown closes the chat view and the subscription.
func (a *App) shutdown() {
	a.unmountChat()
	if a.unsub != nil {
		a.unsub()
		a.unsub = nil
	}
}

// =============================================================================
// LAYOUT AND VIEW
// =============================================================================

func (a *App) layout() {
	a.theme.SetSize(a.width, a.height)
	a.header.SetWidth(a.width)
	body := a.bodyHeight()
	a.forms.SetSize(a.width, body)
	if a.chat != nil {
		a.chat.SetSize(a.width, body)
	}
}

func (a *App) bodyHeight() int {
	return max(a.height-a.header.Height(), 1)
}

// View implements tea.Model.
func (a *App) View() string {
	var body string
	switch a.router.Current() {
	case router.ViewChat:
		body = a.chat.View()
	case router.ViewLogin, router.ViewSignUp:
		body = a.forms.View()
	default:
		body = lipgloss.Place(a.width, a.bodyHeight(), lipgloss.Center, lipgloss.Center,
			a.spinner.View()+" Loading...")
	}
	return lipgloss.JoinVertical(lipgloss.Left, a.header.View(), body)
}

func assistantName(cfg *config.Config) string {
	if cfg.UI.AssistantName != "" {
		return cfg.UI.AssistantName
	}
	return chat.DefaultAssistantName
}
