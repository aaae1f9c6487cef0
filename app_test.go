// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/divviya-ainavi/chatbot-salesgenius/internal/auth"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/cli"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/clipboard"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/config"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/model"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/reply"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/router"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/storage"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/stream"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/ui/chat"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/ui/styles"
)

var ada = auth.Credentials{Email: "ada@example.com", Password: "s3cret!", Username: "ada"}

// testBuilder answers every turn with "reply from <endpoint url>".
func testBuilder(cfg *config.Config) chat.Config {
	url := cfg.Endpoint.URL
	return chat.Config{
		Fetcher: reply.FetcherFunc(func(context.Context, string) (string, error) {
			return "reply from " + url, nil
		}),
		Delay:     stream.FixedDelay(0),
		Clipboard: clipboard.Func(func(string) error { return nil }),
		Theme:     styles.NewTheme(styles.ModeDark),
		Renderer:  chat.PlainRenderer,
	}
}

func newTestApp(t *testing.T) (*App, *auth.LocalSession, *storage.Store) {
	t.Helper()
	store, err := storage.Open(storage.MemoryPath, storage.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	session := auth.NewLocalSession(store, auth.LocalConfig{SignInPerMinute: 100, Remember: true})
	cfg := config.Default()
	cfg.UI.Theme = styles.ModeDark

	a := newApp(context.Background(), cfg, session, session.Restore, testBuilder)
	t.Cleanup(a.shutdown)
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return a, session, store
}

// deliver hands the newest published snapshot to the app.
func deliver(t *testing.T, a *App) {
	t.Helper()
	select {
	case snap := <-a.sub:
		a.Update(sessionMsg{snap: snap})
	case <-time.After(time.Second):
		t.Fatal("no snapshot published")
	}
}

// collect runs every command in cmd's batch and returns the messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, collect(c)...)
	}
	return out
}

// drive feeds cmd's results back into the app until nothing is left,
// skipping the thinking spinner.
func drive(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 10000, "command loop did not settle")
		for _, msg := range collect(queue[0]) {
			if _, tick := msg.(spinner.TickMsg); tick || msg == nil {
				continue
			}
			_, next := a.Update(msg)
			queue = append(queue, next)
		}
		queue = queue[1:]
	}
}

func replyMsgFrom(t *testing.T, cmd tea.Cmd) chat.ReplyMsg {
	t.Helper()
	for _, msg := range collect(cmd) {
		if r, ok := msg.(chat.ReplyMsg); ok {
			return r
		}
	}
	t.Fatal("no reply message in command")
	return chat.ReplyMsg{}
}

func TestApp_StartsResolvingThenLogin(t *testing.T) {
	a, session, _ := newTestApp(t)
	require.Equal(t, router.ViewResolving, a.Current())
	require.Contains(t, a.View(), "Loading...")

	require.NoError(t, session.Restore(context.Background()))
	deliver(t, a)
	require.Equal(t, router.ViewLogin, a.Current())
	require.Nil(t, a.Chat())
	require.Contains(t, a.View(), "Sign in to your account")
}

func TestApp_ToggleForms(t *testing.T) {
	a, session, _ := newTestApp(t)
	require.NoError(t, session.Restore(context.Background()))
	deliver(t, a)

	a.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	require.Equal(t, router.ViewSignUp, a.Current())
	require.Contains(t, a.View(), "Create your account")

	a.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	require.Equal(t, router.ViewLogin, a.Current())
}

func TestApp_SignUpMountsChat(t *testing.T) {
	a, session, _ := newTestApp(t)
	require.NoError(t, session.Restore(context.Background()))
	deliver(t, a)

	require.NoError(t, session.SignUp(context.Background(), ada))
	deliver(t, a)

	require.Equal(t, router.ViewChat, a.Current())
	require.NotNil(t, a.Chat())
	require.Contains(t, a.View(), "Welcome, Ada")
}

func TestApp_RestoreRememberedUser(t *testing.T) {
	a, session, store := newTestApp(t)
	require.NoError(t, session.SignUp(context.Background(), ada))

	next := auth.NewLocalSession(store, auth.LocalConfig{Remember: true})
	b := newApp(context.Background(), a.cfg, next, next.Restore, testBuilder)
	t.Cleanup(b.shutdown)

	require.NoError(t, next.Restore(context.Background()))
	deliver(t, b)
	require.Equal(t, router.ViewChat, b.Current())
}

func TestApp_FullTurnThroughRoot(t *testing.T) {
	a, session, _ := newTestApp(t)
	require.NoError(t, session.SignUp(context.Background(), ada))
	deliver(t, a)

	a.Chat().SetInput("How is the pipeline?")
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	drive(t, a, cmd)

	msgs := a.Chat().Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, "reply from "+config.DefaultEndpointURL, msgs[1].Content)
	require.False(t, msgs[1].Streaming)
	require.Equal(t, model.TurnIdle, a.Chat().Turn())
}

// Signing out while a reply is pending leaves the chat unmounted and the
// late reply has nowhere to land.
func TestApp_SignOutWhileAwaitingReply(t *testing.T) {
	a, session, _ := newTestApp(t)
	require.NoError(t, session.SignUp(context.Background(), ada))
	deliver(t, a)

	view := a.Chat()
	view.SetInput("hello")
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, model.TurnAwaitingReply, view.Turn())
	late := replyMsgFrom(t, cmd)

	a.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	require.Equal(t, router.ViewLogin, a.Current())
	require.Nil(t, a.Chat())
	require.True(t, view.Closed())
	require.False(t, session.Snapshot().Authenticated())

	require.NotPanics(t, func() { a.Update(late) })
	msgs := view.Messages()
	require.Len(t, msgs, 1)
	require.Equal(t, model.RoleUser, msgs[0].Role)

	// A new chat after signing back in starts empty and ignores the old reply.
	require.NoError(t, session.SignIn(context.Background(), ada))
	deliver(t, a)
	require.Equal(t, router.ViewChat, a.Current())
	a.Update(late)
	require.Empty(t, a.Chat().Messages())
}

func TestApp_ConfigReloadAppliesToNextTurn(t *testing.T) {
	a, session, _ := newTestApp(t)
	require.NoError(t, session.SignUp(context.Background(), ada))
	deliver(t, a)

	next := config.Default()
	next.Endpoint.URL = "http://localhost:9000/reply"
	a.Update(configReloadedMsg{cfg: next})

	a.Chat().SetInput("again")
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	drive(t, a, cmd)

	msgs := a.Chat().Messages()
	require.Equal(t, "reply from http://localhost:9000/reply", msgs[len(msgs)-1].Content)
}

func TestApp_FailedConfigReloadKeepsSettings(t *testing.T) {
	a, _, _ := newTestApp(t)
	before := a.cfg
	a.Update(configReloadedMsg{err: context.DeadlineExceeded})
	require.Same(t, before, a.cfg)
}

func TestApplyFlags(t *testing.T) {
	cfg := config.Default()
	applyFlags(cfg, cli.Args{Endpoint: "http://example.test/reply", LogLevel: "debug", Theme: "light"})
	require.Equal(t, "http://example.test/reply", cfg.Endpoint.URL)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "light", cfg.UI.Theme)
}

func TestRunConfigCommand_Init(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	args := cli.Args{ConfigPath: path, Raw: []string{"init"}}

	var out bytes.Buffer
	require.Equal(t, cli.ExitSuccess, runConfigCommand(&out, args))
	require.Contains(t, out.String(), "wrote "+path)

	loaded, err := config.LoadFromPath(path)
	require.NoError(t, err)
	require.Equal(t, config.DefaultEndpointURL, loaded.Endpoint.URL)

	out.Reset()
	require.Equal(t, cli.ExitConfigError, runConfigCommand(&out, args))
	require.Empty(t, out.String())

	args.Raw = []string{"init", "--force"}
	require.Equal(t, cli.ExitSuccess, runConfigCommand(&out, args))

	args.Raw = []string{"frobnicate"}
	require.Equal(t, cli.ExitUsageError, runConfigCommand(&out, args))
}
