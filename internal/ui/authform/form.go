// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package authform provides the login and sign-up forms.
//
// The forms only collect credentials and call the auth session. Which form
// is visible, and when the chat replaces it, is decided by the router from
// the session snapshots.
package authform

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/divviya-ainavi/chatbot-salesgenius/internal/auth"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/storage"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/ui/styles"
)

// Mode selects the form.
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignUp
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeSignUp {
		return "signup"
	}
	return "login"
}

const (
	fieldEmail = iota
	fieldPassword
	fieldUsername
)

// ResultMsg reports the outcome of a submitted form.
type ResultMsg struct {
	Mode Mode
	Err  error
}

// keyMap holds the form bindings.
type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:   key.NewBinding(key.WithKeys("tab", "down")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up")),
		Submit: key.NewBinding(key.WithKeys("enter")),
	}
}

// Model is the Bubble Tea model for both forms.
type Model struct {
	session auth.Session
	ctx     context.Context
	theme   *styles.Theme
	keys    keyMap

	mode   Mode
	inputs []textinput.Model
	focus  int
	busy   bool
	err    string

	width  int
	height int
}

// New creates the forms in login mode.
func New(ctx context.Context, session auth.Session, theme *styles.Theme) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	inputs := make([]textinput.Model, 3)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 256
		ti.Prompt = ""
		ti.Width = 36
		inputs[i] = ti
	}
	inputs[fieldEmail].Placeholder = "you@company.com"
	inputs[fieldPassword].Placeholder = "password"
	inputs[fieldPassword].EchoMode = textinput.EchoPassword
	inputs[fieldPassword].EchoCharacter = '•'
	inputs[fieldUsername].Placeholder = "username"

	m := &Model{
		session: session,
		ctx:     ctx,
		theme:   theme,
		keys:    defaultKeyMap(),
		inputs:  inputs,
	}
	m.setFocus(fieldEmail)
	return m
}

// Mode returns the visible form.
func (m *Model) Mode() Mode {
	return m.mode
}

// Err returns the error line, if any.
func (m *Model) Err() string {
	return m.err
}

// Busy reports whether a submission is outstanding.
func (m *Model) Busy() bool {
	return m.busy
}

// SetMode switches forms, clearing the error line and the password.
func (m *Model) SetMode(mode Mode) {
	if mode == m.mode {
		return
	}
	m.mode = mode
	m.err = ""
	m.inputs[fieldPassword].Reset()
	m.setFocus(fieldEmail)
}

// Reset clears every field, used after sign-out.
func (m *Model) Reset() {
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	m.err = ""
	m.busy = false
	m.setFocus(fieldEmail)
}

// SetSize records the area the form is centered in.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetValues fills the fields. Used by tests and for prefilling the email.
func (m *Model) SetValues(email, password, username string) {
	m.inputs[fieldEmail].SetValue(email)
	m.inputs[fieldPassword].SetValue(password)
	m.inputs[fieldUsername].SetValue(username)
}

func (m *Model) fieldCount() int {
	if m.mode == ModeSignUp {
		return 3
	}
	return 2
}

func (m *Model) setFocus(i int) {
	m.focus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ResultMsg:
		m.busy = false
		if msg.Err != nil {
			m.err = Describe(msg.Err)
		} else {
			m.err = ""
			m.inputs[fieldPassword].Reset()
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Next):
			m.setFocus((m.focus + 1) % m.fieldCount())
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.setFocus((m.focus + m.fieldCount() - 1) % m.fieldCount())
			return m, nil
		case key.Matches(msg, m.keys.Submit):
			if m.focus < m.fieldCount()-1 {
				m.setFocus(m.focus + 1)
				return m, nil
			}
			return m, m.Submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// Submit validates the fields and returns the command calling the session.
// It returns nil when a submission is outstanding or a field is invalid.
func (m *Model) Submit() tea.Cmd {
	if m.busy {
		return nil
	}
	creds := auth.Credentials{
		Email:    strings.TrimSpace(m.inputs[fieldEmail].Value()),
		Password: m.inputs[fieldPassword].Value(),
	}
	if m.mode == ModeSignUp {
		creds.Username = strings.TrimSpace(m.inputs[fieldUsername].Value())
	}
	if msg := validate(m.mode, creds); msg != "" {
		m.err = msg
		return nil
	}

	m.busy = true
	m.err = ""
	mode, session, ctx := m.mode, m.session, m.ctx
	return func() tea.Msg {
		var err error
		if mode == ModeSignUp {
			err = session.SignUp(ctx, creds)
		} else {
			err = session.SignIn(ctx, creds)
		}
		return ResultMsg{Mode: mode, Err: err}
	}
}

func validate(mode Mode, c auth.Credentials) string {
	if c.Email == "" || c.Password == "" || (mode == ModeSignUp && c.Username == "") {
		return "Please fill in all fields."
	}
	if !strings.Contains(c.Email, "@") {
		return "Please enter a valid email address."
	}
	if mode == ModeSignUp && len(c.Password) < storage.MinPasswordLength {
		return fmt.Sprintf("Password must be at least %d characters.", storage.MinPasswordLength)
	}
	if mode == ModeSignUp && len(c.Password) > storage.MaxPasswordBytes {
		return fmt.Sprintf("Password must be at most %d characters.", storage.MaxPasswordBytes)
	}
	return ""
}

// Describe turns a session error into the line shown under the form.
func Describe(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, auth.ErrUserExists):
		return "An account with this email already exists."
	case errors.Is(err, auth.ErrRateLimited):
		return "Too many attempts. Please wait a moment and try again."
	case errors.Is(err, auth.ErrInvalidInput):
		return "Please check the details and try again."
	default:
		return "Something went wrong. Please try again."
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	title := "Sign in to your account"
	switchHint := "ctrl+n  create an account"
	if m.mode == ModeSignUp {
		title = "Create your account"
		switchHint = "ctrl+n  back to sign in"
	}

	rows := []string{
		m.theme.FormTitle.Render(title),
		m.theme.FormLabel.Render("Email"),
		m.inputs[fieldEmail].View(),
		"",
		m.theme.FormLabel.Render("Password"),
		m.inputs[fieldPassword].View(),
	}
	if m.mode == ModeSignUp {
		rows = append(rows, "", m.theme.FormLabel.Render("Username"), m.inputs[fieldUsername].View())
	}
	rows = append(rows, "")
	switch {
	case m.busy:
		rows = append(rows, m.theme.FormLabel.Render("Please wait..."))
	case m.err != "":
		rows = append(rows, styles.RenderError(m.err))
	default:
		rows = append(rows, m.theme.FormLabel.Render("enter  submit"))
	}
	rows = append(rows, m.theme.FormSwitch.Render(switchHint))

	box := m.theme.FormBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
