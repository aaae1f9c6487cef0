// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/divviya-ainavi/chatbot-salesgenius/internal/clipboard"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/logging"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/model"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/reply"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/stream"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/ui/styles"
)

// ErrorReply is the bot message shown when a reply could not be fetched.
const ErrorReply = "I'm sorry, I couldn't get a response right now. Please try again in a moment."

// DefaultAssistantName is shown when Config.AssistantName is empty.
const DefaultAssistantName = "Bravura AI Partner"

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config wires the chat view to its collaborators. Zero values get defaults.
type Config struct {
	// Fetcher answers each user turn.
	Fetcher reply.Fetcher

	// Delay paces the typing effect (default: 30-70ms random).
	Delay stream.Delay

	// Clipboard receives copied text (default: system clipboard).
	Clipboard clipboard.Writer

	// CopyWindow is how long "Copied!" shows (default: 2s).
	CopyWindow time.Duration

	// Theme styles the view (default: auto-detected).
	Theme *styles.Theme

	// Renderer formats settled bot replies (default: glamour for the width).
	Renderer RendererFactory

	// AssistantName labels bot messages.
	AssistantName string

	// MaxInputHeight caps the auto-growing input, in lines (default: 6).
	MaxInputHeight int

	// Context is the parent of every fetch context.
	Context context.Context
}

// Settings are the parts of the configuration that may change while the
// view is mounted. They apply from the next turn on.
type Settings struct {
	Fetcher    reply.Fetcher
	Delay      stream.Delay
	CopyWindow time.Duration
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view. It is used through a
// pointer; the conversation and turn state belong to one mounted view.
type Model struct {
	// Conversation state
	conv     *model.Conversation
	turn     model.Turn
	playback *stream.Playback

	// Liveness
	gen       uint64
	closed    bool
	cancelMgr *cancelManager
	parent    context.Context

	// Collaborators
	fetcher    reply.Fetcher
	delay      stream.Delay
	tracker    *clipboard.Tracker
	copyWindow time.Duration
	newRender  RendererFactory
	renderer   Renderer
	rendered   map[string]string

	// UI components
	theme    *styles.Theme
	keys     KeyMap
	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	assistant      string
	maxInputHeight int
	width          int
	height         int

	log *slog.Logger
}

// New creates a chat view with an empty conversation.
func New(cfg Config) *Model {
	if cfg.Delay == nil {
		cfg.Delay = stream.RandomDelay(stream.DefaultMinDelay, stream.DefaultMaxDelay)
	}
	if cfg.Theme == nil {
		cfg.Theme = styles.NewTheme(styles.ModeAuto)
	}
	if cfg.Renderer == nil {
		cfg.Renderer = GlamourRenderer
	}
	if cfg.AssistantName == "" {
		cfg.AssistantName = DefaultAssistantName
	}
	if cfg.MaxInputHeight <= 0 {
		cfg.MaxInputHeight = 6
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	tracker := clipboard.NewTracker(cfg.Clipboard, cfg.CopyWindow)

	ta := textarea.New()
	ta.Placeholder = "Ask me anything about your sales..."
	ta.Prompt = ""
	ta.ShowLineNumbers = false
	ta.CharLimit = 8000
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.SetHeight(1)
	// A steady cursor keeps Focus from scheduling blink ticks on every turn.
	ta.Cursor.SetMode(cursor.CursorStatic)
	ta.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(cfg.Theme.Spinner),
	)

	m := &Model{
		conv:           model.NewConversation(),
		turn:           model.TurnIdle,
		gen:            nextGeneration(),
		cancelMgr:      newCancelManager(),
		parent:         cfg.Context,
		fetcher:        cfg.Fetcher,
		delay:          cfg.Delay,
		tracker:        tracker,
		copyWindow:     tracker.Window(),
		newRender:      cfg.Renderer,
		rendered:       make(map[string]string),
		theme:          cfg.Theme,
		keys:           DefaultKeyMap(),
		input:          ta,
		viewport:       viewport.New(80, 20),
		spinner:        sp,
		assistant:      cfg.AssistantName,
		maxInputHeight: cfg.MaxInputHeight,
		log:            logging.For("chat"),
	}
	m.SetSize(80, 24)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Messages returns a snapshot of the conversation.
func (m *Model) Messages() []model.Message {
	return m.conv.Messages()
}

// Turn returns the turn state.
func (m *Model) Turn() model.Turn {
	return m.turn
}

// IsCopied reports whether the message is inside its copied window.
func (m *Model) IsCopied(id string) bool {
	return m.tracker.IsCopied(id)
}

// Closed reports whether Close has been called.
func (m *Model) Closed() bool {
	return m.closed
}

// Generation returns the generation stamped on new commands.
func (m *Model) Generation() uint64 {
	return m.gen
}

// Input returns the current input text.
func (m *Model) Input() string {
	return m.input.Value()
}

// SetInput replaces the input text.
func (m *Model) SetInput(s string) {
	m.input.SetValue(s)
	m.resizeInput()
}

// Apply swaps the settings used by later turns. A reply already playing
// keeps its pace until the next word.
func (m *Model) Apply(s Settings) {
	if s.Fetcher != nil {
		m.fetcher = s.Fetcher
	}
	if s.Delay != nil {
		m.delay = s.Delay
	}
	if s.CopyWindow > 0 {
		m.copyWindow = s.CopyWindow
	}
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Close tears the view down. Pending fetches are cancelled and any reply,
// reveal or expiry message that arrives later is dropped.
func (m *Model) Close() {
	if m.closed {
		return
	}
	if m.turn.Busy() {
		m.log.Info("stream_discarded", "turn", m.turn.String(), "messages", m.conv.Len())
	}
	m.closed = true
	m.gen = nextGeneration()
	m.cancelMgr.clear()
	m.playback = nil
	m.tracker.Reset()
	m.input.Blur()
}

// live reports whether a message stamped with gen may still mutate the view.
func (m *Model) live(gen uint64) bool {
	return !m.closed && gen == m.gen
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case ReplyMsg:
		return m, m.handleReply(msg)

	case RevealMsg:
		return m, m.handleReveal(msg)

	case CopyExpiredMsg:
		if m.live(msg.Gen) && m.tracker.Expire(msg.MessageID, msg.Seq) {
			m.refresh(false)
		}
		return m, nil

	case spinner.TickMsg:
		if m.closed || m.turn != model.TurnAwaitingReply {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh(false)
		return m, cmd
	}

	if m.inputEnabled() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.Submit(m.input.Value())

	case key.Matches(msg, m.keys.NewLine):
		if m.inputEnabled() {
			m.input.InsertString("\n")
			m.resizeInput()
		}
		return nil

	case key.Matches(msg, m.keys.Copy):
		return m.CopyLast()

	case key.Matches(msg, m.keys.PageUp, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}

	if !m.inputEnabled() {
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.resizeInput()
	return cmd
}

func (m *Model) inputEnabled() bool {
	return !m.closed && m.turn.CanSubmit()
}

// =============================================================================
// LAYOUT
// =============================================================================

// SetSize lays the view out for a width x height area.
func (m *Model) SetSize(width, height int) {
	m.width = max(width, 20)
	m.height = max(height, 8)
	m.theme.SetSize(m.width, m.height)

	m.input.SetWidth(m.width - 4)
	m.viewport.Width = m.width
	m.layoutViewport()

	m.renderer = m.newRender(m.theme.BubbleWidth()-4, m.theme.IsDark)
	clear(m.rendered)
	m.refresh(true)
}

// resizeInput grows the input with its content up to maxInputHeight lines.
func (m *Model) resizeInput() {
	lines := strings.Count(m.input.Value(), "\n") + 1
	h := min(max(lines, 1), m.maxInputHeight)
	if h != m.input.Height() {
		m.input.SetHeight(h)
		m.layoutViewport()
	}
}

func (m *Model) layoutViewport() {
	// input border (2) + footer (1)
	m.viewport.Height = max(m.height-m.input.Height()-3, 1)
}
