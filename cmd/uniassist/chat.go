// This file implements the interactive chat interface using bubbletea.
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"

	"uniassist/cmd/uniassist/ui"
	"uniassist/internal/logging"
	"uniassist/internal/workflow"
)

// chatModel is the main model for the interactive chat interface
type chatModel struct {
	// UI components
	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	styles    ui.Styles
	renderer  *glamour.TermRenderer

	// Display state
	messages  []chatMessage
	isLoading bool
	err       error
	width     int
	height    int
	ready     bool

	// Session state
	sessionID  string
	turnCount  int
	history    []workflow.Turn
	university workflow.University

	// Backend
	app *app
}

type chatMessage struct {
	role       string // "user" or "assistant"
	content    string
	university string
	time       time.Time
}

// displayLabel picks the label shown next to an answer. When routing
// fell through to GENERAL because the router named an institution
// outside the known set, the verbatim name is shown instead.
func displayLabel(res workflow.Result) string {
	if res.University == workflow.UniversityGeneral &&
		res.RawLabel != "" && res.RawLabel != string(workflow.UniversityGeneral) {
		return res.RawLabel
	}
	return string(res.University)
}

// Messages for tea updates
type (
	responseMsg workflow.Result
	errorMsg    error
)

// initChat initializes the interactive chat model
func initChat(a *app) chatModel {
	styles := ui.DefaultStyles()

	ti := textinput.New()
	ti.Placeholder = "Ask about NUST, COMSATS, or FAST... (Enter to send, Ctrl+C to exit)"
	ti.Focus()
	ti.Prompt = "│ "
	ti.CharLimit = 4096
	ti.Width = 80
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.UserInput

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	vp := viewport.New(80, 20)
	vp.SetContent("")

	var renderer *glamour.TermRenderer
	if styles.Theme.IsDark {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
	} else {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath("light"),
			glamour.WithWordWrap(80),
		)
	}

	return chatModel{
		textinput:  ti,
		viewport:   vp,
		spinner:    sp,
		styles:     styles,
		renderer:   renderer,
		messages:   []chatMessage{},
		sessionID:  uuid.NewString(),
		university: workflow.DefaultContext,
		app:        a,
	}
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
	)
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if !m.isLoading {
				return m.handleSubmit()
			}
		}

		if !m.isLoading {
			m.textinput, tiCmd = m.textinput.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		footerHeight := 2
		inputHeight := 3

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, msg.Height-headerHeight-footerHeight-inputHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = msg.Height - headerHeight - footerHeight - inputHeight
		}

		m.textinput.Width = msg.Width - 4

		if m.renderer != nil {
			m.renderer, _ = glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(msg.Width-8),
			)
		}

	case spinner.TickMsg:
		if m.isLoading {
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}

	case responseMsg:
		m.isLoading = false
		m.turnCount++
		res := workflow.Result(msg)
		m.history = res.History
		m.university = res.University
		m.messages = append(m.messages, chatMessage{
			role:       "assistant",
			content:    res.Answer,
			university: displayLabel(res),
			time:       time.Now(),
		})
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom()

	case errorMsg:
		// Session context and history stay as they were before the
		// failed question.
		m.isLoading = false
		m.err = msg
		m.messages = append(m.messages, chatMessage{
			role:    "assistant",
			content: fmt.Sprintf("Sorry, something went wrong: %v", error(msg)),
			time:    time.Now(),
		})
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom()
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

func (m chatModel) handleSubmit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textinput.Value())
	if input == "" {
		return m, nil
	}

	if strings.HasPrefix(input, "/") {
		return m.handleCommand(input)
	}

	m.messages = append(m.messages, chatMessage{
		role:    "user",
		content: input,
		time:    time.Now(),
	})
	m.textinput.Reset()
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
	m.isLoading = true
	m.err = nil

	return m, tea.Batch(
		m.spinner.Tick,
		m.answerQuery(input),
	)
}

// answerQuery runs the workflow off the UI goroutine.
func (m chatModel) answerQuery(question string) tea.Cmd {
	history := m.history
	current := m.university
	controller := m.app.controller
	sessionID := m.sessionID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		logging.Session("[%s] question: %q (context=%s)", sessionID, question, current)

		res, err := controller.AnswerQuery(ctx, question, history, current)
		if err != nil {
			return errorMsg(err)
		}
		return responseMsg(res)
	}
}

func (m chatModel) handleCommand(input string) (tea.Model, tea.Cmd) {
	m.textinput.Reset()

	switch strings.ToLower(strings.Fields(input)[0]) {
	case "/clear":
		m.messages = nil
		m.history = nil
		m.university = workflow.DefaultContext
		m.turnCount = 0
		m.err = nil
		m.viewport.SetContent("")
		logging.Session("[%s] conversation cleared", m.sessionID)
		return m, nil

	case "/help":
		m.messages = append(m.messages, chatMessage{
			role: "assistant",
			content: "Commands:\n" +
				"- `/clear` reset the conversation and university context\n" +
				"- `/help` show this message\n" +
				"- `/quit` exit\n\n" +
				"Ask about NUST, COMSATS, or FAST. Follow-up questions stay with the university you were discussing.",
			time: time.Now(),
		})
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom()
		return m, nil

	case "/quit", "/exit":
		return m, tea.Quit

	default:
		m.messages = append(m.messages, chatMessage{
			role:    "assistant",
			content: fmt.Sprintf("Unknown command %q. Try /help.", input),
			time:    time.Now(),
		})
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom()
		return m, nil
	}
}

func (m chatModel) renderMessages() string {
	var sb strings.Builder

	for i, msg := range m.messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		switch msg.role {
		case "user":
			sb.WriteString(m.styles.UserLabel.Render("You"))
			sb.WriteString("\n")
			sb.WriteString(msg.content)
			sb.WriteString("\n")
		default:
			label := "Assistant"
			if msg.university != "" {
				label = "Assistant · " + msg.university
			}
			sb.WriteString(m.styles.AssistantLabel.Render(label))
			sb.WriteString("\n")
			content := msg.content
			if m.renderer != nil {
				if rendered, err := m.renderer.Render(msg.content); err == nil {
					content = rendered
				}
			}
			sb.WriteString(content)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func (m chatModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("uniassist"))
	sb.WriteString("  ")
	sb.WriteString(m.styles.UniversityTag.Render(string(m.university)))
	sb.WriteString("\n\n")

	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")

	if m.isLoading {
		sb.WriteString(m.spinner.View())
		sb.WriteString(" Thinking...")
		sb.WriteString("\n")
	}

	sb.WriteString(m.textinput.View())
	sb.WriteString("\n")
	sb.WriteString(m.styles.Help.Render("/clear reset · /help commands · Ctrl+C exit"))

	return sb.String()
}

// runInteractiveChat starts the bubbletea chat program.
func runInteractiveChat() error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p := tea.NewProgram(initChat(a), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat interface failed: %w", err)
	}
	return nil
}
