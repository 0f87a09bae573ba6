package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	criticalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)

	lowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#ffd60a")).
			Padding(0, 1)

	stockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#30d158")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)
)

// Model defines the application state
type Model struct {
	mainMenu    list.Model
	childList   list.Model
	statusView  table.Model
	textInput   textinput.Model
	spinner     spinner.Model
	client      *ApiClient
	child       Child
	statuses    []DepletionStatus
	currentView string
	error       string
}

// item represents a list item
type item struct {
	title, desc string
}

// FilterValue implements list.Item interface
func (i item) FilterValue() string { return i.title }

// Title implements list.Item interface
func (i item) Title() string { return i.title }

// Description implements list.Item interface
func (i item) Description() string { return i.desc }

// childItem represents a child profile in the list
type childItem struct {
	child Child
}

func (i childItem) Title() string       { return i.child.Name }
func (i childItem) Description() string { return i.child.ChildID }
func (i childItem) FilterValue() string { return i.child.Name }

// Initialize the model
func initialModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	items := []list.Item{
		item{title: "Children", desc: "Pick a child to see their supply status"},
		item{title: "Add Child", desc: "Create a new child profile"},
		item{title: "Exit", desc: "Exit the application"},
	}

	mainMenu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "NestSync CLI"

	childList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	childList.Title = "Children"

	columns := []table.Column{
		{Title: "Product", Width: 16},
		{Title: "On Hand", Width: 8},
		{Title: "Per Day", Width: 8},
		{Title: "Days Left", Width: 10},
		{Title: "Status", Width: 18},
		{Title: "Reorder", Width: 8},
	}
	statusTable := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(8),
	)

	ti := textinput.New()
	ti.Placeholder = "Child name..."
	ti.CharLimit = 64
	ti.Width = 30

	return Model{
		mainMenu:    mainMenu,
		childList:   childList,
		statusView:  statusTable,
		textInput:   ti,
		spinner:     s,
		client:      NewApiClient(),
		currentView: "main",
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.EnterAltScreen)
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.currentView != "add_child" {
				return m, tea.Quit
			}
		case "enter":
			if m.currentView == "main" {
				selected, ok := m.mainMenu.SelectedItem().(item)
				if ok {
					switch selected.title {
					case "Exit":
						return m, tea.Quit
					case "Children":
						m.currentView = "children"
						return m, fetchChildren(m.client)
					case "Add Child":
						m.currentView = "add_child"
						m.textInput.SetValue("")
						m.textInput.Focus()
					}
				}
			} else if m.currentView == "children" {
				if selected, ok := m.childList.SelectedItem().(childItem); ok {
					m.child = selected.child
					m.currentView = "status"
					return m, fetchStatuses(m.client, m.child.ChildID)
				}
			} else if m.currentView == "add_child" && m.textInput.Focused() {
				name := m.textInput.Value()
				if name == "" {
					m.error = "Please enter a name"
					return m, nil
				}
				return m, createChild(m.client, name)
			}
		case "esc":
			if m.currentView == "status" {
				m.currentView = "children"
				return m, fetchChildren(m.client)
			} else if m.currentView != "main" {
				m.currentView = "main"
				m.error = ""
			}
		case "r":
			if m.currentView == "status" {
				return m, fetchStatuses(m.client, m.child.ChildID)
			}
		case "d":
			if m.currentView == "status" {
				// Quick-log one diaper change for the selected child
				return m, logUsage(m.client, m.child.ChildID, "diaper")
			}
		}
	case childrenMsg:
		m.childList.SetItems(convertChildrenToItems(msg.children))
		return m, nil
	case statusesMsg:
		m.statuses = msg.statuses
		m.statusView.SetRows(convertStatusesToRows(msg.statuses))
		return m, nil
	case errorMsg:
		m.error = msg.err
		return m, nil
	case confirmMsg:
		m.error = ""
		if m.currentView == "add_child" {
			m.currentView = "children"
			return m, fetchChildren(m.client)
		}
		if m.currentView == "status" {
			return m, fetchStatuses(m.client, m.child.ChildID)
		}
		return m, nil
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.mainMenu.SetSize(msg.Width-h, msg.Height-v)
		m.childList.SetSize(msg.Width-h, msg.Height-v)
		return m, nil
	}

	var cmd tea.Cmd
	switch m.currentView {
	case "main":
		m.mainMenu, cmd = m.mainMenu.Update(msg)
	case "children":
		m.childList, cmd = m.childList.Update(msg)
	case "status":
		m.statusView, cmd = m.statusView.Update(msg)
	case "add_child":
		m.textInput, cmd = m.textInput.Update(msg)
	}

	return m, cmd
}

// View renders the UI
func (m Model) View() string {
	switch m.currentView {
	case "main":
		return docStyle.Render(m.mainMenu.View())
	case "children":
		help := "\nPress 'enter' to view supply status, 'esc' to go back\n"
		if m.error != "" {
			help += errorStyle.Render(m.error) + "\n"
		}
		return docStyle.Render(m.childList.View() + help)
	case "status":
		header := titleStyle.Render(fmt.Sprintf("Supply Status — %s", m.child.Name))
		help := "\nPress 'd' to log a diaper change, 'r' to refresh, 'esc' to go back\n"
		if m.error != "" {
			help += errorStyle.Render(m.error) + "\n"
		}
		return docStyle.Render(header + "\n\n" + m.statusView.View() + "\n" + statusLegend(m.statuses) + help)
	case "add_child":
		help := "\nPress 'enter' to create, 'esc' to cancel\n"
		if m.error != "" {
			help += errorStyle.Render(m.error) + "\n"
		}
		return docStyle.Render(titleStyle.Render("Add Child") + "\n\n" + m.textInput.View() + help)
	default:
		return "Loading..."
	}
}

// Custom message types for the tea.Model
type childrenMsg struct {
	children []Child
}

type statusesMsg struct {
	statuses []DepletionStatus
}

type errorMsg struct {
	err string
}

type confirmMsg struct {
	message string
}

// fetchChildren retrieves child profiles from the API
func fetchChildren(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		children, err := client.GetChildren()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching children: %v", err)}
		}
		return childrenMsg{children: children}
	}
}

// fetchStatuses retrieves depletion statuses for one child
func fetchStatuses(client *ApiClient, childID string) tea.Cmd {
	return func() tea.Msg {
		statuses, err := client.GetStatuses(childID)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching statuses: %v", err)}
		}
		return statusesMsg{statuses: statuses}
	}
}

// createChild creates a new child profile
func createChild(client *ApiClient, name string) tea.Cmd {
	return func() tea.Msg {
		child, err := client.CreateChild(name)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error creating child: %v", err)}
		}
		return confirmMsg{message: fmt.Sprintf("Created %s", child.Name)}
	}
}

// logUsage records one consumption action
func logUsage(client *ApiClient, childID, productType string) tea.Cmd {
	return func() tea.Msg {
		if _, err := client.LogUsage(childID, productType, ""); err != nil {
			return errorMsg{err: fmt.Sprintf("Error logging usage: %v", err)}
		}
		return confirmMsg{message: "Usage logged"}
	}
}

// convertChildrenToItems converts API children to list items
func convertChildrenToItems(children []Child) []list.Item {
	items := make([]list.Item, len(children))
	for i, child := range children {
		items[i] = childItem{child: child}
	}
	return items
}

// convertStatusesToRows converts statuses to table rows
func convertStatusesToRows(statuses []DepletionStatus) []table.Row {
	rows := make([]table.Row, len(statuses))
	for i, s := range statuses {
		days := "∞"
		if s.DaysRemaining != nil {
			days = fmt.Sprintf("%.1f", *s.DaysRemaining)
		}
		level := s.StatusLevel
		if s.LowConfidence {
			level += " (low conf)"
		}
		rows[i] = table.Row{
			s.ProductType,
			fmt.Sprintf("%d", s.AvailableQuantity),
			fmt.Sprintf("%.2f", s.DailyUsageRate),
			days,
			level,
			fmt.Sprintf("%d", s.SuggestedReorderQuantity),
		}
	}
	return rows
}

// statusLegend renders a colored badge per status level present
func statusLegend(statuses []DepletionStatus) string {
	critical, low, stocked := 0, 0, 0
	for _, s := range statuses {
		switch s.StatusLevel {
		case "critical":
			critical++
		case "low":
			low++
		default:
			stocked++
		}
	}

	legend := ""
	if critical > 0 {
		legend += criticalStyle.Render(fmt.Sprintf("%d critical", critical)) + " "
	}
	if low > 0 {
		legend += lowStyle.Render(fmt.Sprintf("%d low", low)) + " "
	}
	if stocked > 0 {
		legend += stockedStyle.Render(fmt.Sprintf("%d stocked", stocked))
	}
	return legend
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v", err)
		os.Exit(1)
	}
}
