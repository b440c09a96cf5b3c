package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/giygas/medicines-catalog/entities"
	"github.com/giygas/medicines-catalog/interfaces"
	"github.com/giygas/medicines-catalog/search"
	"github.com/giygas/medicines-catalog/validation"
	"github.com/spf13/cobra"
)

func newBrowseCmd() *cobra.Command {
	var (
		filters filterFlags
		limit   int
		delay   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Search the catalog interactively, results follow the search box as you type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openPipeline(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := loadCatalog(cmd.Context(), a, false)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("delay") {
				delay = a.Config.SearchDebounce
			}
			return runBrowse(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), result, filters, delay, limit)
		},
	}

	filters.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 15, "maximum rows to show, 0 for all")
	cmd.Flags().DurationVar(&delay, "delay", search.DefaultDebounce, "quiet period before the search runs")
	return cmd
}

// queryMsg carries a debounced search box value
type queryMsg string

// browseModel is the bubbletea model behind browse. Keystrokes edit input
// right away, results only follow once the debouncer lets a value through.
type browseModel struct {
	result    interfaces.LoadResult
	filters   filterFlags
	validator interfaces.DataValidator
	debouncer *search.Debouncer[string]
	limit     int

	input   string
	query   string
	matches []entities.Entry
	invalid error
}

func newBrowseModel(result interfaces.LoadResult, filters filterFlags, debouncer *search.Debouncer[string], limit int) browseModel {
	m := browseModel{
		result:    result,
		filters:   filters,
		validator: validation.NewDataValidator(),
		debouncer: debouncer,
		limit:     limit,
	}
	m.apply("")
	return m
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.debouncer.Stop()
			return m, tea.Quit
		case tea.KeyEnter:
			m.debouncer.Flush()
			return m, nil
		case tea.KeyBackspace:
			if r := []rune(m.input); len(r) > 0 {
				m.input = string(r[:len(r)-1])
			}
		case tea.KeySpace:
			m.input += " "
		case tea.KeyRunes:
			m.input += string(msg.Runes)
		default:
			return m, nil
		}
		m.debouncer.Push(m.input)

	case queryMsg:
		m.apply(string(msg))
	}
	return m, nil
}

// apply runs query against the loaded entries. An invalid query keeps the
// previous matches on screen.
func (m *browseModel) apply(query string) {
	if strings.TrimSpace(query) != "" {
		if err := m.validator.ValidateInput(query); err != nil {
			m.invalid = err
			return
		}
	}
	m.invalid = nil
	m.query = query
	m.matches = search.Evaluate(m.result.Entries, m.filters.criteria(query))
}

func (m browseModel) View() string {
	var b strings.Builder
	printSummary(&b, m.result, len(m.matches))
	fmt.Fprintf(&b, "search: %s_\n", m.input)
	if m.invalid != nil {
		fmt.Fprintf(&b, "invalid query: %v\n", m.invalid)
	}
	b.WriteString("\n")
	if err := printTable(&b, m.matches, m.limit); err != nil {
		fmt.Fprintf(&b, "failed to print results: %v\n", err)
	}
	b.WriteString("\nenter: search now  esc: quit\n")
	return b.String()
}

// runBrowse drives the model until the user quits or ctx ends
func runBrowse(ctx context.Context, in io.Reader, out io.Writer, result interfaces.LoadResult, filters filterFlags, delay time.Duration, limit int) error {
	var program *tea.Program
	debouncer := search.NewDebouncer(delay, func(query string) {
		program.Send(queryMsg(query))
	})
	defer debouncer.Stop()

	program = tea.NewProgram(
		newBrowseModel(result, filters, debouncer, limit),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	_, err := program.Run()
	return err
}
