package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	diffeq "github.com/alec-shirazi/godiffeq"
	"github.com/alec-shirazi/godiffeq/internal/demo"
)

// exploreModel scrubs the engine interpolant across the solved span.
type exploreModel struct {
	def    demo.Definition
	sol    *diffeq.Solution
	t      float64
	step   float64
	state  diffeq.State
	interp error
}

func newExploreModel(def demo.Definition, sol *diffeq.Solution) exploreModel {
	t0 := sol.T[0]
	t1 := sol.T[len(sol.T)-1]
	m := exploreModel{
		def:  def,
		sol:  sol,
		t:    t0,
		step: (t1 - t0) / 200,
	}
	m.refresh()
	return m
}

func (m *exploreModel) refresh() {
	m.state, m.interp = m.sol.At(m.t)
}

func (m exploreModel) Init() tea.Cmd { return nil }

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	lo := m.sol.T[0]
	hi := m.sol.T[len(m.sol.T)-1]
	if lo > hi {
		lo, hi = hi, lo
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		m.t -= m.step
	case "right", "l":
		m.t += m.step
	case "shift+left", "H":
		m.t -= 10 * m.step
	case "shift+right", "L":
		m.t += 10 * m.step
	case "home", "g":
		m.t = m.sol.T[0]
	case "end", "G":
		m.t = m.sol.T[len(m.sol.T)-1]
	}
	if m.t < lo {
		m.t = lo
	}
	if m.t > hi {
		m.t = hi
	}
	m.refresh()
	return m, nil
}

func (m exploreModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.def.Name) + "  " + labelStyle.Render("interpolant explorer") + "\n\n")

	lo := m.sol.T[0]
	hi := m.sol.T[len(m.sol.T)-1]
	span := hi - lo
	frac := 0.0
	if span != 0 {
		frac = (m.t - lo) / span
	}
	const barWidth = 60
	pos := int(frac * barWidth)
	if pos > barWidth {
		pos = barWidth
	}
	if pos < 0 {
		pos = 0
	}
	b.WriteString("[" + strings.Repeat("=", pos) + ">" + strings.Repeat(" ", barWidth-pos) + "]\n")
	b.WriteString(fmt.Sprintf("t = %.6g\n\n", m.t))

	if m.interp != nil {
		b.WriteString(errStyle.Render(m.interp.Error()) + "\n")
	} else {
		for i, v := range m.state {
			label := fmt.Sprintf("u%d", i)
			if i < len(m.def.Labels) {
				label = m.def.Labels[i]
			}
			b.WriteString(fmt.Sprintf("  %-12s %14.8g\n", label, v))
		}
	}
	b.WriteString("\n" + labelStyle.Render("←/→ step   shift faster   g/G ends   q quit") + "\n")
	return b.String()
}

func exploreProblem(cmd *cobra.Command, args []string) error {
	def, _, sol, err := solveDemo(args[0])
	if err != nil {
		return err
	}
	defer sol.Close()

	_, err = tea.NewProgram(newExploreModel(def, sol)).Run()
	return err
}
