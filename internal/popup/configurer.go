package popup

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	table "github.com/evertras/bubble-table/table"

	"github.com/teaflash/teaflash/internal/session"
	"github.com/teaflash/teaflash/internal/styles"
)

const (
	colField = "field"
	colValue = "value"
)

// Configurer edits a DeviceConfig in a small field table. Up/down
// select a field, left/right cycle its value, enter commits the whole
// configuration through the response channel.
type Configurer struct {
	cfg    session.DeviceConfig
	cursor int
	tbl    table.Model
	resp   chan session.DeviceConfig
	done   bool
}

// NewConfigurer creates the editor, pre-filled with the given
// configuration (usually session.DefaultConfig for the chosen path).
func NewConfigurer(cfg session.DeviceConfig) (*Configurer, <-chan session.DeviceConfig) {
	c := &Configurer{
		cfg:  cfg,
		resp: make(chan session.DeviceConfig, 1),
	}
	c.tbl = table.New([]table.Column{
		table.NewColumn(colField, "Setting", 14),
		table.NewColumn(colValue, "Value", 12),
	}).Focused(true)
	c.refresh()
	return c, c.resp
}

func (c *Configurer) rows() []table.Row {
	cfg := c.cfg
	data := [][2]string{
		{"Baud rate", strconv.Itoa(int(cfg.Baud))},
		{"Data bits", strconv.Itoa(cfg.DataBits)},
		{"Parity", cfg.Parity.String()},
		{"Stop bits", strconv.Itoa(cfg.StopBits)},
		{"Flow control", cfg.Flow.String()},
		{"DTR on open", strconv.FormatBool(cfg.DTROnOpen)},
	}
	rows := make([]table.Row, len(data))
	for i, d := range data {
		rows[i] = table.NewRow(table.RowData{colField: d[0], colValue: d[1]})
	}
	return rows
}

func (c *Configurer) refresh() {
	c.tbl = c.tbl.WithRows(c.rows()).WithHighlightedRow(c.cursor)
}

func (c *Configurer) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp:
		if c.cursor > 0 {
			c.cursor--
		}
		c.refresh()
		return true
	case tea.KeyDown:
		if c.cursor < 5 {
			c.cursor++
		}
		c.refresh()
		return true
	case tea.KeyLeft:
		c.cycle(-1)
		c.refresh()
		return true
	case tea.KeyRight:
		c.cycle(1)
		c.refresh()
		return true
	case tea.KeyEnter:
		if c.done {
			return true
		}
		c.resp <- c.cfg
		close(c.resp)
		c.done = true
		return true
	}
	return false
}

// cycle steps the selected field through its allowed values.
func (c *Configurer) cycle(delta int) {
	switch c.cursor {
	case 0:
		idx := 0
		for i, b := range session.Bauds {
			if b == c.cfg.Baud {
				idx = i
			}
		}
		c.cfg.Baud = session.Bauds[wrap(idx+delta, len(session.Bauds))]
	case 1:
		// 5 to 8 data bits
		c.cfg.DataBits = 5 + wrap(c.cfg.DataBits-5+delta, 4)
	case 2:
		c.cfg.Parity = session.Parity(wrap(int(c.cfg.Parity)+delta, 3))
	case 3:
		if c.cfg.StopBits == 1 {
			c.cfg.StopBits = 2
		} else {
			c.cfg.StopBits = 1
		}
	case 4:
		c.cfg.Flow = session.FlowControl(wrap(int(c.cfg.Flow)+delta, 3))
	case 5:
		c.cfg.DTROnOpen = !c.cfg.DTROnOpen
	}
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

func (c *Configurer) View(width, height int) string {
	title := styles.PopupTitleStyle.Render(
		fmt.Sprintf("Configure %s", c.cfg.Path))
	hint := styles.FooterStyle.Render("←/→ change · enter connect")
	return styles.PopupBorderStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left, title, c.tbl.View(), hint))
}

func (c *Configurer) Alive() bool {
	return !c.done
}

// Close cancels the pending configuration.
func (c *Configurer) Close() {
	if !c.done {
		close(c.resp)
		c.done = true
	}
}
