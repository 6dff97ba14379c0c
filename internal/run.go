package internal

import (
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
)

// Run starts the terminal program and blocks until it exits. The pump
// goroutine bridges the inbox into the bubbletea loop so background
// actors never touch the program directly.
func Run(opts Options, store Config) error {
	logfile, err := StartLogger()
	if err != nil {
		return err
	}
	if logfile != nil {
		defer logfile.Close()
	}

	zone.NewGlobal()
	defer zone.Close()

	m := NewApp(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	go func() {
		for msg := range m.Messenger().Inbox() {
			p.Send(msg)
		}
	}()

	final, err := p.Run()
	if err != nil {
		return err
	}
	if app, ok := final.(App); ok {
		return store.StoreHistory(app.History())
	}
	return nil
}
