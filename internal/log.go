package internal

import (
	"io"
	"log"
	"os"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/teaflash/teaflash/events"
)

// StartLogger enables debug logging to teaflash_debug.log when the
// TEAFLASH_LOG environment variable is set. Otherwise all log output is
// discarded; the alternate screen leaves no place for it anyway.
func StartLogger() (io.Closer, error) {
	if os.Getenv("TEAFLASH_LOG") == "" {
		log.SetOutput(io.Discard)
		return nil, nil
	}
	f, err := tea.LogToFile("teaflash_debug.log", "debug")
	if err != nil {
		return nil, err
	}
	log.Println("logger started")
	return f, nil
}

// DbgLogMsgType traces inbox messages by type, skipping the periodic
// ones that would drown everything else.
func DbgLogMsgType(msg tea.Msg) {
	switch msg.(type) {
	case cursor.BlinkMsg, spinner.TickMsg, events.SerialRxMsg, tea.MouseMsg:
		return
	}
	log.Printf("msg: %T", msg)
}
