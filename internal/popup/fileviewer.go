package popup

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/teaflash/teaflash/internal/styles"
)

// FileViewer is a minimal directory browser used to pick the binary the
// auto-flash watcher should observe. Left ascends to the parent
// directory, right or enter descends into a directory or selects a
// file. The selected path is delivered once through the response
// channel.
type FileViewer struct {
	dir     string
	entries []os.DirEntry
	cursor  int
	resp    chan string
	done    bool
}

// NewFileViewer creates the picker rooted at start (usually the working
// directory).
func NewFileViewer(start string) (*FileViewer, <-chan string, error) {
	f := &FileViewer{
		dir:  start,
		resp: make(chan string, 1),
	}
	if err := f.readDir(start); err != nil {
		return nil, nil, err
	}
	return f, f.resp, nil
}

func (f *FileViewer) readDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})
	f.dir = dir
	f.entries = entries
	f.cursor = 0
	return nil
}

func (f *FileViewer) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp:
		if f.cursor > 0 {
			f.cursor--
		}
		return true
	case tea.KeyDown:
		if f.cursor < len(f.entries)-1 {
			f.cursor++
		}
		return true
	case tea.KeyLeft:
		parent := filepath.Dir(f.dir)
		if parent != f.dir {
			// a read failure leaves the current listing in place
			_ = f.readDir(parent)
		}
		return true
	case tea.KeyRight, tea.KeyEnter:
		f.open()
		return true
	}
	return false
}

func (f *FileViewer) open() {
	if f.done || len(f.entries) == 0 {
		return
	}
	sel := filepath.Join(f.dir, f.entries[f.cursor].Name())

	// follow symlinks deliberately
	info, err := os.Stat(sel)
	if err != nil {
		return
	}
	if info.IsDir() {
		_ = f.readDir(sel)
		return
	}

	f.resp <- sel
	close(f.resp)
	f.done = true
}

func (f *FileViewer) View(width, height int) string {
	w, h := boxSize(width, height)

	lines := make([]string, 0, len(f.entries))
	for i, e := range f.entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		if i == f.cursor {
			name = styles.SelectedCmdStyle.Render("> " + name)
		} else {
			name = "  " + name
		}
		lines = append(lines, name)
	}
	if len(lines) > h {
		start := f.cursor - h + 1
		if start < 0 {
			start = 0
		}
		lines = lines[start : start+h]
	}

	body := lipgloss.NewStyle().Width(w).Height(h).
		Render(strings.Join(lines, "\n"))
	return styles.PopupBorderStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			styles.PopupTitleStyle.Render("Watch file: "+f.dir), body))
}

func (f *FileViewer) Alive() bool {
	return !f.done
}

// Close cancels the pending selection.
func (f *FileViewer) Close() {
	if !f.done {
		close(f.resp)
		f.done = true
	}
}
