package tui

// Keybinding constants
const (
	KeyEnter      = "enter"
	KeyCtrlC      = "ctrl+c"
	KeyEsc        = "esc"
	KeyRegenerate = "ctrl+r"
	KeyAbout      = "ctrl+a"
)

// HelpView returns a one-line help bar with common keybindings.
func HelpView() string {
	return StyleHelp.Render("enter: ask | ctrl+r: regenerate | ctrl+a: about | esc: quit")
}
