package views

import "diagindex/internal/adapters/tui/styles"

// ViewState holds the size and status message shared by the views
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets the status line
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the status line
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// RenderMessage returns the styled status line, or "" when there is none
func (s *ViewState) RenderMessage() string {
	if s.Message == "" {
		return ""
	}
	if s.MessageErr {
		return styles.ErrorMsg.Render(s.Message)
	}
	return styles.Success.Render(s.Message)
}
