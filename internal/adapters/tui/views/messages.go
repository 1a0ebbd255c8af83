package views

import "diagindex/internal/domain"

// SwitchToHelpMsg requests the help view
type SwitchToHelpMsg struct{}

// SwitchToLookupMsg requests the lookup view
type SwitchToLookupMsg struct{}

// OpenEditorMsg requests opening a result in the editor
type OpenEditorMsg struct {
	Location domain.Location
}

// OpenObsidianMsg requests opening a result in Obsidian
type OpenObsidianMsg struct {
	Location domain.Location
}
