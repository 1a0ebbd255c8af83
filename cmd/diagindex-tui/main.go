package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"diagindex/internal/adapters/editor"
	"diagindex/internal/adapters/jsonstore"
	"diagindex/internal/adapters/obsidian"
	"diagindex/internal/adapters/sqlite"
	"diagindex/internal/adapters/tui"
	"diagindex/internal/config"
	"diagindex/internal/domain"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}

	storeFlag := flag.String("store", cfg.Store, "index store: json or sqlite")
	outputFlag := flag.String("output", "", "index file (default depends on the store)")
	rootFlag := flag.String("root", ".", "indexed directory, opened as the Obsidian vault")
	flag.Parse()

	output := *outputFlag
	if output == "" {
		output = cfg.OutputFor(*storeFlag)
	}

	doc, err := loadIndex(*storeFlag, output)
	if err != nil {
		return err
	}

	app := tui.NewApp(doc, editor.NewOpener(), obsidian.NewOpener(*rootFlag))

	p := tea.NewProgram(app, tea.WithAltScreen())

	_, err = p.Run()
	return err
}

func loadIndex(store, output string) (*domain.IndexDocument, error) {
	switch store {
	case config.StoreJSON:
		return jsonstore.NewStore(output).Load()
	case config.StoreSQLite:
		db, err := sqlite.Open(output)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return db.Load()
	default:
		return nil, fmt.Errorf("unsupported store %q", store)
	}
}
