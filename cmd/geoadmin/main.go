package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/geokey/geoadmin/internal/api"
	"github.com/geokey/geoadmin/internal/app"
	"github.com/geokey/geoadmin/internal/config"
	"github.com/geokey/geoadmin/internal/models"
	"github.com/geokey/geoadmin/internal/session"
)

func main() {
	server := flag.String("server", "", "Base URL of the backend (overrides config)")
	project := flag.Int("project", 0, "Project ID (overrides config)")
	group := flag.Int("group", 0, "User group ID to manage")
	csrf := flag.String("csrf", "", "Value of the CSRF cookie")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load config: %v (using defaults)\n", err)
		cfg = config.GetDefaults()
	}

	if *server != "" {
		cfg.Server.BaseURL = *server
	}
	if *project > 0 {
		cfg.Server.ProjectID = *project
	}

	if cfg.Server.ProjectID <= 0 {
		fmt.Fprintln(os.Stderr, "A project ID is required (use -project or set server.project_id)")
		os.Exit(1)
	}

	client, err := api.NewClient(cfg.Server.BaseURL,
		api.WithBasePath(cfg.Server.BasePath),
		api.WithCSRFCookie(cfg.Server.CSRFCookie),
		api.WithTimeout(time.Duration(cfg.Server.Timeout)*time.Second),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid server URL: %v\n", err)
		os.Exit(1)
	}
	var servers *session.Manager
	if dir, err := config.GetConfigPath(); err == nil {
		servers, err = session.NewManager(dir)
		if err != nil {
			log.Printf("Warning: Could not load server history: %v\n", err)
		}
	}

	token := *csrf
	if token == "" && servers != nil {
		// Fall back to the token stored from a previous session.
		for _, entry := range servers.GetAll() {
			if entry.BaseURL == cfg.Server.BaseURL {
				if t, err := servers.SessionToken(entry); err == nil {
					token = t
				}
				break
			}
		}
	}
	if token != "" {
		client.SetCookie(cfg.Server.CSRFCookie, token)
		if servers != nil {
			err := servers.Add(models.ServerConfig{
				BaseURL:    cfg.Server.BaseURL,
				CSRFCookie: cfg.Server.CSRFCookie,
			}, *csrf)
			if err != nil {
				log.Printf("Warning: Could not record server: %v\n", err)
			}
		}
	}

	a := app.New(cfg, client, *group)
	defer a.Close()

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(a, opts...)
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
