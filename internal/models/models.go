// internal/models/models.go

// Package models reports which configured models can be evaluated, asking
// OpenAI-compatible and llama.cpp hosts what they actually serve.
package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/cryptic/internal/appconfig"
	"github.com/mwiater/cryptic/internal/providers/openai"
)

// Status values reported for a configured model.
const (
	StatusLoaded    = "loaded"
	StatusAvailable = "available"
	StatusMissing   = "missing"
	StatusHosted    = "hosted"
	StatusOffline   = "offline"
	StatusUnknown   = "unknown"
)

// Lister returns the models a host serves.
type Lister interface {
	ListModels(ctx context.Context, host appconfig.Host) ([]openai.ModelStatus, error)
}

// Entry is one configured model.
type Entry struct {
	ID     string
	Status string
}

// HostModels is what one host reported.
type HostModels struct {
	Host    string
	Type    string
	Entries []Entry
	Err     error
}

// Collect queries every host concurrently and returns the hosts sorted by
// name. Hosts that are not queried report a status derived from their type.
func Collect(ctx context.Context, cfg *appconfig.Config, lister Lister) []HostModels {
	out := make([]HostModels, 0, len(cfg.Hosts))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, host := range cfg.Hosts {
		wg.Add(1)
		go func(h appconfig.Host) {
			defer wg.Done()
			hm := describe(ctx, h, lister)
			mu.Lock()
			out = append(out, hm)
			mu.Unlock()
		}(host)
	}
	wg.Wait()

	sort.Slice(out, func(i, j int) bool { return out[i].Host < out[j].Host })
	return out
}

func describe(ctx context.Context, h appconfig.Host, lister Lister) HostModels {
	t := appconfig.NormalizeHostType(h.Type)
	if t == "" {
		t = appconfig.HostTypeLlamaCpp
	}
	hm := HostModels{Host: h.Name, Type: t}

	fixed := ""
	switch t {
	case appconfig.HostTypeGoogle:
		fixed = StatusHosted
	case appconfig.HostTypeMockLLM:
		fixed = StatusOffline
	}

	var served map[string]string
	if fixed == "" && lister != nil {
		reported, err := lister.ListModels(ctx, h)
		if err != nil {
			hm.Err = err
		} else {
			served = make(map[string]string, len(reported))
			for _, m := range reported {
				served[strings.ToLower(m.Name)] = m.Status
			}
		}
	}

	for _, model := range h.Models {
		e := Entry{ID: t + "/" + model, Status: fixed}
		if e.Status == "" {
			e.Status = StatusUnknown
			if served != nil {
				state, ok := served[strings.ToLower(model)]
				switch {
				case !ok:
					e.Status = StatusMissing
				case strings.EqualFold(state, StatusLoaded):
					e.Status = StatusLoaded
				default:
					e.Status = StatusAvailable
				}
			}
		}
		hm.Entries = append(hm.Entries, e)
	}
	return hm
}

var (
	nodeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	statusStyles = map[string]lipgloss.Style{
		StatusLoaded:    lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		StatusAvailable: lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
		StatusHosted:    lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
		StatusOffline:   lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		StatusMissing:   lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
	}
	unknownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// Print writes the hosts and their models, one host per block.
func Print(w io.Writer, hosts []HostModels) {
	for _, hm := range hosts {
		fmt.Fprintln(w, nodeStyle.Render(fmt.Sprintf("%s (%s):", hm.Host, hm.Type)))
		if hm.Err != nil {
			fmt.Fprintf(w, "  Error: %v\n", hm.Err)
		}
		for _, e := range hm.Entries {
			style, ok := statusStyles[e.Status]
			if !ok {
				style = unknownStyle
			}
			fmt.Fprintf(w, "  >>> %s %s\n", e.ID, style.Render("("+strings.ToUpper(e.Status)+")"))
		}
		fmt.Fprintln(w)
	}
}

// List collects and prints the configured models.
func List(ctx context.Context, cfg *appconfig.Config, w io.Writer) error {
	if cfg == nil {
		return fmt.Errorf("configuration is not initialized")
	}
	if len(cfg.Hosts) == 0 {
		fmt.Fprintln(w, "No hosts configured.")
		return nil
	}
	Print(w, Collect(ctx, cfg, openai.New(cfg)))
	return nil
}
