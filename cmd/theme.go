package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/courtside/internal/shared"
	"github.com/desertthunder/courtside/internal/theme"
)

// ThemeShow prints the active scheme and its palette.
func (r *Runner) ThemeShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireTheme(); err != nil {
		return err
	}

	name := r.theme.Current()
	r.writePlain("Theme: %s\n\n", name)

	c := name.Colors()
	for _, swatch := range []struct {
		label string
		color lipgloss.Color
	}{
		{"primary", c.Primary},
		{"background", c.Background},
		{"card", c.Card},
		{"text", c.Text},
		{"muted", c.TextMuted},
		{"border", c.Border},
		{"success", c.Success},
		{"error", c.Error},
	} {
		block := lipgloss.NewStyle().Foreground(swatch.color).Render("██")
		if err := r.writePlain("  %s %-10s %s\n", block, swatch.label, swatch.color); err != nil {
			return err
		}
	}
	return nil
}

// ThemeSet switches to the named scheme and saves it.
func (r *Runner) ThemeSet(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireTheme(); err != nil {
		return err
	}

	name, err := theme.ParseName(cmd.StringArg("name"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	if err := r.theme.Set(name); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return r.writePlain("✓ Theme set to %s\n", name)
}

// ThemeToggle flips between light and dark and saves the result.
func (r *Runner) ThemeToggle(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireTheme(); err != nil {
		return err
	}

	name, err := r.theme.Toggle()
	if err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return r.writePlain("✓ Theme set to %s\n", name)
}

func (r *Runner) requireTheme() error {
	if r.theme == nil {
		return fmt.Errorf("%w: theme provider not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}
