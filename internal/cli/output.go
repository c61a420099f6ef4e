package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"imagesync/internal/resource"
)

var (
	doneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	boldStyle = lipgloss.NewStyle().Bold(true)
)

// displayDecision renders a dry-run plan
func displayDecision(name string, decision *resource.Decision) {
	fmt.Println(boldStyle.Render("Dry run: showing planned action"))

	switch decision.Action {
	case resource.ActionNone:
		fmt.Printf("  = image %s unchanged (%s)\n", name, decision.Reason)
	case resource.ActionCreate:
		fmt.Printf("  + image %s would be created (%s)\n", name, decision.Reason)
	case resource.ActionUpdate:
		fmt.Printf("  ~ image %s (%s) would be updated (%s)\n", name, decision.ImageUUID, decision.Reason)
	case resource.ActionDelete:
		fmt.Printf("  - image %s (%s) would be deleted\n", name, decision.ImageUUID)
	}

	fmt.Println(boldStyle.Render("Run without --dry-run to apply"))
}

// displayOutcome renders the terminal result of a pass
func displayOutcome(name string, outcome *resource.Outcome) {
	switch {
	case outcome.Failed():
		fmt.Printf("%s image %s: %s\n", failStyle.Render("✗"), name, outcome.FailureMessage)
	case !outcome.Changed:
		fmt.Printf("%s image %s unchanged\n", warnStyle.Render("="), name)
	case outcome.ImageUUID != "":
		fmt.Printf("%s image %s reconciled (%s)\n", doneStyle.Render("✓"), name, outcome.ImageUUID)
	default:
		fmt.Printf("%s image %s reconciled\n", doneStyle.Render("✓"), name)
	}
}
