package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nhle/order-tracker/internal/model"
	"github.com/nhle/order-tracker/internal/store"
)

func line(label string, value any) string {
	return LabelStyle.Render(label) + fmt.Sprint(value)
}

// RunSummary renders the counters of one run.
func RunSummary(title string, stats model.PhaseStatistics) string {
	lines := []string{
		HeaderStyle.Render(title),
		"",
		line("Emails processed", stats.Processed),
		line("Successful", stats.Successful),
		line("Failed", stats.Failed),
	}

	if stats.Confirmations+stats.Cancellations+stats.Shipped > 0 {
		lines = append(lines,
			line("Confirmations", stats.Confirmations),
			line("Cancellations", stats.Cancellations),
			line("Shipped", stats.Shipped),
			line("Tracking numbers", stats.TrackingNumbersFound),
		)
	}
	if stats.Codes > 0 {
		lines = append(lines, line("Xbox codes", stats.Codes))
	}
	if stats.FetchFailures > 0 {
		lines = append(lines, line("Fetch failures", WarnStyle.Render(fmt.Sprint(stats.FetchFailures))))
	}
	if len(stats.AbortedPhases) > 0 {
		phases := make([]string, 0, len(stats.AbortedPhases))
		for _, p := range stats.AbortedPhases {
			phases = append(phases, string(p))
		}
		lines = append(lines, line("Skipped phases", WarnStyle.Render(strings.Join(phases, ", "))))
	}

	return PanelStyle.Render(strings.Join(lines, "\n"))
}

// StoreSummary renders the database totals.
func StoreSummary(sum store.Summary) string {
	return PanelStyle.Render(strings.Join([]string{
		HeaderStyle.Render("Database"),
		"",
		line("Unique orders", sum.UniqueOrders),
		line("Shipped", StatusStyle(model.StatusShipped).Render(fmt.Sprint(sum.Shipped))),
		line("Cancelled", StatusStyle(model.StatusCancelled).Render(fmt.Sprint(sum.Cancelled))),
		line("Tracking numbers", sum.TrackingNumbers),
	}, "\n"))
}

// OrdersTable renders orders one per row.
func OrdersTable(orders []model.Order) string {
	if len(orders) == 0 {
		return HelpStyle.Render("No orders found.")
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorBorder)).
		Headers("ORDER", "DATE", "TOTAL", "STATUS", "ITEMS", "TRACKING")

	for _, o := range orders {
		t.Row(
			o.OrderNumber,
			o.OrderDate,
			o.TotalPrice,
			StatusStyle(o.Status).Render(string(o.Status)),
			fmt.Sprint(len(o.Products)),
			strings.Join(o.TrackingNumbers, ", "),
		)
	}

	return t.Render()
}

// FolderList renders mailbox names as a bulleted list.
func FolderList(folders []string) string {
	if len(folders) == 0 {
		return HelpStyle.Render("No folders found.")
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Folders"))
	b.WriteString("\n")
	for _, f := range folders {
		b.WriteString("  • " + f + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// ProfilesTable renders configured mailbox profiles. Secrets are never
// shown.
func ProfilesTable(profiles []model.ProfileConfig, label func(string) string) string {
	if len(profiles) == 0 {
		return HelpStyle.Render("No profiles configured. Add one with `order-tracker profile add`.")
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorBorder)).
		Headers("NAME", "EMAIL", "SERVICE")

	for _, p := range profiles {
		t.Row(p.Name, p.Email, label(p.Service))
	}
	return t.Render()
}
