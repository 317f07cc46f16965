package app

import (
	"github.com/nhle/order-tracker/internal/credential"
	"github.com/nhle/order-tracker/internal/model"
	"github.com/nhle/order-tracker/internal/store"
	appsync "github.com/nhle/order-tracker/internal/sync"
	"github.com/nhle/order-tracker/internal/theme"
)

func (a *App) printRun(res appsync.Result, job appsync.Job) {
	if job.Orders {
		a.println(theme.RunSummary("Order Processing Summary", res.OrderStats))
		a.println(theme.OrdersTable(res.Orders))
	}
	if job.Xbox {
		a.println(theme.RunSummary("Xbox Code Summary", res.XboxStats))
		if len(res.Codes) > 0 {
			a.printf("%d codes collected, %d new\n", len(res.Codes), res.NewCodes)
		} else {
			a.println(theme.HelpStyle.Render("No Xbox codes found."))
		}
	}
}

func (a *App) printStore(sum store.Summary) {
	a.println(theme.StoreSummary(sum))
}

func (a *App) printFolders(folders []string) {
	a.println(theme.FolderList(folders))
}

func (a *App) printProfiles(profiles []model.ProfileConfig) {
	a.println(theme.ProfilesTable(profiles, credential.ServiceLabel))
}
