// billctl lists an employee's bills from a remote billed server, the way
// the bills page renders them: normalized and most recent first.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/subosito/gotenv"

	"github.com/billed-app/billed-server/internal/bills"
	"github.com/billed-app/billed-server/internal/models"
	"github.com/billed-app/billed-server/internal/remote"
	"github.com/billed-app/billed-server/pkg/utils"
)

func main() {
	_ = gotenv.Load()

	serverURL := flag.String("server", "http://localhost:5678", "billed server base URL")
	email := flag.String("email", "", "employee email")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "billctl: -email is required")
		os.Exit(2)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:  "warn",
		Format: "console",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "billctl: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	user := models.User{Type: models.UserTypeEmployee, Email: *email}
	store := remote.NewClient(*serverURL, *email, logger)
	sync := bills.NewSynchronizer(store, user, logger)

	rows, err := sync.FetchAndNormalizeBills(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "billctl: %v\n", err)
		os.Exit(1)
	}
	bills.SortAntiChronological(rows)

	if len(rows) == 0 {
		fmt.Println("No bills.")
		return
	}

	fmt.Printf("%-12s  %-24s  %-28s  %10s  %-10s\n", "Date", "Type", "Nom", "Montant", "Statut")
	for _, row := range rows {
		fmt.Printf("%-12s  %-24s  %-28s  %10.2f  %-10s\n",
			row.Date, row.Type, row.Name, row.Amount, row.Status)
	}
}
