package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"hotels-sync/internal/apilog"
	"hotels-sync/internal/apiserver"
	"hotels-sync/internal/dbconn"
)

func logsCmd(config *apiserver.Config) *cobra.Command {
	var tabletID uint
	var limit int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the latest API calls with their explanation",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, args []string) {
			db, err := dbconn.OpenAndMigrate(config.Db)
			if err != nil {
				log.Fatalf("Failed on init: %v", err)
			}

			entries, err := apilog.Recent(context.Background(), db, tabletID, limit)
			if err != nil {
				log.Fatalf("Failed to read logs: %v", err)
			}

			for i := len(entries) - 1; i >= 0; i-- {
				e := &entries[i]
				fmt.Printf("%s %s %-7s %s\n",
					time.Time(e.Date).Format("2006-01-02"), e.Time.String(),
					apilog.Level(e.MessageLevel), apilog.Explain(e))
			}
		},
	}
	cmd.Flags().UintVarP(&tabletID, "tablet", "t", 0, "Only show calls of this tablet")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of calls to show")

	return cmd
}
