package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"hotels-sync/internal/apiserver"
	"hotels-sync/internal/dbconn"
	"hotels-sync/internal/tablets"
)

func parseTabletID(arg string) uint {
	id, err := strconv.ParseUint(arg, 10, 0)
	if err != nil {
		log.Fatalf("Invalid tablet id %s", arg)
	}
	return uint(id)
}

func tabletCmd(config *apiserver.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tablet",
		Short: "Manage field tablets",
	}

	var description string
	var buildings []uint
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Register a tablet with a new secret",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, args []string) {
			db, err := dbconn.OpenAndMigrate(config.Db)
			if err != nil {
				log.Fatalf("Failed on init: %v", err)
			}

			tablet, err := tablets.Create(context.Background(), db, description, buildings)
			if err != nil {
				log.Fatalf("Failed to add tablet: %v", err)
			}

			fmt.Printf("id:     %d\nguid:   %s\nsecret: %s\n", tablet.ID, tablet.Guid, tablets.Secret(tablet.Guid))
		},
	}
	addCmd.Flags().StringVarP(&description, "description", "d", "", "Tablet description")
	addCmd.Flags().UintSliceVarP(&buildings, "building", "b", nil, "Assigned building id (repeatable)")

	setEnabled := func(use string, short string, enabled bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <tablet_id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			Run: func(c *cobra.Command, args []string) {
				db, err := dbconn.OpenAndMigrate(config.Db)
				if err != nil {
					log.Fatalf("Failed on init: %v", err)
				}

				err = tablets.SetEnabled(context.Background(), db, parseTabletID(args[0]), enabled)
				if err != nil {
					log.Fatalf("Failed to %s tablet: %v", use, err)
				}
			},
		}
	}

	codeCmd := &cobra.Command{
		Use:   "code <tablet_id>",
		Short: "Print the current one-time password of a tablet",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			db, err := dbconn.OpenAndMigrate(config.Db)
			if err != nil {
				log.Fatalf("Failed on init: %v", err)
			}
			digits, err := tablets.Digits(config.Api.OtpDigits)
			if err != nil {
				log.Fatalf("Failed on init: %v", err)
			}

			tablet, err := tablets.Get(context.Background(), db, parseTabletID(args[0]))
			if err != nil {
				log.Fatalf("Failed to get tablet: %v", err)
			}

			code, err := tablets.Code(tablet.Guid, time.Now(), digits)
			if err != nil {
				log.Fatalf("Failed to generate code: %v", err)
			}
			fmt.Println(code)
		},
	}

	var issuer string
	uriCmd := &cobra.Command{
		Use:   "uri <tablet_id>",
		Short: "Print the otpauth:// provisioning URI of a tablet",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			db, err := dbconn.OpenAndMigrate(config.Db)
			if err != nil {
				log.Fatalf("Failed on init: %v", err)
			}
			digits, err := tablets.Digits(config.Api.OtpDigits)
			if err != nil {
				log.Fatalf("Failed on init: %v", err)
			}

			tablet, err := tablets.Get(context.Background(), db, parseTabletID(args[0]))
			if err != nil {
				log.Fatalf("Failed to get tablet: %v", err)
			}

			if issuer == "" {
				issuer = config.Api.ProductName
			}
			uri, err := tablets.ProvisioningURI(tablet.Guid, fmt.Sprintf("tablet-%d", tablet.ID), issuer, digits)
			if err != nil {
				log.Fatalf("Failed to build URI: %v", err)
			}
			fmt.Println(uri)
		},
	}
	uriCmd.Flags().StringVar(&issuer, "issuer", "", "Issuer shown by authenticator apps (default api.product_name)")

	cmd.AddCommand(
		addCmd,
		setEnabled("enable", "Allow a tablet to authenticate", true),
		setEnabled("disable", "Reject every call of a tablet", false),
		codeCmd,
		uriCmd,
	)
	return cmd
}
