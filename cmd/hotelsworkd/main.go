package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hotels-sync/internal/worker"
)

func main() {
	var err error
	var configFile string
	var config worker.Config

	rootCmd := &cobra.Command{
		Use:   "hotelsworkd",
		Short: "Run periodic maintenance jobs on the hotels database",
		// Main Entry Point
		Run: func(c *cobra.Command, args []string) {
			// Init
			w, err := worker.New(config)
			if err != nil {
				log.Fatalf("Failed on init: %v", err)
			}

			err = w.Run()
			if err != nil {
				log.Fatalf("Failed on start: %v", err)
			}
		},
	}

	onceCmd := &cobra.Command{
		Use:   "once",
		Short: "Run every configured job once and exit",
		Run: func(c *cobra.Command, args []string) {
			w, err := worker.New(config)
			if err != nil {
				log.Fatalf("Failed on init: %v", err)
			}

			err = w.RunOnce(context.Background())
			if err != nil {
				log.Fatalf("Failed to run jobs: %v", err)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.json", "Path to configuration")
	rootCmd.AddCommand(onceCmd)

	// Environment overrides, HOTELS_DB_DRIVER for db.driver
	err = godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to read .env: %v", err)
	}
	viper.SetEnvPrefix("HOTELS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read Configuration File Before Start
	cobra.OnInitialize(func() {
		_, err := os.Stat(configFile)
		if os.IsNotExist(err) {
			envConfFile := os.Getenv("CONFIG_FILE")
			if envConfFile != "" {
				_, err := os.Stat(envConfFile)
				if os.IsNotExist(err) {
					log.Fatalf("Config file %s does not exist!", envConfFile)
				}

				configFile = envConfFile
			} else {
				log.Fatalf("Config file %s does not exist!", configFile)
			}
		}

		viper.SetConfigFile(configFile)
		viper.SetConfigType("json")
		err = viper.ReadInConfig()
		if err != nil {
			log.Fatalf("Failed to read config: %v", err)
		}

		err = viper.Unmarshal(&config)
		if err != nil {
			log.Fatalf("Failed to parse config: %v", err)
		}

		log.Printf("Loaded config file: %s", configFile)
	})

	// Launch (cobra.OnInitialize -> rootCmd.Run)
	err = rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
