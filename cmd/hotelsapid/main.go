package main

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hotels-sync/internal/apiserver"
)

func main() {
	var err error
	var configFile string
	var config apiserver.Config

	rootCmd := &cobra.Command{
		Use:   "hotelsapid",
		Short: "API server synchronizing hotel field tablets",
		// Main Entry Point
		Run: func(c *cobra.Command, args []string) {
			// Init
			e, err := apiserver.New(config)
			if err != nil {
				log.Fatalf("Failed on init: %v", err)
			}

			err = e.Run()
			if err != nil {
				log.Fatalf("Failed on start: %v", err)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.json", "Path to configuration")
	rootCmd.AddCommand(tabletCmd(&config), logsCmd(&config))

	// Defaults
	viper.SetDefault("http.server_name", "hotels")
	viper.SetDefault("http.listen", ":8000")
	viper.SetDefault("http.timeout", 60)
	viper.SetDefault("api.product_name", "hotels-sync")
	viper.SetDefault("api.otp_digits", 6)
	viper.SetDefault("api.timestamp_auth", true)

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
