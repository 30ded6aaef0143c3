package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkrail/go-todo-web/internal/app"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "go-todo-web",
		Short: "A multi-user to-do list web application",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			app.InitDefaultLogger()
			app.MustReadEnv()
			app.MustInitApplicationLogger()

			app.MustConnectPostgres()
			defer app.DisconnectPostgres()

			app.MustEnsureMediaRoot()
			app.MustListenAndServeHTTP()
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Run: func(cmd *cobra.Command, args []string) {
			app.InitDefaultLogger()
			app.MustReadEnv()
			app.MustInitApplicationLogger()

			app.MustConnectPostgres()
			defer app.DisconnectPostgres()

			app.MustMigrate()
		},
	}

	rootCmd.AddCommand(serveCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
