package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpAdapter "github.com/aretw0/espalier/internal/adapters/http"
	"github.com/aretw0/espalier/internal/adapters/yamlspec"
)

var serveCmd = &cobra.Command{
	Use:   "serve [file]",
	Short: "Serve a rendered diagram over HTTP",
	Long:  `Starts a preview server that re-reads the definition on every request, so edits show up on refresh.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		path := args[0]
		logger := loggerFromFlags(cmd)

		source := httpAdapter.SourceFunc(func() (string, error) {
			builder, err := yamlspec.LoadFile(path)
			if err != nil {
				return "", err
			}
			return builder.Render()
		})

		// Fail fast on a broken definition before binding the port.
		if _, err := source.Render(); err != nil {
			fmt.Printf("Error rendering %s: %v\n", path, err)
			os.Exit(1)
		}

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: httpAdapter.NewHandler(source, logger),
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Espalier preview on %s\n", srv.Addr)
			fmt.Printf("Serving diagram from: %s\n", path)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Espalier preview stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
