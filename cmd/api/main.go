package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jhoicas/perfumes-admin-api/pkg/config"
	"github.com/jhoicas/perfumes-admin-api/pkg/logger"
)

func main() {
	// .env opcional; las variables del entorno real tienen prioridad.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "perfumes-api",
	Short: "API de administración de la perfumería",
	Long:  "Inventario, lotes de compra y ventas de una perfumería. Sin subcomando levanta el servidor HTTP.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// boot carga configuración y logger comunes a todos los comandos.
func boot() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	return cfg, log, nil
}
