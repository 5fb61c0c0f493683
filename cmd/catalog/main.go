// @title                       Catalog API
// @version                     1.0
// @description                 Product catalog with JWT authentication.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Product catalog REST API",
	Long: `Product catalog REST API with JWT authentication. Usage:

	catalog serve
	catalog migrate up
	catalog migrate down --steps 1
	catalog tokens purge
`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
