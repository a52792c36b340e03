// cmd/storefront/main.go
package main

import (
	"os"

	"mycars-storefront/cmd/storefront/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
