// Command weather queries and maintains a daily weather observations CSV file.
package main

import (
	"context"
	"os"

	"github.com/couchcryptid/weather-history/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
