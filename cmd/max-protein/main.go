// cmd/max-protein/main.go
package main

import "mcp-max-protein/internal/cli"

func main() {
	cli.Execute()
}
