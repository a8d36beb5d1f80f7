// dockmcp serves Docker and Compose operations as MCP tools.
package main

import (
	"os"

	"github.com/schmitthub/dockmcp/internal/dockmcp"
)

func main() {
	os.Exit(dockmcp.Main())
}
