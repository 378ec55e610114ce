// cmd/hmmtally-besthit/main.go
package main

import (
	"hmmtally/internal/appshell"
	"hmmtally/internal/besthitapp"
)

func main() {
	appshell.Main(besthitapp.RunContext)
}
