// cmd/hmmtally/main.go
package main

import (
	"hmmtally/internal/app"
	"hmmtally/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
