// cmd/hmmtally-match/main.go
package main

import (
	"hmmtally/internal/appshell"
	"hmmtally/internal/matchapp"
)

func main() {
	appshell.Main(matchapp.RunContext)
}
