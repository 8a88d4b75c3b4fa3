package main

import (
	"github.com/userjam/userjam-go/cmd"
)

func main() {
	cmd.Execute()
}
