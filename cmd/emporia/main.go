package main

import (
	"github.com/wattline/emporia/pkg/cli"
)

func main() {
	cli.Execute()
}
