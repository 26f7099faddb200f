// Package main is the entry point for the support desk service.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/kart-io/support-desk/internal/supportdesk"
)

func main() {
	supportdesk.NewApp().Run()
}
