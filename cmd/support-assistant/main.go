// Package main is the entry point for the Angel One support assistant.
//
// The service crawls the support site at startup, loads local documents from
// the assets directory and answers questions over HTTP on :8000 by default.
package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/kart-io/support-assistant/internal/assistant"
)

func main() {
	assistant.NewApp().Run()
}
