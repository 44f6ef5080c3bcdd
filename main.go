// Copyright © 2026 The panelctl authors

package main

import (
	"github.com/panelctl/panelctl/cmd"
)

func main() {
	cmd.Execute()
}
