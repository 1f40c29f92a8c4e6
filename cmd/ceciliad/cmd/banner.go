package cmd

import (
	"fmt"
)

const banner = `
   _____          _ _ _          ____   _____
  / ____|        (_) (_)        / __ \ / ____|
 | |     ___  ___ _| |_  __ _  | |  | | (___
 | |    / _ \/ __| | | |/ _` + "`" + ` | | |  | |\___ \
 | |___|  __/ (__| | | | (_| | | |__| |____) |
  \_____\___|\___|_|_|_|\__,_|  \____/|_____/

`

func printBanner() {
	fmt.Printf("\x1b[35m%s\x1b[0m", banner)
	fmt.Printf("\x1b[32m  Multi-tenant Web OS - Version %s\x1b[0m\n\n", Version)
}
