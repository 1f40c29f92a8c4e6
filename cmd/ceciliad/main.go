package main

import "github.com/ceciliaos/ceciliad/cmd/ceciliad/cmd"

func main() {
	cmd.Execute()
}
