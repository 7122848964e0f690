package main

import "github.com/ehmtravel/backoffice/cmd"

func main() {
	cmd.Execute()
}
