package main

import "github.com/icco/genstaff/cmd"

func main() {
	cmd.Execute()
}
