package main

import "scorehub/cmd"

func main() {
	cmd.Execute()
}
