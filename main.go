package main

import "academia-server-go/cmd"

func main() {
	cmd.Execute()
}
