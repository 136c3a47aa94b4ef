package main

import "github.com/mj1618/novelclick/cmd"

func main() {
	cmd.Execute()
}
