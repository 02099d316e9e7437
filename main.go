package main

import "github.com/certtrack/certification-system/cmd"

func main() {
	cmd.Execute()
}
