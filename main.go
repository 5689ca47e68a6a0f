package main

import "github.com/technoapex/timesheet-pro/cmd"

func main() {
	cmd.Execute()
}
