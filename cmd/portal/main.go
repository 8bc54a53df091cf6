package main

import "github.com/vetcare/vetportal/cmd/portal/command"

func main() {
	command.Execute()
}
