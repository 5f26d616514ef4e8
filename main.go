package main

import "github.com/privacykit/webform-cli/cmd"

func main() {
	cmd.Execute()
}
