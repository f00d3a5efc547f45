package main

import (
	cmd "github.com/denmats/apihub/cmd/apihub"
)

func main() {
	cmd.Execute()
}
