package main

import "oauth-relay/cmd/relay-client/cmd"

func main() {
	cmd.Execute()
}
