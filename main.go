package main

import "github.com/plumechat/plume/cmd"

func main() {
	cmd.Execute()
}
