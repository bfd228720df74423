package main

import "story-cms/cmd"

func main() {
	cmd.Execute()
}
