package main

import "video-frame-analyzer/cmd"

func main() {
	cmd.Execute()
}
