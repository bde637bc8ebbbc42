package main

import "github.com/creatorstation/tweetbot/cmd"

func main() {
	cmd.Execute()
}
