package main

import "github.com/wwcxin/cyberbot-new/cmd"

func main() {
	cmd.Execute()
}
