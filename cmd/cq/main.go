package main

import "github.com/Hosea1989/CouplesQuest-App-sub006/cmd/cq/root"

func main() {
	root.Execute()
}
