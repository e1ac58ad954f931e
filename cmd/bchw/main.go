package main

import "github.com/bchwalletorg/libbchwallet-go/commands"

func main() {
	commands.Execute()
}
