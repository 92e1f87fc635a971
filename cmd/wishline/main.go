package main

import "wishline/cmd/wishline/root"

func main() {
	root.Execute()
}
