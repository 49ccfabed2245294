package main

import "go.lodestone.dev/lodestone/pkg/cmd/lodestone"

func main() {
	lodestone.Execute()
}
