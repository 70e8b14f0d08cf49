package main

import (
	"github.com/riyarao-9-12/collaborative-drawing/server"
)

func main() {
	server.Main()
}
