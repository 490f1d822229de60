// Package main is the entry point of the FoodConnect server.
package main

import (
	"foodconnect/internal"
)

func main() {
	internal.Init()
}
