package main

import (
	"github.com/joho/godotenv"

	"github.com/jeremiep/portfolio-be/cmd"
)

func main() {
	_ = godotenv.Load()
	cmd.Execute()
}
