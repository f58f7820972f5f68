package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/hitoshi/authgate/internal/app"
)

func main() {
	// .env はローカル開発用。存在しない場合は環境変数のみで動作する。
	_ = godotenv.Load()

	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
