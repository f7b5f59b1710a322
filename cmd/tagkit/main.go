package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// .env 可选，用于 TAGKIT_ONNXRUNTIME_LIB 这类本机路径
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
