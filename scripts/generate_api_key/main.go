package main

import (
	"flag"
	"fmt"
	"log"

	"product-needs/internal/randutil"
)

// Prints random keys suitable for API_KEY.
func main() {
	count := flag.Int("n", 1, "number of keys to generate")
	flag.Parse()

	for range *count {
		key, err := randutil.GenerateTokenData()
		if err != nil {
			log.Fatalf("Failed to generate key: %v", err)
		}
		fmt.Println(key)
	}
}
