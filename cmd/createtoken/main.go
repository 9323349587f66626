package main

import (
	"flag"
	"fmt"
	"os"

	"warepulse.io/warepulse/security"
)

func main() {
	id := flag.Int("id", 0, "Caller id")
	name := flag.String("name", "", "Caller name")
	role := flag.String("role", "supervisor", "Caller role")
	ttl := flag.Int64("ttl", 3600, "Token lifetime in seconds")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is required")
		os.Exit(2)
	}

	token, err := security.CreateIdentityToken(security.Identity{
		ID:         *id,
		UniqueName: *name,
		Role:       *role,
	}, secret, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
