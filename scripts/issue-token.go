//go:build ignore

// This script issues an HS256 bearer token for the alert-rule admin
// endpoints. The secret must match auth.secret in the service config.
// Run with: go run scripts/issue-token.go -secret <secret> -subject ops

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	secret := flag.String("secret", os.Getenv("ETHGAS_AUTH_SECRET"), "shared HS256 secret (or ETHGAS_AUTH_SECRET)")
	subject := flag.String("subject", "ops", "token subject")
	issuer := flag.String("issuer", "ethgas", "token issuer, must match auth.issuer")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "missing -secret (or ETHGAS_AUTH_SECRET)")
		os.Exit(1)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   *subject,
		Issuer:    *issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(*ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(*secret))
	if err != nil {
		fmt.Fprintf(os.Stderr, "signing token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "\nsubject=%s issuer=%s expires=%s\n", *subject, *issuer, now.Add(*ttl).Format(time.RFC3339))
	fmt.Fprintln(os.Stderr, `use: curl -H "Authorization: Bearer <token>" ...`)
}
