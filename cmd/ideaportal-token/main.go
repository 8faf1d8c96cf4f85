// ideaportal-token mints an access token signed with JWT_SECRET, standing
// in for the identity provider during local development.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/d9705996/ideaportal/internal/auth"
)

func main() {
	var (
		id        auth.Identity
		ttl       time.Duration
		iss       string
		noNewline bool
	)
	flag.StringVar(&id.UserID, "user", "", "caller id (required)")
	flag.StringVar(&id.Email, "email", "", "email claim")
	flag.StringVar(&id.FirstName, "first-name", "", "given_name claim")
	flag.StringVar(&id.LastName, "last-name", "", "family_name claim")
	flag.DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	flag.StringVar(&iss, "issuer", os.Getenv("JWT_ISSUER"), "iss claim")
	flag.BoolVar(&noNewline, "n", false, "omit the trailing newline")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" || id.UserID == "" {
		fmt.Fprintln(os.Stderr, "usage: JWT_SECRET=... ideaportal-token -user <id> [-email e] [-ttl 1h]")
		os.Exit(2)
	}

	token, err := auth.IssueAccessToken(id, secret, iss, ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
	if noNewline {
		fmt.Print(token)
		return
	}
	fmt.Println(token)
}
