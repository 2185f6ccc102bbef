package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tendant/simple-iam/pkg/token"
)

func main() {
	secret := flag.String("secret", os.Getenv("JWT_SECRET"), "Secret key for signing the token (default $JWT_SECRET)")
	issuer := flag.String("issuer", "simple-iam", "Issuer of the token")
	expiry := flag.Duration("expiry", 0, "Token expiry duration (e.g., 30m, 1h); 0 means no expiry")
	userID := flag.Int64("uid", 0, "User ID to put in the token")
	username := flag.String("username", "", "Username to put in the token")
	inspect := flag.String("inspect", "", "Verify and print this token instead of signing a new one")
	outputFormat := flag.String("format", "compact", "Output format: compact or debug")
	flag.Parse()

	codec, err := token.NewCodec(*secret, token.WithIssuer(*issuer), token.WithExpiry(*expiry))
	if err != nil {
		fail("Failed to create token codec", err)
	}

	tokenStr := *inspect
	if tokenStr == "" {
		if *userID <= 0 || *username == "" {
			fmt.Fprintln(os.Stderr, "Error: -uid and -username are required to sign a token")
			flag.Usage()
			os.Exit(1)
		}
		tokenStr, err = codec.Encode(token.Claims{
			UserID:   *userID,
			Username: *username,
			Data:     map[string]string{"name": *username},
		})
		if err != nil {
			fail("Failed to generate token", err)
		}
	}

	claims, err := codec.Decode(tokenStr)
	if err != nil {
		fail("Token rejected", err)
	}

	switch *outputFormat {
	case "compact":
		if *inspect == "" {
			fmt.Println(tokenStr)
			return
		}
		out, _ := json.Marshal(claims)
		fmt.Println(string(out))
	case "debug":
		// The signature has been checked by Decode above
		parsed, _, err := jwt.NewParser().ParseUnverified(tokenStr, jwt.MapClaims{})
		if err != nil {
			fail("Failed to parse token", err)
		}

		fmt.Printf("=== Token Information ===\n")
		fmt.Printf("Token: %s\n\n", tokenStr)
		fmt.Printf("=== Token Header ===\n")
		headerJSON, _ := json.MarshalIndent(parsed.Header, "", "  ")
		fmt.Printf("%s\n\n", headerJSON)
		fmt.Printf("=== Token Claims ===\n")
		claimsJSON, _ := json.MarshalIndent(parsed.Claims, "", "  ")
		fmt.Printf("%s\n\n", claimsJSON)
		if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
			fmt.Printf("Expires: %s\n", exp.Format(time.RFC3339))
		} else {
			fmt.Printf("Expires: never\n")
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: Unknown output format: %s\n", *outputFormat)
		os.Exit(1)
	}
}

func fail(msg string, err error) {
	slog.Error(msg, "err", err)
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}
