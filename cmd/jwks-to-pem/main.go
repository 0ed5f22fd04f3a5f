// Command jwks-to-pem prints a key of the session issuer's JWKS as PEM, ready for
// SESSION_SECRET.
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"arcronym/internal/util"
)

func main() {
	jwksURL := flag.String("url", "http://127.0.0.1:5173/.well-known/jwks.json", "JWKS endpoint of the session issuer")
	kid := flag.String("kid", "", "key id; the first signing key when empty")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(*jwksURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching JWKS: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Error fetching JWKS: %s\n", resp.Status)
		os.Exit(1)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading response: %v\n", err)
		os.Exit(1)
	}

	jwks, err := util.ParseJWKS(body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	key, err := jwks.Find(*kid)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	pemBytes, err := key.PEM()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error converting key: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(string(pemBytes))
}
