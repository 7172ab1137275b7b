package auth

import (
	"fmt"
	"io"
	"strings"

	"twitterwipe/pkg/config"
)

// ShowCredentialGuide explains where the four OAuth values come from
func ShowCredentialGuide(w io.Writer) {
	rule := strings.Repeat("=", 72)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "TWITTER API CREDENTIALS")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "twitterwipe signs requests with OAuth 1.0a user-context credentials.")
	fmt.Fprintln(w, "You need four values from the Twitter developer portal:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "STEP 1: Open https://developer.twitter.com/en/portal/dashboard")
	fmt.Fprintln(w, "   - Create a project and an app, or pick an existing one")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "STEP 2: Under 'User authentication settings' give the app")
	fmt.Fprintln(w, "   'Read and write' permissions")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "STEP 3: Under 'Keys and tokens' copy:")
	fmt.Fprintf(w, "   - API Key            -> %s\n", config.EnvConsumerKey)
	fmt.Fprintf(w, "   - API Key Secret     -> %s\n", config.EnvConsumerSecret)
	fmt.Fprintf(w, "   - Access Token       -> %s\n", config.EnvAccessToken)
	fmt.Fprintf(w, "   - Access Token Secret -> %s\n", config.EnvAccessSecret)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "   Regenerate the access token after changing permissions, otherwise")
	fmt.Fprintln(w, "   deletes fail with 403 Forbidden.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "WARNING: these values give full write access to the account.")
	fmt.Fprintln(w, "Never share them. twitterwipe keeps them in the system keychain or")
	fmt.Fprintln(w, "in an encrypted file.")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}
