package gcp

import (
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// ClientOptions turns a credentials setting into client options. creds may be
// inline service-account JSON or a path to one; empty means application
// default credentials. A non-empty emulatorHost disables authentication.
func ClientOptions(creds, emulatorHost string) []option.ClientOption {
	if strings.TrimSpace(emulatorHost) != "" {
		return []option.ClientOption{option.WithoutAuthentication()}
	}
	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	creds = strings.TrimSpace(creds)
	switch {
	case creds == "":
	case strings.HasPrefix(creds, "{"):
		opts = append(opts, option.WithCredentialsJSON([]byte(creds)))
	default:
		opts = append(opts, option.WithCredentialsFile(creds))
	}
	return opts
}
