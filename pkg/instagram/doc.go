// Package instagram provides a client for Instagram's web API.
//
// This package includes:
//   - A configurable HTTP client with browser headers and typed error handling
//   - Models for the web profile and GraphQL media responses
//   - Helper functions for constructing API endpoints
//
// Example usage:
//
//	client := instagram.NewClient(30*time.Second, nil)
//	client.WithSession(sessionID, csrfToken)
//
//	profile, err := client.FetchUserProfile(ctx, "username")
//	if err != nil {
//	    var igErr *errors.Error
//	    if goerrors.As(err, &igErr) {
//	        switch igErr.Type {
//	        case errors.ErrorTypeAuth:
//	            // Handle authentication error
//	        case errors.ErrorTypeRateLimit:
//	            // Handle rate limit
//	        }
//	    }
//	}
package instagram
