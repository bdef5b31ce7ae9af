package fetcher

import "errors"

var (
	// ErrInvalidURL marks URLs that fail parsing or scheme checks.
	ErrInvalidURL = errors.New("invalid url")

	// ErrPrivateIP marks hostnames resolving to private address space.
	ErrPrivateIP = errors.New("url resolves to private ip")

	// ErrTimeout marks requests that exceeded the configured timeout.
	ErrTimeout = errors.New("fetch timeout")

	// ErrBodyTooLarge marks responses over the configured size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTooManyRedirects marks redirect chains over the configured limit.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrExtractFailed marks pages readability could not parse.
	ErrExtractFailed = errors.New("content extraction failed")
)
